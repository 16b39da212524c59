// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"
	"fmt"
)

// WorkflowDispatch describes one workflow_dispatch request
type WorkflowDispatch struct {
	Owner      string
	Repo       string
	WorkflowID string
	Ref        string
	Inputs     map[string]string
}

// DispatchError is returned when the provider answers with a non-2xx status
type DispatchError struct {
	StatusCode int
	Body       string
}

func (e *DispatchError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("workflow dispatch failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("workflow dispatch failed: status %d: %s", e.StatusCode, e.Body)
}

// WorkflowGateway defines operations for triggering remote automation runs
type WorkflowGateway interface {
	// DispatchWorkflow issues a single workflow_dispatch request. No retries.
	DispatchWorkflow(ctx context.Context, dispatch WorkflowDispatch) error
}
