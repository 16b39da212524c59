package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces"
	"github.com/ochairo/casebot/internal/domain/interfaces/gateways"
)

const (
	// TestTargetInput is the workflow input that carries the artifact path
	TestTargetInput = "test_target"

	// DefaultDispatchTimeout bounds a live dispatch request
	DefaultDispatchTimeout = 10 * time.Second

	// DetailMissingCredential is reported when live mode has no token
	DetailMissingCredential = "missing credential"
)

// DispatcherConfig holds the workflow identity and mode for a Dispatcher
type DispatcherConfig struct {
	Target     entities.WorkflowTarget
	Credential string
	Mode       entities.DispatchMode
	Timeout    time.Duration
}

// Dispatcher triggers remote execution of test artifacts.
// It holds no per-call state; concurrent Trigger calls are independent.
type Dispatcher struct {
	gateway    gateways.WorkflowGateway
	target     entities.WorkflowTarget
	credential string
	mode       entities.DispatchMode
	timeout    time.Duration
	logger     interfaces.Logger
}

// NewDispatcher creates a dispatcher. Any mode other than live is treated as mock.
func NewDispatcher(gateway gateways.WorkflowGateway, config DispatcherConfig, logger interfaces.Logger) *Dispatcher {
	mode := entities.DispatchModeMock
	if config.Mode == entities.DispatchModeLive {
		mode = entities.DispatchModeLive
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}

	return &Dispatcher{
		gateway:    gateway,
		target:     config.Target,
		credential: config.Credential,
		mode:       mode,
		timeout:    timeout,
		logger:     interfaces.OrNoOp(logger),
	}
}

// Mode returns the effective dispatch mode
func (d *Dispatcher) Mode() entities.DispatchMode {
	return d.mode
}

// Trigger requests a workflow run for artifactPath. Failures are reported in the result.
func (d *Dispatcher) Trigger(ctx context.Context, artifactPath string) entities.DispatchResult {
	result := entities.DispatchResult{
		Target:    d.target.String(),
		RequestID: uuid.NewString(),
		Mode:      d.mode,
	}

	fields := []interfaces.Field{
		interfaces.F("request_id", result.RequestID),
		interfaces.F("owner", d.target.Owner),
		interfaces.F("repo", d.target.Repo),
		interfaces.F("workflow", d.target.WorkflowID),
		interfaces.F("ref", d.target.Ref),
		interfaces.F(TestTargetInput, artifactPath),
	}

	if d.mode != entities.DispatchModeLive {
		d.logger.Info("mock workflow dispatch", fields...)
		result.Success = true
		return result
	}

	if d.credential == "" {
		d.logger.Error("workflow dispatch skipped: credential is not set", fields...)
		result.Detail = DetailMissingCredential
		return result
	}

	if d.gateway == nil {
		d.logger.Error("workflow dispatch skipped: no gateway configured", fields...)
		result.Detail = "no workflow gateway configured"
		return result
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.gateway.DispatchWorkflow(callCtx, gateways.WorkflowDispatch{
		Owner:      d.target.Owner,
		Repo:       d.target.Repo,
		WorkflowID: d.target.WorkflowID,
		Ref:        d.target.Ref,
		Inputs:     map[string]string{TestTargetInput: artifactPath},
	})
	if err != nil {
		var dispatchErr *gateways.DispatchError
		if errors.As(err, &dispatchErr) {
			fields = append(fields,
				interfaces.F("status", dispatchErr.StatusCode),
				interfaces.F("response_body", dispatchErr.Body),
			)
			result.Detail = dispatchErr.Body
			if result.Detail == "" {
				result.Detail = dispatchErr.Error()
			}
		} else {
			result.Detail = err.Error()
		}
		d.logger.Error("failed to trigger workflow", append(fields, interfaces.F("error", err))...)
		return result
	}

	d.logger.Info("workflow triggered", fields...)
	result.Success = true
	return result
}
