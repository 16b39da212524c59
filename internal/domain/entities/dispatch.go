package entities

import "fmt"

// DispatchMode selects between simulated and real workflow dispatch
type DispatchMode string

// Dispatch modes
const (
	DispatchModeMock DispatchMode = "mock"
	DispatchModeLive DispatchMode = "live"
)

// WorkflowTarget identifies the remote workflow that runs test artifacts
type WorkflowTarget struct {
	Owner      string
	Repo       string
	WorkflowID string
	Ref        string
}

// String returns owner/repo:workflow@ref
func (t WorkflowTarget) String() string {
	return fmt.Sprintf("%s/%s:%s@%s", t.Owner, t.Repo, t.WorkflowID, t.Ref)
}

// DispatchResult contains the outcome of one dispatch request
type DispatchResult struct {
	Success   bool
	Target    string
	Detail    string
	RequestID string
	Mode      DispatchMode
}
