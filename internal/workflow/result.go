package workflow

import (
	"time"

	"doc-agent/internal/param"
)

// RunStatus is the overall status of a workflow run.
type RunStatus string

const (
	RunSubmitted RunStatus = "SUBMITTED"
	RunRunning   RunStatus = "RUNNING"
	RunSuccess   RunStatus = "SUCCESS"
	RunFailure   RunStatus = "FAILURE"
	RunCancelled RunStatus = "CANCELLED"
)

// StepStatus is the status of a single executed step.
type StepStatus string

const (
	StepSuccess StepStatus = "SUCCESS"
	StepFailure StepStatus = "FAILURE"
)

// StepResult records the outcome of one step execution.
type StepResult struct {
	// StepName is the workflow-level step name. The synthetic name
	// "input" reports workflow input validation failures.
	StepName string `json:"step_name" yaml:"step_name"`

	// StepType is the registered type name.
	StepType string `json:"step_type" yaml:"step_type"`

	// Status is SUCCESS or FAILURE.
	Status StepStatus `json:"status" yaml:"status"`

	// Reason explains a FAILURE, empty on success.
	Reason string `json:"status_reason,omitempty" yaml:"status_reason,omitempty"`

	// Inputs are the resolved input parameters that had values.
	Inputs []param.Parameter `json:"inputs" yaml:"inputs"`

	// Outputs are the produced output parameters. On failure this holds a
	// single "error" parameter carrying the failure message.
	Outputs []param.Parameter `json:"outputs" yaml:"outputs"`

	// StartedAt and FinishedAt bracket the step execution.
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// RunResult is the outcome of a workflow run.
type RunResult struct {
	// ID is a UUID assigned to the run.
	ID string `json:"id" yaml:"id"`

	// WorkflowName echoes the workflow definition name.
	WorkflowName string `json:"workflow_name" yaml:"workflow_name"`

	// Status is the overall run status. FAILURE if any step failed,
	// CANCELLED if the context was cancelled between steps.
	Status RunStatus `json:"status" yaml:"status"`

	// Steps holds one result per executed step, in execution order.
	Steps []StepResult `json:"result" yaml:"result"`

	// StartedAt and FinishedAt bracket the whole run.
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// Duration returns the wall-clock duration of the run.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
