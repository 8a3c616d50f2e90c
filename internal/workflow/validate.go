package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"doc-agent/internal/step"
)

// Issue type identifiers, stable across releases so callers can match on
// them programmatically.
const (
	IssueYAMLError         = "yaml_error"
	IssueInvalidWorkflow   = "invalid_workflow"
	IssueExtraField        = "extra_field"
	IssueMissingField      = "missing_field"
	IssueInvalidStepType   = "invalid_step_type"
	IssueReservedStepName  = "reserved_step_name"
	IssueDuplicateStepName = "duplicate_step_name"
	IssueMissingInput      = "missing_input"
	IssueExtraInput        = "extra_input"
	IssueInvalidInput      = "invalid_workflow_input"
	IssueValueReference    = "value_reference_error"
	IssueWorkflowError     = "workflow_error"
)

// Issue is a single validation finding.
type Issue struct {
	// Loc locates the finding within the document (e.g. "steps.greet").
	// Empty for document-level findings.
	Loc string `json:"loc,omitempty"`

	// Msg is the human-readable description.
	Msg string `json:"msg"`

	// Type is one of the Issue* constants.
	Type string `json:"type"`
}

func (i Issue) String() string {
	if i.Loc == "" {
		return fmt.Sprintf("%s (%s)", i.Msg, i.Type)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Loc, i.Msg, i.Type)
}

// Validate runs the full two-phase validation of a workflow document.
//
// Phase one parses the YAML and applies the structural rules; any findings
// are returned immediately. Phase two executes the workflow in dry-run mode
// with placeholder values, surfacing bad @{step.param} references as
// IssueValueReference findings and other execution-shape failures as
// IssueWorkflowError.
//
// A nil return means the document is valid.
func Validate(data []byte, reg *step.Registry) []Issue {
	def, issues := Parse(data)
	if len(issues) > 0 {
		return issues
	}

	if issues := def.check(reg); len(issues) > 0 {
		return issues
	}

	eng := NewEngine(reg, zap.NewNop())
	_, err := eng.Run(context.Background(), def, nil, RunOptions{DryRun: true})
	if err != nil {
		var refErr *step.ReferenceError
		if errors.As(err, &refErr) {
			return []Issue{{
				Loc: "steps." + refErr.Step,
				Msg: fmt.Sprintf("step %s has incorrect variable reference `%s`, available variables: %v",
					refErr.Step, refErr.Ref, refErr.Available),
				Type: IssueValueReference,
			}}
		}
		return []Issue{{
			Msg:  fmt.Sprintf("error running workflow in dry run mode: %v", err),
			Type: IssueWorkflowError,
		}}
	}

	return nil
}
