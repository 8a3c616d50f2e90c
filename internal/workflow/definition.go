// Package workflow parses, validates, and executes declarative YAML
// workflows.
//
// A workflow is a named sequence of steps. Each step names a type from the
// step registry and supplies input values, which may reference workflow
// inputs or earlier step outputs with @{step.param} placeholders.
//
// Key types:
//   - [Definition] - a parsed workflow document
//   - [Issue] - a single validation finding
//   - [Engine] - sequential executor producing a [RunResult]
//
// Validation is two-phase: structural checks collect [Issue] values, then a
// dry-run execution with placeholder values catches bad references and other
// run-shape problems before anything touches the outside world.
package workflow

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"doc-agent/internal/param"
	"doc-agent/internal/step"
)

// ReservedStepName cannot be used as a step name: the engine publishes
// workflow input values under the "input." context prefix.
const ReservedStepName = "input"

// StepDef is one step entry in a workflow document.
type StepDef struct {
	// Name identifies the step within the workflow. Outputs are published
	// to the run context as "<name>.<output>".
	Name string `yaml:"name"`

	// Type names a registered step type.
	Type string `yaml:"type"`

	// Description is free-form documentation.
	Description string `yaml:"description,omitempty"`

	// Inputs maps input parameter names to values. String values may
	// contain @{step.param} references.
	Inputs map[string]any `yaml:"inputs,omitempty"`
}

// Definition is a parsed workflow document.
type Definition struct {
	// Name identifies the workflow.
	Name string `yaml:"name"`

	// Description is free-form documentation.
	Description string `yaml:"description,omitempty"`

	// Inputs declares the workflow-level input parameters.
	Inputs []param.Input `yaml:"inputs,omitempty"`

	// Steps is the ordered step list.
	Steps []StepDef `yaml:"steps"`

	// LayoutAttributes carries opaque editor/UI metadata. It is preserved
	// but never interpreted.
	LayoutAttributes map[string]any `yaml:"layout_attributes,omitempty"`
}

// Parse decodes a workflow document from YAML.
//
// Unknown top-level or step-level fields are rejected (reported as
// IssueExtraField); malformed YAML is reported as IssueYAMLError. A nil
// issue slice means the decode succeeded.
func Parse(data []byte) (*Definition, []Issue) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if strings.Contains(err.Error(), "not found in type") {
			return nil, []Issue{{
				Msg:  err.Error(),
				Type: IssueExtraField,
			}}
		}
		return nil, []Issue{{
			Msg:  fmt.Sprintf("error parsing yaml: %v", err),
			Type: IssueYAMLError,
		}}
	}
	return &def, nil
}

// check performs the structural validation rules against reg. It does not
// execute anything; see [Validate] for the full two-phase validation.
func (d *Definition) check(reg *step.Registry) []Issue {
	var issues []Issue

	if d.Name == "" {
		issues = append(issues, Issue{Loc: "name", Msg: "workflow name is required", Type: IssueMissingField})
	}
	if len(d.Steps) == 0 {
		issues = append(issues, Issue{Loc: "steps", Msg: "workflow must declare at least one step", Type: IssueInvalidWorkflow})
	}

	for _, in := range d.Inputs {
		if in.Name == "" {
			issues = append(issues, Issue{Loc: "inputs", Msg: "input name is required", Type: IssueMissingField})
			continue
		}
		if err := in.CheckRules(); err != nil {
			issues = append(issues, Issue{
				Loc:  "inputs." + in.Name,
				Msg:  err.Error(),
				Type: IssueInvalidInput,
			})
		}
	}

	seen := make(map[string]bool, len(d.Steps))
	for i, s := range d.Steps {
		loc := fmt.Sprintf("steps.%d", i)
		if s.Name != "" {
			loc = fmt.Sprintf("steps.%s", s.Name)
		}

		if s.Name == "" {
			issues = append(issues, Issue{Loc: loc, Msg: "step name is required", Type: IssueMissingField})
		}
		if s.Name == ReservedStepName {
			issues = append(issues, Issue{
				Loc:  loc,
				Msg:  fmt.Sprintf("step name `%s` cannot be used, it is a reserved keyword for workflow inputs", s.Name),
				Type: IssueReservedStepName,
			})
		}
		if s.Name != "" {
			if seen[s.Name] {
				issues = append(issues, Issue{
					Loc:  loc,
					Msg:  fmt.Sprintf("duplicate step name `%s`", s.Name),
					Type: IssueDuplicateStepName,
				})
			}
			seen[s.Name] = true
		}

		typ, ok := reg.Lookup(s.Type)
		if !ok {
			issues = append(issues, Issue{
				Loc:  loc,
				Msg:  fmt.Sprintf("step type `%s` not found", s.Type),
				Type: IssueInvalidStepType,
			})
			continue
		}

		// Required inputs must be present.
		for _, in := range typ.Inputs {
			if in.Optional {
				continue
			}
			if _, present := s.Inputs[in.Name]; !present {
				issues = append(issues, Issue{
					Loc:  loc,
					Msg:  fmt.Sprintf("step input value `%s` required", in.Name),
					Type: IssueMissingInput,
				})
			}
		}

		// Inputs not declared by the type are rejected.
		var extra []string
		for name := range s.Inputs {
			if _, declared := typ.FindInput(name); !declared {
				extra = append(extra, name)
			}
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			issues = append(issues, Issue{
				Loc:  loc,
				Msg:  fmt.Sprintf("extra input fields `%s` found", strings.Join(extra, ", ")),
				Type: IssueExtraInput,
			})
		}
	}

	return issues
}
