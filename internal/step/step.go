// Package step defines the step type registry and the built-in step types.
//
// A step type is a reusable unit of work with declared input and output
// parameter catalogs. Workflows reference step types by name; the engine
// looks them up in a [Registry], resolves their inputs, and invokes their
// [Runner].
//
// Key types:
//   - [Type] - a registered step type with its parameter catalogs
//   - [Runner] - the execution interface implemented by each step type
//   - [Registry] - name-to-type lookup with catalog listing
//   - [Invocation] - one resolved execution of a step type
//
// Built-in types: dummy (echo), llm (chat completion), shell (subprocess).
package step

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"doc-agent/internal/param"
)

// Outputs maps output parameter names to produced values.
type Outputs map[string]any

// Invocation is one resolved execution of a step type.
//
// The engine constructs an Invocation after reference resolution, so input
// values are concrete. Inputs are keyed by parameter name and carry the
// resolved values; Outputs lists the declared (possibly dynamic) output
// parameters the runner is expected to produce.
type Invocation struct {
	// StepName is the workflow-level name of the step instance.
	StepName string

	// Inputs holds the resolved input parameters, keyed by name.
	Inputs map[string]*param.Parameter

	// Outputs are the declared output parameters for this invocation.
	// For types with dynamic outputs this reflects the expanded list.
	Outputs []param.Parameter

	// DryRun requests placeholder results and forbids external effects.
	DryRun bool

	// Logger is never nil; the engine supplies zap.NewNop() by default.
	Logger *zap.Logger
}

// Input returns the resolved value of the named input, or nil when the
// input is absent or unset.
func (inv *Invocation) Input(name string) any {
	p, ok := inv.Inputs[name]
	if !ok {
		return nil
	}
	return p.Resolved()
}

// StringInput returns the named input as a string. Missing or nil inputs
// yield the empty string.
func (inv *Invocation) StringInput(name string) string {
	v := inv.Input(name)
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// PlaceholderOutputs produces dry-run placeholder values for every declared
// output of the invocation.
func (inv *Invocation) PlaceholderOutputs() Outputs {
	out := make(Outputs, len(inv.Outputs))
	for _, p := range inv.Outputs {
		out[p.Name] = p.DryRunValue()
	}
	return out
}

// Runner executes one step invocation.
//
// A non-nil error marks the step (and the run) as failed. Runners must
// honor ctx cancellation and must not perform external effects when
// inv.DryRun is set.
type Runner interface {
	Run(ctx context.Context, inv *Invocation) (Outputs, error)
}

// RunnerFunc adapts a function to the [Runner] interface.
type RunnerFunc func(ctx context.Context, inv *Invocation) (Outputs, error)

// Run implements [Runner].
func (f RunnerFunc) Run(ctx context.Context, inv *Invocation) (Outputs, error) {
	return f(ctx, inv)
}

// Type describes a registered step type.
type Type struct {
	// Names are the type names this step registers under. The first name
	// is the canonical one shown in the catalog.
	Names []string

	// Description is shown in the step catalog.
	Description string

	// Inputs is the declared input parameter catalog.
	Inputs []param.Parameter

	// Outputs is the declared output parameter catalog.
	Outputs []param.Parameter

	// RequiredIntegrations names external services the step depends on
	// (e.g. "openai").
	RequiredIntegrations []string

	// DynamicOutputs allows the output catalog to be replaced per
	// invocation via the output_names input.
	DynamicOutputs bool

	// Runner executes invocations of this type.
	Runner Runner
}

// Info is a flattened view of a [Type] for catalog listings.
type Info struct {
	TypeName             string            `json:"type_name"`
	Description          string            `json:"description"`
	Inputs               []param.Parameter `json:"input_parameters"`
	Outputs              []param.Parameter `json:"output_parameters"`
	RequiredIntegrations []string          `json:"required_integrations,omitempty"`
}

// Info returns the catalog entry for the type.
func (t *Type) Info() Info {
	return Info{
		TypeName:             t.Names[0],
		Description:          t.Description,
		Inputs:               t.Inputs,
		Outputs:              t.Outputs,
		RequiredIntegrations: t.RequiredIntegrations,
	}
}

// FindInput returns the declared input parameter with the given name.
func (t *Type) FindInput(name string) (param.Parameter, bool) {
	for _, p := range t.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return param.Parameter{}, false
}
