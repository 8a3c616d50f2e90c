package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"doc-agent/internal/param"
	"doc-agent/internal/step"
)

// RunOptions controls a single engine run.
type RunOptions struct {
	// DryRun fills workflow inputs with placeholder values and forbids
	// external effects. Step errors abort the run with an error instead
	// of being recorded as step failures, so validation can surface them.
	DryRun bool
}

// Engine executes workflow definitions sequentially.
//
// The engine threads a shared context of produced values through the steps:
// workflow inputs are published as "input.<name>", resolved step inputs and
// produced outputs as "<step>.<name>". Create with [NewEngine].
type Engine struct {
	reg    *step.Registry
	logger *zap.Logger
}

// NewEngine creates an [Engine] using the given step registry. A nil logger
// is replaced with zap.NewNop().
func NewEngine(reg *step.Registry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{reg: reg, logger: logger}
}

// Run executes def with the supplied workflow input values.
//
// Steps run in order. A failing step is recorded as a FAILURE step result,
// with an "error" output carrying the message plus any outputs the step
// produced before failing, and the run continues with the remaining steps;
// the overall status is FAILURE if any step failed.
// Invalid workflow inputs short-circuit into a FAILURE result containing a
// synthetic step named "input".
//
// Cancellation of ctx is observed between steps and yields a CANCELLED
// result. A non-nil error is returned only for dry-run failures and for
// workflows referencing unregistered step types; run-time step failures are
// reported through the result.
func (e *Engine) Run(ctx context.Context, def *Definition, runInputs map[string]any, opts RunOptions) (*RunResult, error) {
	start := time.Now().UTC()
	res := &RunResult{
		ID:           uuid.NewString(),
		WorkflowName: def.Name,
		Status:       RunRunning,
		StartedAt:    start,
	}

	e.logger.Info("starting workflow run",
		zap.String("run_id", res.ID),
		zap.String("workflow", def.Name),
		zap.Bool("dry_run", opts.DryRun))

	if runInputs == nil {
		runInputs = map[string]any{}
	}
	if opts.DryRun {
		for _, in := range def.Inputs {
			runInputs[in.Name] = in.DryRunValue()
		}
	}

	// Resolve and validate workflow inputs.
	values := make(map[string]any)
	var inputErrs []string
	for _, in := range def.Inputs {
		resolved := in
		supplied, overridden := runInputs[in.Name]
		if overridden {
			resolved.Value = supplied
		} else {
			resolved.Value = in.Default
		}

		if !opts.DryRun && overridden && in.EffectivePermission() != param.PermissionReadWrite &&
			fmt.Sprintf("%v", supplied) != fmt.Sprintf("%v", in.Default) {
			inputErrs = append(inputErrs, fmt.Sprintf("parameter %s is immutable", in.Name))
			continue
		}
		if errs := resolved.ValidateValue(); len(errs) > 0 {
			inputErrs = append(inputErrs, errs...)
			continue
		}
		values["input."+in.Name] = resolved.Resolved()
	}
	if len(inputErrs) > 0 {
		res.Status = RunFailure
		res.Steps = []StepResult{{
			StepName:   ReservedStepName,
			StepType:   ReservedStepName,
			Status:     StepFailure,
			Reason:     strings.Join(inputErrs, "; "),
			StartedAt:  start,
			FinishedAt: time.Now().UTC(),
		}}
		res.FinishedAt = res.Steps[0].FinishedAt
		return res, nil
	}

	failed := false
	for _, s := range def.Steps {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("workflow run cancelled",
				zap.String("run_id", res.ID),
				zap.String("next_step", s.Name))
			res.Status = RunCancelled
			res.FinishedAt = time.Now().UTC()
			return res, nil
		}

		stepRes, err := e.runStep(ctx, s, values, opts)
		if err != nil {
			return nil, err
		}
		res.Steps = append(res.Steps, *stepRes)
		if stepRes.Status == StepFailure {
			failed = true
		}
	}

	res.Status = RunSuccess
	if failed {
		res.Status = RunFailure
	}
	res.FinishedAt = time.Now().UTC()

	e.logger.Info("workflow run finished",
		zap.String("run_id", res.ID),
		zap.String("status", string(res.Status)),
		zap.Duration("elapsed", res.Duration()))

	return res, nil
}

// runStep resolves, executes, and records one step. Reference and runner
// errors are recorded as a FAILURE result in normal mode and returned as
// errors in dry-run mode.
func (e *Engine) runStep(ctx context.Context, s StepDef, values map[string]any, opts RunOptions) (*StepResult, error) {
	stepStart := time.Now().UTC()

	typ, ok := e.reg.Lookup(s.Type)
	if !ok {
		return nil, fmt.Errorf("step %s: %w: %s", s.Name, step.ErrStepNotFound, s.Type)
	}

	fail := func(err error) (*StepResult, error) {
		if opts.DryRun {
			return nil, err
		}
		e.logger.Warn("step failed",
			zap.String("step", s.Name),
			zap.String("type", s.Type),
			zap.Error(err))
		return &StepResult{
			StepName: s.Name,
			StepType: s.Type,
			Status:   StepFailure,
			Reason:   err.Error(),
			Outputs: []param.Parameter{{
				Name:     "error",
				DataType: param.TypeString,
				Value:    err.Error(),
			}},
			StartedAt:  stepStart,
			FinishedAt: time.Now().UTC(),
		}, nil
	}

	// Clone the declared inputs and bind the step's values.
	inputs := make(map[string]*param.Parameter, len(typ.Inputs))
	for _, declared := range typ.Inputs {
		p := declared
		p.Value = nil
		if v, present := s.Inputs[declared.Name]; present {
			p.Value = v
		} else if !declared.Optional {
			return fail(fmt.Errorf("missing required input parameter %s", declared.Name))
		}
		inputs[declared.Name] = &p
	}

	// Resolve @{step.param} references and publish resolved inputs, in the
	// catalog order of the type so an input may reference an earlier sibling.
	for _, declared := range typ.Inputs {
		p := inputs[declared.Name]
		if p.Value == nil {
			continue
		}
		resolved, err := step.ResolveValue(p.Value, values, s.Name)
		if err != nil {
			return fail(err)
		}
		p.Value = resolved
		values[s.Name+"."+declared.Name] = p.Resolved()
	}

	outputs := declaredOutputs(typ, inputs)

	inv := &step.Invocation{
		StepName: s.Name,
		Inputs:   inputs,
		Outputs:  outputs,
		DryRun:   opts.DryRun,
		Logger:   e.logger,
	}

	e.logger.Debug("running step",
		zap.String("step", s.Name),
		zap.String("type", s.Type))

	outs, err := typ.Runner.Run(ctx, inv)
	if err != nil {
		res, ferr := fail(fmt.Errorf("step %s: %w", s.Name, err))
		if res != nil {
			// Outputs produced alongside the failure (a shell step's
			// exit_code) are still published and recorded.
			for _, declared := range outputs {
				v, produced := outs[declared.Name]
				if !produced {
					continue
				}
				declared.Value = v
				values[s.Name+"."+declared.Name] = v
				res.Outputs = append(res.Outputs, declared)
			}
		}
		return res, ferr
	}

	// Publish declared outputs; drop and log anything undeclared.
	outParams := make([]param.Parameter, 0, len(outputs))
	for _, declared := range outputs {
		v, produced := outs[declared.Name]
		if !produced {
			continue
		}
		declared.Value = v
		values[s.Name+"."+declared.Name] = v
		outParams = append(outParams, declared)
	}
	for name := range outs {
		found := false
		for _, declared := range outputs {
			if declared.Name == name {
				found = true
				break
			}
		}
		if !found {
			e.logger.Warn("output parameter not declared, dropping",
				zap.String("step", s.Name),
				zap.String("output", name))
		}
	}

	return &StepResult{
		StepName:   s.Name,
		StepType:   s.Type,
		Status:     StepSuccess,
		Inputs:     boundInputs(inputs),
		Outputs:    outParams,
		StartedAt:  stepStart,
		FinishedAt: time.Now().UTC(),
	}, nil
}

// declaredOutputs expands dynamic outputs from the output_names input when
// the type allows it, otherwise returns a copy of the type's catalog.
func declaredOutputs(typ *step.Type, inputs map[string]*param.Parameter) []param.Parameter {
	if typ.DynamicOutputs {
		if p, ok := inputs[step.OutputNamesInput]; ok && p.Value != nil {
			if names := step.ParseOutputNames(fmt.Sprintf("%v", p.Resolved())); len(names) > 0 {
				outputs := make([]param.Parameter, len(names))
				for i, name := range names {
					outputs[i] = param.Parameter{Name: name, DataType: param.TypeString}
				}
				return outputs
			}
		}
	}
	outputs := make([]param.Parameter, len(typ.Outputs))
	copy(outputs, typ.Outputs)
	return outputs
}

// boundInputs returns the inputs that carry a value, sorted by name.
func boundInputs(inputs map[string]*param.Parameter) []param.Parameter {
	bound := make([]param.Parameter, 0, len(inputs))
	for _, p := range inputs {
		if p.Value != nil {
			bound = append(bound, *p)
		}
	}
	sort.Slice(bound, func(i, j int) bool { return bound[i].Name < bound[j].Name })
	return bound
}
