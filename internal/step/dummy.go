package step

import (
	"context"
	"errors"

	"doc-agent/internal/param"
)

// dummyType is a pass-through step that echoes its input. Useful for
// wiring and testing workflows without external effects.
func dummyType() *Type {
	return &Type{
		Names:       []string{"dummy"},
		Description: "Takes an input and returns the same value as output. Useful for testing.",
		Inputs: []param.Parameter{
			{Name: "input", DataType: param.TypeString},
		},
		Outputs: []param.Parameter{
			{Name: "output", DataType: param.TypeString},
		},
		Runner: RunnerFunc(runDummy),
	}
}

func runDummy(_ context.Context, inv *Invocation) (Outputs, error) {
	v := inv.Input("input")
	if v == nil {
		return nil, errors.New("input is not provided")
	}
	return Outputs{"output": v}, nil
}
