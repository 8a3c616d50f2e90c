package step

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"doc-agent/internal/param"
)

// shellType runs a shell command and captures its standard output.
//
// The command is executed with `sh -c` under the run context, so
// cancellation kills the process. Dry runs skip execution entirely and
// return placeholder outputs.
func shellType() *Type {
	return &Type{
		Names:       []string{"shell"},
		Description: "Run a shell command and capture its standard output.",
		Inputs: []param.Parameter{
			{Name: "command", DataType: param.TypeString},
			{
				Name:        "workdir",
				DataType:    param.TypeString,
				Optional:    true,
				Description: "Working directory for the command.",
			},
		},
		Outputs: []param.Parameter{
			{Name: "stdout", DataType: param.TypeString},
			{Name: "exit_code", DataType: param.TypeNumber},
		},
		Runner: RunnerFunc(runShell),
	}
}

func runShell(ctx context.Context, inv *Invocation) (Outputs, error) {
	command := inv.StringInput("command")
	if command == "" {
		return nil, errors.New("command is not provided")
	}

	if inv.DryRun {
		return inv.PlaceholderOutputs(), nil
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if workdir := inv.StringInput("workdir"); workdir != "" {
		cmd.Dir = workdir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			inv.Logger.Debug("shell command failed",
				zap.String("step", inv.StepName),
				zap.Int("exit_code", exitErr.ExitCode()))
			// Captured output still travels with the failure so later
			// steps can reference the exit code.
			outs := Outputs{
				"stdout":    strings.TrimRight(stdout.String(), "\n"),
				"exit_code": float64(exitErr.ExitCode()),
			}
			return outs, fmt.Errorf("command exited with code %d: %s",
				exitErr.ExitCode(), firstLine(stderr.String()))
		}
		return nil, fmt.Errorf("command failed to start: %w", err)
	}

	return Outputs{
		"stdout":    strings.TrimRight(stdout.String(), "\n"),
		"exit_code": float64(0),
	}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
