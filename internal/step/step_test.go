package step

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doc-agent/internal/param"
)

func testInvocation(inputs map[string]any) *Invocation {
	inv := &Invocation{
		StepName: "test",
		Inputs:   make(map[string]*param.Parameter, len(inputs)),
		Logger:   zap.NewNop(),
	}
	for name, value := range inputs {
		inv.Inputs[name] = &param.Parameter{Name: name, DataType: param.TypeString, Value: value}
	}
	return inv
}

func TestDummyStep(t *testing.T) {
	typ := dummyType()

	t.Run("echoes input", func(t *testing.T) {
		out, err := typ.Runner.Run(context.Background(), testInvocation(map[string]any{"input": "hello"}))
		require.NoError(t, err)
		assert.Equal(t, Outputs{"output": "hello"}, out)
	})

	t.Run("missing input fails", func(t *testing.T) {
		_, err := typ.Runner.Run(context.Background(), testInvocation(nil))
		assert.ErrorContains(t, err, "input is not provided")
	})
}

func TestShellStep(t *testing.T) {
	typ := shellType()

	t.Run("captures stdout", func(t *testing.T) {
		inv := testInvocation(map[string]any{"command": "echo hello world"})
		out, err := typ.Runner.Run(context.Background(), inv)
		require.NoError(t, err)
		assert.Equal(t, "hello world", out["stdout"])
		assert.Equal(t, float64(0), out["exit_code"])
	})

	t.Run("workdir honored", func(t *testing.T) {
		dir := t.TempDir()
		inv := testInvocation(map[string]any{"command": "pwd", "workdir": dir})
		out, err := typ.Runner.Run(context.Background(), inv)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out["stdout"].(string), dir),
			"expected pwd output to end with %s, got %v", dir, out["stdout"])
	})

	t.Run("non-zero exit fails and reports the code", func(t *testing.T) {
		inv := testInvocation(map[string]any{"command": "echo partial; exit 3"})
		out, err := typ.Runner.Run(context.Background(), inv)
		assert.ErrorContains(t, err, "exited with code 3")
		assert.Equal(t, float64(3), out["exit_code"])
		assert.Equal(t, "partial", out["stdout"])
	})

	t.Run("missing command fails", func(t *testing.T) {
		_, err := typ.Runner.Run(context.Background(), testInvocation(nil))
		assert.ErrorContains(t, err, "command is not provided")
	})

	t.Run("dry run skips execution", func(t *testing.T) {
		inv := testInvocation(map[string]any{"command": "exit 1"})
		inv.DryRun = true
		inv.Outputs = typ.Outputs
		out, err := typ.Runner.Run(context.Background(), inv)
		require.NoError(t, err)
		assert.Contains(t, out, "stdout")
	})
}

func TestParseOutputNames(t *testing.T) {
	assert.Nil(t, ParseOutputNames(""))
	assert.Equal(t, []string{"summary"}, ParseOutputNames("summary"))
	assert.Equal(t, []string{"summary", "keywords", "sentiment"},
		ParseOutputNames(" summary, keywords ,sentiment "))
	assert.Nil(t, ParseOutputNames(" , ,"))
}
