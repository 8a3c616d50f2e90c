package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveValue(t *testing.T) {
	values := map[string]any{
		"input.symbol": "AAPL",
		"price.value":  123.45,
		"first.out":    "@{input.symbol}",
	}

	tests := []struct {
		name string
		in   any
		want any
	}{
		{
			name: "plain string untouched",
			in:   "no references here",
			want: "no references here",
		},
		{
			name: "single reference",
			in:   "symbol is @{input.symbol}",
			want: "symbol is AAPL",
		},
		{
			name: "multiple references",
			in:   "@{input.symbol} trades at @{price.value}",
			want: "AAPL trades at 123.45",
		},
		{
			name: "spaces inside braces tolerated",
			in:   "@{ input . symbol }",
			want: "AAPL",
		},
		{
			name: "substituted value resolved again",
			in:   "@{first.out}",
			want: "AAPL",
		},
		{
			name: "non-string passes through",
			in:   42,
			want: 42,
		},
		{
			name: "nil passes through",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveValue(tt.in, values, "test-step")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveValue_UnknownReference(t *testing.T) {
	values := map[string]any{"input.a": "x", "input.b": "y"}

	_, err := ResolveValue("@{missing.out}", values, "my-step")
	require.Error(t, err)

	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "my-step", refErr.Step)
	assert.Equal(t, "missing.out", refErr.Ref)
	assert.Equal(t, []string{"input.a", "input.b"}, refErr.Available)
	assert.Contains(t, refErr.Error(), "missing.out")
}
