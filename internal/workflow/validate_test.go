package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-agent/internal/step"
)

func testRegistry() *step.Registry {
	return step.DefaultRegistry(step.Deps{})
}

func issueTypes(issues []Issue) []string {
	types := make([]string, len(issues))
	for i, issue := range issues {
		types[i] = issue.Type
	}
	return types
}

func TestValidate_ValidWorkflow(t *testing.T) {
	doc := `
name: stock-report
description: Fetch a value and echo it.
steps:
  - name: fetch
    type: dummy
    inputs:
      input: "AAPL"
  - name: report
    type: dummy
    inputs:
      input: "price of @{fetch.output}"
`
	assert.Nil(t, Validate([]byte(doc), testRegistry()))
}

func TestValidate_Issues(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantType string
		wantMsg  string
	}{
		{
			name:     "malformed yaml",
			doc:      "name: [unclosed",
			wantType: IssueYAMLError,
		},
		{
			name: "unknown top-level field",
			doc: `
name: wf
unexpected: true
steps:
  - name: a
    type: dummy
    inputs: {input: x}
`,
			wantType: IssueExtraField,
			wantMsg:  "unexpected",
		},
		{
			name:     "missing name",
			doc:      "steps:\n  - name: a\n    type: dummy\n    inputs: {input: x}\n",
			wantType: IssueMissingField,
		},
		{
			name:     "no steps",
			doc:      "name: wf\n",
			wantType: IssueInvalidWorkflow,
		},
		{
			name: "unknown step type",
			doc: `
name: wf
steps:
  - name: a
    type: teleport
`,
			wantType: IssueInvalidStepType,
			wantMsg:  "teleport",
		},
		{
			name: "reserved step name",
			doc: `
name: wf
steps:
  - name: input
    type: dummy
    inputs: {input: x}
`,
			wantType: IssueReservedStepName,
		},
		{
			name: "duplicate step name",
			doc: `
name: wf
steps:
  - name: a
    type: dummy
    inputs: {input: x}
  - name: a
    type: dummy
    inputs: {input: y}
`,
			wantType: IssueDuplicateStepName,
		},
		{
			name: "missing required step input",
			doc: `
name: wf
steps:
  - name: a
    type: dummy
`,
			wantType: IssueMissingInput,
			wantMsg:  "input",
		},
		{
			name: "extra step input",
			doc: `
name: wf
steps:
  - name: a
    type: dummy
    inputs:
      input: x
      bogus: y
`,
			wantType: IssueExtraInput,
			wantMsg:  "bogus",
		},
		{
			name: "bad value reference",
			doc: `
name: wf
steps:
  - name: a
    type: dummy
    inputs:
      input: "@{nowhere.out}"
`,
			wantType: IssueValueReference,
			wantMsg:  "nowhere.out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Validate([]byte(tt.doc), testRegistry())
			require.NotEmpty(t, issues)
			assert.Contains(t, issueTypes(issues), tt.wantType)
			if tt.wantMsg != "" {
				found := false
				for _, issue := range issues {
					if issue.Type == tt.wantType {
						assert.Contains(t, issue.Msg, tt.wantMsg)
						found = true
					}
				}
				assert.True(t, found)
			}
		})
	}
}

func TestValidate_WorkflowInputs(t *testing.T) {
	t.Run("inputs feed references during dry run", func(t *testing.T) {
		doc := `
name: wf
inputs:
  - name: symbol
    data_type: STRING
steps:
  - name: a
    type: dummy
    inputs:
      input: "value is @{input.symbol}"
`
		assert.Nil(t, Validate([]byte(doc), testRegistry()))
	})

	t.Run("bad input declaration reported", func(t *testing.T) {
		doc := `
name: wf
inputs:
  - name: model
    data_type: OPTION
steps:
  - name: a
    type: dummy
    inputs: {input: x}
`
		issues := Validate([]byte(doc), testRegistry())
		require.NotEmpty(t, issues)
		assert.Contains(t, issueTypes(issues), IssueInvalidInput)
	})

	t.Run("read-only input without default reported", func(t *testing.T) {
		doc := `
name: wf
inputs:
  - name: region
    data_type: STRING
    user_permission: READ_ONLY
steps:
  - name: a
    type: dummy
    inputs: {input: x}
`
		issues := Validate([]byte(doc), testRegistry())
		require.NotEmpty(t, issues)
		assert.Contains(t, issueTypes(issues), IssueInvalidInput)
	})
}

func TestValidate_LLMDryRunMakesNoCalls(t *testing.T) {
	// The default registry has no LLM client wired; validation still
	// passes because dry runs never touch the network.
	doc := `
name: wf
steps:
  - name: ask
    type: llm
    inputs:
      prompt: "Summarize @{input.text}"
      output_names: "summary, keywords"
inputs:
  - name: text
    data_type: STRING
`
	assert.Nil(t, Validate([]byte(doc), testRegistry()))
}

func TestParse_LayoutAttributesPreserved(t *testing.T) {
	doc := `
name: wf
layout_attributes:
  canvas: {x: 1, y: 2}
steps:
  - name: a
    type: dummy
    inputs: {input: x}
`
	def, issues := Parse([]byte(doc))
	require.Nil(t, issues)
	assert.Contains(t, def.LayoutAttributes, "canvas")
}
