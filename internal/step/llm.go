package step

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"doc-agent/internal/llm"
	"doc-agent/internal/param"
)

// OutputNamesInput is the name of the input that declares dynamic outputs
// on step types with DynamicOutputs enabled. Its value is a comma-separated
// list of output names.
const OutputNamesInput = "output_names"

// llmType sends a prompt to a chat completion model.
//
// With a single declared output the completion text is returned under
// "result". When output_names declares multiple outputs, the prompt is
// augmented to request a JSON object keyed by those names; responses that
// fail to parse as JSON fall back to the full completion text duplicated
// under every output name.
func llmType(chat llm.Chatter) *Type {
	return &Type{
		Names:       []string{"llm"},
		Description: "Send a prompt to a chat completion model and capture the response.",
		Inputs: []param.Parameter{
			{
				Name:      "prompt",
				DataType:  param.TypeString,
				Invisible: true,
			},
			{
				Name:        "model",
				DataType:    param.TypeOption,
				Optional:    true,
				Default:     "gpt-4o",
				Choices:     []string{"gpt-4o", "gpt-4o-mini"},
				Description: "Model to use for the completion.",
			},
			{
				Name:        "chat_history",
				DataType:    param.TypeBoolean,
				Optional:    true,
				Default:     false,
				Description: "Include prior conversation turns.",
			},
			{
				Name:        "system_message",
				DataType:    param.TypeString,
				Optional:    true,
				Default:     "",
				Description: "System message prepended to the conversation.",
			},
			{
				Name:        OutputNamesInput,
				DataType:    param.TypeOutput,
				Optional:    true,
				Default:     "",
				Description: `Comma-separated output names, e.g. "summary, keywords, sentiment".`,
			},
		},
		Outputs: []param.Parameter{
			{Name: "result", DataType: param.TypeString},
		},
		RequiredIntegrations: []string{"openai"},
		DynamicOutputs:       true,
		Runner:               &llmRunner{chat: chat},
	}
}

// ParseOutputNames splits a comma-separated output_names value into a list
// of trimmed, non-empty names. An empty value yields nil.
func ParseOutputNames(v string) []string {
	var names []string
	for _, part := range strings.Split(v, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

type llmRunner struct {
	chat llm.Chatter
}

func (r *llmRunner) Run(ctx context.Context, inv *Invocation) (Outputs, error) {
	prompt := inv.StringInput("prompt")
	model := inv.StringInput("model")

	if prompt == "" {
		return nil, errors.New("prompt is not provided")
	}
	if model == "" {
		return nil, errors.New("model is not provided")
	}

	if inv.DryRun {
		out := make(Outputs, len(inv.Outputs))
		for _, p := range inv.Outputs {
			out[p.Name] = fmt.Sprintf("placeholder %s from llm dry run", p.Name)
		}
		return out, nil
	}

	if r.chat == nil {
		return nil, errors.New("llm client is not configured")
	}

	system := inv.StringInput("system_message")

	// Single output: pass the prompt through untouched.
	if len(inv.Outputs) <= 1 {
		resp, err := r.chat.Chat(ctx, llm.ChatRequest{
			Model:  model,
			System: system,
			Prompt: prompt,
		})
		if err != nil {
			return nil, err
		}
		return Outputs{"result": resp.Content}, nil
	}

	// Multiple outputs: ask for a JSON object keyed by the output names.
	names := make([]string, len(inv.Outputs))
	for i, p := range inv.Outputs {
		names[i] = p.Name
	}
	augmented := fmt.Sprintf(
		"%s\n\nPlease provide your response in JSON format with the following keys: %s. "+
			"Important: Return only the JSON object, no markdown, no code blocks.",
		prompt, strings.Join(names, ", "))

	resp, err := r.chat.Chat(ctx, llm.ChatRequest{
		Model:  model,
		System: system,
		Prompt: augmented,
	})
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(resp.Content), &parsed); err != nil {
		inv.Logger.Debug("llm response was not valid JSON, duplicating completion per output",
			zap.String("step", inv.StepName))
		out := make(Outputs, len(names))
		for _, name := range names {
			out[name] = resp.Content
		}
		return out, nil
	}

	out := make(Outputs, len(parsed))
	for k, v := range parsed {
		out[k] = v
	}
	return out, nil
}
