// Package param defines the parameter model shared by workflow inputs and
// step inputs/outputs.
//
// A [Parameter] couples a name with a declared data type, an optional default,
// and the value supplied by the workflow author or produced at run time.
// [Input] extends Parameter with a permission level for workflow-level inputs.
//
// Key types:
//   - [Parameter] - a typed named value with validation rules
//   - [Input] - a workflow input parameter with a [Permission] level
//   - [DataType] - the set of supported parameter data types
package param

import (
	"fmt"
	"strconv"
	"time"
)

// DataType enumerates the supported parameter data types.
type DataType string

const (
	TypeString   DataType = "STRING"
	TypeMarkdown DataType = "MARKDOWN"
	TypeNumber   DataType = "NUMBER"
	TypeBoolean  DataType = "BOOLEAN"
	TypeObject   DataType = "OBJECT"
	TypeDatetime DataType = "DATETIME"
	TypeFile     DataType = "FILE"
	TypeOption   DataType = "OPTION"

	// TypeOutput marks a parameter whose value names dynamic outputs
	// (comma-separated) rather than carrying step data itself.
	TypeOutput DataType = "OUTPUT"
)

// Permission controls whether a workflow input may be overridden at run time.
type Permission string

const (
	PermissionReadOnly  Permission = "READ_ONLY"
	PermissionReadWrite Permission = "READ_WRITE"
	PermissionNoAccess  Permission = "NO_ACCESS"
)

// Parameter is a typed named value.
//
// Parameters serve double duty: step types declare catalogs of input and
// output parameters (with defaults and validation rules), and concrete
// values flow through copies of those declarations at run time.
type Parameter struct {
	// Name identifies the parameter within its step or workflow.
	Name string `yaml:"name" json:"name"`

	// DataType is the declared type. See the Type* constants.
	DataType DataType `yaml:"data_type" json:"data_type"`

	// Value is the concrete value, if one has been supplied or produced.
	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	// Optional marks the parameter as not required.
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`

	// Default is used when no Value is supplied.
	Default any `yaml:"default,omitempty" json:"default,omitempty"`

	// Description is free-form documentation shown in the step catalog.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// ContentType is the MIME type for TypeFile parameters.
	ContentType string `yaml:"content_type,omitempty" json:"content_type,omitempty"`

	// Choices lists the allowed values for TypeOption parameters.
	Choices []string `yaml:"choices,omitempty" json:"choices,omitempty"`

	// Invisible hides the parameter from catalog listings.
	Invisible bool `yaml:"invisible,omitempty" json:"invisible,omitempty"`
}

// CheckRules validates the parameter declaration itself (not its value).
//
// Rules:
//   - TypeFile parameters require a ContentType
//   - TypeOption parameters require Choices
//   - an Option default must be one of the Choices
//   - an Option value, when set, must be one of the Choices
func (p Parameter) CheckRules() error {
	switch p.DataType {
	case TypeFile:
		if p.ContentType == "" {
			return fmt.Errorf("parameter %s: content type is required for file parameter", p.Name)
		}
	case TypeOption:
		if len(p.Choices) == 0 {
			return fmt.Errorf("parameter %s: choices are required for option parameter", p.Name)
		}
		if p.Default != nil && !p.inChoices(p.Default) {
			return fmt.Errorf("parameter %s: default value %v is not in the list of choices %v", p.Name, p.Default, p.Choices)
		}
		if p.Value != nil && !p.inChoices(p.Value) {
			return fmt.Errorf("parameter %s: value %v is not in the list of choices %v", p.Name, p.Value, p.Choices)
		}
	}
	return nil
}

func (p Parameter) inChoices(v any) bool {
	s := fmt.Sprintf("%v", v)
	for _, c := range p.Choices {
		if c == s {
			return true
		}
	}
	return false
}

// Resolved returns the effective value of the parameter, coerced to its
// declared data type where a lossless coercion exists.
//
// The Value takes precedence over the Default. A nil result means neither
// was supplied. STRING values are stringified, NUMBER values are converted
// to float64, BOOLEAN values to bool; all other types pass through as-is.
func (p Parameter) Resolved() any {
	v := p.Value
	if v == nil {
		v = p.Default
	}
	if v == nil {
		return nil
	}
	switch p.DataType {
	case TypeString, TypeMarkdown:
		return fmt.Sprintf("%v", v)
	case TypeNumber:
		if f, ok := toFloat(v); ok {
			return f
		}
		return v
	case TypeBoolean:
		if b, ok := toBool(v); ok {
			return b
		}
		return v
	}
	return v
}

// DryRunValue returns a placeholder value used during dry-run execution.
func (p Parameter) DryRunValue() any {
	switch p.DataType {
	case TypeNumber:
		return float64(0)
	case TypeBoolean:
		return false
	case TypeDatetime:
		return time.Unix(0, 0).UTC().Format(time.RFC3339)
	case TypeOption:
		// The placeholder must itself pass the choices check.
		if p.Default != nil {
			return p.Default
		}
		if len(p.Choices) > 0 {
			return p.Choices[0]
		}
		return "dummy"
	default:
		return "dummy"
	}
}

// ValidateValue checks the supplied value against the declared data type.
//
// It returns one message per violation. A nil value on a required parameter
// is reported; a nil value on an optional parameter is fine. Numeric and
// boolean strings are accepted where they parse cleanly, matching the
// permissive coercion of Resolved. Option values must be among the Choices.
func (p Parameter) ValidateValue() []string {
	var errs []string
	if p.Value == nil && !p.Optional {
		errs = append(errs, fmt.Sprintf("parameter %s is required", p.Name))
	}
	if p.Value == nil {
		return errs
	}
	switch p.DataType {
	case TypeString, TypeMarkdown:
		if _, ok := p.Value.(string); !ok {
			errs = append(errs, fmt.Sprintf("invalid data type for %s: %v, expected string, got %T", p.Name, p.Value, p.Value))
		}
	case TypeNumber:
		if _, ok := toFloat(p.Value); !ok {
			errs = append(errs, fmt.Sprintf("invalid data type for %s: %v, expected number", p.Name, p.Value))
		}
	case TypeBoolean:
		if _, ok := toBool(p.Value); !ok {
			errs = append(errs, fmt.Sprintf("invalid data type for %s: %v, expected boolean", p.Name, p.Value))
		}
	case TypeOption:
		if !p.inChoices(p.Value) {
			errs = append(errs, fmt.Sprintf("value %v for %s is not in the list of choices %v", p.Value, p.Name, p.Choices))
		}
	}
	return errs
}

// Input is a workflow-level input parameter.
//
// Non-writable inputs (READ_ONLY, NO_ACCESS) must declare a default and
// reject run-time overrides; see [Input.CheckRules].
type Input struct {
	Parameter `yaml:",inline"`

	// UserPermission controls run-time overrides. Defaults to READ_WRITE
	// when empty.
	UserPermission Permission `yaml:"user_permission,omitempty" json:"user_permission,omitempty"`
}

// EffectivePermission returns UserPermission, defaulting to READ_WRITE.
func (in Input) EffectivePermission() Permission {
	if in.UserPermission == "" {
		return PermissionReadWrite
	}
	return in.UserPermission
}

// CheckRules validates the input declaration, including the base
// [Parameter.CheckRules] and the rule that non-writable inputs carry a
// default value.
func (in Input) CheckRules() error {
	if err := in.Parameter.CheckRules(); err != nil {
		return err
	}
	if in.EffectivePermission() != PermissionReadWrite && in.Default == nil {
		return fmt.Errorf("input %s: default value is required for non-writable input", in.Name)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	}
	return false, false
}
