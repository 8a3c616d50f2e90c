package step

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// refPattern matches @{step.param} references. Step and parameter names are
// limited to letters, digits, and underscores; spaces around the names are
// tolerated.
var refPattern = regexp.MustCompile(`@\{[ ]*([A-Za-z0-9_]+)[ ]*\.[ ]*([A-Za-z0-9_]+)[ ]*\}`)

// ReferenceError reports an @{step.param} reference that does not resolve
// against the run context.
type ReferenceError struct {
	// Step is the name of the step whose input contained the reference.
	Step string

	// Ref is the unresolved "step.param" reference.
	Ref string

	// Available lists the context keys that were available, sorted.
	Available []string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("value for %s.%s not found, available variables are: %s",
		e.Step, e.Ref, strings.Join(e.Available, ", "))
}

// ResolveValue substitutes @{step.param} references in v against the run
// context values.
//
// Non-string values pass through unchanged. References are replaced
// iteratively, so a substituted value may itself contain further references.
// An unknown reference returns a [*ReferenceError] naming stepName as the
// offending step.
func ResolveValue(v any, values map[string]any, stepName string) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}

	for {
		m := refPattern.FindStringSubmatchIndex(s)
		if m == nil {
			return s, nil
		}
		key := s[m[2]:m[3]] + "." + s[m[4]:m[5]]
		val, ok := values[key]
		if !ok || val == nil {
			return nil, &ReferenceError{
				Step:      stepName,
				Ref:       key,
				Available: sortedKeys(values),
			}
		}
		s = s[:m[0]] + fmt.Sprintf("%v", val) + s[m[1]:]
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
