package step

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"doc-agent/internal/llm"
)

// Sentinel errors for registry lookups and registration.
var (
	// ErrStepNotFound indicates a workflow references a step type that is
	// not registered.
	ErrStepNotFound = errors.New("step type not found")

	// ErrDuplicateStep indicates a step type name is already registered.
	ErrDuplicateStep = errors.New("step type already registered")
)

// Registry maps step type names to their [Type] definitions.
//
// Create with [NewRegistry] and populate with [Registry.Register], or use
// [DefaultRegistry] for the built-in set.
type Registry struct {
	types map[string]*Type
	order []string
}

// NewRegistry creates an empty [Registry].
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register adds a step type under all of its names.
//
// Returns [ErrDuplicateStep] if any name is already taken; in that case no
// name from the type is registered.
func (r *Registry) Register(t *Type) error {
	if len(t.Names) == 0 {
		return errors.New("step type has no names")
	}
	for _, name := range t.Names {
		if _, exists := r.types[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateStep, name)
		}
	}
	for _, name := range t.Names {
		r.types[name] = t
	}
	r.order = append(r.order, t.Names[0])
	return nil
}

// Lookup returns the step type registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Catalog returns info entries for all registered types, one per type,
// sorted by canonical name.
func (r *Registry) Catalog() []Info {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		infos = append(infos, r.types[name].Info())
	}
	return infos
}

// Deps carries the external dependencies the built-in step types need.
type Deps struct {
	// Chat is the LLM client used by the llm step. A nil Chat makes the
	// llm step fail at run time (dry runs still work).
	Chat llm.Chatter

	// Logger defaults to zap.NewNop() when nil.
	Logger *zap.Logger
}

// DefaultRegistry builds a [Registry] with the built-in step types:
// dummy, llm, and shell.
func DefaultRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	r := NewRegistry()
	// Registration of built-ins cannot collide; ignore the error.
	_ = r.Register(dummyType())
	_ = r.Register(llmType(deps.Chat))
	_ = r.Register(shellType())
	return r
}
