package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&Type{Names: []string{"alpha"}}))

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := r.Register(&Type{Names: []string{"alpha"}})
		assert.ErrorIs(t, err, ErrDuplicateStep)
	})

	t.Run("type without names rejected", func(t *testing.T) {
		assert.Error(t, r.Register(&Type{}))
	})

	t.Run("lookup by name", func(t *testing.T) {
		typ, ok := r.Lookup("alpha")
		require.True(t, ok)
		assert.Equal(t, "alpha", typ.Names[0])

		_, ok = r.Lookup("missing")
		assert.False(t, ok)
	})
}

func TestRegistry_MultipleNames(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Type{Names: []string{"canonical", "alias"}}))

	byCanonical, ok := r.Lookup("canonical")
	require.True(t, ok)
	byAlias, ok := r.Lookup("alias")
	require.True(t, ok)
	assert.Same(t, byCanonical, byAlias)

	// Catalog lists the type once, under its canonical name.
	infos := r.Catalog()
	require.Len(t, infos, 1)
	assert.Equal(t, "canonical", infos[0].TypeName)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(Deps{})

	for _, name := range []string{"dummy", "llm", "shell"} {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "expected %s to be registered", name)
	}

	infos := r.Catalog()
	require.Len(t, infos, 3)
	// Sorted by canonical name.
	assert.Equal(t, "dummy", infos[0].TypeName)
	assert.Equal(t, "llm", infos[1].TypeName)
	assert.Equal(t, "shell", infos[2].TypeName)
}
