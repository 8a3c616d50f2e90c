package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-agent/internal/param"
	"doc-agent/internal/workflow"
)

func sampleResult(id, name string, started time.Time) *workflow.RunResult {
	return &workflow.RunResult{
		ID:           id,
		WorkflowName: name,
		Status:       workflow.RunSuccess,
		StartedAt:    started,
		FinishedAt:   started.Add(2 * time.Second),
		Steps: []workflow.StepResult{{
			StepName: "greet",
			StepType: "dummy",
			Status:   workflow.StepSuccess,
			Outputs: []param.Parameter{{
				Name:     "output",
				DataType: param.TypeString,
				Value:    "hello",
			}},
			StartedAt:  started,
			FinishedAt: started.Add(time.Second),
		}},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	res := sampleResult("run-1", "greeter", started)

	path, err := store.Save(res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run-1.yaml"), path)

	loaded, err := store.Load("run-1")
	require.NoError(t, err)
	assert.Equal(t, res.ID, loaded.ID)
	assert.Equal(t, res.WorkflowName, loaded.WorkflowName)
	assert.Equal(t, res.Status, loaded.Status)
	assert.True(t, loaded.StartedAt.Equal(res.StartedAt))
	require.Len(t, loaded.Steps, 1)
	assert.Equal(t, "greet", loaded.Steps[0].StepName)
	assert.Equal(t, "hello", loaded.Steps[0].Outputs[0].Value)
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "runs")
	store := NewStore(dir)

	_, err := store.Save(sampleResult("run-1", "w", time.Now().UTC()))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_Load_Missing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("nope")
	assert.ErrorContains(t, err, "failed to read run result")
}

func TestStore_List(t *testing.T) {
	t.Run("missing directory is empty", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "absent"))
		entries, err := store.List()
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("newest first", func(t *testing.T) {
		store := NewStore(t.TempDir())
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		for i, id := range []string{"old", "mid", "new"} {
			_, err := store.Save(sampleResult(id, "w", base.Add(time.Duration(i)*time.Hour)))
			require.NoError(t, err)
		}

		entries, err := store.List()
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "new", entries[0].ID)
		assert.Equal(t, "mid", entries[1].ID)
		assert.Equal(t, "old", entries[2].ID)
	})

	t.Run("skips unparseable files", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(dir)

		_, err := store.Save(sampleResult("good", "w", time.Now().UTC()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("{"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

		entries, err := store.List()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "good", entries[0].ID)
	})
}
