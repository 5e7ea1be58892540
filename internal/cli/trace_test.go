package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyframe/internal/ir"
	"github.com/roach88/keyframe/internal/store"
)

// recordFade records the fade scene at 10 fps as run id and returns the db path.
func recordFade(t *testing.T, dbPath, id string) {
	t.Helper()
	out, _, err := execute(NewRecordCommand(&RootOptions{Format: "text"}),
		fadeScene, "--db", dbPath, "--run", id, "--fps", "10")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Recorded run "+id+": 2 frame(s) of fade")
}

func TestRecordJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	out, _, err := execute(NewRecordCommand(&RootOptions{Format: "json"}),
		fadeScene, "--db", dbPath, "--fps", "10")
	require.NoError(t, err)

	var result RecordResult
	decodeData(t, out, &result)
	assert.Len(t, result.RunID, 36, "generated UUIDv7")
	assert.Equal(t, "fade-1", result.Timeline)
	assert.Equal(t, 2, result.Ran)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	run, err := st.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, "fade", run.Scene)
	assert.Equal(t, 10.0, run.FPS)
	assert.Equal(t, ir.EngineVersion, run.EngineVersion)

	src, err := os.ReadFile(fadeScene)
	require.NoError(t, err)
	assert.Equal(t, ir.SceneHash(src), run.SceneHash)
	assert.Equal(t, run.SceneHash, result.SceneHash)
}

func TestRecordMissingDatabaseFlag(t *testing.T) {
	_, _, err := execute(NewRecordCommand(&RootOptions{Format: "text"}), fadeScene)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestRecordMissingScene(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	_, _, err := execute(NewRecordCommand(&RootOptions{Format: "text"}), "missing.cue", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load scene")
}

func TestTraceMissingDatabaseFlag(t *testing.T) {
	_, _, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--run", "r1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestTraceNonExistentDatabase(t *testing.T) {
	_, _, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", "/nonexistent/path/runs.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestTraceListRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, _, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")

	recordFade(t, dbPath, "run-a")
	recordFade(t, dbPath, "run-b")

	out, _, err = execute(NewTraceCommand(&RootOptions{Format: "json"}), "--db", dbPath)
	require.NoError(t, err)
	var runs []RunSummary
	decodeData(t, out, &runs)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-a", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)
	assert.Equal(t, "fade", runs[1].Scene)
}

func TestTraceRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	recordFade(t, dbPath, "run-a")

	out, _, err := execute(NewTraceCommand(&RootOptions{Format: "json"}), "--db", dbPath, "--run", "run-a")
	require.NoError(t, err)

	var result TraceResult
	decodeData(t, out, &result)
	assert.Equal(t, "run-a", result.Run.ID)
	assert.Equal(t, 7, result.Stats.Entries)
	assert.Equal(t, 4, result.Stats.Samples)
	assert.Equal(t, 3, result.Stats.Events)
	assert.Equal(t, int64(2), result.Stats.Frames)
	assert.Equal(t, []string{"fade-1"}, result.Stats.Finished)

	require.Len(t, result.Timeline, 7)
	assert.Equal(t, TraceEntry{Seq: 1, Type: "event", Event: "add", Timeline: "fade-1"}, result.Timeline[0])
	assert.Equal(t, "sample", result.Timeline[1].Type)
	assert.Equal(t, "opacity", result.Timeline[1].Property)
	assert.Equal(t, "remove", result.Timeline[6].Event)
	for i := 1; i < len(result.Timeline); i++ {
		assert.Greater(t, result.Timeline[i].Seq, result.Timeline[i-1].Seq)
	}

	assert.Equal(t, map[string]string{
		"dot.opacity": "1",
		"dot.fill":    "rgba(0,0,255,1)",
	}, result.Final)
}

func TestTraceRunText(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	recordFade(t, dbPath, "run-a")

	out, _, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--run", "run-a")
	require.NoError(t, err)
	assert.Contains(t, out, "Run: run-a (fade)")
	assert.Contains(t, out, "Scene hash: ")
	assert.Contains(t, out, "[1] t=0 add fade-1")
	assert.Contains(t, out, "[2] f1 t=0 dot.opacity = 0")
	assert.Contains(t, out, "Final values:\n  dot.fill = rgba(0,0,255,1)\n  dot.opacity = 1\n")
}

func TestTraceTargetFilter(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	recordFade(t, dbPath, "run-a")

	out, _, err := execute(NewTraceCommand(&RootOptions{Format: "json"}),
		"--db", dbPath, "--run", "run-a", "--target", "nobody")
	require.NoError(t, err)

	var result TraceResult
	decodeData(t, out, &result)
	assert.Equal(t, 0, result.Stats.Samples)
	assert.Equal(t, 3, result.Stats.Events, "events are never filtered")
	assert.Empty(t, result.Final)
}

func TestTraceUnknownRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	out, _, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrRunNotFound)
	assert.Contains(t, out, "Error [RUN_NOT_FOUND]")
}
