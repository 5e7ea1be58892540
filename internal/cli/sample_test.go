package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleText(t *testing.T) {
	out, _, err := execute(NewSampleCommand(&RootOptions{Format: "text"}), fadeScene, "--fps", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "Scene: fade (timeline fade-1)")
	assert.Contains(t, out, "frame 1 t=0ms")
	assert.Contains(t, out, "dot.opacity = 0\n")
	assert.Contains(t, out, "frame 2 t=100ms")
	assert.Contains(t, out, "dot.opacity = 1\n")
	assert.Contains(t, out, "dot.fill = rgba(0,0,255,1)  [#0000ff a=255 hcl(")
	assert.Contains(t, out, "! finish fade-1")
	assert.Contains(t, out, "2 frame(s)")
}

func TestSampleJSON(t *testing.T) {
	out, _, err := execute(NewSampleCommand(&RootOptions{Format: "json"}), fadeScene, "--fps", "10")
	require.NoError(t, err)

	var result SampleResult
	decodeData(t, out, &result)
	assert.Equal(t, "fade", result.Scene)
	assert.Equal(t, "fade-1", result.Timeline)
	assert.Equal(t, 2, result.Ran)

	// frame 0 holds the add event raised while the scene was registered
	require.Len(t, result.Frames, 3)
	assert.Equal(t, int64(0), result.Frames[0].Frame)
	assert.Equal(t, []string{"add fade-1"}, result.Frames[0].Events)
	assert.Empty(t, result.Frames[0].Values)

	first := result.Frames[1]
	require.Len(t, first.Values, 2)
	assert.Equal(t, SampleValue{Target: "dot", Property: "opacity", Kind: "style", Value: "0"}, first.Values[0])
	assert.Equal(t, "rgba(255,0,0,1)", first.Values[1].Value)
	assert.Contains(t, first.Values[1].Swatch, "#ff0000")

	last := result.Frames[2]
	assert.Equal(t, 100.0, last.Time)
	assert.Equal(t, []string{"finish fade-1", "remove fade-1"}, last.Events)
}

func TestSampleDurationBound(t *testing.T) {
	out, _, err := execute(NewSampleCommand(&RootOptions{Format: "json"}), fadeScene, "--fps", "20", "--duration", "50")
	require.NoError(t, err)

	var result SampleResult
	decodeData(t, out, &result)
	assert.Equal(t, 2, result.Ran, "frames at 0 and 50")
	for _, f := range result.Frames {
		assert.NotContains(t, f.Events, "finish fade-1")
	}
}

func TestSampleInvalidFPS(t *testing.T) {
	_, _, err := execute(NewSampleCommand(&RootOptions{Format: "text"}), fadeScene, "--fps", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--fps must be positive")
}

func TestSampleCompileError(t *testing.T) {
	out, _, err := execute(NewSampleCommand(&RootOptions{Format: "text"}), shortScene)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [NOT_ENOUGH_TIMES]")
}
