package orthobloch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/orthobloch/stage"
)

func directorFor(t *testing.T, v Viewer) *stage.Director {
	return stage.NewDirectorWithConfig(t, v, stage.Config{
		Timeout:      5 * time.Second,
		CaptureViews: true,
	})
}

func TestViewerStage_PresetWalk(t *testing.T) {
	result := directorFor(t, NewViewer(testConfig(t))).
		Start().
		AssertMode("explicit").
		AssertViewContains("≈ 0.50").
		Press("3").
		AssertMode("preset").
		AssertCondition("orthogonal").
		AssertViewContains("Inner Product ⟨0|ψ⟩ ≈ 0.00").
		Press("2").
		AssertViewContains("≈ -1.00").
		Press("1").
		AssertViewContains("≈ 1.00").
		Stop()

	require.True(t, result.Success, result.ErrorMessage)
}

func TestViewerStage_Controls(t *testing.T) {
	result := directorFor(t, NewViewer(testConfig(t))).
		Start().
		AssertInput("theta=60").
		Press("right", "right").
		AssertInput("theta=62").
		Press("tab").
		AssertCondition("focus_phi").
		Press("shift+left").
		AssertInput("phi=30").
		Press("6", "left").
		AssertMode("explicit").
		AssertInput("phi=269").
		AssertViewNotContains("[6 |–i⟩]").
		Stop()

	require.True(t, result.Success, result.ErrorMessage)
}

func TestViewerStage_Snapshot(t *testing.T) {
	result := directorFor(t, NewViewer(testConfig(t))).
		Start().
		Press("4", "s").
		WaitForCondition("exported").
		AssertViewContains("bloch_minus_t090_p180.png").
		Press("q").
		Stop()

	require.True(t, result.Success, result.ErrorMessage)
	assert.NotEmpty(t, result.Snapshots)
}
