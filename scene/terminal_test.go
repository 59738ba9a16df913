package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/orthobloch/bloch"
)

func TestTerminal_Render(t *testing.T) {
	term := NewTerminal(DefaultTerminalConfig(), nil)
	out := ansi.Strip(term.Render(plusScene(t)))

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, DefaultTerminalConfig().Rows)
	assert.Contains(t, lines[0], "Inner Product ⟨0|ψ⟩ ≈ 0.00")
	assert.Contains(t, out, "|0⟩")
	assert.Contains(t, out, "|+⟩")
	assert.Contains(t, out, "◆")
	for _, line := range lines {
		assert.LessOrEqual(t, len([]rune(line)), DefaultTerminalConfig().Cols)
	}
}

func TestTerminal_ReplacesPreviousFrame(t *testing.T) {
	term := NewTerminal(DefaultTerminalConfig(), nil)
	term.Render(Build(bloch.Reference(), preset(t, "|1⟩"), "|1⟩"))
	out := ansi.Strip(term.Render(plusScene(t)))

	assert.NotContains(t, out, "|1⟩")
	assert.NotContains(t, out, "-1.00")
}

func TestTerminal_Display(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(TerminalConfig{Cols: 40, Rows: 15}, &buf)
	require.NoError(t, term.Display(plusScene(t)))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Len(t, strings.Split(strings.TrimSuffix(ansi.Strip(buf.String()), "\n"), "\n"), 15)

	assert.Error(t, NewTerminal(DefaultTerminalConfig(), nil).Display(plusScene(t)))
}
