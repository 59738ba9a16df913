package stage

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dial is a minimal Model: left/right move a value, enter locks it.
type dial struct {
	value  int
	locked bool
	keys   []string
}

func (m dial) Init() tea.Cmd { return nil }

func (m dial) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		m.keys = append(append([]string(nil), m.keys...), key.String())
		switch key.String() {
		case "left":
			m.value--
		case "right":
			m.value++
		case "shift+right":
			m.value += 10
		case "enter":
			m.locked = true
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m dial) View() string {
	return fmt.Sprintf("dial: %d\nkeys: %s", m.value, strings.Join(m.keys, ","))
}

func (m dial) CurrentInput() string { return fmt.Sprint(m.value) }

func (m dial) CurrentMode() string {
	if m.locked {
		return "locked"
	}
	return "free"
}

func (m dial) CheckCondition(condition string) bool {
	switch condition {
	case "positive":
		return m.value > 0
	default:
		return false
	}
}

// panicky blows up on any key.
type panicky struct{ dial }

func (m panicky) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		panic("boom")
	}
	return m, nil
}

func quickConfig() Config {
	return Config{Timeout: 2 * time.Second, CaptureViews: true}
}

func TestDirector_BasicFlow(t *testing.T) {
	result := NewDirectorWithConfig(t, dial{}, quickConfig()).
		Start().
		AssertMode("free").
		AssertInput("0").
		Press("right", "right", "shift+right").
		AssertInput("12").
		AssertCondition("positive").
		AssertViewContains("dial: 12").
		Press("left").
		AssertViewContains("keys: right,right,shift+right,left").
		Press("enter").
		WaitForMode("locked").
		Stop()

	require.True(t, result.Success, result.ErrorMessage)
	assert.GreaterOrEqual(t, len(result.Actions), 8)
	assert.Greater(t, len(result.Snapshots), 4)
	assert.Equal(t, "locked", result.Snapshots[len(result.Snapshots)-1].Mode)
}

func TestDirector_Type(t *testing.T) {
	d := NewDirectorWithConfig(t, dial{}, quickConfig()).Start()
	d.Type("ab")
	result := d.AssertViewContains("keys: a,b").Stop()
	assert.True(t, result.Success, result.ErrorMessage)
}

func TestDirector_AssertionFailure(t *testing.T) {
	result := NewDirectorWithConfig(t, dial{}, quickConfig()).
		Start().
		AssertViewContains("dial: 99").
		Stop()

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "[assertion]")
	assert.Contains(t, result.TripReport, "dial: 99")
	assert.Error(t, result.Error)
}

func TestDirector_NegativeAssertions(t *testing.T) {
	result := NewDirectorWithConfig(t, dial{}, quickConfig()).
		Start().
		AssertViewNotContains("dial: 1").
		Press("right").
		AssertViewNotContains("dial: 1").
		Stop()

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "unexpectedly contains")
}

func TestDirector_WaitTimeout(t *testing.T) {
	cfg := quickConfig()
	cfg.Timeout = 200 * time.Millisecond

	start := time.Now()
	result := NewDirectorWithConfig(t, dial{}, cfg).
		Start().
		WaitForCondition("positive").
		Stop()

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "[timeout]")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDirector_QuitByModel(t *testing.T) {
	result := NewDirectorWithConfig(t, dial{}, quickConfig()).
		Start().
		Press("right", "q").
		Stop()

	assert.True(t, result.Success, result.ErrorMessage)
}

// quietTB keeps expected failures out of the real test's result.
type quietTB struct {
	testing.TB
	mu     sync.Mutex
	errors []string
}

func (q *quietTB) Helper()             {}
func (q *quietTB) Log(args ...any)     {}
func (q *quietTB) Logf(string, ...any) {}
func (q *quietTB) Error(args ...any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.errors = append(q.errors, fmt.Sprint(args...))
}

func TestDirector_ModelPanic(t *testing.T) {
	inner := &quietTB{TB: t}
	d := NewDirectorWithConfig(inner, panicky{}, quickConfig()).Start()
	d.Press("x")
	result := d.Stop()

	assert.False(t, result.Success)
	assert.True(t, d.HasFailed())
	assert.Contains(t, result.ErrorMessage, "panicked")
	inner.mu.Lock()
	assert.Len(t, inner.errors, 1)
	inner.mu.Unlock()
}

func TestDirector_SyncStats(t *testing.T) {
	d := NewDirectorWithConfig(t, dial{}, quickConfig()).Start()
	d.Press("right", "right")
	stats := d.SyncStats()
	d.Stop()

	assert.GreaterOrEqual(t, stats["updates_processed"], int64(2))
	assert.Zero(t, stats["buffer_overflows"])
	assert.Equal(t, int64(64), stats["buffer_capacity"])
}

func TestKeyMsg(t *testing.T) {
	assert.Equal(t, tea.KeyTab, KeyMsg("tab").Type)
	assert.Equal(t, "shift+left", KeyMsg("shift+left").String())
	msg := KeyMsg("3")
	assert.Equal(t, tea.KeyRunes, msg.Type)
	assert.Equal(t, []rune("3"), msg.Runes)
}
