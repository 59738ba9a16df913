package stage

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/teranos/orthobloch/trip"
)

var namedKeys = map[string]tea.KeyType{
	"enter":       tea.KeyEnter,
	"tab":         tea.KeyTab,
	"shift+tab":   tea.KeyShiftTab,
	"esc":         tea.KeyEsc,
	"backspace":   tea.KeyBackspace,
	"up":          tea.KeyUp,
	"down":        tea.KeyDown,
	"left":        tea.KeyLeft,
	"right":       tea.KeyRight,
	"shift+left":  tea.KeyShiftLeft,
	"shift+right": tea.KeyShiftRight,
	"home":        tea.KeyHome,
	"end":         tea.KeyEnd,
	"ctrl+c":      tea.KeyCtrlC,
}

// KeyMsg converts a key name such as "tab", "shift+left" or "3" into the
// message bubbletea would deliver for it. Unknown names are sent as runes.
func KeyMsg(name string) tea.KeyMsg {
	if kt, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// Press sends each named key in turn and waits for the model to apply it.
func (d *Director) Press(keys ...string) *Director {
	for _, key := range keys {
		if d.isFailed() {
			return d
		}
		d.send(KeyMsg(key))
		d.recordAction("keypress", key)
	}
	return d
}

// Type sends text one rune at a time.
func (d *Director) Type(text string) *Director {
	for _, r := range text {
		d.Press(string(r))
		if d.config.KeyDelay > 0 {
			time.Sleep(d.config.KeyDelay)
		}
	}
	return d
}

// Send delivers an arbitrary message, such as a tea.WindowSizeMsg.
func (d *Director) Send(msg tea.Msg) *Director {
	d.send(msg)
	d.recordAction("message", fmt.Sprintf("%T", msg))
	return d
}

// Wait pauses for a fixed duration. Prefer the condition waits.
func (d *Director) Wait(duration time.Duration) *Director {
	time.Sleep(duration)
	d.recordAction("wait", duration)
	d.captureSnapshot()
	return d
}

// WaitForText waits until the view contains text.
func (d *Director) WaitForText(text string) *Director {
	return d.waitFor("text "+text, func() bool {
		return strings.Contains(d.plainView(), text)
	})
}

// WaitForMode waits until the model reports mode.
func (d *Director) WaitForMode(mode string) *Director {
	return d.waitFor("mode "+mode, func() bool {
		return d.Model().CurrentMode() == mode
	})
}

// WaitForCondition waits until the model's named condition holds.
func (d *Director) WaitForCondition(condition string) *Director {
	return d.waitFor("condition "+condition, func() bool {
		return d.Model().CheckCondition(condition)
	})
}

// AssertViewContains checks the view, with escape codes removed.
func (d *Director) AssertViewContains(text string) *Director {
	view := d.plainView()
	if !strings.Contains(view, text) {
		d.recordTrip(trip.New(KindAssertion, "view does not contain "+text, trip.Context{
			"expected": text, "actual_view": view,
		}))
		return d
	}
	d.recordAction("assertion", "contains="+text)
	return d
}

// AssertViewNotContains is the negation of AssertViewContains.
func (d *Director) AssertViewNotContains(text string) *Director {
	view := d.plainView()
	if strings.Contains(view, text) {
		d.recordTrip(trip.New(KindAssertion, "view unexpectedly contains "+text, trip.Context{
			"unexpected": text, "actual_view": view,
		}))
		return d
	}
	d.recordAction("assertion", "not_contains="+text)
	return d
}

// AssertMode checks CurrentMode.
func (d *Director) AssertMode(expected string) *Director {
	actual := d.Model().CurrentMode()
	if actual != expected {
		d.recordTrip(trip.New(KindAssertion, "expected mode "+expected+", got "+actual, trip.Context{
			"expected": expected, "actual": actual,
		}))
		return d
	}
	d.recordAction("assertion", "mode="+expected)
	return d
}

// AssertInput checks CurrentInput.
func (d *Director) AssertInput(expected string) *Director {
	actual := d.Model().CurrentInput()
	if actual != expected {
		d.recordTrip(trip.New(KindAssertion, "expected input '"+expected+"', got '"+actual+"'", trip.Context{
			"expected": expected, "actual": actual,
		}))
		return d
	}
	d.recordAction("assertion", "input="+expected)
	return d
}

// AssertCondition checks a named model condition.
func (d *Director) AssertCondition(condition string) *Director {
	if !d.Model().CheckCondition(condition) {
		d.recordTrip(trip.New(KindAssertion, "condition "+condition+" does not hold", trip.Context{
			"condition": condition, "mode": d.Model().CurrentMode(),
		}))
		return d
	}
	d.recordAction("assertion", "condition="+condition)
	return d
}

// send delivers msg and waits for the resulting model update.
func (d *Director) send(msg tea.Msg) {
	if d.program == nil || !d.started {
		d.recordTrip(trip.NewFall(KindStartup, "director not started", nil))
		return
	}
	before := atomic.LoadInt64(&d.stats.processed)
	d.program.Send(msg)
	if !d.waitForUpdates(before) {
		if d.isFailed() {
			return
		}
		d.recordTrip(trip.New(KindTimeout, fmt.Sprintf("no update after %T", msg), trip.Context{
			"sync": d.SyncStats(),
		}))
		return
	}
	d.captureSnapshot()
}

func (d *Director) waitFor(what string, cond func() bool) *Director {
	if d.isFailed() {
		return d
	}
	deadline := time.NewTimer(d.config.Timeout)
	defer deadline.Stop()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()

	for !cond() {
		select {
		case <-deadline.C:
			d.recordTrip(trip.New(KindTimeout, "timeout waiting for "+what, trip.Context{
				"current_view": d.plainView(),
			}))
			return d
		case <-d.ctx.Done():
			d.recordTrip(trip.New(KindTimeout, "session ended waiting for "+what, nil))
			return d
		case <-tick.C:
		}
	}
	d.recordAction("wait", what)
	return d
}

func (d *Director) plainView() string {
	return ansi.Strip(d.View())
}
