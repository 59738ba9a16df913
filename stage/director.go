// Package stage drives a bubbletea model headlessly so its interactive
// behaviour can be scripted from tests.
//
// A Director runs the model inside a tea.Program without a renderer or
// input reader, mirrors every model update through a sequenced channel and
// exposes a fluent API for key presses, waits and assertions:
//
//	result := stage.NewDirector(t, viewer).
//		Start().
//		Press("3").
//		AssertViewContains("≈ 0.00").
//		Stop()
//
//	assert.True(t, result.Success, result.ErrorMessage)
//
// Failures are collected as trips and returned in the Result rather than
// failing the test immediately.
package stage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/orthobloch/trip"
)

// Model is a bubbletea model that can be inspected by the director.
type Model interface {
	tea.Model
	// CurrentInput returns the value of the focused control
	CurrentInput() string
	// CurrentMode returns a short name for the model's state
	CurrentMode() string
	// CheckCondition evaluates a model-specific named condition
	CheckCondition(condition string) bool
}

// Trip kinds raised by the director.
const (
	KindStartup   = "startup"
	KindAssertion = "assertion"
	KindTimeout   = "timeout"
	KindPanic     = "panic"
)

// Action records one scripted step.
type Action struct {
	Timestamp time.Time
	Type      string      // "keypress", "wait", "assertion"
	Details   interface{} // key name, duration or asserted value
}

// Snapshot captures the model's visible state at one moment.
type Snapshot struct {
	Timestamp time.Time
	View      string
	Mode      string
	Input     string
}

// Result summarises a directed session.
type Result struct {
	Actions      []Action
	Snapshots    []Snapshot
	Success      bool
	Duration     time.Duration
	ErrorMessage string
	Error        error
	TripReport   string
}

// Config tunes the director.
type Config struct {
	// Timeout bounds every wait and the session as a whole
	Timeout time.Duration
	// KeyDelay pauses between keys typed with Type (0 = no delay)
	KeyDelay time.Duration
	// CaptureViews records a Snapshot after every step
	CaptureViews bool
}

// DefaultConfig waits up to 5 seconds and captures views.
func DefaultConfig() Config {
	return Config{
		Timeout:      5 * time.Second,
		KeyDelay:     0,
		CaptureViews: true,
	}
}

// modelUpdate is a model state tagged with the order it was produced in.
type modelUpdate struct {
	model    Model
	sequence int64
}

// Director scripts a headless program.
type Director struct {
	t       testing.TB
	model   Model
	program *tea.Program
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc

	actions   []Action
	snapshots []Snapshot

	tripMu   sync.Mutex
	trips    *trip.Handler
	lastTrip *trip.Trip
	failed   bool

	modelChan chan modelUpdate
	latest    Model
	modelMu   sync.RWMutex
	stats     syncStats

	config    Config
	started   bool
	startTime time.Time
}

// NewDirector creates a director with DefaultConfig.
func NewDirector(t testing.TB, model Model) *Director {
	return NewDirectorWithConfig(t, model, DefaultConfig())
}

// NewDirectorWithConfig creates a director with a custom configuration.
func NewDirectorWithConfig(t testing.TB, model Model, config Config) *Director {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)

	d := &Director{
		t:         t,
		model:     model,
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		trips:     trip.NewHandler("stage", trip.DefaultPolicy()),
		modelChan: make(chan modelUpdate, 64),
		latest:    model,
		config:    config,
	}

	go d.syncModelUpdates()

	return d
}

// Start launches the program and records the initial view.
func (d *Director) Start() *Director {
	if d.started {
		d.t.Logf("stage: director already started")
		return d
	}
	d.startTime = time.Now()

	d.program = tea.NewProgram(modelWrapper{Model: d.model, director: d},
		tea.WithContext(d.ctx),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	go func() {
		defer close(d.done)
		defer func() {
			if r := recover(); r != nil {
				d.t.Logf("stage: program goroutine panicked: %v", r)
			}
		}()
		if _, err := d.program.Run(); err != nil && d.ctx.Err() == nil {
			d.t.Logf("stage: program exited: %v", err)
		}
	}()

	if d.View() == "" {
		d.recordTrip(trip.NewFall(KindStartup, "model rendered an empty initial view", nil))
		return d
	}

	d.started = true
	d.captureSnapshot()
	return d
}

// Stop quits the program and returns the session result.
func (d *Director) Stop() *Result {
	if d.started {
		d.captureSnapshot()
	}

	if d.program != nil {
		d.program.Quit()
		select {
		case <-d.done:
		case <-time.After(d.config.Timeout):
			d.t.Logf("stage: program did not exit within %v", d.config.Timeout)
		}
	}
	d.cancel()

	var duration time.Duration
	if !d.startTime.IsZero() {
		duration = time.Since(d.startTime)
	}

	d.tripMu.Lock()
	defer d.tripMu.Unlock()

	result := &Result{
		Actions:   d.actions,
		Snapshots: d.snapshots,
		Success:   !d.failed && d.lastTrip == nil,
		Duration:  duration,
	}
	if d.lastTrip != nil {
		result.ErrorMessage = fmt.Sprintf("[%s] %s", strings.ToLower(d.lastTrip.Kind), d.lastTrip.Message)
		result.Error = d.lastTrip
		result.TripReport = d.trips.DetailedReport()
	}
	return result
}

// Model returns the most recent model state.
func (d *Director) Model() Model {
	d.modelMu.RLock()
	defer d.modelMu.RUnlock()
	return d.latest
}

// View returns the most recent rendered view.
func (d *Director) View() string {
	if m := d.Model(); m != nil {
		return m.View()
	}
	return ""
}

// HasFailed reports whether any non-recoverable trip was recorded.
func (d *Director) HasFailed() bool {
	d.tripMu.Lock()
	defer d.tripMu.Unlock()
	return d.failed || !d.trips.ShouldContinue()
}

// Trips returns the director's trip handler.
func (d *Director) Trips() *trip.Handler {
	return d.trips
}

func (d *Director) recordAction(actionType string, details interface{}) {
	d.actions = append(d.actions, Action{
		Timestamp: time.Now(),
		Type:      actionType,
		Details:   details,
	})
}

func (d *Director) captureSnapshot() {
	if !d.config.CaptureViews {
		return
	}
	m := d.Model()
	d.snapshots = append(d.snapshots, Snapshot{
		Timestamp: time.Now(),
		View:      m.View(),
		Mode:      m.CurrentMode(),
		Input:     m.CurrentInput(),
	})
}

// recordTrip stores t and marks the session failed unless it is a stumble.
// It may be called from the program goroutine.
func (d *Director) recordTrip(t *trip.Trip) {
	d.tripMu.Lock()
	defer d.tripMu.Unlock()

	d.trips.Record(t)
	d.lastTrip = t
	if t.Severity != trip.Stumble {
		d.failed = true
	}

	d.t.Helper()
	if t.IsFall() {
		d.t.Error(t)
	} else {
		d.t.Log(t.DetailedString())
	}
}

func (d *Director) isFailed() bool {
	d.tripMu.Lock()
	defer d.tripMu.Unlock()
	return d.failed
}
