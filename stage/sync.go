package stage

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/orthobloch/trip"
)

type syncStats struct {
	generated  int64 // updates produced by the program
	processed  int64 // updates applied to the director's copy
	lastSeq    int64
	overflows  int64 // updates dropped because the channel was full
	duplicates int64 // out-of-order updates skipped
}

// modelWrapper forwards every update to the director before returning it
// to the program.
type modelWrapper struct {
	Model
	director *Director
}

func (w modelWrapper) Update(msg tea.Msg) (m tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			w.director.recordTrip(trip.NewFall(KindPanic, fmt.Sprintf("model panicked during Update: %v", r), trip.Context{
				"msg": fmt.Sprintf("%T: %+v", msg, msg),
			}))
			m, cmd = w, tea.Quit
		}
	}()

	next, cmd := w.Model.Update(msg)
	model, ok := next.(Model)
	if !ok {
		w.director.recordTrip(trip.NewFall(KindPanic, fmt.Sprintf("Update returned %T, which is not a stage.Model", next), nil))
		return w, tea.Quit
	}

	seq := atomic.AddInt64(&w.director.stats.generated, 1)
	select {
	case w.director.modelChan <- modelUpdate{model: model, sequence: seq}:
	default:
		atomic.AddInt64(&w.director.stats.overflows, 1)
	}

	return modelWrapper{Model: model, director: w.director}, cmd
}

// syncModelUpdates applies updates in sequence order until the session ends.
func (d *Director) syncModelUpdates() {
	for {
		select {
		case u := <-d.modelChan:
			if u.sequence <= atomic.LoadInt64(&d.stats.lastSeq) {
				atomic.AddInt64(&d.stats.duplicates, 1)
				continue
			}
			d.modelMu.Lock()
			d.latest = u.model
			atomic.StoreInt64(&d.stats.lastSeq, u.sequence)
			d.modelMu.Unlock()
			atomic.AddInt64(&d.stats.processed, 1)
		case <-d.ctx.Done():
			return
		}
	}
}

// waitForUpdates blocks until more than n updates have been applied. It
// gives up early once the session has failed.
func (d *Director) waitForUpdates(n int64) bool {
	deadline := time.NewTimer(d.config.Timeout)
	defer deadline.Stop()
	for {
		if atomic.LoadInt64(&d.stats.processed) > n {
			return true
		}
		if d.isFailed() {
			return false
		}
		select {
		case <-deadline.C:
			return false
		case <-d.ctx.Done():
			return false
		case <-time.After(time.Millisecond):
		}
	}
}

// SyncStats reports update counters for diagnosing lost frames.
func (d *Director) SyncStats() map[string]int64 {
	return map[string]int64{
		"updates_generated": atomic.LoadInt64(&d.stats.generated),
		"updates_processed": atomic.LoadInt64(&d.stats.processed),
		"buffer_overflows":  atomic.LoadInt64(&d.stats.overflows),
		"duplicate_updates": atomic.LoadInt64(&d.stats.duplicates),
		"buffer_capacity":   int64(cap(d.modelChan)),
	}
}
