// Package trip records failures around the rendering path.
//
// The mapper and scene builder are total and never fail. Everything that
// touches the outside world can: writing a snapshot, encoding a frame,
// running the terminal program. Those failures are "trips". A stumble is
// shown to the user and the session goes on; a fall ends it.
package trip

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kinds of trips raised by the viewer and the command.
const (
	KindExport    = "export"    // snapshot file could not be written
	KindRender    = "render"    // a surface failed to draw or encode
	KindTerminal  = "terminal"  // the interactive program failed
	KindSelection = "selection" // a preset name or angle flag was rejected
	KindBaseline  = "baseline"  // a rendered frame regressed from its golden copy
)

// Trip is a failure with the context needed to report it.
type Trip struct {
	Kind      string
	Message   string
	Context   Context
	Timestamp time.Time
	Severity  Severity
	Err       error // underlying cause, if any
}

// Context carries details such as the file path or the selection label.
type Context map[string]interface{}

// Severity decides whether the session can continue.
type Severity int

const (
	// Stumble is reported and ignored, e.g. a snapshot write failed.
	Stumble Severity = iota

	// Error invalidates the current operation but not the session.
	Error

	// Fall ends the session, e.g. the terminal could not be opened.
	Fall
)

func (s Severity) String() string {
	switch s {
	case Stumble:
		return "stumble"
	case Error:
		return "error"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

// New creates a trip with Error severity.
func New(kind, message string, context Context) *Trip {
	return &Trip{
		Kind:      kind,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Error,
	}
}

// NewStumble creates a recoverable trip.
func NewStumble(kind, message string, context Context) *Trip {
	return New(kind, message, context).WithSeverity(Stumble)
}

// NewFall creates a trip that ends the session.
func NewFall(kind, message string, context Context) *Trip {
	return New(kind, message, context).WithSeverity(Fall)
}

// Wrap turns err into a trip of the given kind and severity. A nil err
// yields a nil trip.
func Wrap(err error, kind string, severity Severity, context Context) *Trip {
	if err == nil {
		return nil
	}
	t := New(kind, err.Error(), context).WithSeverity(severity)
	t.Err = err
	return t
}

// WithSeverity sets the severity level.
func (t *Trip) WithSeverity(severity Severity) *Trip {
	t.Severity = severity
	return t
}

// Error implements the error interface.
func (t *Trip) Error() string {
	return fmt.Sprintf("[%s:%s] %s", t.Kind, t.Severity, t.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (t *Trip) Unwrap() error {
	return t.Err
}

// CanRecover reports whether the session may continue.
func (t *Trip) CanRecover() bool {
	return t.Severity != Fall
}

// IsFall reports whether the session must stop.
func (t *Trip) IsFall() bool {
	return t.Severity == Fall
}

// GetContext returns a context value.
func (t *Trip) GetContext(key string) (interface{}, bool) {
	if t.Context == nil {
		return nil, false
	}
	val, exists := t.Context[key]
	return val, exists
}

// DetailedString renders the trip with its context keys in sorted order.
func (t *Trip) DetailedString() string {
	var details strings.Builder

	details.WriteString(t.Error())
	details.WriteString(fmt.Sprintf("\n  Time: %s", t.Timestamp.Format("15:04:05.000")))

	if len(t.Context) > 0 {
		keys := make([]string, 0, len(t.Context))
		for key := range t.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		details.WriteString("\n  Context:")
		for _, key := range keys {
			details.WriteString(fmt.Sprintf("\n    %s: %v", key, t.Context[key]))
		}
	}

	return details.String()
}
