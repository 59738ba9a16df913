package trip

import (
	"fmt"
	"strings"
)

// Policy defines when a Handler stops the session.
type Policy struct {
	// StopOnFall stops the session on the first fall
	StopOnFall bool

	// MaxStumbles stops the session once more stumbles than this have been
	// recorded; zero means unlimited
	MaxStumbles int
}

// DefaultPolicy stops on falls and tolerates up to 10 stumbles.
func DefaultPolicy() *Policy {
	return &Policy{
		StopOnFall:  true,
		MaxStumbles: 10,
	}
}

// Handler collects trips for one component. It is not safe for concurrent
// use; the viewer only touches it from its update loop.
type Handler struct {
	component string
	trips     []*Trip
	stumbles  []*Trip
	last      *Trip
	policy    *Policy
}

// NewHandler creates a handler; a nil policy means DefaultPolicy.
func NewHandler(component string, policy *Policy) *Handler {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Handler{
		component: component,
		trips:     make([]*Trip, 0),
		stumbles:  make([]*Trip, 0),
		policy:    policy,
	}
}

// Record adds a trip. Nil trips are ignored.
func (h *Handler) Record(t *Trip) {
	if t == nil {
		return
	}
	h.last = t
	if t.Severity == Stumble {
		h.stumbles = append(h.stumbles, t)
	} else {
		h.trips = append(h.trips, t)
	}
}

// ShouldContinue reports whether the session may go on under the policy.
func (h *Handler) ShouldContinue() bool {
	if h.policy.StopOnFall {
		for _, t := range h.trips {
			if t.IsFall() {
				return false
			}
		}
	}

	if h.policy.MaxStumbles > 0 && len(h.stumbles) > h.policy.MaxStumbles {
		return false
	}

	return true
}

// Last returns the most recently recorded trip of any severity.
func (h *Handler) Last() *Trip {
	return h.last
}

func (h *Handler) HasTrips() bool    { return len(h.trips) > 0 }
func (h *Handler) HasStumbles() bool { return len(h.stumbles) > 0 }
func (h *Handler) Trips() []*Trip    { return h.trips }
func (h *Handler) Stumbles() []*Trip { return h.stumbles }

// Summary gives a one-line count.
func (h *Handler) Summary() string {
	if len(h.trips) == 0 && len(h.stumbles) == 0 {
		return fmt.Sprintf("[%s] no issues", h.component)
	}

	return fmt.Sprintf("[%s] %d trips, %d stumbles",
		h.component, len(h.trips), len(h.stumbles))
}

// DetailedReport lists every trip and stumble.
func (h *Handler) DetailedReport() string {
	var report strings.Builder

	report.WriteString(fmt.Sprintf("=== %s report ===\n", h.component))
	report.WriteString(h.Summary() + "\n")

	if len(h.trips) > 0 {
		report.WriteString("\nTrips:\n")
		for i, t := range h.trips {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, t.DetailedString()))
		}
	}

	if len(h.stumbles) > 0 {
		report.WriteString("\nStumbles:\n")
		for i, s := range h.stumbles {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, s.DetailedString()))
		}
	}

	return report.String()
}
