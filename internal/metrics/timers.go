package metrics

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// Timers measures the phases of a run (load, parse, fill, save...).
type Timers struct {
	Timers map[string]*Timer `json:"Timers,omitempty"`
	last   string
	now    func() time.Time
}

func NewTimers() Timers {
	ts := Timers{Timers: make(map[string]*Timer), now: time.Now}
	return ts
}

// set a timer, updating if existing.
func (ts *Timers) set(k string) {
	if _, ok := ts.Timers[k]; !ok {
		ts.Timers[k] = &Timer{start: ts.now()}
	} else {
		stop := ts.now()
		ts.Timers[k].Total = stop.Sub(ts.Timers[k].start).Seconds()
	}
}

// Set check last timer, stop and add a new one (lap).
func (ts *Timers) Set(k string) {
	if ts.last != "" {
		ts.set(ts.last)
	}
	ts.set(k)
	ts.last = k
}

// Add a new timer, or stop it when already running.
func (ts *Timers) Add(k string) {
	ts.set(k)
}

// Log prints the timers at debug level, sorted by name.
func (ts *Timers) Log() {
	names := make([]string, 0, len(ts.Timers))
	for k := range ts.Timers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		log.Debugf("timer %s: %.3fs", k, ts.Timers[k].Total)
	}
}

type Timer struct {
	start time.Time

	// Total time in seconds
	Total float64 `json:"seconds"`
}
