package testutil

import (
	"sync"

	"github.com/kbukum/savvy/logger"
)

// Level names used by Recorder entries.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Entry is one captured log call.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// Recorder is a logger.Sink that keeps every entry in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

var _ logger.Sink = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Info records an info entry.
func (r *Recorder) Info(msg string, fields ...map[string]interface{}) {
	r.add(LevelInfo, msg, fields)
}

// Warn records a warn entry.
func (r *Recorder) Warn(msg string, fields ...map[string]interface{}) {
	r.add(LevelWarn, msg, fields)
}

// Error records an error entry.
func (r *Recorder) Error(msg string, fields ...map[string]interface{}) {
	r.add(LevelError, msg, fields)
}

func (r *Recorder) add(level, msg string, fields []map[string]interface{}) {
	merged := make(map[string]interface{})
	for _, fm := range fields {
		for k, v := range fm {
			merged[k] = v
		}
	}
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg, Fields: merged})
	r.mu.Unlock()
}

// Entries returns a copy of all recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Messages returns the messages recorded at level, in order.
func (r *Recorder) Messages(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset drops all recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
