// Package instrument records timings and counters of one pipeline-creation
// attempt and emits them as a single structured log line.
//
// Observations are grouped by key and summarized as count, min, max and avg
// when committed. Nothing is recorded while the logger is disabled, and a
// committed attempt is only logged when one of the registered conditions
// holds (or when none are registered).
package instrument

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/rs/zerolog"
)

// DurationSuffix is appended to operation names by Instrument
const DurationSuffix = "_duration_s"

// TotalDurationKey holds the duration of the whole attempt. Conditions see
// it next to the recorded observations.
const TotalDurationKey = "pipeline_creation" + DurationSuffix

// Observations maps an observation key to every recorded value
type Observations map[string][]float64

// Condition decides from the observations whether an attempt is logged
type Condition func(Observations) bool

// Summary aggregates the values of one observation key
type Summary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
}

// Attributes describe the attempt being committed
type Attributes struct {
	Caller    string
	Ref       string
	Source    string
	Created   bool
	JobCount  int
	ErrorCode string
}

// Logger collects observations for one attempt. It is safe for concurrent
// use; a nil *Logger behaves like a disabled one.
type Logger struct {
	enabled bool
	dest    zerolog.Logger
	now     func() time.Time
	started time.Time

	mu           sync.Mutex
	conditions   []Condition
	observations Observations
}

// Option customizes a Logger
type Option func(*Logger)

// WithDestination sends committed lines to dest instead of the global logger
func WithDestination(dest zerolog.Logger) Option {
	return func(l *Logger) {
		l.dest = dest
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// New starts the clock of an attempt
func New(enabled bool, opts ...Option) *Logger {
	l := &Logger{
		enabled:      enabled,
		dest:         logging.GetLogger("instrument"),
		now:          time.Now,
		observations: make(Observations),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.started = l.now()
	return l
}

// Enabled reports whether observations are recorded
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// LogWhen registers a condition under which Commit logs
func (l *Logger) LogWhen(cond Condition) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conditions = append(l.conditions, cond)
}

// Instrument runs fn and records its duration in seconds as
// "<op>_duration_s". The duration is recorded even when fn fails.
func (l *Logger) Instrument(op string, fn func() error) error {
	if !l.Enabled() {
		return fn()
	}
	start := l.now()
	err := fn()
	l.Observe(op+DurationSuffix, l.now().Sub(start).Seconds())
	return err
}

// Observe records one value under key
func (l *Logger) Observe(key string, value float64) {
	if !l.Enabled() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observations[key] = append(l.observations[key], value)
}

// Summaries aggregates every non-empty observation key
func (l *Logger) Summaries() map[string]Summary {
	out := make(map[string]Summary)
	if l == nil {
		return out
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, values := range l.observations {
		if len(values) == 0 {
			continue
		}
		s := Summary{Count: len(values), Min: values[0], Max: values[0]}
		sum := 0.0
		for _, v := range values {
			sum += v
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		s.Avg = sum / float64(len(values))
		out[key] = s
	}
	return out
}

// Commit logs the attempt if the logger is enabled and a condition holds.
// It reports whether a line was written.
func (l *Logger) Commit(attrs Attributes) bool {
	if !l.Enabled() {
		return false
	}
	total := l.now().Sub(l.started).Seconds()
	if !l.shouldLog(total) {
		return false
	}

	event := l.dest.Info().
		Str("caller", attrs.Caller).
		Bool("pipeline_created", attrs.Created).
		Float64(TotalDurationKey, total)
	if attrs.Ref != "" {
		event = event.Str("ref", attrs.Ref)
	}
	if attrs.Source != "" {
		event = event.Str("pipeline_source", attrs.Source)
	}
	if attrs.Created {
		event = event.Int("pipeline_jobs_count", attrs.JobCount)
	}
	if attrs.ErrorCode != "" {
		event = event.Str("error_code", attrs.ErrorCode)
	}

	summaries := l.Summaries()
	keys := make([]string, 0, len(summaries))
	for k := range summaries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s := summaries[k]
		event = event.Dict(k, zerolog.Dict().
			Int("count", s.Count).
			Float64("min", s.Min).
			Float64("max", s.Max).
			Float64("avg", s.Avg))
	}

	event.Msg("Pipeline creation attempt")
	return true
}

func (l *Logger) shouldLog(total float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.conditions) == 0 {
		return true
	}
	view := make(Observations, len(l.observations)+1)
	for k, v := range l.observations {
		view[k] = v
	}
	view[TotalDurationKey] = []float64{total}
	for _, cond := range l.conditions {
		if cond(view) {
			return true
		}
	}
	return false
}

// SlowerThan holds when the attempt or any recorded duration exceeds
// threshold
func SlowerThan(threshold time.Duration) Condition {
	limit := threshold.Seconds()
	return func(obs Observations) bool {
		for key, values := range obs {
			if !strings.HasSuffix(key, DurationSuffix) {
				continue
			}
			for _, v := range values {
				if v > limit {
					return true
				}
			}
		}
		return false
	}
}
