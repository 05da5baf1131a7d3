package lossy

import (
	"context"
	"log/slog"
	"sync"
)

// Loss describes one field that could not be decoded as requested.
type Loss struct {
	// Raw is a compact JSON-like rendering of the offending input; valid only
	// when HasRaw is true.
	Raw    string
	HasRaw bool
	Path   Path
	// Message is one of the fixed loss messages, e.g.
	// "Dropped invalid array element at Index 2".
	Message string
	// Err is the decode error that caused the loss, if any.
	Err error
}

// Reporter receives loss records. Implementations must be safe for concurrent
// use and must not panic; losing diagnostics never fails a decode.
type Reporter interface {
	RecordLoss(l Loss)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Loss)

func (f ReporterFunc) RecordLoss(l Loss) { f(l) }

// NopReporter discards every loss.
type NopReporter struct{}

func (NopReporter) RecordLoss(Loss) {}

// Collector accumulates losses in arrival order.
type Collector struct {
	mu     sync.Mutex
	losses Losses
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

func (c *Collector) RecordLoss(l Loss) {
	c.mu.Lock()
	c.losses = append(c.losses, l)
	c.mu.Unlock()
}

// Losses returns a copy of the recorded losses.
func (c *Collector) Losses() Losses {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Losses, len(c.losses))
	copy(out, c.losses)
	return out
}

// Len returns the number of recorded losses.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.losses)
}

// Reset drops all recorded losses.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.losses = nil
	c.mu.Unlock()
}

// LogReporter writes each loss as a structured log record.
type LogReporter struct {
	Logger *slog.Logger // nil uses slog.Default()
	Level  slog.Level
}

func (r LogReporter) RecordLoss(l Loss) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{slog.String("path", l.Path.String())}
	if l.HasRaw {
		attrs = append(attrs, slog.String("raw", l.Raw))
	}
	if l.Err != nil {
		attrs = append(attrs, slog.String("err", l.Err.Error()))
	}
	logger.LogAttrs(context.Background(), r.Level, l.Message, attrs...)
}

// Tee fans every loss out to all reporters in order.
func Tee(rs ...Reporter) Reporter {
	return ReporterFunc(func(l Loss) {
		for _, r := range rs {
			if r != nil {
				r.RecordLoss(l)
			}
		}
	})
}
