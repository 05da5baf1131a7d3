package lossy

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

type contextKey int

const (
	_ctxKeyReporter contextKey = iota
	_ctxKeyLogger
	_ctxKeyDebug
)

// WithReporter returns a child context carrying the loss reporter for every
// decode session started with it.
func WithReporter(ctx context.Context, r Reporter) context.Context {
	return context.WithValue(ctx, _ctxKeyReporter, r)
}

// ReporterFrom returns the reporter installed with WithReporter.
func ReporterFrom(ctx context.Context) (Reporter, bool) {
	r, ok := ctx.Value(_ctxKeyReporter).(Reporter)
	return r, ok && r != nil
}

// WithLogger sets the logger used for development diagnostics.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, _ctxKeyLogger, l)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(_ctxKeyLogger).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// WithDebug enables development diagnostics, such as the warning emitted
// when a session records losses without a configured reporter.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyDebug, enabled)
}

// IsDebug reports whether development diagnostics are enabled.
func IsDebug(ctx context.Context) bool {
	b, _ := ctx.Value(_ctxKeyDebug).(bool)
	return b
}

var sessionSeq atomic.Uint64

// Session is the state shared by every cursor of one top-level decode call.
type Session struct {
	id         uint64
	ctx        context.Context
	reporter   Reporter
	configured bool
	debug      bool
	logger     *slog.Logger
	opt        DecodeOpt
	warnOnce   sync.Once
}

func newSession(ctx context.Context, opt DecodeOpt) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Session{
		id:     sessionSeq.Add(1),
		ctx:    ctx,
		debug:  opt.Debug || IsDebug(ctx),
		logger: loggerFrom(ctx),
		opt:    opt,
	}
	if r, ok := ReporterFrom(ctx); ok {
		s.reporter, s.configured = r, true
	} else {
		s.reporter = NopReporter{}
	}
	return s
}

// ID identifies the session in diagnostics.
func (s *Session) ID() uint64 { return s.id }

// Context returns the context the session was started with.
func (s *Session) Context() context.Context { return s.ctx }

// Reporter returns the active reporter; NopReporter when none is configured.
func (s *Session) Reporter() Reporter { return s.reporter }

func (s *Session) report(l Loss) {
	if !s.configured && s.debug {
		s.warnOnce.Do(func() {
			s.logger.Warn("lossy: losses recorded without a configured reporter",
				slog.Uint64("session", s.id),
				slog.String("path", l.Path.String()),
				slog.String("message", l.Message),
				slog.String("stack", string(debug.Stack())),
			)
		})
	}
	s.reporter.RecordLoss(l)
}
