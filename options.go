package bsa

import "log/slog"

// options holds the knobs Open accepts via functional Option values.
type options struct {
	logger *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger Open uses for advisory, non-fatal signals (a
// TES3 integrity self-check mismatch). Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
