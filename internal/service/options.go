package service

import (
	"time"

	"github.com/phrazzld/courier/internal/correlation"
)

// Option configures the optional collaborators of a service.
type Option func(*options)

type options struct {
	ids correlation.Generator
	now func() time.Time
}

func defaultOptions() options {
	return options{
		ids: correlation.UUIDGenerator{},
		now: time.Now,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithIDGenerator replaces the correlation ID generator.
func WithIDGenerator(g correlation.Generator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
