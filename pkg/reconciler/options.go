package reconciler

import "time"

// options configures a Reconciler.
type options struct {
	sourceTimeout time.Duration
	recordDelay   time.Duration
}

// Option configures the reconciler.
type Option func(*options)

// defaults mirror the original pipeline: a 10 second bound per source call
// and a 2 second pause between records to respect third-party usage limits.
func newOptions(opts ...Option) *options {
	o := &options{
		sourceTimeout: 10 * time.Second,
		recordDelay:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSourceTimeout bounds each external source call.
func WithSourceTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sourceTimeout = d
		}
	}
}

// WithRecordDelay sets the mandatory pause between per-record verification
// passes in a batch.
func WithRecordDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.recordDelay = d
		}
	}
}
