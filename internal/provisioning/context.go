package provisioning

import (
	"context"

	"github.com/go-logr/logr"
)

// Context wraps everything one resolution pass needs.
type Context struct {
	context.Context
	Input     *Input
	State     *State
	Composers Composers
	Observer  Observer
	Metrics   *Metrics
	RunID     string
}

// Options configure a resolution pass.
type Options struct {
	Observer Observer
	Metrics  *Metrics
	RunID    string
}

// Option is a functional option for Resolve and Provision.
type Option func(*Options)

// WithObserver sets the observer receiving resolution events.
func WithObserver(o Observer) Option {
	return func(opts *Options) {
		opts.Observer = o
	}
}

// WithMetrics records decisions and composer timings on m.
func WithMetrics(m *Metrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithRunID tags events with a run identifier. It never reaches composers.
func WithRunID(id string) Option {
	return func(opts *Options) {
		opts.RunID = id
	}
}

func newOptions(ctx context.Context, opts []Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.Observer == nil {
		o.Observer = NewLogObserver(logr.FromContextOrDiscard(ctx))
	}
	if o.RunID != "" {
		o.Observer = o.Observer.WithFields(map[string]string{"run": o.RunID})
	}
	return o
}

// NewContext creates a resolution context with an empty State.
func NewContext(ctx context.Context, in *Input, composers Composers, opts ...Option) *Context {
	return newContext(ctx, in, composers, newOptions(ctx, opts))
}

func newContext(ctx context.Context, in *Input, composers Composers, o *Options) *Context {
	return &Context{
		Context:   ctx,
		Input:     in,
		State:     NewState(),
		Composers: composers,
		Observer:  o.Observer.WithFields(map[string]string{"stack": in.Name}),
		Metrics:   o.Metrics,
		RunID:     o.RunID,
	}
}
