package app

import (
	"context"
	"sync"
)

// Lazy builds the container once, on first use. Commands receive it before
// the global flags are parsed.
type Lazy struct {
	opts      *Options
	once      sync.Once
	container *Container
	err       error
}

// NewLazy returns a Lazy reading opts when Get is first called.
func NewLazy(opts *Options) *Lazy {
	return &Lazy{opts: opts}
}

// Get returns the container, building it on the first call.
func (l *Lazy) Get(ctx context.Context) (*Container, error) {
	l.once.Do(func() {
		var opts Options
		if l.opts != nil {
			opts = *l.opts
		}
		l.container, l.err = BuildContainer(ctx, opts)
	})
	return l.container, l.err
}

// Close releases the container if it was built.
func (l *Lazy) Close() error {
	if l.container == nil {
		return nil
	}
	return l.container.Close()
}
