/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"context"
	"fmt"
	"sync"

	"github.com/suparena/portalnetwork/errors"
)

type call struct {
	fn   func(*Registry) error
	done chan error
}

// Actor serializes access to a Registry by running every call on a single
// goroutine. A reindex is therefore never observed half done by a lookup.
type Actor struct {
	registry *Registry
	calls    chan call
	quit     chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

// NewActor starts the goroutine that owns registry. The caller must not use
// registry directly afterwards.
func NewActor(registry *Registry) *Actor {
	a := &Actor{
		registry: registry,
		calls:    make(chan call),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Actor) run() {
	defer close(a.stopped)
	for {
		select {
		case c := <-a.calls:
			c.done <- a.invoke(c.fn)
		case <-a.quit:
			return
		}
	}
}

func (a *Actor) invoke(fn func(*Registry) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("portal registry call panicked: %v", r)
		}
	}()
	return fn(a.registry)
}

// Do runs fn on the registry goroutine and returns its error. It returns
// ctx.Err() if ctx ends before fn is scheduled and errors.ErrClosed after Close.
// Once scheduled, fn runs to completion; Do waits for it unless ctx ends first.
func (a *Actor) Do(ctx context.Context, fn func(*Registry) error) error {
	c := call{fn: fn, done: make(chan error, 1)}
	select {
	case a.calls <- c:
	case <-a.quit:
		return errors.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-c.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the goroutine after any call in progress. It is safe to call
// more than once.
func (a *Actor) Close() {
	a.once.Do(func() { close(a.quit) })
	<-a.stopped
}
