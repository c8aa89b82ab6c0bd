package sitebuilder

import (
	"context"
	"sync"
)

// workerGroup runs section builds with bounded parallelism. The first error
// cancels the group context so sibling sections stop at their next artifact.
type workerGroup struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup

	mu  sync.Mutex
	err error
}

func newWorkerGroup(ctx context.Context, limit int) *workerGroup {
	if limit < 1 {
		limit = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &workerGroup{ctx: ctx, cancel: cancel, sem: make(chan struct{}, limit)}
}

// Go starts fn once a slot is free. It returns false without running fn when
// the group has already failed.
func (g *workerGroup) Go(fn func(ctx context.Context) error) bool {
	select {
	case g.sem <- struct{}{}:
	case <-g.ctx.Done():
		return false
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() { <-g.sem }()
		if err := fn(g.ctx); err != nil {
			g.fail(err)
		}
	}()
	return true
}

func (g *workerGroup) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err == nil {
		g.err = err
		g.cancel()
	}
}

// Wait blocks until every started worker returned and reports the first error.
func (g *workerGroup) Wait() error {
	g.wg.Wait()
	g.cancel()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}
