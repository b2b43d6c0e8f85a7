package datasource

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/reoring/gviz/datatable"
	"github.com/reoring/gviz/logger"
)

// ResultFunc receives each refresh result; exactly one of dt and err is set.
type ResultFunc func(dt *datatable.DataTable, err error)

// Poller re-queries a data source at a fixed interval until stopped.
type Poller struct {
	client *Client
	source string
	query  string
	every  time.Duration
	fn     ResultFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller returns a poller that calls fn every interval.
func NewPoller(c *Client, source, query string, every time.Duration, fn ResultFunc) *Poller {
	return &Poller{client: c, source: source, query: query, every: every, fn: fn}
}

// Start begins polling in the background. The first query happens one
// interval after Start. Starting a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil || p.every <= 0 {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	log := logger.ComponentLogger("datasource.poller")
	lim := rate.NewLimiter(rate.Every(p.every), 1)
	lim.Allow() // spend the initial burst so the first query waits a full interval
	for {
		if err := lim.Wait(ctx); err != nil {
			return
		}
		dt, err := p.client.Query(ctx, p.source, p.query)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Warnw("refresh failed", logger.FieldURL, p.source, logger.FieldError, err)
		}
		p.fn(dt, err)
	}
}

// Stop cancels polling. It does not wait for an in-flight callback, so it may
// be called from inside one; use Wait for that.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// Wait blocks until a stopped poller's goroutine has exited.
func (p *Poller) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}
