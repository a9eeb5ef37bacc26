package client

import (
	"context"
	"sync"
	"time"

	"github.com/palemoky/click-arena/internal/logger"
)

// DefaultPollInterval is the poll tick interval used when none is configured.
const DefaultPollInterval = time.Second

// Poller runs a fixed-interval poll loop. Each tick runs to completion
// before the next one is considered, so two poll cycles never overlap:
// the ticker fires into a single goroutine that fetches and applies
// sequentially. A slow poll simply delays the next tick.
type Poller struct {
	interval time.Duration
	tick     func(ctx context.Context)

	mu      sync.Mutex
	done    chan struct{}
	running bool
}

// NewPoller creates a poller invoking tick at the given interval.
func NewPoller(interval time.Duration, tick func(ctx context.Context)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval, tick: tick}
}

// Start begins the poll loop. No-op if already running.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.done = make(chan struct{})

	go p.run(p.done)
}

// Stop cancels the poll loop. Idempotent if already stopped.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	close(p.done)
}

// IsRunning reports whether the loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) run(done chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.safeTick(done)
		case <-done:
			return
		}
	}
}

// safeTick runs one tick; a failing tick must never kill the loop,
// so panics are contained per tick.
func (p *Poller) safeTick(done chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 停止时取消仍在进行的请求
	go func() {
		select {
		case <-done:
			cancel()
		case <-ctx.Done():
		}
	}()

	p.tick(ctx)
}
