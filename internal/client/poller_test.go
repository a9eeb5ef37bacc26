package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller_StartStop(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	ticks := 0
	p := NewPoller(10*time.Millisecond, func(ctx context.Context) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})

	p.Start()
	assert.True(t, p.IsRunning())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks >= 2
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	assert.False(t, p.IsRunning())

	mu.Lock()
	after := ticks
	mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.LessOrEqual(t, ticks, after+1, "停止后不再触发")
	mu.Unlock()
}

func TestPoller_StartIdempotent(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	ticks := 0
	p := NewPoller(20*time.Millisecond, func(ctx context.Context) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})

	p.Start()
	p.Start()
	p.Start()
	defer p.Stop()

	time.Sleep(110 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	// 单个循环：多次 Start 不会成倍触发
	assert.LessOrEqual(t, ticks, 7)
}

func TestPoller_StopIdempotent(t *testing.T) {
	t.Parallel()

	p := NewPoller(10*time.Millisecond, func(ctx context.Context) {})
	p.Start()
	p.Stop()
	assert.NotPanics(t, func() { p.Stop() })
}

func TestPoller_TicksNeverOverlap(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0

	p := NewPoller(5*time.Millisecond, func(ctx context.Context) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		// 慢轮询：超过一个间隔
		time.Sleep(15 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
	})

	p.Start()
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxInFlight, "同一时刻最多一个轮询在执行")
}

func TestPoller_PanicInTickKeepsLoopAlive(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	ticks := 0
	p := NewPoller(10*time.Millisecond, func(ctx context.Context) {
		mu.Lock()
		ticks++
		n := ticks
		mu.Unlock()
		if n == 1 {
			panic("boom")
		}
	})

	p.Start()
	defer p.Stop()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks >= 3
	}, time.Second, 5*time.Millisecond, "首次 panic 后循环继续")
}

func TestPoller_RestartAfterStop(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	ticks := 0
	p := NewPoller(10*time.Millisecond, func(ctx context.Context) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})

	p.Start()
	time.Sleep(30 * time.Millisecond)
	p.Stop()

	mu.Lock()
	ticks = 0
	mu.Unlock()

	p.Start()
	defer p.Stop()
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks >= 1
	}, time.Second, 5*time.Millisecond)
}
