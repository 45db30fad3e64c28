// ABOUTME: Host sample clock built on time.Ticker
// ABOUTME: Delivers ticks at an average rate, catching up in batches after late wakeups
package hal

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultResolution is how often the host clock wakes to deliver due ticks
const DefaultResolution = time.Millisecond

// TickerClock approximates a hardware sample timer on a host. Sample intervals are far
// shorter than the scheduler's wakeup granularity, so each wakeup delivers the ticks that
// came due since the last one. Ticks are delivered sequentially on one goroutine.
//
// With Preempt set, a tick that has run for longer than one interval is interrupted by the
// next one: a second goroutine delivers that tick while the first is still running, the way
// a timer interrupt nests over a slow handler. Leave Preempt unset for handlers that must
// never run concurrently with themselves.
type TickerClock struct {
	Resolution time.Duration
	Preempt    bool

	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}

	count  atomic.Int64
	nested atomic.Int64

	// the tick currently running on the dispatcher
	flight   sync.Mutex
	inFlight bool
	seq      int64
	started  time.Time
}

// Start begins tick delivery
func (c *TickerClock) Start(interval time.Duration, tick func()) error {
	if interval <= 0 {
		return fmt.Errorf("invalid tick interval: %v", interval)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopChan != nil {
		return fmt.Errorf("clock already running")
	}

	resolution := c.Resolution
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	c.stopChan = make(chan struct{})
	c.done = make(chan struct{})
	c.count.Store(0)
	c.nested.Store(0)

	log.Printf("Sample clock starting: interval=%v, resolution=%v, preempt=%v", interval, resolution, c.Preempt)

	go c.run(interval, resolution, tick, c.stopChan, c.done)
	return nil
}

func (c *TickerClock) run(interval, resolution time.Duration, tick func(), stop, done chan struct{}) {
	defer close(done)

	var wg sync.WaitGroup
	defer wg.Wait()
	if c.Preempt {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.watch(interval, resolution, tick, stop)
		}()
	}

	ticker := time.NewTicker(resolution)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			due := int64(now.Sub(start) / interval)
			// Only what was due on entry; ticks falling due meanwhile wait for the next wakeup.
			for batch := due - c.count.Load(); batch > 0 && c.count.Load() < due; batch-- {
				select {
				case <-stop:
					return
				default:
				}
				c.deliver(tick)
			}
		}
	}
}

// deliver runs one tick on the dispatcher and records it as in flight
func (c *TickerClock) deliver(tick func()) {
	seq := c.count.Add(1)

	c.flight.Lock()
	c.inFlight = true
	c.seq = seq
	c.started = time.Now()
	c.flight.Unlock()

	tick()

	c.flight.Lock()
	c.inFlight = false
	c.flight.Unlock()
}

// watch interrupts a dispatcher tick that has overstayed its interval with the next tick.
// Each dispatcher tick is interrupted at most once.
func (c *TickerClock) watch(interval, resolution time.Duration, tick func(), stop chan struct{}) {
	ticker := time.NewTicker(resolution)
	defer ticker.Stop()

	var last int64
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			c.flight.Lock()
			late := c.inFlight && c.seq != last && now.Sub(c.started) >= interval
			seq := c.seq
			c.flight.Unlock()

			if !late {
				continue
			}
			last = seq
			c.count.Add(1)
			c.nested.Add(1)
			tick()
		}
	}
}

// Stop halts the clock and waits for ticks in progress to return
func (c *TickerClock) Stop() {
	c.mu.Lock()
	stop, done := c.stopChan, c.done
	c.stopChan = nil
	c.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	log.Printf("Sample clock stopped after %d ticks (%d nested)", c.Delivered(), c.Nested())
}

// Delivered returns the number of ticks delivered, nested ones included
func (c *TickerClock) Delivered() int64 {
	return c.count.Load()
}

// Nested returns how many ticks were delivered over a tick still running
func (c *TickerClock) Nested() int64 {
	return c.nested.Load()
}
