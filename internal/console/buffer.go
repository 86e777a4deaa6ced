package console

import (
	"strings"
	"sync"
	"time"

	"github.com/craftdeck/craftdeck/internal/metrics"
)

// DefaultFlushInterval is the period between console batch deliveries.
const DefaultFlushInterval = 500 * time.Millisecond

// FlushFunc receives a newline-joined batch of formatted console lines.
type FlushFunc func(text string)

// Aggregator accumulates classified lines and releases them to a sink in
// time-boxed batches, so a chatty child process produces a bounded rate of
// cross-goroutine notifications. Lines are delivered in append order,
// exactly once. The sink is always invoked outside the buffer lock, so a
// slow or reentrant sink cannot stall the reader.
type Aggregator struct {
	mu    sync.Mutex
	lines []string

	sink    FlushFunc
	started bool
	done    chan struct{}
	flushed chan struct{}
	stop    sync.Once
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		done:    make(chan struct{}),
		flushed: make(chan struct{}),
	}
}

// Append buffers one classified line. Safe for concurrent use with the
// flusher.
func (a *Aggregator) Append(line ClassifiedLine) {
	a.mu.Lock()
	a.lines = append(a.lines, line.Formatted())
	a.mu.Unlock()
}

// Start launches the flusher goroutine delivering batches to sink every
// interval. Must be called at most once.
func (a *Aggregator) Start(interval time.Duration, sink FlushFunc) {
	a.sink = sink
	a.started = true
	go a.run(interval)
}

func (a *Aggregator) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.Flush()
		case <-a.done:
			// Final drain so output racing shutdown is not lost.
			a.Flush()
			close(a.flushed)
			return
		}
	}
}

// Flush delivers the buffered lines as one newline-joined batch. An empty
// buffer produces no sink invocation.
func (a *Aggregator) Flush() {
	a.mu.Lock()
	if len(a.lines) == 0 {
		a.mu.Unlock()
		return
	}
	text := strings.Join(a.lines, "\n")
	a.lines = nil
	a.mu.Unlock()
	a.sink(text)
	metrics.Flushes.Inc()
}

// Stop halts the flusher after one final flush. When Stop returns, the
// sink will not be invoked again.
func (a *Aggregator) Stop() {
	a.stop.Do(func() {
		if !a.started {
			return
		}
		close(a.done)
		<-a.flushed
	})
}
