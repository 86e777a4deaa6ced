// Package stats samples resource usage of the running server process
// and keeps a rolling history in the database.
package stats

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/procfs"

	"github.com/craftdeck/craftdeck/internal/console"
)

// Sample is one resource usage reading.
type Sample struct {
	ID          int64   `json:"id"`
	CPUPercent  float64 `json:"cpu_percent"`
	MemoryBytes int64   `json:"memory_bytes"`
	State       string  `json:"state"`
	RecordedAt  string  `json:"recorded_at"`
}

// Target is the process being watched.
type Target interface {
	Pid() int
	State() console.State
}

// Collector samples the target every interval, stores readings, and
// fans them out to subscribers.
type Collector struct {
	db       *sql.DB
	target   Target
	interval time.Duration

	mu        sync.RWMutex
	latest    *Sample
	listeners []chan *Sample

	// previous CPU reading, for the usage delta
	lastPid     int
	lastCPUTime float64
	lastSampled time.Time

	cancel context.CancelFunc
}

func NewCollector(db *sql.DB, target Target) *Collector {
	return &Collector{db: db, target: target, interval: 10 * time.Second}
}

func (c *Collector) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		// Run immediately on start
		c.collect()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.collect()
			}
		}
	}()

	log.Printf("Stats collector started (%s interval)", c.interval)
}

func (c *Collector) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Collector) collect() {
	state := c.target.State()
	pid := c.target.Pid()
	if state != console.Running || pid == 0 {
		c.mu.Lock()
		c.lastPid = 0
		c.mu.Unlock()
		return
	}

	sample, err := c.sample(pid, state)
	if err != nil {
		log.Printf("stats: sample pid %d: %v", pid, err)
		return
	}

	_, err = c.db.Exec(
		`INSERT INTO stats (cpu_percent, memory_bytes, state, recorded_at) VALUES (?, ?, ?, ?)`,
		sample.CPUPercent, sample.MemoryBytes, sample.State, sample.RecordedAt,
	)
	if err != nil {
		log.Printf("stats: insert: %v", err)
	}

	// Fan out under the lock: the sends never block, and Unsubscribe
	// closes channels under the same lock.
	c.mu.Lock()
	c.latest = sample
	for _, ch := range c.listeners {
		select {
		case ch <- sample:
		default:
			// Drop if listener is slow
		}
	}
	c.mu.Unlock()

	// Cleanup old stats (older than 24 hours)
	_, err = c.db.Exec("DELETE FROM stats WHERE recorded_at < datetime('now', '-24 hours')")
	if err != nil {
		log.Printf("stats: cleanup: %v", err)
	}
}

func (c *Collector) sample(pid int, state console.State) (*Sample, error) {
	proc, err := procfs.NewProc(pid)
	if err != nil {
		return nil, err
	}
	stat, err := proc.Stat()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cpuTime := stat.CPUTime()

	c.mu.Lock()
	var cpuPercent float64
	if c.lastPid == pid && !c.lastSampled.IsZero() {
		wall := now.Sub(c.lastSampled).Seconds()
		if delta := cpuTime - c.lastCPUTime; wall > 0 && delta > 0 {
			cpuPercent = delta / wall * 100.0
		}
	}
	c.lastPid = pid
	c.lastCPUTime = cpuTime
	c.lastSampled = now
	c.mu.Unlock()

	return &Sample{
		CPUPercent:  cpuPercent,
		MemoryBytes: int64(stat.ResidentMemory()),
		State:       state.String(),
		RecordedAt:  now.UTC().Format(time.RFC3339),
	}, nil
}

// Latest returns the most recent sample, or nil before the first one.
func (c *Collector) Latest() *Sample {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// History returns stored samples since the given time, oldest first.
func (c *Collector) History(since time.Time) ([]*Sample, error) {
	rows, err := c.db.Query(
		`SELECT id, cpu_percent, memory_bytes, state, recorded_at FROM stats WHERE recorded_at >= ? ORDER BY recorded_at ASC`,
		since.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := []*Sample{}
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.ID, &s.CPUPercent, &s.MemoryBytes, &s.State, &s.RecordedAt); err != nil {
			return nil, err
		}
		samples = append(samples, &s)
	}
	return samples, rows.Err()
}

func (c *Collector) Subscribe() chan *Sample {
	ch := make(chan *Sample, 1)
	c.mu.Lock()
	c.listeners = append(c.listeners, ch)
	c.mu.Unlock()
	return ch
}

func (c *Collector) Unsubscribe(ch chan *Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, l := range c.listeners {
		if l == ch {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}
