// Package progress reports byte-level throughput for a single compress
// or decompress run: bytes processed against the tracked total, at a
// fixed reporting interval, until the run finishes or is stopped early.
package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Tracker reports progress for one run. It is not shared across runs —
// callers create one per Compress/Decompress call so concurrent CLI
// invocations (or tests) never share ticker state.
type Tracker struct {
	processed atomic.Uint64
	total     uint64
	done      chan struct{}
	quiet     bool

	mu      sync.Mutex
	running bool
}

// New creates a tracker for a run of the given total size. A total of 0
// disables percentage/ETA reporting and falls back to raw throughput.
func New(total uint64) *Tracker {
	return &Tracker{total: total}
}

// SetQuiet suppresses the periodic logger output, used by tests and by
// the CLI when --verbose is not passed.
func (t *Tracker) SetQuiet(quiet bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.quiet = quiet
}

// Start begins the reporting goroutine. Calling Start twice on the same
// tracker without an intervening Stop is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.processed.Store(0)
	t.done = make(chan struct{})
	t.running = true
	go t.logger()
}

// Stop ends the reporting goroutine and prints a final summary line
// unless the tracker is in quiet mode.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		close(t.done)
		t.running = false
	}
}

// AddBytes records n more bytes processed since the last call.
func (t *Tracker) AddBytes(n uint64) {
	if n > 0 {
		t.processed.Add(n)
	}
}

func (t *Tracker) logger() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var prevBytes uint64
	var prevPercentage float64
	startTime := time.Now()
	lastOutputTime := time.Now()

	for {
		select {
		case <-ticker.C:
			current := t.processed.Load()
			rate := (current - prevBytes) * 4
			prevBytes = current

			var currentPercentage float64
			if t.total > 0 {
				currentPercentage = float64(current) / float64(t.total) * 100
			}

			if t.quiet {
				prevPercentage = currentPercentage
				continue
			}

			timeSinceLastOutput := time.Since(lastOutputTime)
			percentageDiff := currentPercentage - prevPercentage
			if timeSinceLastOutput >= time.Second || percentageDiff >= 10 ||
				(currentPercentage >= 100 && prevPercentage < 100) {
				lastOutputTime = time.Now()
				t.printProgress(current, rate, currentPercentage)
			}
			prevPercentage = currentPercentage

		case <-t.done:
			if !t.quiet {
				totalTime := time.Since(startTime).Seconds()
				if totalTime < 0.001 {
					totalTime = 0.001
				}
				avgRate := uint64(float64(t.processed.Load()) / totalTime)
				fmt.Printf("done: %s in %.1fs (avg %s)\n",
					formatSize(t.processed.Load()), totalTime, formatRate(avgRate))
			}
			return
		}
	}
}

func (t *Tracker) printProgress(current, rate uint64, percentage float64) {
	if t.total == 0 {
		fmt.Printf("processed %s | %s\n", formatSize(current), formatRate(rate))
		return
	}

	eta := "calculating..."
	if rate > 0 && t.total > current {
		secondsRemaining := float64(t.total-current) / float64(rate)
		switch {
		case secondsRemaining < 60:
			eta = fmt.Sprintf("%.0fs", secondsRemaining)
		case secondsRemaining < 3600:
			eta = fmt.Sprintf("%.1fm", secondsRemaining/60)
		default:
			eta = fmt.Sprintf("%.1fh", secondsRemaining/3600)
		}
	}
	fmt.Printf("%s / %s (%.1f%%) | %s | eta %s\n",
		formatSize(current), formatSize(t.total), percentage, formatRate(rate), eta)
}

// formatSize returns a human-readable byte count, e.g. "4.2 MiB".
func formatSize(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatRate returns a human-readable throughput, e.g. "4.2 MiB/s".
func formatRate(bytesPerSec uint64) string {
	return formatSize(bytesPerSec) + "/s"
}

// Writer wraps an io.Writer, reporting every successful write to a
// Tracker. pkg/turbozip.Decompress uses it to count the bytes written to
// the restored output file without threading progress calls through
// every write site.
type Writer struct {
	W       io.Writer
	Tracker *Tracker
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.W.Write(p)
	if err == nil && n > 0 && w.Tracker != nil {
		w.Tracker.AddBytes(uint64(n))
	}
	return n, err
}
