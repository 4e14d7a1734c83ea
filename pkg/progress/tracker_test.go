package progress

import (
	"bytes"
	"testing"
	"time"
)

func TestTrackerStartStop(t *testing.T) {
	tr := New(1000)
	tr.SetQuiet(true)
	tr.Start()
	tr.AddBytes(500)
	time.Sleep(10 * time.Millisecond)
	tr.Stop()

	if got := tr.processed.Load(); got != 500 {
		t.Fatalf("expected 500 processed bytes, got %d", got)
	}
}

func TestTrackerDoubleStartIsNoOp(t *testing.T) {
	tr := New(0)
	tr.SetQuiet(true)
	tr.Start()
	tr.Start()
	tr.Stop()
}

func TestWriterForwardsToTracker(t *testing.T) {
	tr := New(100)
	tr.SetQuiet(true)
	var buf bytes.Buffer
	w := &Writer{W: &buf, Tracker: tr}

	n, err := w.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes written, got %d", n)
	}
	if got := tr.processed.Load(); got != 5 {
		t.Fatalf("expected tracker to record 5 bytes, got %d", got)
	}
}

func TestFormatSizeAndRate(t *testing.T) {
	if formatSize(512) != "512 B" {
		t.Fatalf("unexpected formatSize output: %s", formatSize(512))
	}
	if formatSize(2048) != "2.0 KiB" {
		t.Fatalf("unexpected formatSize output: %s", formatSize(2048))
	}
}
