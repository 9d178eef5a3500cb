package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatRecord(t *testing.T) {
	tests := []struct {
		rec  Record
		want string
	}{
		{Record{Percentage: 45.5, Downloaded: 455, Total: 1000}, " 45.50%  (455/1000 bytes) YIPEEE!"},
		{Record{Percentage: 100, Downloaded: 1000, Total: 1000}, "100.00%  (1000/1000 bytes) YIPEEE!"},
		{Record{Percentage: 5, Downloaded: 0, Total: 100}, "  5.00%  (0/100 bytes) YIPEEE!"},
		{Record{Percentage: 45.5}, " 45.50%  (percent-only)"},
		{Record{Percentage: 100}, "100.00%  (percent-only)"},
		{Record{}, "  0.00%  (percent-only)"},
	}

	for _, tt := range tests {
		if got := formatRecord(tt.rec); got != tt.want {
			t.Errorf("formatRecord(%+v) = %q, want %q", tt.rec, got, tt.want)
		}
	}
}

func TestReadStatus(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, ok := ReadStatus(filepath.Join(dir, "absent.json")); ok {
			t.Error("expected ok=false for missing file")
		}
	})

	t.Run("partial json", func(t *testing.T) {
		path := filepath.Join(dir, "partial.json")
		os.WriteFile(path, []byte(`{"percentage": 45`), 0600)
		if _, ok := ReadStatus(path); ok {
			t.Error("expected ok=false for partial json")
		}
	})

	t.Run("missing fields default to zero", func(t *testing.T) {
		path := filepath.Join(dir, "sparse.json")
		os.WriteFile(path, []byte(`{"percentage": 45.5}`), 0600)
		rec, ok := ReadStatus(path)
		if !ok {
			t.Fatal("expected ok=true")
		}
		if rec.Percentage != 45.5 || rec.Downloaded != 0 || rec.Total != 0 {
			t.Errorf("unexpected record: %+v", rec)
		}
	})
}

func TestSignal(t *testing.T) {
	sig := NewSignal()
	if sig.Fired() {
		t.Error("new signal should be unset")
	}

	sig.Set()
	sig.Set() // idempotent
	if !sig.Fired() {
		t.Error("signal should be set")
	}

	select {
	case <-sig.Done():
	default:
		t.Error("Done channel should be closed after Set")
	}
}

// runWatcher starts a watcher against path and returns the signal, the
// output buffer, and a join function that stops the watcher and waits for
// it to exit before the buffer is read.
func runWatcher(t *testing.T, path string) (*Signal, *bytes.Buffer, func() string) {
	t.Helper()

	var buf bytes.Buffer
	sig := NewSignal()
	w := &Watcher{Path: path, Interval: 5 * time.Millisecond, Out: &buf}

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Watch(sig)
	}()

	return sig, &buf, func() string {
		sig.Set()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop")
		}
		return buf.String()
	}
}

func TestWatcherDedup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	if err := os.WriteFile(path, []byte(`{"percentage": 45.5, "downloaded": 455, "total": 1000}`), 0600); err != nil {
		t.Fatal(err)
	}

	_, _, join := runWatcher(t, path)
	time.Sleep(100 * time.Millisecond) // many reads of the same value
	output := join()

	want := " 45.50%  (455/1000 bytes) YIPEEE!\n"
	if n := strings.Count(output, want); n != 1 {
		t.Errorf("line printed %d times, want exactly once; output: %q", n, output)
	}
}

func TestWatcherPercentOnlyComplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	if err := os.WriteFile(path, []byte(`{"percentage": 100}`), 0600); err != nil {
		t.Fatal(err)
	}

	sig, _, join := runWatcher(t, path)

	select {
	case <-sig.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not signal completion")
	}
	output := join()

	want := "100.00%  (percent-only)\nDownload complete.\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestWatcherCompleteOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	if err := os.WriteFile(path, []byte(`{"percentage": 100, "downloaded": 10, "total": 10}`), 0600); err != nil {
		t.Fatal(err)
	}

	sig, _, join := runWatcher(t, path)
	<-sig.Done()
	time.Sleep(50 * time.Millisecond)
	output := join()

	if n := strings.Count(output, "Download complete.\n"); n != 1 {
		t.Errorf("completion line printed %d times, want 1; output: %q", n, output)
	}
}

func TestWatcherMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.json")

	_, _, join := runWatcher(t, path)
	time.Sleep(50 * time.Millisecond)
	output := join()

	if output != "" {
		t.Errorf("expected no output, got %q", output)
	}
}

func TestWatcherRecoversFromPartialWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	if err := os.WriteFile(path, []byte(`{"percentage": 45`), 0600); err != nil {
		t.Fatal(err)
	}

	_, _, join := runWatcher(t, path)
	time.Sleep(30 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"percentage": 45.5, "downloaded": 455, "total": 1000}`), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	output := join()

	if output != " 45.50%  (455/1000 bytes) YIPEEE!\n" {
		t.Errorf("output = %q", output)
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	if err := os.WriteFile(path, []byte(`{"percentage": 10, "downloaded": 100, "total": 1000}`), 0600); err != nil {
		t.Fatal(err)
	}

	var updates []Record
	var buf bytes.Buffer
	sig := NewSignal()
	w := &Watcher{
		Path:     path,
		Interval: 5 * time.Millisecond,
		Out:      &buf,
		OnUpdate: func(rec Record) { updates = append(updates, rec) },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Watch(sig)
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"percentage": 20, "downloaded": 200, "total": 1000}`), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	sig.Set()
	<-done

	want := " 10.00%  (100/1000 bytes) YIPEEE!\n 20.00%  (200/1000 bytes) YIPEEE!\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if len(updates) != 2 {
		t.Fatalf("OnUpdate called %d times, want 2", len(updates))
	}
	if updates[1].Percentage != 20 {
		t.Errorf("last update percentage = %v, want 20", updates[1].Percentage)
	}
}
