// Package depot supervises a single DepotDownloader run: it owns the
// transient status file, the watcher goroutine, and the child process.
package depot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/NethercraftMC5608/DepotDownloaderModified/internal/progress"
)

// ProgressFileEnv tells DepotDownloader where to write its JSON status
// file. The variable name is part of the external tool's contract.
const ProgressFileEnv = "DEPOTDOWNLOADER_PROGRESS_FILE"

const defaultJoinTimeout = 2 * time.Second

// Job identifies one depot download. All fields are required and passed to
// DepotDownloader verbatim; credentials end up as plain process arguments,
// which is how the external tool wants them.
type Job struct {
	AppID      string
	ManifestID string
	Username   string
	Password   string
}

// Supervisor runs DepotDownloader and reports its progress. The zero value
// is not usable; BinaryPath must be set.
type Supervisor struct {
	// BinaryPath is the DepotDownloader executable.
	BinaryPath string

	// Out receives progress lines and supervisor log lines.
	// Default: os.Stdout.
	Out io.Writer

	// ChildOutput receives the child's stdout and stderr. Default:
	// io.Discard, so the tool's own console output does not interleave
	// with the progress lines.
	ChildOutput io.Writer

	// WatcherInterval overrides the watcher's poll interval. Used by
	// tests; the default is progress.DefaultInterval.
	WatcherInterval time.Duration

	// JoinTimeout bounds the wait for the watcher during cleanup. A
	// watcher that misses the deadline is abandoned, not escalated.
	JoinTimeout time.Duration

	// OnUpdate is forwarded to the watcher.
	OnUpdate func(progress.Record)
}

// Run executes one download and blocks until the child exits, the status
// file reports 100%, or ctx is cancelled. Whichever comes first wins; the
// losing side is then drained. The only hard error is a failed launch (or
// an unwritable temp dir); everything that goes wrong during cleanup is
// swallowed.
func (s *Supervisor) Run(ctx context.Context, job Job) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	joinTimeout := s.JoinTimeout
	if joinTimeout <= 0 {
		joinTimeout = defaultJoinTimeout
	}

	// The file is created up front and the handle released immediately so
	// the child can overwrite it freely. Only the path is retained.
	statusPath := filepath.Join(os.TempDir(), "depot-progress-"+uuid.New().String()+".json")
	if err := os.WriteFile(statusPath, nil, 0600); err != nil {
		return fmt.Errorf("create status file: %w", err)
	}

	sig := progress.NewSignal()
	watcher := &progress.Watcher{
		Path:     statusPath,
		Interval: s.WatcherInterval,
		Out:      out,
		OnUpdate: s.OnUpdate,
	}

	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		watcher.Watch(sig)
	}()

	defer func() {
		sig.Set()
		select {
		case <-watcherDone:
		case <-time.After(joinTimeout):
		}
		if err := os.Remove(statusPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(out, "cleanup: remove status file: %v\n", err)
		}
	}()

	cmd := exec.Command(s.BinaryPath,
		"-app", job.AppID,
		"-pubfile", job.ManifestID,
		"-username", job.Username,
		"-password", job.Password,
	)
	cmd.Env = append(os.Environ(), ProgressFileEnv+"="+statusPath)

	childOut := s.ChildOutput
	if childOut == nil {
		childOut = io.Discard
	}
	cmd.Stdout = childOut
	cmd.Stderr = childOut

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.BinaryPath, err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case err := <-waitCh:
		// Any exit counts as done, code or no code. The error is surfaced
		// on Out for the operator but not returned.
		if err != nil {
			fmt.Fprintf(out, "downloader exited: %v\n", err)
		}
		return nil
	case <-sig.Done():
		s.terminate(cmd, waitCh, out)
		return nil
	case <-ctx.Done():
		s.terminate(cmd, waitCh, out)
		return ctx.Err()
	}
}

// terminate asks the child to stop and blocks until it has. No force-kill;
// DepotDownloader handles SIGTERM on its own.
func (s *Supervisor) terminate(cmd *exec.Cmd, waitCh <-chan error, out io.Writer) {
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Process already gone; Wait below still drains the exit status.
		fmt.Fprintf(out, "terminate downloader: %v\n", err)
	}
	if err := <-waitCh; err != nil {
		fmt.Fprintf(out, "downloader exited: %v\n", err)
	}
}
