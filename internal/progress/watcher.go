package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

const DefaultInterval = 100 * time.Millisecond

// Watcher polls the status file and prints a line for every distinct
// percentage value it observes.
type Watcher struct {
	// Path of the status file. It does not have to exist yet.
	Path string

	// Interval between polls. Default: DefaultInterval.
	Interval time.Duration

	// Out is where progress lines are written. Default: os.Stdout.
	Out io.Writer

	// OnUpdate, if set, is invoked for every reported change.
	OnUpdate func(Record)
}

// Watch polls until sig is set. It sets sig itself once the reported
// percentage reaches 100. The signal is re-checked at the top of every
// iteration, so at most one extra read happens after an external Set.
func (w *Watcher) Watch(sig *Signal) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	out := w.Out
	if out == nil {
		out = os.Stdout
	}

	var lastPct float64
	reported := false

	for !sig.Fired() {
		rec, ok := ReadStatus(w.Path)
		if !ok {
			time.Sleep(interval)
			continue
		}

		if !reported || rec.Percentage != lastPct {
			fmt.Fprintln(out, formatRecord(rec))
			lastPct = rec.Percentage
			reported = true
			if w.OnUpdate != nil {
				w.OnUpdate(rec)
			}
		}

		if rec.Percentage >= 100 {
			fmt.Fprintln(out, "Download complete.")
			sig.Set()
		}

		time.Sleep(interval)
	}
}
