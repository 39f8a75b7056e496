package interact

import (
	"time"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
)

// BulkOptions configures a bulk sequence.
type BulkOptions struct {
	MaxActions  int           // stop after this many acted outcomes; <= 0 means no limit
	Delay       time.Duration // blocking pause after each acted outcome before the next attempt
	Dedup       bool          // skip candidates whose bounds key was already processed
	GestureOnly bool          // tap centers instead of running the full fallback chain
}

// Sequencer applies a Dispatcher to a candidate list.
type Sequencer struct {
	Dispatcher *Dispatcher

	// Sleep blocks for the pacing delay. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// NewSequencer creates a sequencer over d.
func NewSequencer(d *Dispatcher) *Sequencer {
	return &Sequencer{Dispatcher: d, Sleep: time.Sleep}
}

// Run processes candidates in order. A failing candidate never aborts the
// sequence; every attempt gets its own result.
func (s *Sequencer) Run(candidates []*core.Node, opts BulkOptions) *core.BulkResult {
	sleep := s.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	result := &core.BulkResult{}
	seen := make(map[string]bool)
	pendingPause := false

	for _, n := range candidates {
		if opts.MaxActions > 0 && result.Succeeded >= opts.MaxActions {
			break
		}

		if n == nil {
			result.Add(core.Failed(core.ErrNotFound, "candidate vanished"))
			continue
		}

		if opts.Dedup {
			key := n.Bounds.Key()
			if seen[key] {
				result.Skipped++
				logger.Debug("skipping duplicate candidate %s", key)
				continue
			}
			seen[key] = true
		}

		if pendingPause && opts.Delay > 0 {
			sleep(opts.Delay)
		}

		var r *core.ActionResult
		if opts.GestureOnly {
			r = s.Dispatcher.Tap(n)
		} else {
			r = s.Dispatcher.Click(n)
		}
		result.Add(r)
		pendingPause = r.Acted()
	}

	logger.Info("bulk: attempted=%d succeeded=%d skipped=%d",
		result.Attempted, result.Succeeded, result.Skipped)
	return result
}
