// Package engine exposes the search and interaction operations as methods on
// an explicit Session. Every operation reacquires the tree root at its start
// and never retains a node after returning.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/interact"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
	"github.com/devicelab-dev/uiprobe/pkg/script"
	"github.com/devicelab-dev/uiprobe/pkg/target"
)

// SwipePreset is a fixed two-point swipe.
type SwipePreset struct {
	From core.Point
	To   core.Point
}

// Pacing holds the temporal and geometric defaults of a session.
type Pacing struct {
	BulkDelay      time.Duration // pause between successful bulk actions
	MaxActions     int           // default bulk cap; <= 0 means no limit
	Dedup          bool          // default bulk dedup
	TapDuration    time.Duration
	SwipeDuration  time.Duration
	ScrollDuration time.Duration
	ScrollDown     SwipePreset
	ScrollUp       SwipePreset
	NearTolerance  float64 // TapNear default radius in pixels

	// EnterFallback is the screen fraction tapped by PressEnter when no
	// enter button or focused field accepts the action.
	EnterFallback core.Point
}

// DefaultPacing returns the defaults used when no config overrides them.
func DefaultPacing() Pacing {
	return Pacing{
		BulkDelay:      500 * time.Millisecond,
		MaxActions:     0,
		Dedup:          true,
		TapDuration:    core.DefaultTapDuration,
		SwipeDuration:  core.DefaultSwipeDuration,
		ScrollDuration: 700 * time.Millisecond,
		ScrollDown:     SwipePreset{From: core.Point{X: 300, Y: 1200}, To: core.Point{X: 300, Y: 300}},
		ScrollUp:       SwipePreset{From: core.Point{X: 550, Y: 1100}, To: core.Point{X: 550, Y: 1400}},
		NearTolerance:  50,
		EnterFallback:  core.Point{X: 0.5, Y: 0.6},
	}
}

// Session is the engine context. It holds the host collaborators and the
// target table; it has no other state between operations.
type Session struct {
	tree       core.TreeProvider
	actions    core.ActionExecutor
	gestures   core.GestureExecutor
	dispatcher *interact.Dispatcher
	sequencer  *interact.Sequencer
	text       *interact.TextEntry
	targets    map[string]target.Target
	pacing     Pacing
	vars       *script.Engine
	sleep      func(time.Duration)
}

// Option configures a Session.
type Option func(*Session)

// WithTargets merges a target table over the built-in defaults.
func WithTargets(targets map[string]target.Target) Option {
	return func(s *Session) {
		for name, t := range targets {
			s.targets[name] = t
		}
	}
}

// WithPacing replaces the pacing defaults.
func WithPacing(p Pacing) Option {
	return func(s *Session) { s.pacing = p }
}

// WithSleep replaces the blocking pause used between bulk actions.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Session) { s.sleep = sleep }
}

// WithVariables makes ${name} expansion available in typed text.
func WithVariables(vars map[string]interface{}) Option {
	return func(s *Session) {
		if s.vars == nil {
			s.vars = script.New()
		}
		s.vars.SetVariables(vars)
	}
}

// New creates a session. gestures may be nil, which disables the gesture tier.
func New(tree core.TreeProvider, actions core.ActionExecutor, gestures core.GestureExecutor, opts ...Option) *Session {
	s := &Session{
		tree:     tree,
		actions:  actions,
		gestures: gestures,
		targets:  target.Defaults(),
		pacing:   DefaultPacing(),
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.dispatcher = interact.NewDispatcher(actions, gestures)
	s.dispatcher.TapDuration = s.pacing.TapDuration
	s.sequencer = interact.NewSequencer(s.dispatcher)
	s.sequencer.Sleep = s.sleep
	s.text = interact.NewTextEntry(actions)
	return s
}

// NewFromHost creates a session over a backend implementing all three collaborators.
func NewFromHost(h core.Host, opts ...Option) *Session {
	return New(h, h, h, opts...)
}

// Targets returns the names and definitions of the target table.
func (s *Session) Targets() map[string]target.Target {
	out := make(map[string]target.Target, len(s.targets))
	for k, v := range s.targets {
		out[k] = v
	}
	return out
}

// Pacing returns the session pacing.
func (s *Session) Pacing() Pacing {
	return s.pacing
}

// operation carries per-call logging context.
type operation struct {
	id    string
	name  string
	start time.Time
	log   *logrus.Entry
}

func newOperation(name string) *operation {
	id := uuid.NewString()[:8]
	return &operation{
		id:    id,
		name:  name,
		start: time.Now(),
		log:   logger.WithOperation(id, name),
	}
}

// finish stamps the result and logs it.
func (op *operation) finish(r *core.ActionResult) *core.ActionResult {
	r.OperationID = op.id
	r.Duration = time.Since(op.start)
	entry := op.log.WithFields(logrus.Fields{
		"outcome":  r.Outcome.String(),
		"duration": r.Duration,
	})
	if r.Success {
		entry.Info(r.Message)
	} else {
		entry.Warn(r.ErrorText())
	}
	return r
}

// finishBulk stamps a bulk result and logs it.
func (op *operation) finishBulk(r *core.BulkResult) *core.BulkResult {
	r.OperationID = op.id
	entry := op.log.WithFields(logrus.Fields{
		"attempted": r.Attempted,
		"succeeded": r.Succeeded,
		"skipped":   r.Skipped,
		"duration":  time.Since(op.start),
	})
	if r.Error != nil {
		entry.Warn(r.Error.Error())
	} else {
		entry.Info("bulk finished")
	}
	return r
}

// finishCount stamps a count result and logs it.
func (op *operation) finishCount(r *core.CountResult) *core.CountResult {
	r.OperationID = op.id
	entry := op.log.WithFields(logrus.Fields{
		"total":     r.Total,
		"succeeded": r.Succeeded,
	})
	if r.Error != nil {
		entry.Warn(r.Error.Error())
	} else {
		entry.Info("count finished")
	}
	return r
}

// root reacquires the tree root for this operation.
func (s *Session) root(op *operation) (*core.Node, error) {
	if s.tree == nil {
		return nil, core.ErrNoActiveTree.WithMessage("no tree provider")
	}
	root, err := s.tree.Root()
	if err != nil {
		op.log.WithError(err).Debug("tree acquisition failed")
		return nil, core.ErrNoActiveTree.WithCause(err)
	}
	if root == nil {
		return nil, core.ErrNoActiveTree
	}
	return root, nil
}

func (s *Session) expand(text string) string {
	if s.vars == nil {
		return text
	}
	return s.vars.ExpandVariables(text)
}
