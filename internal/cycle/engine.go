package cycle

import (
	"github.com/rs/zerolog"

	"winctl/internal/platform"
	"winctl/internal/registry"
)

// Direction is the signed step applied when walking the window order.
type Direction int

const (
	Next Direction = 1
	Prev Direction = -1
)

// Engine cycles focus among the windows of the active workspace under
// several adjacency policies. Every call operates on a fresh snapshot.
type Engine struct {
	session platform.Session
	deny    map[string]bool
	log     zerolog.Logger
}

// New creates an engine. Classes in denyClasses are never focused by
// the other-app and any-app policies.
func New(session platform.Session, denyClasses []string, log zerolog.Logger) *Engine {
	deny := make(map[string]bool, len(denyClasses))
	for _, c := range denyClasses {
		deny[registry.NormalizeClass(c)] = true
	}
	return &Engine{session: session, deny: deny, log: log}
}

// cycleContext is the shared substrate of all three policies: the
// ordered windows visible on the active workspace plus the identity of
// the active window.
type cycleContext struct {
	records     []registry.Record
	active      platform.WindowID
	activeID    string
	activeClass string
}

func (e *Engine) prepare() (*cycleContext, bool) {
	active, err := e.session.ActiveWindow()
	if err != nil || active == 0 {
		return nil, false
	}
	activeWS, err := e.session.ActiveWorkspace()
	if err != nil {
		return nil, false
	}
	snap, err := registry.Snapshot(e.session)
	if err != nil {
		e.log.Warn().Err(err).Msg("focus cycle: snapshot failed")
		return nil, false
	}

	var visible []registry.Record
	for _, r := range snap {
		if r.Workspace == activeWS || r.Workspace == -1 {
			visible = append(visible, r)
		}
	}
	if len(visible) == 0 {
		return nil, false
	}

	return &cycleContext{
		records:     visible,
		active:      active,
		activeID:    registry.ResolveID(e.session, active),
		activeClass: registry.Classify(e.session, active),
	}, true
}

// SameApp moves focus to the adjacent window of the active window's
// class. The class group is a single candidate set, so the position
// steps directly and wraps without scanning.
func (e *Engine) SameApp(dir Direction) bool {
	ctx, ok := e.prepare()
	if !ok {
		return false
	}

	var group []registry.Record
	idx := -1
	for _, r := range ctx.records {
		if r.Class != ctx.activeClass {
			continue
		}
		if r.Window == ctx.active {
			idx = len(group)
		}
		group = append(group, r)
	}
	if len(group) == 0 {
		return false
	}
	if idx == -1 {
		// Active window absent from the group: start one-before-first
		// for forward steps and at the first entry for backward, so the
		// first step lands correctly.
		if dir > 0 {
			idx = len(group) - 1
		} else {
			idx = 0
		}
	}

	target := group[(idx+int(dir)+len(group))%len(group)]
	return e.activate(target)
}

// OtherApp moves focus to the nearest window of a different class,
// skipping deny-listed classes. Fails after a full circuit with no
// eligible candidate.
func (e *Engine) OtherApp(dir Direction) bool {
	ctx, ok := e.prepare()
	if !ok {
		return false
	}

	// Singleton fast path: the circuit below would compare the only
	// window against itself and report no candidate, but a lone window
	// of a distinct, non-denied class is a valid target.
	if len(ctx.records) == 1 {
		r := ctx.records[0]
		if r.Window != ctx.active && r.Class != ctx.activeClass && !e.deny[r.Class] {
			return e.activate(r)
		}
		return false
	}

	return e.scan(ctx, dir, func(r registry.Record) bool {
		return r.Class != ctx.activeClass && !e.deny[r.Class]
	})
}

// AnyApp moves focus to the nearest window of any class, skipping only
// deny-listed classes and the active window itself.
func (e *Engine) AnyApp(dir Direction) bool {
	ctx, ok := e.prepare()
	if !ok {
		return false
	}

	return e.scan(ctx, dir, func(r registry.Record) bool {
		return r.ID != ctx.activeID && !e.deny[r.Class]
	})
}

// scan walks circularly outward from the active position, activating
// the first record the policy filter accepts.
func (e *Engine) scan(ctx *cycleContext, dir Direction, accept func(registry.Record) bool) bool {
	n := len(ctx.records)
	idx := -1
	for i, r := range ctx.records {
		if r.Window == ctx.active {
			idx = i
			break
		}
	}
	if idx == -1 {
		if dir > 0 {
			idx = n - 1
		} else {
			idx = 0
		}
	}

	for step := 1; step <= n; step++ {
		cand := ctx.records[((idx+step*int(dir))%n+n)%n]
		if !accept(cand) {
			continue
		}
		return e.activate(cand)
	}
	return false
}

func (e *Engine) activate(r registry.Record) bool {
	if minimized, err := e.session.Minimized(r.Window); err == nil && minimized {
		_ = e.session.Unminimize(r.Window)
	}
	if err := e.session.Activate(r.Window, e.session.Timestamp()); err != nil {
		e.log.Warn().Err(err).Str("window", r.ID).Msg("focus cycle: activation failed")
		return false
	}
	e.log.Debug().Str("window", r.ID).Str("class", r.Class).Msg("focus cycle: activated")
	return true
}
