package control

import (
	"github.com/rs/zerolog"

	"winctl/internal/platform"
	"winctl/internal/registry"
)

// FocusResult is the tri-state outcome of FocusByClass. Callers need to
// tell "nothing to focus" apart from "focusing broke".
type FocusResult int

const (
	FocusOK               FocusResult = 0
	FocusNoMatch          FocusResult = 1
	FocusActivationFailed FocusResult = 2
)

// Ops performs the idempotent window mutations exposed by the service.
// Each operation builds a fresh snapshot, validates its inputs, and
// reports failure as a boolean or code; internal errors never escape.
type Ops struct {
	session platform.Session
	log     zerolog.Logger
}

// New creates an Ops bound to a session.
func New(session platform.Session, log zerolog.Logger) *Ops {
	return &Ops{session: session, log: log}
}

// resolve normalizes a caller-supplied id and locates its record in a
// fresh snapshot.
func (o *Ops) resolve(id string) (registry.Record, bool) {
	canonical, err := registry.NormalizeID(id)
	if err != nil {
		o.log.Debug().Str("id", id).Msg("invalid window id")
		return registry.Record{}, false
	}
	snap, err := registry.Snapshot(o.session)
	if err != nil {
		o.log.Warn().Err(err).Msg("snapshot failed")
		return registry.Record{}, false
	}
	rec, ok := registry.Find(snap, canonical)
	if !ok {
		o.log.Debug().Str("id", canonical).Msg("window not found")
	}
	return rec, ok
}

// List renders the current snapshot as the stable text listing.
func (o *Ops) List() (string, error) {
	snap, err := registry.Snapshot(o.session)
	if err != nil {
		return "", err
	}
	return registry.Render(snap), nil
}

// ActiveWindowID returns the canonical id of the focused window, or an
// empty string when nothing has focus.
func (o *Ops) ActiveWindowID() string {
	active, err := o.session.ActiveWindow()
	if err != nil || active == 0 {
		return ""
	}
	return registry.ResolveID(o.session, active)
}

// ActiveWorkspace returns the zero-based active workspace index.
func (o *Ops) ActiveWorkspace() (int, error) {
	return o.session.ActiveWorkspace()
}

// ActivateRecord focuses a known record, following it to its workspace
// when it lives elsewhere. Workspace-switch failures are swallowed;
// activation is still attempted.
func (o *Ops) ActivateRecord(r registry.Record) error {
	if active, err := o.session.ActiveWorkspace(); err == nil && r.Workspace != -1 && r.Workspace != active {
		if err := o.session.SwitchWorkspace(r.Workspace, o.session.Timestamp()); err != nil {
			o.log.Debug().Err(err).Int("workspace", r.Workspace).Msg("workspace switch before activation failed")
		}
	}
	if minimized, err := o.session.Minimized(r.Window); err == nil && minimized {
		_ = o.session.Unminimize(r.Window)
	}
	return o.session.Activate(r.Window, o.session.Timestamp())
}

// Activate focuses the window with the given id.
func (o *Ops) Activate(id string) bool {
	rec, ok := o.resolve(id)
	if !ok {
		return false
	}
	if err := o.ActivateRecord(rec); err != nil {
		o.log.Warn().Err(err).Str("id", rec.ID).Msg("activation failed")
		return false
	}
	return true
}

// Resize changes a window's dimensions while preserving its position.
func (o *Ops) Resize(id string, width, height int) bool {
	if width <= 0 || height <= 0 {
		o.log.Debug().Int("width", width).Int("height", height).Msg("rejecting non-positive dimensions")
		return false
	}
	rec, ok := o.resolve(id)
	if !ok {
		return false
	}

	bounds := platform.Rect{Width: width, Height: height}
	if frame, err := o.session.Frame(rec.Window); err == nil {
		bounds.X = frame.X
		bounds.Y = frame.Y
	}
	if minimized, err := o.session.Minimized(rec.Window); err == nil && minimized {
		_ = o.session.Unminimize(rec.Window)
	}
	if err := o.session.MoveResize(rec.Window, bounds); err != nil {
		o.log.Warn().Err(err).Str("id", rec.ID).Msg("resize failed")
		return false
	}
	return true
}

// MoveToWorkspace relocates a window to the workspace at index. A
// window pinned to all workspaces is already everywhere: no-op success.
func (o *Ops) MoveToWorkspace(id string, workspace int) bool {
	rec, ok := o.resolve(id)
	if !ok {
		return false
	}
	count, err := o.session.WorkspaceCount()
	if err != nil || workspace < 0 || workspace >= count {
		return false
	}
	if rec.Workspace == -1 {
		return true
	}
	if err := o.session.SetWindowWorkspace(rec.Window, workspace); err != nil {
		o.log.Warn().Err(err).Str("id", rec.ID).Int("workspace", workspace).Msg("workspace move failed")
		return false
	}
	return true
}

// SwitchWorkspace activates the workspace at index.
func (o *Ops) SwitchWorkspace(workspace int) bool {
	if workspace < 0 {
		return false
	}
	count, err := o.session.WorkspaceCount()
	if err != nil || workspace >= count {
		return false
	}
	if err := o.session.SwitchWorkspace(workspace, o.session.Timestamp()); err != nil {
		o.log.Warn().Err(err).Int("workspace", workspace).Msg("workspace switch failed")
		return false
	}
	return true
}

// FocusByClass focuses the first window whose class key equals the
// input, preferring matches on the active workspace (or pinned) over
// off-workspace matches.
func (o *Ops) FocusByClass(class string) FocusResult {
	key := registry.NormalizeClass(class)
	if key == "" {
		return FocusNoMatch
	}
	snap, err := registry.Snapshot(o.session)
	if err != nil {
		o.log.Warn().Err(err).Msg("snapshot failed")
		return FocusNoMatch
	}
	activeWS, wsErr := o.session.ActiveWorkspace()

	var onWS, offWS *registry.Record
	for i := range snap {
		r := &snap[i]
		if r.Class != key {
			continue
		}
		if wsErr == nil && (r.Workspace == activeWS || r.Workspace == -1) {
			if onWS == nil {
				onWS = r
			}
		} else if offWS == nil {
			offWS = r
		}
	}

	target := onWS
	if target == nil {
		target = offWS
	}
	if target == nil {
		return FocusNoMatch
	}
	if err := o.ActivateRecord(*target); err != nil {
		o.log.Warn().Err(err).Str("id", target.ID).Msg("focus by class: activation failed")
		return FocusActivationFailed
	}
	return FocusOK
}
