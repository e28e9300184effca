package launch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"winctl/internal/platform"
	"winctl/internal/registry"
)

const (
	// DefaultTimeout bounds the whole watch: if no matching window
	// appears within it, the launch is considered abandoned.
	DefaultTimeout = 10 * time.Second
	// DefaultClassTimeout bounds the wait for a candidate window whose
	// class has not populated yet.
	DefaultClassTimeout = 5 * time.Second
	// DefaultSettleDelay is how long a terminal window gets to finish
	// its initial layout before the post-launch resize is applied.
	DefaultSettleDelay = 300 * time.Millisecond
)

// Options controls one launch-and-track run.
type Options struct {
	Command string // shell-like launch command line
	AppID   string // expected application class of the new window

	Timeout      time.Duration
	ClassTimeout time.Duration

	// TerminalCommands lists launch paths treated as terminal
	// emulators; their windows get the post-launch placement rule.
	TerminalCommands       []string
	TerminalWidthFraction  float64
	TerminalHeightFraction float64
	SettleDelay            time.Duration
}

func (o *Options) applyDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.ClassTimeout <= 0 {
		o.ClassTimeout = DefaultClassTimeout
	}
	if o.TerminalWidthFraction <= 0 {
		o.TerminalWidthFraction = 0.4
	}
	if o.TerminalHeightFraction <= 0 {
		o.TerminalHeightFraction = 0.5
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
}

// Tracker spawns external commands and watches for their windows.
type Tracker struct {
	session platform.Session
	log     zerolog.Logger
}

// New creates a tracker bound to a session.
func New(session platform.Session, log zerolog.Logger) *Tracker {
	return &Tracker{session: session, log: log}
}

// LaunchHere spawns the command and asynchronously waits for a window
// of the expected class to appear, then pulls it to the current
// workspace and focuses it. The returned error reflects only the spawn:
// post-spawn match failures are silent by design, since the caller has
// already been told the spawn succeeded.
func (t *Tracker) LaunchHere(opts Options) error {
	opts.applyDefaults()

	argv, err := SplitCommand(opts.Command)
	if err != nil {
		return err
	}
	if len(argv) == 0 {
		return fmt.Errorf("empty launch command")
	}
	expected := registry.NormalizeClass(opts.AppID)
	if expected == "" {
		return fmt.Errorf("empty application id")
	}

	// Windows at or below this key predate the launch and must never
	// be treated as the launched window.
	var threshold int64
	if snap, err := registry.Snapshot(t.session); err == nil {
		threshold = registry.MaxOrderKey(snap)
	}

	if err := t.session.Spawn(argv); err != nil {
		return err
	}

	w := &watch{
		tracker:   t,
		opts:      opts,
		argv:      argv,
		expected:  expected,
		threshold: threshold,
	}
	w.start()
	return nil
}

// watch is the state of one in-flight launch. All subscriptions and
// timers it creates are released on every exit path: match, class
// sub-timeout, or outer timeout.
type watch struct {
	tracker   *Tracker
	opts      Options
	argv      []string
	expected  string
	threshold int64

	mu         sync.Mutex
	done       bool
	createdSub platform.Subscription
	outerTimer *time.Timer
	classSub   platform.Subscription
	classTimer *time.Timer
}

func (w *watch) start() {
	w.mu.Lock()
	sub, err := w.tracker.session.WatchCreated(w.onCreated)
	if err != nil {
		w.mu.Unlock()
		w.tracker.log.Warn().Err(err).Str("app", w.expected).Msg("launch: cannot watch window creation")
		return
	}
	w.createdSub = sub
	w.outerTimer = time.AfterFunc(w.opts.Timeout, w.onOuterTimeout)
	w.mu.Unlock()
}

func (w *watch) onCreated(id platform.WindowID) {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()
		return
	}

	key := registry.ResolveOrderKey(w.tracker.session, id)
	if key <= w.threshold {
		w.mu.Unlock()
		return
	}

	class := registry.Classify(w.tracker.session, id)
	if class == w.expected {
		w.finishLocked(id)
		return
	}

	// The class may populate asynchronously. Watch this candidate for a
	// bounded time; a newer candidate replaces an older one.
	w.dropClassWatchLocked()
	classSub, err := w.tracker.session.WatchClass(id, func() { w.onClassChanged(id) })
	if err == nil {
		w.classSub = classSub
		w.classTimer = time.AfterFunc(w.opts.ClassTimeout, w.onClassTimeout)
	}
	w.mu.Unlock()
}

func (w *watch) onClassChanged(id platform.WindowID) {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()
		return
	}
	if registry.Classify(w.tracker.session, id) != w.expected {
		w.mu.Unlock()
		return
	}
	w.finishLocked(id)
}

func (w *watch) onClassTimeout() {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()
		return
	}
	// Release only the class-change subscription; the outer watch
	// continues in case another new window matches.
	w.dropClassWatchLocked()
	w.mu.Unlock()
}

func (w *watch) onOuterTimeout() {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()
		return
	}
	w.done = true
	w.releaseAllLocked()
	w.mu.Unlock()
	w.tracker.log.Debug().Str("app", w.expected).Msg("launch: no matching window before timeout")
}

// finishLocked tears down the whole watch and runs post-launch
// placement. The outer subscription is released before any further
// action so no other candidate can be considered. Unlocks w.mu.
func (w *watch) finishLocked(id platform.WindowID) {
	w.done = true
	w.releaseAllLocked()
	w.mu.Unlock()
	w.postLaunch(id)
}

func (w *watch) dropClassWatchLocked() {
	if w.classSub != nil {
		w.classSub.Cancel()
		w.classSub = nil
	}
	if w.classTimer != nil {
		w.classTimer.Stop()
		w.classTimer = nil
	}
}

func (w *watch) releaseAllLocked() {
	if w.createdSub != nil {
		w.createdSub.Cancel()
		w.createdSub = nil
	}
	if w.outerTimer != nil {
		w.outerTimer.Stop()
		w.outerTimer = nil
	}
	w.dropClassWatchLocked()
}

// postLaunch pulls the matched window to the active workspace, focuses
// it, and applies the terminal placement rule when the launch command
// is a known terminal emulator.
func (w *watch) postLaunch(id platform.WindowID) {
	session := w.tracker.session

	if ws, err := session.WindowWorkspace(id); err == nil && ws != -1 {
		if active, err := session.ActiveWorkspace(); err == nil && ws != active {
			_ = session.SetWindowWorkspace(id, active)
		}
	}
	if minimized, err := session.Minimized(id); err == nil && minimized {
		_ = session.Unminimize(id)
	}
	if err := session.Activate(id, session.Timestamp()); err != nil {
		w.tracker.log.Warn().Err(err).Str("app", w.expected).Msg("launch: activation failed")
	}

	if !w.isTerminalLaunch() {
		return
	}
	// Give the terminal a moment to finish its initial layout, then
	// size it to a fraction of the current monitor. Product-specific
	// placement, not a general policy.
	time.AfterFunc(w.opts.SettleDelay, func() {
		mon, err := session.ActiveMonitor()
		if err != nil {
			return
		}
		bounds := platform.Rect{
			Width:  int(float64(mon.Width) * w.opts.TerminalWidthFraction),
			Height: int(float64(mon.Height) * w.opts.TerminalHeightFraction),
		}
		if frame, err := session.Frame(id); err == nil {
			bounds.X = frame.X
			bounds.Y = frame.Y
		}
		_ = session.MoveResize(id, bounds)
	})
}

func (w *watch) isTerminalLaunch() bool {
	launched := filepath.Base(w.argv[0])
	for _, term := range w.opts.TerminalCommands {
		if term == "" {
			continue
		}
		if w.argv[0] == term || launched == filepath.Base(term) {
			return true
		}
	}
	return false
}
