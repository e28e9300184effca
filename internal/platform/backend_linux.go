//go:build linux

package platform

import (
	"fmt"
	"os/exec"

	"github.com/BurntSushi/xgb/xproto"

	"winctl/internal/x11"
)

// X11Session implements Session on top of an X11/EWMH connection plus
// the window tracker that supplies creation sequence numbers and event
// notifications.
type X11Session struct {
	conn    *x11.Connection
	tracker *x11.Tracker
}

var _ Session = (*X11Session)(nil)

// NewX11Session wraps an existing connection and tracker.
func NewX11Session(conn *x11.Connection, tracker *x11.Tracker) *X11Session {
	return &X11Session{conn: conn, tracker: tracker}
}

func (s *X11Session) Windows() ([]WindowID, error) {
	clients, err := s.conn.ClientList()
	if err != nil {
		return nil, err
	}
	ids := make([]WindowID, len(clients))
	for i, w := range clients {
		ids[i] = WindowID(w)
	}
	return ids, nil
}

func (s *X11Session) ActiveWindow() (WindowID, error) {
	w, err := s.conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(w), nil
}

// NativeID returns the X resource id itself; on X11 the handle and the
// cross-display id are the same value.
func (s *X11Session) NativeID(id WindowID) (uint32, error) {
	if id == 0 {
		return 0, fmt.Errorf("zero window id")
	}
	return uint32(id), nil
}

func (s *X11Session) Sequence(id WindowID) (uint32, error) {
	return s.tracker.Sequence(xproto.Window(id))
}

func (s *X11Session) Class(id WindowID) (string, string, error) {
	return s.conn.WindowClass(xproto.Window(id))
}

func (s *X11Session) AppID(id WindowID) (string, error) {
	return s.conn.WindowApp(xproto.Window(id))
}

func (s *X11Session) Title(id WindowID) (string, error) {
	return s.conn.WindowTitle(xproto.Window(id))
}

func (s *X11Session) Frame(id WindowID) (Rect, error) {
	x, y, w, h, err := s.conn.WindowRect(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

func (s *X11Session) Minimized(id WindowID) (bool, error) {
	return s.conn.IsMinimized(xproto.Window(id))
}

func (s *X11Session) WindowTypes(id WindowID) ([]string, error) {
	return s.conn.WindowTypes(xproto.Window(id))
}

func (s *X11Session) SkipTaskbar(id WindowID) (bool, error) {
	return s.conn.SkipTaskbar(xproto.Window(id))
}

func (s *X11Session) WindowWorkspace(id WindowID) (int, error) {
	return s.conn.GetWindowDesktop(xproto.Window(id))
}

func (s *X11Session) ActiveWorkspace() (int, error) {
	return s.conn.GetCurrentDesktop()
}

func (s *X11Session) WorkspaceCount() (int, error) {
	return s.conn.GetDesktopCount()
}

func (s *X11Session) Activate(id WindowID, timestamp uint32) error {
	return s.conn.ActivateWindow(xproto.Window(id), timestamp)
}

func (s *X11Session) Unminimize(id WindowID) error {
	return s.conn.UnminimizeWindow(xproto.Window(id))
}

func (s *X11Session) MoveResize(id WindowID, bounds Rect) error {
	return s.conn.MoveResizeWindow(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

func (s *X11Session) SetWindowWorkspace(id WindowID, workspace int) error {
	return s.conn.SetWindowDesktop(xproto.Window(id), workspace)
}

func (s *X11Session) SwitchWorkspace(workspace int, timestamp uint32) error {
	return s.conn.SwitchDesktop(workspace, timestamp)
}

func (s *X11Session) ActiveMonitor() (Rect, error) {
	mon, err := s.conn.GetActiveMonitor()
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}, nil
}

func (s *X11Session) Timestamp() uint32 {
	return s.conn.Timestamp()
}

func (s *X11Session) Spawn(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %q: %w", argv[0], err)
	}
	// Launched programs are long-lived; reap in the background.
	go func() { _ = cmd.Wait() }()
	return nil
}

func (s *X11Session) WatchCreated(fn func(WindowID)) (Subscription, error) {
	cancel := s.tracker.WatchCreated(func(w xproto.Window) {
		fn(WindowID(w))
	})
	return funcSub(cancel), nil
}

func (s *X11Session) WatchClass(id WindowID, fn func()) (Subscription, error) {
	cancel, err := s.tracker.WatchClass(xproto.Window(id), fn)
	if err != nil {
		return nil, err
	}
	return funcSub(cancel), nil
}

type funcSub func()

func (f funcSub) Cancel() { f() }
