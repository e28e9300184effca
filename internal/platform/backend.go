package platform

// WindowID is a platform-neutral window identifier. It is opaque to the
// service core: everything the core learns about a window goes through
// the Session interface.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Subscription is a cancellable event registration. Cancel is idempotent.
type Subscription interface {
	Cancel()
}

// Session abstracts the window system consumed by the service. The
// Linux implementation speaks X11/EWMH; tests use FakeSession.
//
// Read methods report an error when the underlying property cannot be
// resolved (window closed, property absent). Callers decide how to
// degrade; no read failure is fatal.
type Session interface {
	// Enumeration and focus state.
	Windows() ([]WindowID, error)
	ActiveWindow() (WindowID, error)

	// Per-window reads.
	NativeID(id WindowID) (uint32, error)
	Sequence(id WindowID) (uint32, error)
	Class(id WindowID) (instance, class string, err error)
	AppID(id WindowID) (string, error)
	Title(id WindowID) (string, error)
	Frame(id WindowID) (Rect, error)
	Minimized(id WindowID) (bool, error)
	WindowTypes(id WindowID) ([]string, error)
	SkipTaskbar(id WindowID) (bool, error)
	// WindowWorkspace returns -1 for windows pinned to all workspaces.
	WindowWorkspace(id WindowID) (int, error)

	// Workspace reads.
	ActiveWorkspace() (int, error)
	WorkspaceCount() (int, error)

	// Per-window writes.
	Activate(id WindowID, timestamp uint32) error
	Unminimize(id WindowID) error
	MoveResize(id WindowID, bounds Rect) error
	SetWindowWorkspace(id WindowID, workspace int) error

	// Workspace writes.
	SwitchWorkspace(workspace int, timestamp uint32) error

	// ActiveMonitor returns the work-area geometry of the monitor that
	// currently holds focus.
	ActiveMonitor() (Rect, error)

	// Timestamp returns an event timestamp suitable for activation and
	// workspace-switch requests.
	Timestamp() uint32

	// Spawn starts an external command without waiting for it.
	Spawn(argv []string) error

	// WatchCreated registers fn to run for every window the session
	// learns about after this call.
	WatchCreated(fn func(WindowID)) (Subscription, error)

	// WatchClass registers fn to run when the class metadata of the
	// given window changes.
	WatchClass(id WindowID, fn func()) (Subscription, error)
}
