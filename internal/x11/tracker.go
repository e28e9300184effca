package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Tracker assigns creation-order sequence numbers to top-level windows
// and fans out window-created and class-change notifications.
//
// Sequence numbers follow _NET_CLIENT_LIST order, which window managers
// maintain in initial mapping order. A window keeps its number for its
// whole lifetime; numbers are never reused while the daemon runs.
type Tracker struct {
	conn *Connection

	mu          sync.Mutex
	seq         map[xproto.Window]uint32
	next        uint32
	createdSubs map[int]func(xproto.Window)
	classSubs   map[int]classSub
	nextKey     int
	classAttach map[xproto.Window]bool

	clientListAtom xproto.Atom
	classAtom      xproto.Atom
}

type classSub struct {
	win xproto.Window
	fn  func()
}

// NewTracker creates a tracker bound to an X11 connection.
func NewTracker(conn *Connection) *Tracker {
	return &Tracker{
		conn:        conn,
		seq:         make(map[xproto.Window]uint32),
		createdSubs: make(map[int]func(xproto.Window)),
		classSubs:   make(map[int]classSub),
		classAttach: make(map[xproto.Window]bool),
	}
}

// Start primes sequence numbers from the current client list and hooks
// root-window property notifications so new windows are picked up as
// the window manager maps them. Must be called before the event loop.
func (t *Tracker) Start() error {
	var err error
	t.clientListAtom, err = xprop.Atm(t.conn.XUtil, "_NET_CLIENT_LIST")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_CLIENT_LIST: %w", err)
	}
	t.classAtom, err = xprop.Atm(t.conn.XUtil, "WM_CLASS")
	if err != nil {
		return fmt.Errorf("failed to intern WM_CLASS: %w", err)
	}

	if err := xwindow.New(t.conn.XUtil, t.conn.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom == t.clientListAtom {
			t.refresh()
		}
	}).Connect(t.conn.XUtil, t.conn.Root)

	t.refresh()
	return nil
}

// refresh reconciles the sequence map against the current client list,
// assigning fresh numbers to unseen windows and notifying creation
// watchers for each.
func (t *Tracker) refresh() {
	clients, err := t.conn.ClientList()
	if err != nil {
		return
	}

	t.mu.Lock()
	present := make(map[xproto.Window]bool, len(clients))
	var created []xproto.Window
	for _, w := range clients {
		present[w] = true
		if _, ok := t.seq[w]; !ok {
			t.next++
			t.seq[w] = t.next
			created = append(created, w)
		}
	}
	for w := range t.seq {
		if !present[w] {
			delete(t.seq, w)
		}
	}
	var fns []func(xproto.Window)
	if len(created) > 0 {
		fns = make([]func(xproto.Window), 0, len(t.createdSubs))
		for _, fn := range t.createdSubs {
			fns = append(fns, fn)
		}
	}
	t.mu.Unlock()

	for _, w := range created {
		for _, fn := range fns {
			fn(w)
		}
	}
}

// Sequence returns the creation sequence number of a window, or an
// error when the window is not in the client list.
func (t *Tracker) Sequence(windowID xproto.Window) (uint32, error) {
	t.mu.Lock()
	n, ok := t.seq[windowID]
	t.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("window %#x has no tracked sequence", windowID)
	}
	return n, nil
}

// WatchCreated registers fn for every window that appears after this
// call. The returned cancel func is idempotent.
func (t *Tracker) WatchCreated(fn func(xproto.Window)) func() {
	t.mu.Lock()
	key := t.nextKey
	t.nextKey++
	t.createdSubs[key] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.createdSubs, key)
			t.mu.Unlock()
		})
	}
}

// WatchClass registers fn to run when the WM_CLASS property of the
// given window changes.
func (t *Tracker) WatchClass(windowID xproto.Window, fn func()) (func(), error) {
	t.mu.Lock()
	if !t.classAttach[windowID] {
		if err := xwindow.New(t.conn.XUtil, windowID).Listen(xproto.EventMaskPropertyChange); err != nil {
			t.mu.Unlock()
			return nil, fmt.Errorf("failed to listen on window %#x: %w", windowID, err)
		}
		xevent.PropertyNotifyFun(t.handleWindowProperty).Connect(t.conn.XUtil, windowID)
		t.classAttach[windowID] = true
	}
	key := t.nextKey
	t.nextKey++
	t.classSubs[key] = classSub{win: windowID, fn: fn}
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.classSubs, key)
			remaining := false
			for _, s := range t.classSubs {
				if s.win == windowID {
					remaining = true
					break
				}
			}
			if !remaining && t.classAttach[windowID] {
				xevent.Detach(t.conn.XUtil, windowID)
				delete(t.classAttach, windowID)
			}
			t.mu.Unlock()
		})
	}, nil
}

func (t *Tracker) handleWindowProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	if ev.Atom != t.classAtom {
		return
	}
	t.mu.Lock()
	var fns []func()
	for _, s := range t.classSubs {
		if s.win == ev.Window {
			fns = append(fns, s.fn)
		}
	}
	t.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
