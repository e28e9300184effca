package control

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"winctl/internal/platform"
)

func win(id platform.WindowID, seq uint32, class string, ws int) platform.FakeWindow {
	return platform.FakeWindow{
		ID:        id,
		Native:    uint32(id),
		Seq:       seq,
		Instance:  class,
		ClassName: class,
		Workspace: ws,
	}
}

func newOps(s *platform.FakeSession) *Ops {
	return New(s, zerolog.Nop())
}

func TestList(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(platform.FakeWindow{
			ID: 0x10, Native: 0x10, Seq: 1,
			Instance: "kitty", ClassName: "kitty", WindowTitle: "~",
		})

	got, err := newOps(s).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if want := "0x10 0 kitty.kitty ~"; got != want {
		t.Fatalf("List() = %q, want %q", got, want)
	}
}

func TestActiveWindowID(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))
	s.Active = 0x10

	if got := newOps(s).ActiveWindowID(); got != "0x10" {
		t.Fatalf("ActiveWindowID() = %q, want %q", got, "0x10")
	}
}

func TestActiveWindowID_NoFocus(t *testing.T) {
	s := platform.NewFakeSession()

	if got := newOps(s).ActiveWindowID(); got != "" {
		t.Fatalf("ActiveWindowID() = %q, want empty", got)
	}
}

func TestActivate(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))

	if !newOps(s).Activate("0x10") {
		t.Fatal("Activate() = false, want true")
	}
	if len(s.Activated) != 1 || s.Activated[0] != 0x10 {
		t.Fatalf("Activated = %v, want [0x10]", s.Activated)
	}
}

func TestActivate_AcceptsUnnormalizedID(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))

	if !newOps(s).Activate("0X10") {
		t.Fatal("Activate(\"0X10\") = false, want true")
	}
}

func TestActivate_UnknownWindow(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))

	if newOps(s).Activate("0x99") {
		t.Fatal("Activate() = true for unknown window")
	}
	if len(s.Activated) != 0 {
		t.Fatalf("Activated = %v, want none", s.Activated)
	}
}

func TestActivate_InvalidID(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))

	if newOps(s).Activate("not-a-window") {
		t.Fatal("Activate() = true for invalid id")
	}
}

func TestActivate_FollowsToWorkspace(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 1))
	s.Workspaces = 2

	if !newOps(s).Activate("0x10") {
		t.Fatal("Activate() = false, want true")
	}
	if len(s.SwitchedTo) != 1 || s.SwitchedTo[0] != 1 {
		t.Fatalf("SwitchedTo = %v, want [1]", s.SwitchedTo)
	}
}

func TestActivate_PinnedWindowNoSwitch(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", -1))

	if !newOps(s).Activate("0x10") {
		t.Fatal("Activate() = false, want true")
	}
	if len(s.SwitchedTo) != 0 {
		t.Fatalf("SwitchedTo = %v, want none", s.SwitchedTo)
	}
}

func TestActivate_UnminimizesFirst(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(platform.FakeWindow{
		ID: 0x10, Native: 0x10, Seq: 1,
		Instance: "kitty", ClassName: "kitty",
		IsMinimized: true,
	})

	if !newOps(s).Activate("0x10") {
		t.Fatal("Activate() = false, want true")
	}
	if len(s.Unhidden) != 1 || s.Unhidden[0] != 0x10 {
		t.Fatalf("Unhidden = %v, want [0x10]", s.Unhidden)
	}
}

func TestActivate_ReportsActivationFailure(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))
	s.ActivateErr = errors.New("refused")

	if newOps(s).Activate("0x10") {
		t.Fatal("Activate() = true despite activation error")
	}
}

func TestResize(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(platform.FakeWindow{
		ID: 0x10, Native: 0x10, Seq: 1,
		Instance: "kitty", ClassName: "kitty",
		Bounds: platform.Rect{X: 40, Y: 60, Width: 800, Height: 600},
	})

	if !newOps(s).Resize("0x10", 1024, 768) {
		t.Fatal("Resize() = false, want true")
	}
	got, ok := s.Resized[0x10]
	if !ok {
		t.Fatal("no resize reached the session")
	}
	want := platform.Rect{X: 40, Y: 60, Width: 1024, Height: 768}
	if got != want {
		t.Fatalf("Resized = %+v, want %+v", got, want)
	}
}

func TestResize_RejectsNonPositiveDimensions(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))

	for _, dims := range [][2]int{{0, 100}, {100, 0}, {-5, 100}, {100, -5}} {
		if newOps(s).Resize("0x10", dims[0], dims[1]) {
			t.Fatalf("Resize(%d, %d) = true, want false", dims[0], dims[1])
		}
	}
	if len(s.Resized) != 0 {
		t.Fatalf("Resized = %v, want no mutation", s.Resized)
	}
}

func TestResize_UnknownWindow(t *testing.T) {
	s := platform.NewFakeSession()

	if newOps(s).Resize("0x99", 100, 100) {
		t.Fatal("Resize() = true for unknown window")
	}
}

func TestMoveToWorkspace(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))
	s.Workspaces = 4

	if !newOps(s).MoveToWorkspace("0x10", 2) {
		t.Fatal("MoveToWorkspace() = false, want true")
	}
	if got := s.MovedTo[0x10]; got != 2 {
		t.Fatalf("MovedTo = %d, want 2", got)
	}
}

func TestMoveToWorkspace_RejectsOutOfRange(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))
	s.Workspaces = 2

	if newOps(s).MoveToWorkspace("0x10", 5) {
		t.Fatal("MoveToWorkspace(5) = true with 2 workspaces")
	}
	if newOps(s).MoveToWorkspace("0x10", -1) {
		t.Fatal("MoveToWorkspace(-1) = true")
	}
	if len(s.MovedTo) != 0 {
		t.Fatalf("MovedTo = %v, want no mutation", s.MovedTo)
	}
}

func TestMoveToWorkspace_PinnedIsNoOpSuccess(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", -1))
	s.Workspaces = 2

	if !newOps(s).MoveToWorkspace("0x10", 1) {
		t.Fatal("MoveToWorkspace() = false for pinned window, want true")
	}
	if len(s.MovedTo) != 0 {
		t.Fatalf("MovedTo = %v, want no mutation for pinned window", s.MovedTo)
	}
}

func TestSwitchWorkspace(t *testing.T) {
	s := platform.NewFakeSession()
	s.Workspaces = 3

	if !newOps(s).SwitchWorkspace(2) {
		t.Fatal("SwitchWorkspace() = false, want true")
	}
	if len(s.SwitchedTo) != 1 || s.SwitchedTo[0] != 2 {
		t.Fatalf("SwitchedTo = %v, want [2]", s.SwitchedTo)
	}
}

func TestSwitchWorkspace_RejectsOutOfRange(t *testing.T) {
	s := platform.NewFakeSession()
	s.Workspaces = 2

	if newOps(s).SwitchWorkspace(-1) {
		t.Fatal("SwitchWorkspace(-1) = true")
	}
	if newOps(s).SwitchWorkspace(2) {
		t.Fatal("SwitchWorkspace(2) = true with 2 workspaces")
	}
}

func TestFocusByClass_PrefersActiveWorkspace(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(win(0x10, 1, "firefox", 1)).
		AddWindow(win(0x20, 2, "firefox", 0))
	s.Workspaces = 2

	if got := newOps(s).FocusByClass("firefox.firefox"); got != FocusOK {
		t.Fatalf("FocusByClass() = %v, want FocusOK", got)
	}
	if s.Activated[len(s.Activated)-1] != 0x20 {
		t.Fatalf("activated %v, want on-workspace 0x20", s.Activated)
	}
}

func TestFocusByClass_PinnedCountsAsOnWorkspace(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(win(0x10, 1, "firefox", 1)).
		AddWindow(win(0x20, 2, "firefox", -1))
	s.Workspaces = 2

	if got := newOps(s).FocusByClass("firefox.firefox"); got != FocusOK {
		t.Fatalf("FocusByClass() = %v, want FocusOK", got)
	}
	if s.Activated[len(s.Activated)-1] != 0x20 {
		t.Fatalf("activated %v, want pinned 0x20", s.Activated)
	}
}

func TestFocusByClass_FallsBackOffWorkspace(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "firefox", 1))
	s.Workspaces = 2

	if got := newOps(s).FocusByClass("firefox.firefox"); got != FocusOK {
		t.Fatalf("FocusByClass() = %v, want FocusOK", got)
	}
	if len(s.SwitchedTo) != 1 || s.SwitchedTo[0] != 1 {
		t.Fatalf("SwitchedTo = %v, want [1]", s.SwitchedTo)
	}
}

func TestFocusByClass_NoMatch(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))

	if got := newOps(s).FocusByClass("firefox.firefox"); got != FocusNoMatch {
		t.Fatalf("FocusByClass() = %v, want FocusNoMatch", got)
	}
}

func TestFocusByClass_EmptyClass(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))

	if got := newOps(s).FocusByClass("  "); got != FocusNoMatch {
		t.Fatalf("FocusByClass() = %v, want FocusNoMatch", got)
	}
}

func TestFocusByClass_ActivationFailure(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))
	s.ActivateErr = errors.New("refused")

	if got := newOps(s).FocusByClass("kitty.kitty"); got != FocusActivationFailed {
		t.Fatalf("FocusByClass() = %v, want FocusActivationFailed", got)
	}
}

func TestFocusByClass_CaseInsensitive(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(win(0x10, 1, "kitty", 0))

	if got := newOps(s).FocusByClass("Kitty.Kitty"); got != FocusOK {
		t.Fatalf("FocusByClass() = %v, want FocusOK", got)
	}
}
