package registry

import (
	"testing"

	"winctl/internal/platform"
)

func fakeWin(id platform.WindowID, seq uint32, class string, ws int) platform.FakeWindow {
	return platform.FakeWindow{
		ID:        id,
		Native:    uint32(id),
		Seq:       seq,
		Instance:  class,
		ClassName: class,
		Workspace: ws,
	}
}

func TestSnapshot_SortsByOrderKey(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(fakeWin(0x30, 3, "c", 0)).
		AddWindow(fakeWin(0x10, 1, "a", 0)).
		AddWindow(fakeWin(0x20, 2, "b", 0))

	snap, err := Snapshot(s)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(snap) != 3 {
		t.Fatalf("Snapshot() returned %d records, want 3", len(snap))
	}
	for i, wantID := range []string{"0x10", "0x20", "0x30"} {
		if snap[i].ID != wantID {
			t.Fatalf("snap[%d].ID = %q, want %q", i, snap[i].ID, wantID)
		}
	}
}

func TestSnapshot_TieBreaksDeterministically(t *testing.T) {
	// Identical order keys (degenerate resolution) must still yield one
	// fixed order via workspace, class, title, id.
	a := fakeWin(0x10, 5, "beta", 0)
	b := fakeWin(0x20, 5, "alpha", 0)
	s := platform.NewFakeSession().AddWindow(a).AddWindow(b)

	snap, err := Snapshot(s)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap[0].Class != "alpha.alpha" || snap[1].Class != "beta.beta" {
		t.Fatalf("tie-break order wrong: %q, %q", snap[0].Class, snap[1].Class)
	}
}

func TestSnapshot_ExcludesDocksAndDesktops(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(fakeWin(0x10, 1, "term", 0)).
		AddWindow(platform.FakeWindow{
			ID: 0x20, Native: 0x20, Seq: 2,
			Types: []string{"_NET_WM_WINDOW_TYPE_DOCK"},
		}).
		AddWindow(platform.FakeWindow{
			ID: 0x30, Native: 0x30, Seq: 3,
			Types: []string{"_NET_WM_WINDOW_TYPE_DESKTOP"},
		})

	snap, err := Snapshot(s)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(snap) != 1 || snap[0].ID != "0x10" {
		t.Fatalf("Snapshot() = %+v, want only 0x10", snap)
	}
}

func TestSnapshot_ExcludesSkipTaskbar(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(fakeWin(0x10, 1, "term", 0)).
		AddWindow(platform.FakeWindow{ID: 0x20, Native: 0x20, Seq: 2, Skip: true})

	snap, err := Snapshot(s)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(snap) != 1 || snap[0].ID != "0x10" {
		t.Fatalf("Snapshot() = %+v, want only 0x10", snap)
	}
}

func TestSnapshot_KeepsNormalAndUntypedWindows(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(platform.FakeWindow{
			ID: 0x10, Native: 0x10, Seq: 1,
			Types: []string{"_NET_WM_WINDOW_TYPE_NORMAL"},
		}).
		AddWindow(fakeWin(0x20, 2, "untyped", 0))

	snap, err := Snapshot(s)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("Snapshot() returned %d records, want 2", len(snap))
	}
}

func TestSnapshot_PinnedWorkspaceIsMinusOne(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "term", -1))

	snap, err := Snapshot(s)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap[0].Workspace != -1 {
		t.Fatalf("Workspace = %d, want -1", snap[0].Workspace)
	}
}

func TestRender(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(platform.FakeWindow{
			ID: 0x10, Native: 0x10, Seq: 1,
			Instance: "Navigator", ClassName: "Firefox",
			WindowTitle: "Example Domain", Workspace: 1,
		}).
		AddWindow(platform.FakeWindow{
			ID: 0x20, Native: 0x20, Seq: 2,
			Instance: "kitty", ClassName: "kitty",
			WindowTitle: "~", Workspace: 0,
		})

	snap, err := Snapshot(s)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}

	want := "0x10 1 navigator.firefox Example Domain\n0x20 0 kitty.kitty ~"
	if got := Render(snap); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Fatalf("Render(nil) = %q, want empty", got)
	}
}

func TestFind(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "term", 0))
	snap, _ := Snapshot(s)

	if _, ok := Find(snap, "0x10"); !ok {
		t.Fatal("Find() did not locate 0x10")
	}
	if _, ok := Find(snap, "0x99"); ok {
		t.Fatal("Find() located a nonexistent id")
	}
}

func TestMaxOrderKey(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(fakeWin(0x10, 4, "a", 0)).
		AddWindow(fakeWin(0x20, 9, "b", 0))
	snap, _ := Snapshot(s)

	if got := MaxOrderKey(snap); got != 9 {
		t.Fatalf("MaxOrderKey() = %d, want 9", got)
	}
	if got := MaxOrderKey(nil); got != 0 {
		t.Fatalf("MaxOrderKey(nil) = %d, want 0", got)
	}
}
