package ipc

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"winctl/internal/config"
	"winctl/internal/control"
	"winctl/internal/cycle"
	"winctl/internal/launch"
	"winctl/internal/platform"
)

func newTestServer(t *testing.T, s *platform.FakeSession) *Server {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	cfg := config.Default()
	log := zerolog.Nop()
	server, err := NewServer(cfg,
		control.New(s, log),
		cycle.New(s, cfg.DenyClasses, log),
		launch.New(s, log),
		log)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	return server
}

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

func mustPayload(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func TestHandleCommand_Unknown(t *testing.T) {
	server := newTestServer(t, platform.NewFakeSession())

	resp := server.HandleCommand(&Request{Command: "NOPE"})
	if resp.Status != "ERROR" {
		t.Fatalf("Status = %q, want ERROR", resp.Status)
	}
}

func TestHandleCommand_ListWindows(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "kitty", 0))
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{Command: CommandListWindows})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q (%s), want OK", resp.Status, resp.Error)
	}

	var data WindowListData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("data unmarshal error: %v", err)
	}
	if want := "0x10 0 kitty.kitty "; data.Listing != want {
		t.Fatalf("Listing = %q, want %q", data.Listing, want)
	}
}

func TestHandleCommand_GetActiveWindow(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "kitty", 0))
	s.Active = 0x10
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{Command: CommandGetActiveWindow})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q, want OK", resp.Status)
	}

	var data ActiveWindowData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("data unmarshal error: %v", err)
	}
	if data.ID != "0x10" {
		t.Fatalf("ID = %q, want 0x10", data.ID)
	}
}

func TestHandleCommand_Activate(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "kitty", 0))
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{
		Command: CommandActivate,
		Payload: mustPayload(t, WindowPayload{ID: "0x10"}),
	})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q (%s), want OK", resp.Status, resp.Error)
	}
	if len(s.Activated) != 1 || s.Activated[0] != 0x10 {
		t.Fatalf("Activated = %v, want [0x10]", s.Activated)
	}
}

func TestHandleCommand_ActivateRequiresID(t *testing.T) {
	server := newTestServer(t, platform.NewFakeSession())

	resp := server.HandleCommand(&Request{
		Command: CommandActivate,
		Payload: mustPayload(t, WindowPayload{}),
	})
	if resp.Status != "ERROR" {
		t.Fatalf("Status = %q, want ERROR for missing id", resp.Status)
	}
}

func TestHandleCommand_ActivateUnknownWindow(t *testing.T) {
	server := newTestServer(t, platform.NewFakeSession())

	resp := server.HandleCommand(&Request{
		Command: CommandActivate,
		Payload: mustPayload(t, WindowPayload{ID: "0x99"}),
	})
	if resp.Status != "ERROR" {
		t.Fatalf("Status = %q, want ERROR for unknown window", resp.Status)
	}
}

func TestHandleCommand_Resize(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "kitty", 0))
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{
		Command: CommandResize,
		Payload: mustPayload(t, ResizePayload{ID: "0x10", Width: 800, Height: 600}),
	})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q (%s), want OK", resp.Status, resp.Error)
	}
	if got := s.Resized[0x10]; got.Width != 800 || got.Height != 600 {
		t.Fatalf("Resized = %+v, want 800x600", got)
	}
}

func TestHandleCommand_ResizeRejectsZeroDimensions(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "kitty", 0))
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{
		Command: CommandResize,
		Payload: mustPayload(t, ResizePayload{ID: "0x10"}),
	})
	if resp.Status != "ERROR" {
		t.Fatalf("Status = %q, want ERROR for zero dimensions", resp.Status)
	}
}

func TestHandleCommand_MoveToWorkspace(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "kitty", 0))
	s.Workspaces = 3
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{
		Command: CommandMoveToWorkspace,
		Payload: mustPayload(t, MoveToWorkspacePayload{ID: "0x10", Workspace: 2}),
	})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q (%s), want OK", resp.Status, resp.Error)
	}
	if got := s.MovedTo[0x10]; got != 2 {
		t.Fatalf("MovedTo = %d, want 2", got)
	}
}

func TestHandleCommand_SwitchWorkspace(t *testing.T) {
	s := platform.NewFakeSession()
	s.Workspaces = 2
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{
		Command: CommandSwitchWorkspace,
		Payload: mustPayload(t, SwitchWorkspacePayload{Workspace: 1}),
	})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q (%s), want OK", resp.Status, resp.Error)
	}

	resp = server.HandleCommand(&Request{
		Command: CommandSwitchWorkspace,
		Payload: mustPayload(t, SwitchWorkspacePayload{Workspace: 7}),
	})
	if resp.Status != "ERROR" {
		t.Fatalf("Status = %q, want ERROR for out-of-range workspace", resp.Status)
	}
}

func TestHandleCommand_FocusCycle(t *testing.T) {
	s := platform.NewFakeSession().
		AddWindow(fakeWin(0x10, 1, "kitty", 0)).
		AddWindow(fakeWin(0x20, 2, "firefox", 0))
	s.Active = 0x10
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{Command: CommandFocusNextAnyApp})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q (%s), want OK", resp.Status, resp.Error)
	}
	if s.Activated[len(s.Activated)-1] != 0x20 {
		t.Fatalf("Activated = %v, want 0x20 last", s.Activated)
	}
}

func TestHandleCommand_FocusCycleNoCandidate(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "kitty", 0))
	s.Active = 0x10
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{Command: CommandFocusNextOtherApp})
	if resp.Status != "ERROR" {
		t.Fatalf("Status = %q, want ERROR with no candidate", resp.Status)
	}
}

func TestHandleCommand_FocusByClass(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "kitty", 0))
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{
		Command: CommandFocusByClass,
		Payload: mustPayload(t, FocusByClassPayload{Class: "kitty.kitty"}),
	})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q (%s), want OK", resp.Status, resp.Error)
	}

	var data FocusByClassData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("data unmarshal error: %v", err)
	}
	if data.Result != FocusResultOK {
		t.Fatalf("Result = %q, want %q", data.Result, FocusResultOK)
	}
}

func TestHandleCommand_FocusByClassNoMatch(t *testing.T) {
	server := newTestServer(t, platform.NewFakeSession())

	resp := server.HandleCommand(&Request{
		Command: CommandFocusByClass,
		Payload: mustPayload(t, FocusByClassPayload{Class: "ghost.ghost"}),
	})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q, want OK (no match is not a transport error)", resp.Status)
	}

	var data FocusByClassData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("data unmarshal error: %v", err)
	}
	if data.Result != FocusResultNoMatch {
		t.Fatalf("Result = %q, want %q", data.Result, FocusResultNoMatch)
	}
}

func TestHandleCommand_LaunchHere(t *testing.T) {
	s := platform.NewFakeSession()
	server := newTestServer(t, s)

	resp := server.HandleCommand(&Request{
		Command: CommandLaunchHere,
		Payload: mustPayload(t, LaunchHerePayload{Command: "kitty", AppID: "kitty.kitty"}),
	})
	if resp.Status != "OK" {
		t.Fatalf("Status = %q (%s), want OK", resp.Status, resp.Error)
	}
	if len(s.Spawned) != 1 {
		t.Fatalf("Spawned = %v, want one spawn", s.Spawned)
	}
}

func TestHandleCommand_LaunchHereRequiresFields(t *testing.T) {
	server := newTestServer(t, platform.NewFakeSession())

	resp := server.HandleCommand(&Request{
		Command: CommandLaunchHere,
		Payload: mustPayload(t, LaunchHerePayload{Command: "kitty"}),
	})
	if resp.Status != "ERROR" {
		t.Fatalf("Status = %q, want ERROR for missing app_id", resp.Status)
	}
}

func TestServer_RoundTripOverSocket(t *testing.T) {
	s := platform.NewFakeSession().AddWindow(fakeWin(0x10, 1, "kitty", 0))
	s.Active = 0x10
	server := newTestServer(t, s)

	if err := server.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer server.Stop()

	client := NewClient()
	id, err := client.GetActiveWindow()
	if err != nil {
		t.Fatalf("GetActiveWindow() error: %v", err)
	}
	if id != "0x10" {
		t.Fatalf("GetActiveWindow() = %q, want 0x10", id)
	}

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error: %v", err)
	}
	if !status.DaemonRunning || status.WindowCount != 1 {
		t.Fatalf("status = %+v, want running with 1 window", status)
	}
}
