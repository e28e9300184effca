package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"winctl/internal/config"
	"winctl/internal/control"
	"winctl/internal/cycle"
	"winctl/internal/launch"
	"winctl/internal/registry"
	"winctl/internal/runtimepath"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	cfg        *config.Config
	ops        *control.Ops
	engine     *cycle.Engine
	tracker    *launch.Tracker
	startTime  time.Time
	log        zerolog.Logger

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, ops *control.Ops, engine *cycle.Engine, tracker *launch.Tracker, log zerolog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		ops:        ops,
		engine:     engine,
		tracker:    tracker,
		startTime:  time.Now(),
		log:        log,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.Warn().Err(err).Msg("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Warn().Err(err).Msg("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.HandleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal response")
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Warn().Err(err).Msg("failed to send response")
	}
}

// HandleCommand processes an IPC command and returns a response
func (s *Server) HandleCommand(req *Request) *Response {
	switch req.Command {
	case CommandListWindows:
		return s.handleListWindows()
	case CommandGetActiveWindow:
		return s.handleGetActiveWindow()
	case CommandGetActiveWorkspace:
		return s.handleGetActiveWorkspace()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandActivate:
		return s.handleActivate(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	case CommandMoveToWorkspace:
		return s.handleMoveToWorkspace(req.Payload)
	case CommandSwitchWorkspace:
		return s.handleSwitchWorkspace(req.Payload)
	case CommandFocusNextSameApp:
		return s.handleCycle(s.engine.SameApp, cycle.Next)
	case CommandFocusPrevSameApp:
		return s.handleCycle(s.engine.SameApp, cycle.Prev)
	case CommandFocusNextOtherApp:
		return s.handleCycle(s.engine.OtherApp, cycle.Next)
	case CommandFocusPrevOtherApp:
		return s.handleCycle(s.engine.OtherApp, cycle.Prev)
	case CommandFocusNextAnyApp:
		return s.handleCycle(s.engine.AnyApp, cycle.Next)
	case CommandFocusPrevAnyApp:
		return s.handleCycle(s.engine.AnyApp, cycle.Prev)
	case CommandFocusByClass:
		return s.handleFocusByClass(req.Payload)
	case CommandLaunchHere:
		return s.handleLaunchHere(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleListWindows() *Response {
	listing, err := s.ops.List()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}
	resp, _ := NewOKResponse(WindowListData{Listing: listing})
	return resp
}

func (s *Server) handleGetActiveWindow() *Response {
	resp, _ := NewOKResponse(ActiveWindowData{ID: s.ops.ActiveWindowID()})
	return resp
}

func (s *Server) handleGetActiveWorkspace() *Response {
	ws, err := s.ops.ActiveWorkspace()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get active workspace: %v", err))
	}
	resp, _ := NewOKResponse(WorkspaceData{Workspace: ws})
	return resp
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if ws, err := s.ops.ActiveWorkspace(); err == nil {
		status.ActiveWorkspace = ws
	}
	if listing, err := s.ops.List(); err == nil && listing != "" {
		status.WindowCount = 1
		for _, c := range listing {
			if c == '\n' {
				status.WindowCount++
			}
		}
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleActivate(payload json.RawMessage) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid activate payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	if !s.ops.Activate(req.ID) {
		return NewErrorResponse(fmt.Sprintf("Failed to activate window %s", req.ID))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var req ResizePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	if !s.ops.Resize(req.ID, req.Width, req.Height) {
		return NewErrorResponse(fmt.Sprintf("Failed to resize window %s to %dx%d", req.ID, req.Width, req.Height))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleMoveToWorkspace(payload json.RawMessage) *Response {
	var req MoveToWorkspacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	if !s.ops.MoveToWorkspace(req.ID, req.Workspace) {
		return NewErrorResponse(fmt.Sprintf("Failed to move window %s to workspace %d", req.ID, req.Workspace))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSwitchWorkspace(payload json.RawMessage) *Response {
	var req SwitchWorkspacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid switch payload: %v", err))
	}

	if !s.ops.SwitchWorkspace(req.Workspace) {
		return NewErrorResponse(fmt.Sprintf("Failed to switch to workspace %d", req.Workspace))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleCycle(policy func(cycle.Direction) bool, dir cycle.Direction) *Response {
	if !policy(dir) {
		return NewErrorResponse("No window to focus")
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleFocusByClass(payload json.RawMessage) *Response {
	var req FocusByClassPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid focus payload: %v", err))
	}
	if registry.NormalizeClass(req.Class) == "" {
		return NewErrorResponse("class is required")
	}

	var result string
	switch s.ops.FocusByClass(req.Class) {
	case control.FocusOK:
		result = FocusResultOK
	case control.FocusNoMatch:
		result = FocusResultNoMatch
	case control.FocusActivationFailed:
		result = FocusResultActivationFailed
	}
	resp, _ := NewOKResponse(FocusByClassData{Result: result})
	return resp
}

func (s *Server) handleLaunchHere(payload json.RawMessage) *Response {
	var req LaunchHerePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid launch payload: %v", err))
	}
	if req.Command == "" {
		return NewErrorResponse("command is required")
	}
	if req.AppID == "" {
		return NewErrorResponse("app_id is required")
	}

	opts := launch.Options{
		Command:                req.Command,
		AppID:                  req.AppID,
		Timeout:                time.Duration(s.cfg.Launch.TimeoutSeconds) * time.Second,
		ClassTimeout:           time.Duration(s.cfg.Launch.ClassTimeoutSeconds) * time.Second,
		TerminalCommands:       s.cfg.Launch.TerminalCommands,
		TerminalWidthFraction:  s.cfg.Launch.TerminalWidthFraction,
		TerminalHeightFraction: s.cfg.Launch.TerminalHeightFraction,
		SettleDelay:            time.Duration(s.cfg.Launch.SettleDelayMS) * time.Millisecond,
	}
	if err := s.tracker.LaunchHere(opts); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to launch: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
