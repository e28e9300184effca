package platform

import (
	"fmt"
	"sync"
)

// FakeWindow describes one window held by a FakeSession.
type FakeWindow struct {
	ID          WindowID
	Native      uint32
	Seq         uint32
	Instance    string
	ClassName   string
	App         string
	WindowTitle string
	Bounds      Rect
	IsMinimized bool
	Types       []string
	Skip        bool
	Workspace   int
}

// FakeSession is an in-memory Session implementation for tests. It
// records every mutation so tests can assert that an operation did (or
// did not) reach the window system.
type FakeSession struct {
	mu sync.Mutex

	WindowList []FakeWindow
	Active     WindowID
	ActiveWS   int
	Workspaces int
	Monitor    Rect
	Now        uint32

	// Error injection.
	ActivateErr   error
	MoveResizeErr error
	SpawnErr      error
	FailClass     map[WindowID]bool
	FailApp       map[WindowID]bool
	FailNative    map[WindowID]bool
	FailSequence  map[WindowID]bool

	// Mutation records.
	Activated  []WindowID
	Unhidden   []WindowID
	Resized    map[WindowID]Rect
	MovedTo    map[WindowID]int
	SwitchedTo []int
	Spawned    [][]string

	createdSubs map[int]func(WindowID)
	classSubs   map[int]classWatch
	nextSub     int
}

type classWatch struct {
	win WindowID
	fn  func()
}

// NewFakeSession returns a FakeSession with one workspace and no windows.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		Workspaces:  1,
		Monitor:     Rect{Width: 1920, Height: 1080},
		Resized:     make(map[WindowID]Rect),
		MovedTo:     make(map[WindowID]int),
		createdSubs: make(map[int]func(WindowID)),
		classSubs:   make(map[int]classWatch),
	}
}

// AddWindow appends a window and returns the session for chaining.
func (s *FakeSession) AddWindow(w FakeWindow) *FakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WindowList = append(s.WindowList, w)
	return s
}

func (s *FakeSession) find(id WindowID) (*FakeWindow, error) {
	for i := range s.WindowList {
		if s.WindowList[i].ID == id {
			return &s.WindowList[i], nil
		}
	}
	return nil, fmt.Errorf("fake: window %#x not found", uint32(id))
}

func (s *FakeSession) Windows() ([]WindowID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]WindowID, len(s.WindowList))
	for i, w := range s.WindowList {
		ids[i] = w.ID
	}
	return ids, nil
}

func (s *FakeSession) ActiveWindow() (WindowID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Active, nil
}

func (s *FakeSession) NativeID(id WindowID) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNative[id] {
		return 0, fmt.Errorf("fake: native id unavailable")
	}
	w, err := s.find(id)
	if err != nil {
		return 0, err
	}
	return w.Native, nil
}

func (s *FakeSession) Sequence(id WindowID) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSequence[id] {
		return 0, fmt.Errorf("fake: sequence unavailable")
	}
	w, err := s.find(id)
	if err != nil {
		return 0, err
	}
	return w.Seq, nil
}

func (s *FakeSession) Class(id WindowID) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailClass[id] {
		return "", "", fmt.Errorf("fake: class unavailable")
	}
	w, err := s.find(id)
	if err != nil {
		return "", "", err
	}
	return w.Instance, w.ClassName, nil
}

func (s *FakeSession) AppID(id WindowID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailApp[id] {
		return "", fmt.Errorf("fake: app id unavailable")
	}
	w, err := s.find(id)
	if err != nil {
		return "", err
	}
	return w.App, nil
}

func (s *FakeSession) Title(id WindowID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.find(id)
	if err != nil {
		return "", err
	}
	return w.WindowTitle, nil
}

func (s *FakeSession) Frame(id WindowID) (Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.find(id)
	if err != nil {
		return Rect{}, err
	}
	return w.Bounds, nil
}

func (s *FakeSession) Minimized(id WindowID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.find(id)
	if err != nil {
		return false, err
	}
	return w.IsMinimized, nil
}

func (s *FakeSession) WindowTypes(id WindowID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return w.Types, nil
}

func (s *FakeSession) SkipTaskbar(id WindowID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.find(id)
	if err != nil {
		return false, err
	}
	return w.Skip, nil
}

func (s *FakeSession) WindowWorkspace(id WindowID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.find(id)
	if err != nil {
		return 0, err
	}
	return w.Workspace, nil
}

func (s *FakeSession) ActiveWorkspace() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ActiveWS, nil
}

func (s *FakeSession) WorkspaceCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Workspaces, nil
}

func (s *FakeSession) Activate(id WindowID, _ uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ActivateErr != nil {
		return s.ActivateErr
	}
	if _, err := s.find(id); err != nil {
		return err
	}
	s.Activated = append(s.Activated, id)
	s.Active = id
	return nil
}

func (s *FakeSession) Unminimize(id WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.find(id)
	if err != nil {
		return err
	}
	w.IsMinimized = false
	s.Unhidden = append(s.Unhidden, id)
	return nil
}

func (s *FakeSession) MoveResize(id WindowID, bounds Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MoveResizeErr != nil {
		return s.MoveResizeErr
	}
	w, err := s.find(id)
	if err != nil {
		return err
	}
	w.Bounds = bounds
	s.Resized[id] = bounds
	return nil
}

func (s *FakeSession) SetWindowWorkspace(id WindowID, workspace int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.find(id)
	if err != nil {
		return err
	}
	w.Workspace = workspace
	s.MovedTo[id] = workspace
	return nil
}

func (s *FakeSession) SwitchWorkspace(workspace int, _ uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if workspace < 0 || workspace >= s.Workspaces {
		return fmt.Errorf("fake: workspace %d out of range", workspace)
	}
	s.ActiveWS = workspace
	s.SwitchedTo = append(s.SwitchedTo, workspace)
	return nil
}

func (s *FakeSession) ActiveMonitor() (Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Monitor, nil
}

func (s *FakeSession) Timestamp() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Now
}

func (s *FakeSession) Spawn(argv []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SpawnErr != nil {
		return s.SpawnErr
	}
	s.Spawned = append(s.Spawned, argv)
	return nil
}

func (s *FakeSession) WatchCreated(fn func(WindowID)) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.nextSub
	s.nextSub++
	s.createdSubs[key] = fn
	return &fakeSub{cancel: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.createdSubs, key)
	}}, nil
}

func (s *FakeSession) WatchClass(id WindowID, fn func()) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.nextSub
	s.nextSub++
	s.classSubs[key] = classWatch{win: id, fn: fn}
	return &fakeSub{cancel: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.classSubs, key)
	}}, nil
}

// EmitCreated adds the window and notifies creation watchers.
func (s *FakeSession) EmitCreated(w FakeWindow) {
	s.mu.Lock()
	s.WindowList = append(s.WindowList, w)
	fns := make([]func(WindowID), 0, len(s.createdSubs))
	for _, fn := range s.createdSubs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(w.ID)
	}
}

// EmitClassChange updates a window's class and notifies its watchers.
func (s *FakeSession) EmitClassChange(id WindowID, instance, class string) {
	s.mu.Lock()
	if w, err := s.find(id); err == nil {
		w.Instance = instance
		w.ClassName = class
	}
	var fns []func()
	for _, cw := range s.classSubs {
		if cw.win == id {
			fns = append(fns, cw.fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// CreatedWatchCount reports live creation subscriptions (leak checks).
func (s *FakeSession) CreatedWatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.createdSubs)
}

// ClassWatchCount reports live class subscriptions (leak checks).
func (s *FakeSession) ClassWatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.classSubs)
}

type fakeSub struct {
	once   sync.Once
	cancel func()
}

func (f *fakeSub) Cancel() {
	f.once.Do(f.cancel)
}
