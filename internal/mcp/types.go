package mcp

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Listing         string `json:"listing"`
	ActiveWindow    string `json:"active_window,omitempty"`
	ActiveWorkspace int    `json:"active_workspace"`
}

// ActivateWindowInput is the input for the activate_window tool.
type ActivateWindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id as shown by list_windows (e.g. 0x3a00004)"`
}

// ActivateWindowOutput is the output for the activate_window tool.
type ActivateWindowOutput struct {
	Activated bool `json:"activated"`
}

// FocusCycleInput is the input for the focus_cycle tool.
type FocusCycleInput struct {
	Policy    string `json:"policy" jsonschema:"required,Cycling policy: same_app (windows of the active window's class), other_app (windows of a different class), or any_app (all windows)"`
	Direction string `json:"direction,omitempty" jsonschema:"Cycle direction: next (default) or prev"`
}

// FocusCycleOutput is the output for the focus_cycle tool.
type FocusCycleOutput struct {
	Focused bool `json:"focused"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     string `json:"id" jsonschema:"required,Window id as shown by list_windows"`
	Width  int    `json:"width" jsonschema:"required,New width in pixels (must be positive)"`
	Height int    `json:"height" jsonschema:"required,New height in pixels (must be positive)"`
}

// ResizeWindowOutput is the output for the resize_window tool.
type ResizeWindowOutput struct {
	Resized bool `json:"resized"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID        string `json:"id" jsonschema:"required,Window id as shown by list_windows"`
	Workspace int    `json:"workspace" jsonschema:"required,Zero-based target workspace index"`
}

// MoveWindowOutput is the output for the move_window tool.
type MoveWindowOutput struct {
	Moved bool `json:"moved"`
}

// SwitchWorkspaceInput is the input for the switch_workspace tool.
type SwitchWorkspaceInput struct {
	Workspace int `json:"workspace" jsonschema:"required,Zero-based workspace index to switch to"`
}

// SwitchWorkspaceOutput is the output for the switch_workspace tool.
type SwitchWorkspaceOutput struct {
	Switched bool `json:"switched"`
}

// FocusByClassInput is the input for the focus_by_class tool.
type FocusByClassInput struct {
	Class string `json:"class" jsonschema:"required,Window class key in instance.class form (e.g. navigator.firefox)"`
}

// FocusByClassOutput is the output for the focus_by_class tool.
type FocusByClassOutput struct {
	Result string `json:"result" jsonschema:"One of: ok, no_match, activation_failed"`
}

// LaunchHereInput is the input for the launch_here tool.
type LaunchHereInput struct {
	Command string `json:"command" jsonschema:"required,Shell-like command line to launch (quotes and escapes are honored)"`
	AppID   string `json:"app_id" jsonschema:"required,Expected window class of the launched application"`
}

// LaunchHereOutput is the output for the launch_here tool.
type LaunchHereOutput struct {
	Launched bool `json:"launched"`
}
