package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor

	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		if outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// GetActiveMonitor returns the monitor containing the currently focused
// window, falling back to the monitor under the pointer and then the
// first monitor. The returned geometry is clipped to the EWMH work area
// so panels and docks are excluded.
func (c *Connection) GetActiveMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	var activeMonitor *Monitor

	if activeWin, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && activeWin != 0 {
		if mon := c.findMonitorForWindow(monitors, activeWin); mon != nil {
			activeMonitor = mon
		}
	}

	if activeMonitor == nil {
		if mon := c.findMonitorForPointer(monitors); mon != nil {
			activeMonitor = mon
		}
	}

	if activeMonitor == nil {
		activeMonitor = &monitors[0]
	}

	// Clip to the work area of the current desktop when it intersects
	// this monitor.
	if workArea, err := ewmh.WorkareaGet(c.XUtil); err == nil && len(workArea) > 0 {
		desktopIndex := 0
		if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
			if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
				desktopIndex = int(currentDesktop)
			}
		}

		wa := workArea[desktopIndex]
		x1 := max(activeMonitor.X, int(wa.X))
		y1 := max(activeMonitor.Y, int(wa.Y))
		x2 := min(activeMonitor.X+activeMonitor.Width, int(wa.X)+int(wa.Width))
		y2 := min(activeMonitor.Y+activeMonitor.Height, int(wa.Y)+int(wa.Height))

		if x2 > x1 && y2 > y1 {
			activeMonitor.X = x1
			activeMonitor.Y = y1
			activeMonitor.Width = x2 - x1
			activeMonitor.Height = y2 - y1
		}
	}

	return activeMonitor, nil
}

func (c *Connection) findMonitorForWindow(monitors []Monitor, windowID xproto.Window) *Monitor {
	x, y, width, height, err := c.WindowRect(windowID)
	if err != nil {
		return nil
	}
	return monitorAt(monitors, x+width/2, y+height/2)
}

func (c *Connection) findMonitorForPointer(monitors []Monitor) *Monitor {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}
	return monitorAt(monitors, int(pointer.RootX), int(pointer.RootY))
}

func monitorAt(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		m := &monitors[i]
		if x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height {
			return m
		}
	}
	return nil
}
