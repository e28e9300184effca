package registry

import (
	"fmt"
	"sort"
	"strings"

	"winctl/internal/platform"
)

// Record describes one eligible window at snapshot time. Records are
// value types; a fresh set is built for every operation.
type Record struct {
	Window    platform.WindowID
	OrderKey  int64
	ID        string
	Workspace int // -1 when pinned to all workspaces
	Class     string
	Title     string
}

// Window types excluded from snapshots, mirroring taskbar semantics:
// only windows a user would consider "open applications" are listed.
var excludedTypes = map[string]bool{
	"_NET_WM_WINDOW_TYPE_DESKTOP": true,
	"_NET_WM_WINDOW_TYPE_DOCK":    true,
}

// Snapshot enumerates every eligible window into a freshly sorted
// record list. No caching: window state can change between any two
// calls, so each request re-enumerates.
func Snapshot(s platform.Session) ([]Record, error) {
	windows, err := s.Windows()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate windows: %w", err)
	}

	records := make([]Record, 0, len(windows))
	for _, w := range windows {
		if !eligible(s, w) {
			continue
		}

		workspace, err := s.WindowWorkspace(w)
		if err != nil {
			workspace = 0
		}
		// Title read failures degrade to empty, never abort enumeration.
		title, _ := s.Title(w)

		records = append(records, Record{
			Window:    w,
			OrderKey:  ResolveOrderKey(s, w),
			ID:        ResolveID(s, w),
			Workspace: workspace,
			Class:     Classify(s, w),
			Title:     title,
		})
	}

	// The order key alone is not guaranteed unique (degenerate fallback
	// cases), so the remaining fields make the order fully
	// deterministic without depending on focus state.
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.OrderKey != b.OrderKey {
			return a.OrderKey < b.OrderKey
		}
		if a.Workspace != b.Workspace {
			return a.Workspace < b.Workspace
		}
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})

	return records, nil
}

func eligible(s platform.Session, w platform.WindowID) bool {
	if types, err := s.WindowTypes(w); err == nil {
		for _, t := range types {
			if excludedTypes[t] {
				return false
			}
		}
	}
	if skip, err := s.SkipTaskbar(w); err == nil && skip {
		return false
	}
	return true
}

// Find locates a record by canonical id.
func Find(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// MaxOrderKey returns the highest order key in the records, or 0 for an
// empty set.
func MaxOrderKey(records []Record) int64 {
	var maxKey int64
	for _, r := range records {
		if r.OrderKey > maxKey {
			maxKey = r.OrderKey
		}
	}
	return maxKey
}

// Render produces the stable text listing consumed by clients: one
// window per line, "id workspace classKey title", newline-joined.
func Render(records []Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("%s %d %s %s", r.ID, r.Workspace, r.Class, r.Title)
	}
	return strings.Join(lines, "\n")
}
