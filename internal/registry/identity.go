package registry

import (
	"fmt"
	"strconv"
	"strings"

	"winctl/internal/platform"
)

// ResolveID derives the canonical hex identifier for a window handle.
// Priority: native cross-display numeric id, then creation sequence
// number, then the raw handle value as a last resort. The last resort
// is not stable across session restarts; callers that persist ids
// should not rely on it.
//
// Resolution never fails: every window gets some identifier.
func ResolveID(s platform.Session, w platform.WindowID) string {
	if n, err := s.NativeID(w); err == nil && n != 0 {
		return formatID(uint64(n))
	}
	if n, err := s.Sequence(w); err == nil && n != 0 {
		return formatID(uint64(n))
	}
	return formatID(uint64(w))
}

// ResolveOrderKey derives the creation-order key for a window. Unlike
// ResolveID it prefers the sequence number over the native id: ordering
// must track creation time, and a native id's numeric value carries no
// ordering meaning. Falls back to parsing the resolved hex id; returns
// 0 when everything fails, which sorts the window first and leaves
// disambiguation to the snapshot tie-breakers.
func ResolveOrderKey(s platform.Session, w platform.WindowID) int64 {
	if n, err := s.Sequence(w); err == nil && n != 0 {
		return int64(n)
	}
	if n, err := s.NativeID(w); err == nil && n != 0 {
		return int64(n)
	}
	if v, err := parseID(ResolveID(s, w)); err == nil {
		return int64(v)
	}
	return 0
}

// NormalizeID canonicalizes a caller-supplied window id. It accepts any
// case and an optional 0x prefix, and round-trips to the exact form
// ResolveID produces. Non-hexadecimal input is an error.
func NormalizeID(input string) (string, error) {
	v, err := parseID(input)
	if err != nil {
		return "", err
	}
	return formatID(v), nil
}

func formatID(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}

func parseID(input string) (uint64, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if s == "" {
		return 0, fmt.Errorf("empty window id")
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", input, err)
	}
	return v, nil
}
