package registry

import (
	"strings"

	"winctl/internal/platform"
)

// UnknownClass is the label half used when no class source resolves.
const UnknownClass = "unknown"

// Classify derives the normalized "instance.class" label for a window.
// When native class metadata is incomplete, the owning application's
// identifier fills both halves, so toolkit-native and non-native
// windows share one labeling scheme. Output is always lowercase.
func Classify(s platform.Session, w platform.WindowID) string {
	instance, class, err := s.Class(w)
	if err != nil || instance == "" || class == "" {
		if app, appErr := s.AppID(w); appErr == nil && app != "" {
			instance = app
			class = app
		}
	}
	if instance == "" {
		instance = UnknownClass
	}
	if class == "" {
		class = UnknownClass
	}
	return strings.ToLower(instance + "." + class)
}

// NormalizeClass canonicalizes a caller-supplied class key for
// comparison against Classify output.
func NormalizeClass(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
