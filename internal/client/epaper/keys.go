package epaper

import "strings"

// Key is a navigation key the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyEscape
)

// ParseKey maps key names ("left", "right", "esc") to keys.
func ParseKey(s string) Key {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "arrowleft":
		return KeyLeft
	case "right", "arrowright":
		return KeyRight
	case "esc", "escape":
		return KeyEscape
	}
	return KeyUnknown
}
