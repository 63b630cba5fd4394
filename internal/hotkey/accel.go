package hotkey

import (
	"fmt"
	"strings"
)

// chord is a parsed accelerator: zero or more modifier names plus one key.
type chord struct {
	mods []string
	key  string
}

// parseAccel splits an accelerator like "Alt+Space" into its modifiers and
// final key. Names are case-insensitive; the platform backends map them to
// native codes.
func parseAccel(accel string) (chord, error) {
	parts := strings.Split(accel, "+")
	key := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if key == "" {
		return chord{}, fmt.Errorf("empty accelerator %q", accel)
	}

	c := chord{key: key}
	for _, m := range parts[:len(parts)-1] {
		mod := strings.ToLower(strings.TrimSpace(m))
		if mod == "" {
			return chord{}, fmt.Errorf("malformed accelerator %q", accel)
		}
		c.mods = append(c.mods, mod)
	}
	return c, nil
}
