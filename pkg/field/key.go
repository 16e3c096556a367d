package field

import "strings"

// Key identifies a key press relevant to selection handling.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeyLeft
	KeyRight
	KeyHome
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyTab
)

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

var keyNames = map[string]Key{
	"enter":  KeyEnter,
	"return": KeyEnter,
	"left":   KeyLeft,
	"right":  KeyRight,
	"home":   KeyHome,
	"up":     KeyUp,
	"down":   KeyDown,
	"pgup":   KeyPageUp,
	"pgdn":   KeyPageDown,
	"tab":    KeyTab,
}

var modNames = map[string]Modifier{
	"shift": ModShift,
	"ctrl":  ModCtrl,
	"alt":   ModAlt,
	"meta":  ModMeta,
}

// ParseKey maps a key name like "enter" or "pgup" to its Key value.
func ParseKey(name string) (Key, bool) {
	k, ok := keyNames[strings.ToLower(name)]
	return k, ok
}

// ParseModifiers folds a list of modifier names into a Modifier mask.
// Unknown names are ignored.
func ParseModifiers(names []string) Modifier {
	var mods Modifier
	for _, n := range names {
		if m, ok := modNames[strings.ToLower(n)]; ok {
			mods |= m
		}
	}
	return mods
}

func (k Key) String() string {
	for name, v := range keyNames {
		if v == k && name != "return" {
			return name
		}
	}
	return "none"
}
