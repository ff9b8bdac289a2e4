// Package keysym maps human key names to LibreOffice accelerator key codes.
//
// The table is built once and never mutated afterwards, so a Table may be
// shared freely between goroutines.
package keysym

import (
	"fmt"
	"sort"
	"strings"
)

// KeyPlus is the code bound to the literal "+" key.
const KeyPlus = "KEY_ADD"

// named lists the special keys and punctuation with their accepted aliases.
var named = map[string]string{
	"SPACE":     "KEY_SPACE",
	"ENTER":     "KEY_RETURN",
	"RETURN":    "KEY_RETURN",
	"ESC":       "KEY_ESCAPE",
	"ESCAPE":    "KEY_ESCAPE",
	"BACKSPACE": "KEY_BACKSPACE",
	"DELETE":    "KEY_DELETE",
	"UP":        "KEY_UP",
	"DOWN":      "KEY_DOWN",
	"LEFT":      "KEY_LEFT",
	"RIGHT":     "KEY_RIGHT",
	"HOME":      "KEY_HOME",
	"END":       "KEY_END",
	"PAGEUP":    "KEY_PAGEUP",
	"PAGEDOWN":  "KEY_PAGEDOWN",
	"TAB":       "KEY_TAB",
	"INSERT":    "KEY_INSERT",

	"+":         KeyPlus,
	"PLUS":      KeyPlus,
	"-":         "KEY_SUBTRACT",
	"MINUS":     "KEY_SUBTRACT",
	"=":         "KEY_EQUAL",
	"EQUAL":     "KEY_EQUAL",
	".":         "KEY_POINT",
	"POINT":     "KEY_POINT",
	",":         "KEY_COMMA",
	"COMMA":     "KEY_COMMA",
	";":         "KEY_SEMICOLON",
	"SEMICOLON": "KEY_SEMICOLON",
	// ':' has no code of its own; shift state tells it apart from ';'.
	":":            "KEY_SEMICOLON",
	"[":            "KEY_BRACKETLEFT",
	"]":            "KEY_BRACKETRIGHT",
	"BRACKETLEFT":  "KEY_BRACKETLEFT",
	"BRACKETRIGHT": "KEY_BRACKETRIGHT",
	"'":            "KEY_QUOTELEFT",
	"QUOTE":        "KEY_QUOTELEFT",
	"<":            "KEY_LESS",
	">":            "KEY_GREATER",
}

// Table is an immutable lookup from upper-case key names to key codes.
type Table struct {
	codes map[string]string
}

// Default is the table used by the shortcut parser unless another is given.
var Default = New()

// New builds the standard table: named keys, punctuation, A-Z, 0-9 and F1-F12.
func New() *Table {
	codes := make(map[string]string, len(named)+36+12)
	for name, code := range named {
		codes[name] = code
	}
	for _, c := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" {
		codes[string(c)] = "KEY_" + string(c)
	}
	for i := 1; i <= 12; i++ {
		codes[fmt.Sprintf("F%d", i)] = fmt.Sprintf("KEY_F%d", i)
	}
	return &Table{codes: codes}
}

// Lookup returns the key code registered for name. Matching ignores case.
func (t *Table) Lookup(name string) (string, bool) {
	code, ok := t.codes[strings.ToUpper(name)]
	return code, ok
}

// Resolve is Lookup with a fallback: unknown names map to KEY_<NAME> so
// exotic keys pass through instead of being rejected.
func (t *Table) Resolve(name string) string {
	if code, ok := t.Lookup(name); ok {
		return code
	}
	return "KEY_" + strings.ToUpper(name)
}

// Names returns every registered key name in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.codes))
	for name := range t.codes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names.
func (t *Table) Len() int {
	return len(t.codes)
}
