// Package shortcut parses Office-style shortcut notation ("Ctrl+Shift+D",
// "Ctrl++", "Shift+F11") into accelerator key codes and modifier flags.
package shortcut

import (
	"errors"
	"fmt"
	"strings"

	"officekeys/internal/keysym"
)

// ErrNoKey is returned when a shortcut names modifiers but no key.
var ErrNoKey = errors.New("shortcut: no key in shortcut")

// Shortcut is a parsed key combination. Mod1 is the primary (Ctrl) modifier
// and Mod2 the secondary (Alt) modifier.
type Shortcut struct {
	KeyCode string
	Shift   bool
	Mod1    bool
	Mod2    bool
}

// String renders the shortcut as "Ctrl+Alt+Shift+KEY_X".
func (s Shortcut) String() string {
	var b strings.Builder
	if s.Mod1 {
		b.WriteString("Ctrl+")
	}
	if s.Mod2 {
		b.WriteString("Alt+")
	}
	if s.Shift {
		b.WriteString("Shift+")
	}
	b.WriteString(s.KeyCode)
	return b.String()
}

// Parser resolves key names through a symbol table.
type Parser struct {
	Table *keysym.Table
}

var defaultParser = Parser{Table: keysym.Default}

// Parse parses s with the default symbol table.
func Parse(s string) (Shortcut, error) {
	return defaultParser.Parse(s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Shortcut {
	sc, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sc
}

// Parse converts shortcut notation into a Shortcut.
//
// "+" is both the separator and a key, so a literal plus shows up as empty
// tokens after splitting ("CTRL++" splits into CTRL, "", ""). An empty token
// is read as the "+" key and the token after it is dropped, so "Ctrl++A"
// binds Ctrl and plus. When several key tokens remain, the last one wins.
func (p Parser) Parse(s string) (Shortcut, error) {
	table := p.Table
	if table == nil {
		table = keysym.Default
	}
	if s == "" {
		return Shortcut{}, fmt.Errorf("%w: empty shortcut", ErrNoKey)
	}

	upper := strings.ToUpper(s)
	var sc Shortcut
	var keys []string

	toks := strings.Split(upper, "+")
	for i := 0; i < len(toks); i++ {
		switch tok := toks[i]; tok {
		case "CTRL":
			sc.Mod1 = true
		case "ALT":
			sc.Mod2 = true
		case "SHIFT":
			sc.Shift = true
		case "":
			keys = append(keys, "+")
			i++
		default:
			keys = append(keys, tok)
		}
	}

	if len(keys) == 0 {
		if strings.Contains(s, "+") && !strings.Contains(upper, "CTRL") {
			sc.KeyCode = keysym.KeyPlus
			return sc, nil
		}
		return Shortcut{}, fmt.Errorf("%w: %q", ErrNoKey, s)
	}

	sc.KeyCode = table.Resolve(keys[len(keys)-1])
	return sc, nil
}
