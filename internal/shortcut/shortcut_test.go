package shortcut

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officekeys/internal/keysym"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Shortcut
	}{
		{"Ctrl+S", Shortcut{KeyCode: "KEY_S", Mod1: true}},
		{"ctrl+s", Shortcut{KeyCode: "KEY_S", Mod1: true}},
		{"Ctrl+Shift+D", Shortcut{KeyCode: "KEY_D", Mod1: true, Shift: true}},
		{"Shift+F11", Shortcut{KeyCode: "KEY_F11", Shift: true}},
		{"Alt+F4", Shortcut{KeyCode: "KEY_F4", Mod2: true}},
		{"Ctrl+Alt+Shift+Delete", Shortcut{KeyCode: "KEY_DELETE", Mod1: true, Mod2: true, Shift: true}},
		{"Ctrl++", Shortcut{KeyCode: "KEY_ADD", Mod1: true}},
		{"Ctrl+Shift++", Shortcut{KeyCode: "KEY_ADD", Mod1: true, Shift: true}},
		{"+", Shortcut{KeyCode: "KEY_ADD"}},
		{"+++", Shortcut{KeyCode: "KEY_ADD"}},
		{"Ctrl+-", Shortcut{KeyCode: "KEY_SUBTRACT", Mod1: true}},
		{"Ctrl+;", Shortcut{KeyCode: "KEY_SEMICOLON", Mod1: true}},
		{"Ctrl+Shift+:", Shortcut{KeyCode: "KEY_SEMICOLON", Mod1: true, Shift: true}},
		{"Ctrl+PageDown", Shortcut{KeyCode: "KEY_PAGEDOWN", Mod1: true}},
		{"Enter", Shortcut{KeyCode: "KEY_RETURN"}},
		{"Backspace", Shortcut{KeyCode: "KEY_BACKSPACE"}},
		{"Ctrl+NumLock", Shortcut{KeyCode: "KEY_NUMLOCK", Mod1: true}},
		{"A+B", Shortcut{KeyCode: "KEY_B"}},
		{"Shift+Alt", Shortcut{KeyCode: "KEY_ADD", Shift: true, Mod2: true}},
		{"+A", Shortcut{KeyCode: "KEY_ADD"}},
		{"+A+", Shortcut{KeyCode: "KEY_ADD"}},
		{"A++B", Shortcut{KeyCode: "KEY_ADD"}},
		{"Ctrl++A", Shortcut{KeyCode: "KEY_ADD", Mod1: true}},
		{"A++", Shortcut{KeyCode: "KEY_ADD"}},
		{"++A", Shortcut{KeyCode: "KEY_A"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNoKey(t *testing.T) {
	for _, input := range []string{"", "Ctrl", "Ctrl+Shift", "CTRL+ALT"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoKey))
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	inputs := []string{"Ctrl+S", "Ctrl++", "+", "A+B", "Shift+F11", "Ctrl"}
	for _, input := range inputs {
		first, firstErr := Parse(input)
		for i := 0; i < 3; i++ {
			again, err := Parse(input)
			assert.Equal(t, first, again, input)
			assert.Equal(t, firstErr, err, input)
		}
	}
}

func TestParseAliasEquivalence(t *testing.T) {
	enter := MustParse("Enter")
	ret := MustParse("Return")
	assert.Equal(t, enter, ret)

	assert.Equal(t, MustParse("Ctrl+Esc"), MustParse("ctrl+ESCAPE"))
	assert.Equal(t, MustParse("Ctrl+Plus"), MustParse("Ctrl++"))
}

func TestParserCustomTable(t *testing.T) {
	p := Parser{Table: keysym.New()}
	got, err := p.Parse("Alt+Return")
	require.NoError(t, err)
	assert.Equal(t, Shortcut{KeyCode: "KEY_RETURN", Mod2: true}, got)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("Ctrl+Shift") })
}

func TestShortcutString(t *testing.T) {
	assert.Equal(t, "Ctrl+Alt+Shift+KEY_S", MustParse("Shift+Alt+Ctrl+S").String())
	assert.Equal(t, "KEY_F5", MustParse("F5").String())
}
