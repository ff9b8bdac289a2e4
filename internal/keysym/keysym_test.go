package keysym

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"SPACE", "KEY_SPACE"},
		{"ENTER", "KEY_RETURN"},
		{"RETURN", "KEY_RETURN"},
		{"esc", "KEY_ESCAPE"},
		{"Escape", "KEY_ESCAPE"},
		{"PAGEDOWN", "KEY_PAGEDOWN"},
		{"+", "KEY_ADD"},
		{"PLUS", "KEY_ADD"},
		{"-", "KEY_SUBTRACT"},
		{"minus", "KEY_SUBTRACT"},
		{";", "KEY_SEMICOLON"},
		{":", "KEY_SEMICOLON"},
		{"[", "KEY_BRACKETLEFT"},
		{"'", "KEY_QUOTELEFT"},
		{"<", "KEY_LESS"},
		{">", "KEY_GREATER"},
		{"A", "KEY_A"},
		{"z", "KEY_Z"},
		{"0", "KEY_0"},
		{"9", "KEY_9"},
		{"F1", "KEY_F1"},
		{"f12", "KEY_F12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := Default.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestLookupMiss(t *testing.T) {
	for _, name := range []string{"F13", "NUMLOCK", "", "CTRL"} {
		_, ok := Default.Lookup(name)
		assert.False(t, ok, name)
	}
}

func TestResolveFallback(t *testing.T) {
	assert.Equal(t, "KEY_F13", Default.Resolve("F13"))
	assert.Equal(t, "KEY_NUMLOCK", Default.Resolve("numlock"))
	assert.Equal(t, "KEY_RETURN", Default.Resolve("return"))
}

func TestSemicolonAndColonShareCode(t *testing.T) {
	semi, _ := Default.Lookup(";")
	colon, _ := Default.Lookup(":")
	assert.Equal(t, semi, colon)
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Default.Names()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Len(t, names, Default.Len())
	// 36 alphanumerics + 12 function keys + named aliases
	assert.Equal(t, len(named)+36+12, Default.Len())
}

func TestNewIsIndependent(t *testing.T) {
	a := New()
	b := New()
	a.codes["SPACE"] = "KEY_X"
	code, _ := b.Lookup("SPACE")
	assert.Equal(t, "KEY_SPACE", code)
}
