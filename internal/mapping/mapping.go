// Package mapping holds shortcut mapping records and merges a profile's
// default mappings with user overrides.
package mapping

import "strings"

// CommandPrefix is the namespace every UNO command reference starts with.
const CommandPrefix = ".uno:"

// Record maps one application command to an Office-style shortcut.
type Record struct {
	CommandName string `json:"command_name" yaml:"command_name"`
	UnoCommand  string `json:"uno_command" yaml:"uno_command"`
	MSShortcut  string `json:"ms_shortcut" yaml:"ms_shortcut"`
}

// HasCommandPrefix reports whether the UNO command is in the .uno: namespace.
func (r Record) HasCommandPrefix() bool {
	return strings.HasPrefix(r.UnoCommand, CommandPrefix)
}

// Override records a default mapping dropped in favour of a custom one.
type Override struct {
	Default Record
	Custom  Record
}

// MergeResult is the output of Merge.
type MergeResult struct {
	Records   []Record
	Overrides []Override
}

// NormalizeShortcut returns the key used to detect conflicting shortcuts:
// upper-cased with all whitespace removed.
func NormalizeShortcut(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), "")
}

// Merge combines defaults and customs. Defaults whose shortcut is also
// claimed by a custom record are dropped; the rest keep their order and come
// first, followed by every custom record in order.
func Merge(customs, defaults []Record) MergeResult {
	if defaults == nil {
		return MergeResult{Records: append([]Record(nil), customs...)}
	}

	byKey := make(map[string]Record, len(customs))
	for _, c := range customs {
		byKey[NormalizeShortcut(c.MSShortcut)] = c
	}

	res := MergeResult{Records: make([]Record, 0, len(defaults)+len(customs))}
	for _, d := range defaults {
		if c, ok := byKey[NormalizeShortcut(d.MSShortcut)]; ok {
			res.Overrides = append(res.Overrides, Override{Default: d, Custom: c})
			continue
		}
		res.Records = append(res.Records, d)
	}
	res.Records = append(res.Records, customs...)
	return res
}
