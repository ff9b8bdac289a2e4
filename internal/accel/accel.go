// Package accel encodes shortcut bindings as a LibreOffice accelerator
// configuration package: a zip archive holding the accelerator list, a
// manifest and an uncompressed mimetype marker.
package accel

import (
	"strings"

	"officekeys/internal/mapping"
	"officekeys/internal/shortcut"
)

// Package layout and vocabulary.
const (
	MimeType     = "application/vnd.sun.xml.ui.configuration"
	MimetypePath = "mimetype"
	DocumentPath = "Configurations2/accelerator/current.xml"
	ManifestPath = "META-INF/manifest.xml"

	NamespaceAccel    = "http://openoffice.org/2001/accel"
	NamespaceXLink    = "http://www.w3.org/1999/xlink"
	NamespaceManifest = "http://openoffice.org/2001/manifest"

	CommandPrefix = mapping.CommandPrefix
)

// Item is one binding of a key combination to a command.
type Item struct {
	Shortcut shortcut.Shortcut
	Command  string
}

// Skipped is a record that could not be turned into an Item.
type Skipped struct {
	Record mapping.Record
	Err    error
}

// Compile parses every record's shortcut. Records whose shortcut names no
// key are returned in skipped and left out of items.
func Compile(records []mapping.Record) (items []Item, skipped []Skipped) {
	items = make([]Item, 0, len(records))
	for _, r := range records {
		sc, err := shortcut.Parse(r.MSShortcut)
		if err != nil {
			skipped = append(skipped, Skipped{Record: r, Err: err})
			continue
		}
		items = append(items, Item{Shortcut: sc, Command: r.UnoCommand})
	}
	return items, skipped
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeAttr escapes s for use inside a double-quoted XML attribute.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// EncodeDocument renders the accelerator list XML for items.
func EncodeDocument(items []Item) []byte {
	lines := make([]string, 0, len(items)+4)
	lines = append(lines,
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<!DOCTYPE accel:acceleratorlist PUBLIC "-//OpenOffice.org//DTD OfficeDocument 1.0//EN" "accelerator.dtd">`,
		`<accel:acceleratorlist xmlns:accel="`+NamespaceAccel+`" xmlns:xlink="`+NamespaceXLink+`">`,
	)

	for _, it := range items {
		var b strings.Builder
		b.WriteString(` <accel:item accel:code="`)
		b.WriteString(EscapeAttr(it.Shortcut.KeyCode))
		b.WriteString(`" xlink:href="`)
		b.WriteString(EscapeAttr(it.Command))
		b.WriteString(`"`)
		if it.Shortcut.Shift {
			b.WriteString(` accel:shift="true"`)
		}
		if it.Shortcut.Mod1 {
			b.WriteString(` accel:mod1="true"`)
		}
		if it.Shortcut.Mod2 {
			b.WriteString(` accel:mod2="true"`)
		}
		b.WriteString(`/>`)
		lines = append(lines, b.String())
	}

	lines = append(lines, `</accel:acceleratorlist>`)
	return []byte(strings.Join(lines, "\n"))
}

const manifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="` + NamespaceManifest + `">
 <manifest:file-entry manifest:full-path="/" manifest:media-type="` + MimeType + `"/>
 <manifest:file-entry manifest:full-path="Configurations2/" manifest:media-type="` + MimeType + `"/>
 <manifest:file-entry manifest:full-path="` + DocumentPath + `" manifest:media-type=""/>
</manifest:manifest>`

// Manifest returns the fixed package manifest.
func Manifest() []byte {
	return []byte(manifest)
}
