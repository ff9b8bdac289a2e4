// Package verify checks accelerator configuration packages for structural
// problems, conflicting bindings and missing essential shortcuts.
package verify

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"officekeys/internal/accel"
)

// Key is the identity of a binding: a key code plus modifier state.
type Key struct {
	Code  string
	Shift bool
	Mod1  bool
	Mod2  bool
}

// Critical names a binding whose absence makes the package unusable.
type Critical struct {
	Key  Key
	Name string
}

var criticalKeys = []Critical{
	{Key{Code: "KEY_BACKSPACE"}, "Backspace"},
	{Key{Code: "KEY_DELETE"}, "Delete"},
	{Key{Code: "KEY_RETURN"}, "Enter"},
	{Key{Code: "KEY_ESCAPE"}, "Escape"},
	{Key{Code: "KEY_TAB"}, "Tab"},
	{Key{Code: "KEY_UP"}, "Up Arrow"},
	{Key{Code: "KEY_DOWN"}, "Down Arrow"},
	{Key{Code: "KEY_LEFT"}, "Left Arrow"},
	{Key{Code: "KEY_RIGHT"}, "Right Arrow"},
	{Key{Code: "KEY_HOME"}, "Home"},
	{Key{Code: "KEY_END"}, "End"},
	{Key{Code: "KEY_PAGEUP"}, "Page Up"},
	{Key{Code: "KEY_PAGEDOWN"}, "Page Down"},
}

var criticalCombos = []Critical{
	{Key{Code: "KEY_C", Mod1: true}, "Ctrl+C (Copy)"},
	{Key{Code: "KEY_X", Mod1: true}, "Ctrl+X (Cut)"},
	{Key{Code: "KEY_V", Mod1: true}, "Ctrl+V (Paste)"},
	{Key{Code: "KEY_Z", Mod1: true}, "Ctrl+Z (Undo)"},
	{Key{Code: "KEY_Y", Mod1: true}, "Ctrl+Y (Redo)"},
	{Key{Code: "KEY_S", Mod1: true}, "Ctrl+S (Save)"},
	{Key{Code: "KEY_A", Mod1: true}, "Ctrl+A (Select All)"},
}

// CriticalKeys returns the keys that must be bound without modifiers.
func CriticalKeys() []Critical {
	return append([]Critical(nil), criticalKeys...)
}

// CriticalCombos returns the Ctrl combinations that must be bound.
func CriticalCombos() []Critical {
	return append([]Critical(nil), criticalCombos...)
}

// element is one accelerator item as read from the document.
type element struct {
	attrs   []xml.Attr
	code    string
	command string
	key     Key
}

// VerifyPackage checks the package at path and returns its diagnostics.
// An empty result means the package is valid.
func VerifyPackage(path string) []string {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return []string{openError(err)}
	}
	defer zr.Close()
	return verifyArchive(&zr.Reader)
}

// VerifyReader is VerifyPackage for an archive held in memory.
func VerifyReader(r io.ReaderAt, size int64) []string {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return []string{openError(err)}
	}
	return verifyArchive(zr)
}

func openError(err error) string {
	if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrAlgorithm) || errors.Is(err, zip.ErrChecksum) {
		return "Invalid Zip File"
	}
	return fmt.Sprintf("Unexpected error: %v", err)
}

func verifyArchive(zr *zip.Reader) []string {
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == accel.DocumentPath {
			doc = f
			break
		}
	}
	if doc == nil {
		return []string{"Missing " + accel.DocumentPath}
	}

	data, err := readFile(doc)
	if err != nil {
		return []string{openError(err)}
	}

	elems, err := parseDocument(data)
	if err != nil {
		return []string{fmt.Sprintf("XML Parse Error: %v", err)}
	}
	return check(elems)
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// xmlURL is the namespace encoding/xml gives the reserved "xml" prefix.
const xmlURL = "http://www.w3.org/XML/1998/namespace"

// parseDocument reads the whole document and returns every accel:item
// element. A malformed document yields an error and no elements.
//
// encoding/xml tolerates a second root element and leaves unbound prefixes
// in Name.Space, so both are rejected here.
func parseDocument(data []byte) ([]element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var elems []element
	var scopes [][]string
	depth := 0
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && sawRoot {
				return nil, lineError(dec, "junk after document element")
			}
			sawRoot = true
			depth++
			scopes = append(scopes, declarations(t.Attr))
			if !bound(scopes, t.Name, true) {
				return nil, lineError(dec, "unbound prefix")
			}
			for _, a := range t.Attr {
				if !bound(scopes, a.Name, false) {
					return nil, lineError(dec, "unbound prefix")
				}
			}
			if t.Name.Space == accel.NamespaceAccel && t.Name.Local == "item" {
				elems = append(elems, newElement(t.Attr))
			}

		case xml.EndElement:
			depth--
			scopes = scopes[:len(scopes)-1]

		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				if sawRoot {
					return nil, lineError(dec, "junk after document element")
				}
				return nil, lineError(dec, "syntax error")
			}
		}
	}

	if !sawRoot {
		return nil, errors.New("no element found")
	}
	return elems, nil
}

// declarations returns the namespace URIs an element's attributes declare.
func declarations(attrs []xml.Attr) []string {
	var uris []string
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			uris = append(uris, a.Value)
		}
	}
	return uris
}

// bound reports whether name resolved to a namespace declared in scope.
func bound(scopes [][]string, name xml.Name, isElement bool) bool {
	switch {
	case name.Space == "", name.Space == xmlURL:
		return true
	case !isElement && name.Space == "xmlns":
		return true
	}
	for _, uris := range scopes {
		for _, u := range uris {
			if u == name.Space {
				return true
			}
		}
	}
	return false
}

func lineError(dec *xml.Decoder, msg string) error {
	line, _ := dec.InputPos()
	return fmt.Errorf("%s: line %d", msg, line)
}

// charsetReader decodes documents that declare a non-UTF-8 encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func newElement(attrs []xml.Attr) element {
	e := element{attrs: attrs}
	for _, a := range attrs {
		switch {
		case a.Name.Space == accel.NamespaceAccel && a.Name.Local == "code":
			e.code = a.Value
		case a.Name.Space == accel.NamespaceXLink && a.Name.Local == "href":
			e.command = a.Value
		case a.Name.Space == accel.NamespaceAccel && a.Name.Local == "shift":
			e.key.Shift = a.Value == "true"
		case a.Name.Space == accel.NamespaceAccel && a.Name.Local == "mod1":
			e.key.Mod1 = a.Value == "true"
		case a.Name.Space == accel.NamespaceAccel && a.Name.Local == "mod2":
			e.key.Mod2 = a.Value == "true"
		}
	}
	e.key.Code = e.code
	return e
}

// String renders the element for diagnostics.
func (e element) String() string {
	var b strings.Builder
	b.WriteString("<accel:item")
	for _, a := range e.attrs {
		b.WriteByte(' ')
		switch a.Name.Space {
		case accel.NamespaceAccel:
			b.WriteString("accel:")
		case accel.NamespaceXLink:
			b.WriteString("xlink:")
		case xmlURL:
			b.WriteString("xml:")
		case "":
		case "xmlns":
			b.WriteString("xmlns:")
		default:
			b.WriteString(a.Name.Space + ":")
		}
		b.WriteString(a.Name.Local)
		b.WriteString(`="`)
		b.WriteString(accel.EscapeAttr(a.Value))
		b.WriteByte('"')
	}
	b.WriteString("/>")
	return b.String()
}

func check(elems []element) []string {
	var diags []string
	seen := make(map[Key]bool, len(elems))

	for _, e := range elems {
		if e.code == "" {
			diags = append(diags, "Item missing code: "+e.String())
			continue
		}
		if e.command == "" {
			diags = append(diags, "Item missing command: "+e.String())
			continue
		}

		if !strings.HasPrefix(e.command, accel.CommandPrefix) {
			diags = append(diags, fmt.Sprintf("Invalid command format (must start with %s): %s", accel.CommandPrefix, e.command))
		}

		if seen[e.key] {
			diags = append(diags, fmt.Sprintf("Duplicate key assignment: %s (shift=%t, mod1=%t, mod2=%t) assigned to %s",
				e.key.Code, e.key.Shift, e.key.Mod1, e.key.Mod2, e.command))
		}
		seen[e.key] = true
	}

	for _, c := range criticalKeys {
		if !seen[c.Key] {
			diags = append(diags, fmt.Sprintf("CRITICAL MISSING: %s (%s) is not bound!", c.Name, c.Key.Code))
		}
	}
	for _, c := range criticalCombos {
		if !seen[c.Key] {
			diags = append(diags, fmt.Sprintf("CRITICAL MISSING: %s is not bound!", c.Name))
		}
	}

	return diags
}
