package mapping

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// Errors
var (
	ErrSchema        = errors.New("mapping: document does not match schema")
	ErrUnknownFormat = errors.New("mapping: unknown file format")
)

const schemaURL = "https://officekeys.local/schema/mapping-v1.schema.json"

//go:embed mapping.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// LoadFile reads a mapping list. Files ending in .yaml or .yml are read as
// YAML, everything else as JSON. JSON documents are checked against the
// mapping schema before decoding. UTF-8 and UTF-16 byte order marks are
// honoured.
func LoadFile(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	data, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// LoadOptional is LoadFile for files that may legitimately be absent, such
// as a profile's defaults. A missing file yields nil records and no error.
func LoadOptional(path string) ([]Record, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return LoadFile(path)
}

// DecodeJSON validates data against the mapping schema and decodes it.
func DecodeJSON(data []byte) ([]Record, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return records, nil
}

// DecodeYAML decodes a YAML sequence of mapping records.
func DecodeYAML(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	for i, r := range records {
		if r.MSShortcut == "" || r.UnoCommand == "" {
			return nil, fmt.Errorf("%w: record %d needs uno_command and ms_shortcut", ErrSchema, i)
		}
	}
	return records, nil
}

// SaveFile writes records as JSON with four-space indentation, or as YAML
// when the path ends in .yaml or .yml.
func SaveFile(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(records)
	case ".json", "":
		data, err = json.MarshalIndent(records, "", "    ")
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode mappings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write mapping file: %w", err)
	}
	return nil
}

// decodeText strips a byte order mark and converts UTF-16 input to UTF-8.
func decodeText(raw []byte) ([]byte, error) {
	t := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(t, raw)
	return out, err
}
