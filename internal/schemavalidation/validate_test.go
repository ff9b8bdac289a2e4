package schemavalidation

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"officekeys/internal/build"
	"officekeys/internal/config"
	"officekeys/internal/verify"
)

type schemaCase struct {
	name         string
	schemaPath   string
	instancePath string
}

func TestSchemaValidation(t *testing.T) {
	repoRoot := repoRoot(t)
	schemaPath := filepath.Join(repoRoot, "internal", "mapping", "mapping.schema.json")

	var cases []schemaCase
	for _, dir := range []string{"mappings", "defaults"} {
		files, err := filepath.Glob(filepath.Join(repoRoot, dir, "*.json"))
		if err != nil {
			t.Fatalf("glob %s: %v", dir, err)
		}
		for _, f := range files {
			cases = append(cases, schemaCase{
				name:         dir + "/" + filepath.Base(f),
				schemaPath:   schemaPath,
				instancePath: f,
			})
		}
	}
	if len(cases) == 0 {
		t.Fatal("no mapping files found")
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			validateInstance(t, tc.schemaPath, tc.instancePath)
		})
	}
}

// TestDefaultProfilesVerify builds the shipped profiles and checks the
// packages come out clean.
func TestDefaultProfilesVerify(t *testing.T) {
	repoRoot := repoRoot(t)

	b := &build.Builder{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		DistDir: t.TempDir(),
	}

	for _, pc := range config.DefaultProfiles() {
		t.Run(pc.Name, func(t *testing.T) {
			p := build.Profile{
				Name:     pc.Name,
				Mapping:  filepath.Join(repoRoot, pc.Mapping),
				Defaults: filepath.Join(repoRoot, pc.Defaults),
				Output:   pc.Output,
			}

			res, err := b.GenerateProfile(p)
			if err != nil {
				t.Fatalf("generate %s: %v", pc.Name, err)
			}
			if len(res.Skipped) != 0 {
				t.Errorf("skipped records: %+v", res.Skipped)
			}
			if diags := verify.VerifyPackage(res.Path); len(diags) != 0 {
				t.Errorf("verification failed for %s: %v", filepath.Base(res.Path), diags)
			}
		})
	}
}

func validateInstance(t *testing.T, schemaPath, instancePath string) {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}

	instanceData, err := os.ReadFile(instancePath)
	if err != nil {
		t.Fatalf("read instance: %v", err)
	}

	var instance any
	if err := json.Unmarshal(instanceData, &instance); err != nil {
		t.Fatalf("unmarshal instance: %v", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaPath, bytes.NewReader(schemaData)); err != nil {
		t.Fatalf("add schema resource: %v", err)
	}
	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}

	if err := schema.Validate(instance); err != nil {
		t.Fatalf("schema validation failed for %s: %v", filepath.Base(instancePath), err)
	}
}

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to resolve caller path")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
