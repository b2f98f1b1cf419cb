package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgllghr/cboragen/syntax"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveDirectImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "geo.cbora", "Point = struct {\n\t0 x: f32\n\t1 y: f32\n}\n")
	rootSrc := `geo = @import("geo.cbora")
Shape = geo.Point
`
	result := syntax.Parse([]byte(rootSrc))
	if result.Diagnostics.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", result.Diagnostics.Slice())
	}

	d := &Driver{}
	set := d.Resolve(result.Schema, dir)
	if set.HasErrors() {
		t.Fatalf("unexpected errors: %+v", set.Errors)
	}
	geoSchema, ok := set.Namespaces["geo"]
	if !ok {
		t.Fatal("expected geo namespace to be resolved")
	}
	if len(geoSchema.Definitions) != 1 || geoSchema.Definitions[0].Name != "Point" {
		t.Fatalf("unexpected geo schema: %+v", geoSchema.Definitions)
	}
}

func TestResolveIdempotentOnNamespace(t *testing.T) {
	// Diamond dependency: both b.cbora and c.cbora import the same
	// "shared" namespace; the driver must not reparse it the second time.
	dir := t.TempDir()
	writeFile(t, dir, "shared.cbora", "S = u8\n")
	writeFile(t, dir, "b.cbora", `shared = @import("shared.cbora")
B = shared.S
`)
	writeFile(t, dir, "c.cbora", `shared = @import("shared.cbora")
C = shared.S
`)
	rootSrc := `b = @import("b.cbora")
c = @import("c.cbora")
`
	result := syntax.Parse([]byte(rootSrc))
	d := &Driver{}
	set := d.Resolve(result.Schema, dir)
	if set.HasErrors() {
		t.Fatalf("unexpected errors: %+v", set.Errors)
	}
	if _, ok := set.Namespaces["shared"]; !ok {
		t.Fatal("expected shared namespace to be resolved via one of the branches")
	}
	if len(set.Namespaces) != 3 {
		t.Fatalf("expected b, c, shared namespaces, got %v", set.Namespaces)
	}
}

func TestResolveMissingImportWarnsByDefault(t *testing.T) {
	rootSrc := `missing = @import("does-not-exist.cbora")
`
	result := syntax.Parse([]byte(rootSrc))
	d := &Driver{}
	set := d.Resolve(result.Schema, t.TempDir())
	if set.HasErrors() {
		t.Fatal("default policy should warn, not error")
	}
	if len(set.Warnings) != 1 {
		t.Fatalf("expected one warning, got %d", len(set.Warnings))
	}
}

func TestResolveMissingImportErrorsWhenConfigured(t *testing.T) {
	rootSrc := `missing = @import("does-not-exist.cbora")
`
	result := syntax.Parse([]byte(rootSrc))
	d := &Driver{OnMissingImport: MissingImportError}
	set := d.Resolve(result.Schema, t.TempDir())
	if !set.HasErrors() {
		t.Fatal("expected an error under MissingImportError")
	}
	if len(set.Errors) != 1 {
		t.Fatalf("expected one error, got %d", len(set.Errors))
	}
	if set.Errors[0].Code() != 3000 {
		t.Fatalf("got code %d, want 3000", set.Errors[0].Code())
	}
}
