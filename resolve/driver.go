// Package resolve implements the import-resolution driver: a thin loop
// over the parser and the filesystem that turns a top-level schema parse
// into a namespace-keyed set of schemas with their transitive imports
// loaded.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgllghr/cboragen/syntax"
)

// MissingImportPolicy controls what the driver does when an imported
// file cannot be read.
type MissingImportPolicy int

const (
	// MissingImportWarn records a warning and continues resolving the
	// rest of the schema set. This is the default (spec.md §9's open
	// question on missing imports, resolved in favor of the permissive
	// behavior the original driver already had).
	MissingImportWarn MissingImportPolicy = iota
	// MissingImportError aborts resolution of the schema that issued
	// the missing import, surfacing it as a hard error.
	MissingImportError
)

// Warning is a non-fatal condition recorded during resolution, such as a
// missing import file under MissingImportWarn.
type Warning struct {
	Namespace string
	Path      string
	Message   string
}

// Error is an import-resolution failure with a stable numeric code,
// following the same code+message pattern as syntax.Error and
// wire.Error. Import-driver errors use codes in the 3000s.
type Error struct {
	code      uint32
	message   string
	Namespace string
	Path      string
}

func (e *Error) Error() string { return fmt.Sprintf("E%d: %s", e.code, e.message) }
func (e *Error) Code() uint32  { return e.code }

func errMissingImport(namespace, path string, cause error) *Error {
	return &Error{
		code:      3000,
		message:   fmt.Sprintf("could not read import %q: %v", path, cause),
		Namespace: namespace,
		Path:      path,
	}
}

// Driver resolves a schema's imports, transitively, into a SchemaSet. It
// holds no state between calls to Resolve beyond its configuration.
type Driver struct {
	// OnMissingImport selects how a missing import file is handled.
	// Defaults to MissingImportWarn.
	OnMissingImport MissingImportPolicy
}

// SchemaSet is every schema reachable from a root schema, keyed by the
// namespace alias under which it was imported. The root schema itself is
// not present under any namespace key — callers already hold it.
type SchemaSet struct {
	Namespaces map[string]*syntax.Schema
	Warnings   []Warning
	Errors     []*Error
}

func newSchemaSet() *SchemaSet {
	return &SchemaSet{Namespaces: make(map[string]*syntax.Schema)}
}

// HasErrors reports whether any import failed under MissingImportError.
func (s *SchemaSet) HasErrors() bool {
	return len(s.Errors) > 0
}

// Resolve walks root's imports (and their own imports, transitively),
// parsing each file relative to the directory of the file that imported
// it, and returns the combined set of namespaces reached. Resolution is
// idempotent on namespace: a namespace already present is not reparsed,
// even if a deeper import reuses the same alias for a different path.
func (d *Driver) Resolve(root *syntax.Schema, baseDir string) *SchemaSet {
	set := newSchemaSet()
	d.resolveInto(set, root, baseDir)
	return set
}

func (d *Driver) resolveInto(set *SchemaSet, schema *syntax.Schema, baseDir string) {
	for _, imp := range schema.Imports {
		if _, already := set.Namespaces[imp.Namespace]; already {
			continue
		}

		fullPath := filepath.Join(baseDir, imp.Path)
		src, err := os.ReadFile(fullPath)
		if err != nil {
			if d.OnMissingImport == MissingImportError {
				set.Errors = append(set.Errors, errMissingImport(imp.Namespace, imp.Path, err))
				return
			} else {
				set.Warnings = append(set.Warnings, Warning{
					Namespace: imp.Namespace,
					Path:      imp.Path,
					Message:   fmt.Sprintf("could not read import %q: %v", imp.Path, err),
				})
			}
			continue
		}

		result := syntax.Parse(src)
		set.Namespaces[imp.Namespace] = result.Schema

		d.resolveInto(set, result.Schema, filepath.Dir(fullPath))
	}
}
