package fixture

import (
	"errors"
	"path/filepath"
	"testing"
)

// fakeFS answers Exists from a fixed set of paths.
type fakeFS map[string]bool

func (f fakeFS) Exists(path string) bool { return f[path] }

func TestResolverExtensionOrderWithinDirectory(t *testing.T) {
	fs := fakeFS{
		filepath.Join("fixtures", "authors.yaml"): true,
		filepath.Join("fixtures", "authors.json"): true,
	}
	r := &Resolver{FS: fs, Dirs: []string{"fixtures"}}

	path, err := r.Resolve("authors")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if want := filepath.Join("fixtures", "authors.yaml"); path != want {
		t.Errorf("path = %q, want %q (.yaml beats .json)", path, want)
	}
}

func TestResolverDirectoryPriorityBeatsExtension(t *testing.T) {
	// A .json in the first directory wins over a .yml in a later one:
	// extensions are exhausted within a directory before moving on.
	fs := fakeFS{
		filepath.Join("fixtures", "authors.json"): true,
		filepath.Join("extra", "authors.yml"):     true,
	}
	r := &Resolver{FS: fs, Dirs: []string{"fixtures", "extra"}}

	path, err := r.Resolve("authors")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if want := filepath.Join("fixtures", "authors.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

func TestResolverExplicitExtension(t *testing.T) {
	fs := fakeFS{
		filepath.Join("fixtures", "authors.yml"):  true,
		filepath.Join("extra", "authors.json"):    true,
		filepath.Join("fixtures", "authors.json"): false,
	}
	r := &Resolver{FS: fs, Dirs: []string{"fixtures", "extra"}}

	path, err := r.Resolve("authors.json")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if want := filepath.Join("extra", "authors.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

func TestResolverNotFound(t *testing.T) {
	r := &Resolver{FS: fakeFS{}, Dirs: []string{"fixtures", "extra"}}

	_, err := r.Resolve("missing")
	if err == nil {
		t.Fatal("expected error for unresolvable fixture")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
	if nf.Name != "missing" {
		t.Errorf("Name = %q, want missing", nf.Name)
	}
	if len(nf.Dirs) != 2 {
		t.Errorf("Dirs = %v, want both search directories", nf.Dirs)
	}
}

func TestResolverDefaultsToOSFileSystem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "authors.yml", "[]")

	r := NewResolver(dir)
	path, err := r.Resolve("authors")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if want := filepath.Join(dir, "authors.yml"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	// Directories must not satisfy a probe.
	if (osFS{}).Exists(dir) {
		t.Error("osFS.Exists should be false for directories")
	}
}
