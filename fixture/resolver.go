package fixture

import (
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions are tried in order within each search directory.
var supportedExtensions = []string{".yml", ".yaml", ".json"}

// FileSystem is the probing seam used by the resolver (useful for testing).
type FileSystem interface {
	Exists(path string) bool
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Resolver locates fixture files by bare name across an ordered list of
// search directories. Extensions are tried within a directory before moving
// to the next directory.
type Resolver struct {
	FS   FileSystem
	Dirs []string
}

// NewResolver creates a resolver over the given directories, searched in
// declared order.
func NewResolver(dirs ...string) *Resolver {
	return &Resolver{FS: osFS{}, Dirs: dirs}
}

// Resolve returns the path of the first matching file for name. Names may
// carry a supported extension already, in which case only that exact file is
// probed per directory. Returns *NotFoundError when nothing matches.
func (r *Resolver) Resolve(name string) (string, error) {
	fs := r.FS
	if fs == nil {
		fs = osFS{}
	}

	explicit := hasSupportedExtension(name)
	for _, dir := range r.Dirs {
		if explicit {
			if path := filepath.Join(dir, name); fs.Exists(path) {
				return path, nil
			}
			continue
		}
		for _, ext := range supportedExtensions {
			if path := filepath.Join(dir, name+ext); fs.Exists(path) {
				return path, nil
			}
		}
	}

	return "", &NotFoundError{Name: name, Dirs: append([]string(nil), r.Dirs...)}
}

func hasSupportedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range supportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
