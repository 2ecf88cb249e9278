package filesystem

import (
	"path/filepath"
	"strings"
)

// WithinRoot reports whether path stays inside root after lexical
// cleaning. Relative paths are resolved against root. The check is
// purely lexical: it rejects traversal out of the tree but does not
// resolve symlinks.
func WithinRoot(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	root = filepath.Clean(root)
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}
	abs = filepath.Clean(abs)
	if abs == root {
		return true
	}
	return strings.HasPrefix(abs, root+string(filepath.Separator))
}
