package security

import (
	"path/filepath"
	"strings"

	"github.com/doeshing/clai/internal/domain"
	"github.com/doeshing/clai/internal/pkg/filesystem"
)

// systemPrefixes are absolute OS locations that are red regardless of
// where the project root happens to be.
var systemPrefixes = []string{
	"/etc", "/var", "/usr", "/boot", "/bin", "/sbin",
	"/lib", "/lib64", "/opt", "/sys", "/proc", "/dev",
}

// homePrefixes are per-user home trees; anything under them references
// dotfiles, credentials, and shell config the assistant has no business
// touching.
var homePrefixes = []string{"/home/", "/Users/", "/root/"}

// AnalyzePath classifies a single path-like argument. Rules apply in
// precedence order with the most severe checks first; the first match
// wins. Unrecognized filenames stay green on purpose: over-blocking
// normal development work is worse than missing an exotic filename.
func (p *Policy) AnalyzePath(path, cwd string) domain.SafetyLevel {
	if path == "" {
		return domain.SafetyGreen
	}
	if hasTraversal(path) {
		return domain.SafetyRed
	}
	if referencesHome(path) {
		return domain.SafetyRed
	}
	if isSystemPath(path) {
		return domain.SafetyRed
	}
	if filepath.IsAbs(path) {
		if filesystem.WithinRoot(cwd, path) {
			// Absolute-but-in-project is no riskier than relative.
			return p.filenameRisk(path)
		}
		return domain.SafetyYellow
	}
	return p.filenameRisk(path)
}

// filenameRisk applies the name-based heuristics: hidden files, sensitive
// extensions, and secret-looking .json basenames.
func (p *Policy) filenameRisk(path string) domain.SafetyLevel {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." {
		return domain.SafetyYellow
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if ext == "" {
		return domain.SafetyGreen
	}
	if _, ok := p.sensitiveExt[ext]; ok {
		return domain.SafetyYellow
	}
	if ext == "json" {
		stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
		for _, keyword := range p.JSONSecretKeywords {
			if strings.Contains(stem, keyword) {
				return domain.SafetyYellow
			}
		}
	}
	return domain.SafetyGreen
}

// hasTraversal reports whether any path segment is "..". A traversal
// anywhere poisons the whole path, even when followed by a harmless name.
func hasTraversal(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func referencesHome(path string) bool {
	// A leading tilde is a home reference whether or not a username
	// follows: ~, ~/x, and ~alice/x all expand into someone's home.
	if strings.HasPrefix(path, "~") {
		return true
	}
	if strings.Contains(path, "$HOME") {
		return true
	}
	if path == "/root" {
		return true
	}
	for _, prefix := range homePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isSystemPath(path string) bool {
	for _, prefix := range systemPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

