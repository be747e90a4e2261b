// Package ignore decides whether filesystem entries are excluded from
// traversal, using shell-style glob rules.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultRules is the built-in exclusion set. Project rules from .gitignore
// are appended after these; defaults are never overridden, only supplemented.
var DefaultRules = []string{
	// VCS
	".git/", ".gitignore", ".gitattributes",
	// Common lockfiles
	"poetry.lock", "pnpm-lock.yaml", "package-lock.json", "yarn.lock",
	// Python
	"__pycache__/", "*.pyc", "*.pyo", "*.pyd", "*.egg", "*.egg-info/", "pip-wheel-metadata/",
	// Virtual environments
	"venv/", ".venv/", "env/", ".tox/",
	// Dotnet
	"bin/", "obj/", "*.csproj.user", "*.sln.dotsettings",
	// Node
	"node_modules/", ".pnpm-store/",
	// Env
	".env", ".env.*",
	// IDE
	"nbproject/", "*.sublime-workspace", ".vscode/", ".idea/",
	// PHP
	"vendor/",
	// Build artifacts
	"build/", "dist/", "target/", "out/",
	// Logs, DBs, caches
	"*.log", "*.db", "*.sqlite", "*.sqlite3", "*.db-journal",
	// OS-specific
	".DS_Store", "Thumbs.db",
}

// rule is a single compiled ignore pattern. Directory rules (trailing '/')
// additionally match by literal prefix of the relative path.
type rule struct {
	pattern string
	isDir   bool
	g       glob.Glob
}

// Matcher reports whether entries should be excluded. It is immutable after
// construction and safe for concurrent use.
type Matcher struct {
	rules []rule
}

// NewMatcher compiles the given patterns. Patterns are compiled without a
// separator so '*' crosses '/' the way fnmatch does. Invalid patterns are
// skipped rather than failing the whole set, since .gitignore contents are
// user input.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.ReplaceAll(p, "\\", "/")
		if p == "" {
			continue
		}
		isDir := strings.HasSuffix(p, "/")
		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		m.rules = append(m.rules, rule{pattern: p, isDir: isDir, g: g})
	}
	return m
}

// Match reports whether the entry should be ignored. name is the bare entry
// name, rel the forward-slash root-relative path, and isDir whether the
// entry is a directory. Directory entries are expected before descent, so a
// match prunes the whole subtree.
func (m *Matcher) Match(name, rel string, isDir bool) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	if isDir && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	for _, r := range m.rules {
		if r.isDir {
			if r.g.Match(name+"/") || r.g.Match(rel) || strings.HasPrefix(rel, r.pattern) {
				return true
			}
		} else {
			if r.g.Match(name) || r.g.Match(rel) {
				return true
			}
		}
	}
	return false
}

// Rel returns the forward-slash root-relative form of path used for
// matching. Paths outside root are returned as-is (normalized).
func Rel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// LoadProjectRules reads ignore patterns from the project's .gitignore,
// skipping blanks and comments. A missing or unreadable file yields no
// rules; supplementing the defaults is strictly best-effort.
func LoadProjectRules(root string) []string {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
