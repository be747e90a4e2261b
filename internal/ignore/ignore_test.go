package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for ignore:
// - Directory rule "build/" matches the directory by name at any depth
// - Directory rule matches by literal prefix of the relative path
// - Directory rule does not match name prefixes like "buildup"
// - Name globs (*.pyc) match files anywhere in the tree
// - Path globs match against the root-relative path
// - Character classes and '?' follow shell glob semantics
// - Invalid patterns are skipped without failing the matcher
// - LoadProjectRules reads .gitignore, skipping blanks and comments
// - Rel produces forward-slash root-relative paths

func TestMatcher_DirectoryRuleByName(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"build/"})

	assert.True(t, m.Match("build", "build", true))
	assert.True(t, m.Match("build", "a/build", true), "nested directory matches by name")
	assert.False(t, m.Match("buildup", "buildup", true), "name prefix must not match")
}

func TestMatcher_DirectoryRuleByPathPrefix(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"build/"})

	// Files under an ignored directory match by literal prefix even when
	// the directory itself was not consulted first.
	assert.True(t, m.Match("x.txt", "build/x.txt", false))
	assert.False(t, m.Match("z.txt", "buildup/z.txt", false))
}

func TestMatcher_NameGlob(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"*.pyc"})

	assert.True(t, m.Match("mod.pyc", "mod.pyc", false))
	assert.True(t, m.Match("mod.pyc", "deep/nested/mod.pyc", false))
	assert.False(t, m.Match("mod.py", "mod.py", false))
}

func TestMatcher_PathGlob(t *testing.T) {
	t.Parallel()

	// Without a separator in the compiler, '*' crosses '/' like fnmatch.
	m := NewMatcher([]string{"docs/*.md"})

	assert.True(t, m.Match("a.md", "docs/a.md", false))
	assert.True(t, m.Match("b.md", "docs/sub/b.md", false))
	assert.False(t, m.Match("a.md", "src/a.md", false))
}

func TestMatcher_QuestionMarkAndClass(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"file?.txt", "[ab].log"})

	assert.True(t, m.Match("file1.txt", "file1.txt", false))
	assert.False(t, m.Match("file12.txt", "file12.txt", false))
	assert.True(t, m.Match("a.log", "a.log", false))
	assert.False(t, m.Match("c.log", "c.log", false))
}

func TestMatcher_InvalidPatternSkipped(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"[unclosed", "*.tmp"})

	assert.True(t, m.Match("x.tmp", "x.tmp", false), "valid rules still apply")
	assert.False(t, m.Match("[unclosed", "[unclosed", false))
}

func TestDefaultRules_CoverCommonArtifacts(t *testing.T) {
	t.Parallel()

	m := NewMatcher(DefaultRules)

	assert.True(t, m.Match(".git", ".git", true))
	assert.True(t, m.Match("node_modules", "web/node_modules", true))
	assert.True(t, m.Match("cache.pyc", "pkg/cache.pyc", false))
	assert.False(t, m.Match("main.go", "cmd/main.go", false))
}

func TestLoadProjectRules_ReadsGitignore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	content := "# comment\n\n*.secret\ntmp/\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(content), 0644))

	rules := LoadProjectRules(root)
	assert.Equal(t, []string{"*.secret", "tmp/"}, rules)
}

func TestLoadProjectRules_MissingFileYieldsNoRules(t *testing.T) {
	t.Parallel()

	assert.Empty(t, LoadProjectRules(t.TempDir()))
}

func TestRel_ForwardSlashRelative(t *testing.T) {
	t.Parallel()

	root := filepath.Join("home", "proj")
	assert.Equal(t, "a/b.txt", Rel(root, filepath.Join(root, "a", "b.txt")))
}
