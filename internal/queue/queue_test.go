package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for queue:
// - Load keeps existing files in input order, skipping blanks and dupes
// - Load counts vanished files and directories as missing
// - Save writes the queue sorted by basename with LF endings
// - Duplicates reports later case-insensitive basename collisions
// - Dedupe keeps the first occurrence of each basename

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	return p
}

func TestLoad_SkipsBlanksAndDuplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := touch(t, dir, "a.txt")
	b := touch(t, dir, "b.txt")

	qf := filepath.Join(dir, "queue.txt")
	content := a + "\n\n  \n" + b + "\n" + a + "\n"
	require.NoError(t, os.WriteFile(qf, []byte(content), 0644))

	res, err := Load(qf)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, res.Paths)
	assert.Equal(t, 0, res.Missing)
}

func TestLoad_CountsMissingAndDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := touch(t, dir, "a.txt")
	gone := filepath.Join(dir, "gone.txt")
	sub := filepath.Join(dir, "subdir")
	require.NoError(t, os.Mkdir(sub, 0755))

	qf := filepath.Join(dir, "queue.txt")
	require.NoError(t, os.WriteFile(qf, []byte(a+"\n"+gone+"\n"+sub+"\n"), 0644))

	res, err := Load(qf)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, res.Paths)
	assert.Equal(t, 2, res.Missing)
}

func TestLoad_MissingQueueFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestSave_SortsByBasename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	qf := filepath.Join(dir, "queue.txt")
	paths := []string{"/x/zeta.txt", "/y/alpha.txt", "/z/mango.txt"}

	require.NoError(t, Save(qf, paths))

	raw, err := os.ReadFile(qf)
	require.NoError(t, err)
	assert.Equal(t, "/y/alpha.txt\n/z/mango.txt\n/x/zeta.txt\n", string(raw))
}

func TestSave_EmptyQueueWritesEmptyFile(t *testing.T) {
	t.Parallel()

	qf := filepath.Join(t.TempDir(), "queue.txt")
	require.NoError(t, Save(qf, nil))

	raw, err := os.ReadFile(qf)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestDuplicates_CaseInsensitiveBasenames(t *testing.T) {
	t.Parallel()

	paths := []string{"/a/Report.txt", "/b/report.TXT", "/c/other.txt"}
	assert.Equal(t, []string{"/b/report.TXT"}, Duplicates(paths))
	assert.Empty(t, Duplicates([]string{"/a/one.txt", "/b/two.txt"}))
}

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	paths := []string{"/a/Report.txt", "/b/report.TXT", "/c/other.txt"}
	assert.Equal(t, []string{"/a/Report.txt", "/c/other.txt"}, Dedupe(paths))
}
