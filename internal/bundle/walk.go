package bundle

import (
	"os"
	"path/filepath"
	"sort"

	"llmprep/internal/ignore"
)

// walkFiles traverses root collecting candidate file paths. Ignored
// directories are pruned before descent, so their contents never contribute
// files regardless of deeper rules. Entries at each level are visited in
// name order; symlinked directories are only followed when followSymlinks
// is set. Unreadable directories are skipped silently: per-item failures
// never abort the traversal.
func walkFiles(root string, m *ignore.Matcher, followSymlinks bool) []string {
	var files []string
	walkDir(root, root, m, followSymlinks, &files)
	return files
}

func walkDir(root, dir string, m *ignore.Matcher, followSymlinks bool, files *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		rel := ignore.Rel(root, path)

		isDir := entry.IsDir()
		if !isDir && entry.Type()&os.ModeSymlink != 0 && followSymlinks {
			if info, serr := os.Stat(path); serr == nil && info.IsDir() {
				isDir = true
			}
		}

		if m.Match(entry.Name(), rel, isDir) {
			continue
		}
		if isDir {
			walkDir(root, path, m, followSymlinks, files)
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 && !followSymlinks {
			continue
		}
		*files = append(*files, path)
	}
}
