// Package queue manages document queue files: newline-separated absolute
// file paths, one per line.
package queue

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadResult reports what a queue import found.
type LoadResult struct {
	Paths   []string // existing files, input order, duplicates dropped
	Missing int      // lines pointing at files that do not exist
}

// Load reads a queue file. Blank lines are skipped, duplicate paths keep
// their first position, and paths that no longer exist are counted but
// dropped.
func Load(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue file: %w", err)
	}
	defer f.Close()

	res := &LoadResult{}
	seen := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		if info, serr := os.Stat(line); serr != nil || info.IsDir() {
			res.Missing++
			continue
		}
		res.Paths = append(res.Paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queue file: %w", err)
	}
	return res, nil
}

// Save writes the queue sorted by basename, one absolute path per line with
// LF endings.
func Save(path string, paths []string) error {
	sorted := append([]string(nil), paths...)
	sort.Slice(sorted, func(i, j int) bool {
		bi, bj := filepath.Base(sorted[i]), filepath.Base(sorted[j])
		if bi != bj {
			return bi < bj
		}
		return sorted[i] < sorted[j]
	})
	data := strings.Join(sorted, "\n")
	if data != "" {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write queue file: %w", err)
	}
	return nil
}

// Duplicates returns the queue entries whose basename (case-insensitive)
// collides with an earlier entry.
func Duplicates(paths []string) []string {
	seen := make(map[string]bool)
	var dups []string
	for _, p := range paths {
		name := strings.ToLower(filepath.Base(p))
		if seen[name] {
			dups = append(dups, p)
			continue
		}
		seen[name] = true
	}
	return dups
}

// Dedupe removes basename duplicates, keeping the first occurrence of each.
func Dedupe(paths []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		name := strings.ToLower(filepath.Base(p))
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, p)
	}
	return out
}
