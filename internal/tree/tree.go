// Package tree renders a set of visible file paths as an indented directory
// tree. It is a pure pretty-printer: the filesystem is never consulted.
package tree

import (
	"sort"
	"strings"
)

type node struct {
	dirs  map[string]*node
	files []string
}

func newNode() *node {
	return &node{dirs: make(map[string]*node)}
}

func (n *node) child(name string) *node {
	c, ok := n.dirs[name]
	if !ok {
		c = newNode()
		n.dirs[name] = c
	}
	return c
}

// Render produces a deterministic multi-line tree over the given
// forward-slash root-relative file paths. Directories containing at least
// one visible descendant are shown; subdirectories are listed before files
// at the same level, both sorted by name. The last entry at each level uses
// the terminal branch glyph, and child indentation reflects whether the
// parent was the last sibling.
func Render(rootName string, relPaths []string) string {
	root := newNode()
	for _, p := range relPaths {
		p = strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/")
		if p == "" {
			continue
		}
		parts := strings.Split(p, "/")
		cur := root
		for _, dir := range parts[:len(parts)-1] {
			cur = cur.child(dir)
		}
		cur.files = append(cur.files, parts[len(parts)-1])
	}

	var b strings.Builder
	if rootName == "" {
		rootName = "."
	}
	b.WriteString(rootName + "/")
	render(root, "", &b)
	return b.String()
}

func render(n *node, prefix string, b *strings.Builder) {
	names := make([]string, 0, len(n.dirs))
	for name := range n.dirs {
		names = append(names, name)
	}
	sort.Strings(names)

	files := append([]string(nil), n.files...)
	sort.Strings(files)

	for i, name := range names {
		last := i == len(names)-1 && len(files) == 0
		branch := "├── "
		childPrefix := prefix + "│   "
		if last {
			branch = "└── "
			childPrefix = prefix + "    "
		}
		b.WriteString("\n" + prefix + branch + name + "/")
		render(n.dirs[name], childPrefix, b)
	}
	for i, name := range files {
		branch := "├── "
		if i == len(files)-1 {
			branch = "└── "
		}
		b.WriteString("\n" + prefix + branch + name)
	}
}
