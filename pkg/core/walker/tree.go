package walker

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/reposcope/reposcope/pkg/model"
)

// Tree renders a walked file set as a directory tree, for diagnostics and
// the CLI's --tree output. Replaces the teacher's hand-rolled
// formatTree/getSortedKeys string builder with a maintained tree-rendering
// library.
func Tree(root string, files []model.File) treeprint.Tree {
	sorted := make([]model.File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RelPath < sorted[j].RelPath })

	tree := treeprint.NewWithRoot(filepath.Base(root))
	nodes := map[string]treeprint.Tree{".": tree}

	for _, f := range sorted {
		dir := filepath.Dir(f.RelPath)
		parent := ensureDir(tree, nodes, dir)
		label := filepath.Base(f.RelPath)
		if f.Kind == model.KindManifest || f.Kind == model.KindDocker {
			label += "  [" + string(f.Kind) + "]"
		}
		parent.AddNode(label)
	}
	return tree
}

func ensureDir(root treeprint.Tree, nodes map[string]treeprint.Tree, dir string) treeprint.Tree {
	if n, ok := nodes[dir]; ok {
		return n
	}
	if dir == "." || dir == "" {
		return root
	}
	parentDir := filepath.Dir(dir)
	parent := ensureDir(root, nodes, parentDir)
	segs := strings.Split(dir, string(filepath.Separator))
	node := parent.AddBranch(segs[len(segs)-1])
	nodes[dir] = node
	return node
}
