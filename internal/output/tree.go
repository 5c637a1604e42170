package output

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// noteColumn is where per-file notes start.
	noteColumn = 36
)

// TreeNode is one entry of a rendered project tree.
type TreeNode struct {
	Name     string
	Note     string
	IsDir    bool
	Children []*TreeNode
}

// RenderFileTree renders the generated project as a tree rooted at rootName.
// files maps slash or OS separated relative paths to an optional note
// (for example the step that produced the file).
func RenderFileTree(rootName string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	root := &TreeNode{Name: rootName, IsDir: true}
	for path, note := range files {
		insertPath(root, strings.Split(filepath.ToSlash(path), "/"), note)
	}
	sortTree(root)

	var sb strings.Builder
	sb.WriteString(StyleSummary.Render(root.Name + "/"))
	sb.WriteString("\n")
	for i, child := range root.Children {
		renderNode(&sb, child, "", i == len(root.Children)-1)
	}
	return sb.String()
}

// RenderPaths renders a tree without notes.
func RenderPaths(rootName string, paths []string) string {
	files := make(map[string]string, len(paths))
	for _, p := range paths {
		files[p] = ""
	}
	return RenderFileTree(rootName, files)
}

func insertPath(node *TreeNode, parts []string, note string) {
	for i, part := range parts {
		if part == "" || part == "." {
			continue
		}
		last := i == len(parts)-1

		var child *TreeNode
		for _, c := range node.Children {
			if c.Name == part {
				child = c
				break
			}
		}
		if child == nil {
			child = &TreeNode{Name: part, IsDir: !last}
			node.Children = append(node.Children, child)
		}
		if last {
			child.Note = note
		} else {
			child.IsDir = true
		}
		node = child
	}
}

// sortTree orders directories before files, then alphabetically.
func sortTree(node *TreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}

func renderNode(sb *strings.Builder, node *TreeNode, prefix string, isLast bool) {
	connector := treeEdge
	if isLast {
		connector = treeLast
	}

	name := node.Name
	if node.IsDir {
		name += "/"
	}
	line := prefix + connector + name

	if node.Note != "" {
		padding := noteColumn - len([]rune(line))
		if padding < 2 {
			padding = 2
		}
		line += strings.Repeat(" ", padding) + StyleDim.Render(node.Note)
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	childPrefix := prefix + treeVert
	if isLast {
		childPrefix = prefix + treeSpace
	}
	for i, child := range node.Children {
		renderNode(sb, child, childPrefix, i == len(node.Children)-1)
	}
}
