package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"melody/internal/ast"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// treeBlock is a rendered subtree; root is the column of its label center.
type treeBlock struct {
	lines []string
	width int
	root  int
}

const treeSpacing = 3

// FormatASTTree draws the tree top-down with / | \ connectors.
// Wide trees are better printed with FormatASTPretty.
func FormatASTTree(w io.Writer, root ast.Node) error {
	block := renderTree(buildTreeNode(root))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func buildTreeNode(n ast.Node) *treeNode {
	node := &treeNode{label: treeLabel(n)}
	for _, e := range edges(n) {
		node.children = append(node.children, buildTreeNode(e.node))
	}
	return node
}

// treeLabel is shorter than the pretty label: no locations.
func treeLabel(n ast.Node) string {
	label := n.Type()
	for _, f := range nodeFields(n) {
		if s, ok := scalar(f.value); ok {
			label += " " + s
		}
	}
	return label
}

func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)
	if len(node.children) == 0 {
		return treeBlock{lines: []string{label}, width: labelWidth, root: labelWidth / 2}
	}

	blocks := make([]treeBlock, len(node.children))
	height := 0
	for i, child := range node.children {
		blocks[i] = renderTree(child)
		height = max(height, len(blocks[i].lines))
	}

	positions := make([]int, len(blocks))
	total := 0
	for i, b := range blocks {
		positions[i] = total + b.root
		total += b.width
		if i != len(blocks)-1 {
			total += treeSpacing
		}
	}

	// корень над серединой детей; если метка шире, сдвигаем детей вправо
	center := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := center - rootPos
	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		total += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(total, shift+labelWidth, rootPos+1)
	rootLine := pad(strings.Repeat(" ", shift)+label, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		}
	}

	lines := make([]string, 0, height+2)
	lines = append(lines, rootLine, string(connector))
	for row := range height {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, b := range blocks {
			line := ""
			if row < len(b.lines) {
				line = b.lines[row]
			}
			sb.WriteString(pad(line, b.width))
			if i != len(blocks)-1 {
				sb.WriteString(strings.Repeat(" ", treeSpacing))
			}
		}
		lines = append(lines, pad(sb.String(), width))
	}
	return treeBlock{lines: lines, width: width, root: rootPos}
}

func pad(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
