package runner

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

const maxSnippet = 40

// checkPython parses src with the tree-sitter Python 3 grammar and reports
// the first ERROR or MISSING node.
func checkPython(filename string, src []byte) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	node := firstSyntaxError(root)
	if node == nil {
		return fmt.Errorf("%s: invalid syntax", filename)
	}
	pos := node.StartPoint()
	if node.IsMissing() {
		return fmt.Errorf("%s:%d:%d: invalid syntax: missing %q", filename, pos.Row+1, pos.Column+1, node.Type())
	}
	return fmt.Errorf("%s:%d:%d: invalid syntax near %q", filename, pos.Row+1, pos.Column+1, snippet(node.Content(src)))
}

// firstSyntaxError returns the leftmost ERROR or MISSING node under n.
func firstSyntaxError(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstSyntaxError(child); found != nil {
			return found
		}
	}
	return nil
}

func snippet(s string) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	if len(s) > maxSnippet {
		s = s[:maxSnippet] + "..."
	}
	return s
}
