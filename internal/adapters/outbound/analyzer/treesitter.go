package analyzer

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/openkraft/docsync/internal/domain"
)

// parseTree parses src with a fresh parser; parsers are not shared between
// goroutines. A tree containing error nodes is a ParseFailure.
func parseTree(ctx context.Context, lang *sitter.Language, tag domain.Language, path string, src []byte) (*sitter.Node, error) {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &domain.ParseFailure{Path: path, Language: tag, Err: err}
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, &domain.ParseFailure{Path: path, Language: tag, Err: fmt.Errorf("syntax error near line %d", firstError(root))}
	}
	return root, nil
}

func firstError(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return line(n)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.HasError() {
			return firstError(c)
		}
	}
	return line(n)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func endLine(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}

func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

func field(n *sitter.Node, name string, src []byte) string {
	return text(n.ChildByFieldName(name), src)
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func childOfType(n *sitter.Node, types ...string) *sitter.Node {
	for _, c := range namedChildren(n) {
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

// unquote strips string literal delimiters and prefixes ("x", 'x', """x""", r"x").
func unquote(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// cleanDoc trims comment markers and common indentation from a doc block.
func cleanDoc(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimSuffix(raw, "*/")
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		lines = append(lines, strings.TrimSpace(l))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
