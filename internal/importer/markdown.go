package importer

import (
	"fmt"
	"io"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter handles Markdown files using goldmark. Blocks are
// separated by a blank line; *emphasis* is italic, **strong** and headings
// are bold; list items start with "- ".
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader) (*doc.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	root := goldmark.New().Parser().Parse(text.NewReader(src))
	b := newBuilder("\n\n", false)
	bold, italic := 0, 0

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				b.para()
				bold++
			} else {
				bold--
				b.end()
			}
		case *ast.Paragraph, *ast.TextBlock:
			if !entering {
				b.end()
				break
			}
			b.para()
			if _, ok := node.Parent().(*ast.ListItem); ok && node.PreviousSibling() == nil {
				b.write("- ", false, false)
			}
		case *ast.Emphasis:
			delta := 1
			if !entering {
				delta = -1
			}
			if node.Level >= 2 {
				bold += delta
			} else {
				italic += delta
			}
		case *ast.Text:
			if !entering {
				break
			}
			b.write(string(node.Segment.Value(src)), bold > 0, italic > 0)
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.br()
			}
		case *ast.String:
			if entering {
				b.write(string(node.Value), bold > 0, italic > 0)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if !entering {
				break
			}
			b.para()
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				v := string(line.Value(src))
				if i == lines.Len()-1 {
					v = trimNewline(v)
				}
				b.write(v, false, false)
			}
			b.end()
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	return b.document()
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
