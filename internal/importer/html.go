package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"golang.org/x/net/html"
)

// HTMLImporter handles HTML files, including the markup produced by the
// web editor: <strong>/<b>, <em>/<i>, and blocks styled with text-align or
// line-height.
type HTMLImporter struct{}

type htmlStyle struct {
	bold, italic bool
	align        doc.Name
	spacing      doc.Name
}

func (s htmlStyle) paragraph() []doc.Name {
	var out []doc.Name
	if s.align != nil {
		out = append(out, s.align)
	}
	if s.spacing != nil {
		out = append(out, s.spacing)
	}
	return out
}

func (p *HTMLImporter) Import(r io.Reader) (*doc.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := newBuilder("\n", true)

	var walk func(*html.Node, htmlStyle)
	walk = func(n *html.Node, st htmlStyle) {
		parent := st
		switch n.Type {
		case html.TextNode:
			b.write(n.Data, st.bold, st.italic)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head", "title", "nav":
				return
			case "br":
				b.br()
				return
			case "b", "strong":
				st.bold = true
			case "i", "em":
				st.italic = true
			}
			st = applyBlockStyle(n, st)
		}

		block := n.Type == html.ElementNode && isBlock(n.Data)
		if block {
			b.para(st.paragraph()...)
			if n.Data == "li" {
				b.write("- ", false, false)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, st)
		}
		if block {
			b.end()
			// Loose text after the block opens a paragraph styled like the parent.
			b.para(parent.paragraph()...)
		}
	}

	if body := findBody(root); body != nil {
		walk(body, htmlStyle{})
	} else {
		walk(root, htmlStyle{})
	}
	return b.document()
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6", "td", "pre":
		return true
	}
	return false
}

// applyBlockStyle reads align="..." and the text-align, line-height,
// font-weight and font-style declarations of n's style attribute.
func applyBlockStyle(n *html.Node, st htmlStyle) htmlStyle {
	if headingLevel(n.Data) > 0 {
		st.bold = true
	}
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "align":
			if s, ok := alignStyle(a.Val); ok {
				st.align = s
			}
		case "style":
			for _, decl := range strings.Split(a.Val, ";") {
				prop, val, ok := strings.Cut(decl, ":")
				if !ok {
					continue
				}
				prop = strings.ToLower(strings.TrimSpace(prop))
				val = strings.ToLower(strings.TrimSpace(val))
				switch prop {
				case "text-align":
					if s, ok := alignStyle(val); ok {
						st.align = s
					}
				case "line-height":
					if v, err := strconv.ParseFloat(val, 64); err == nil && v > 0 {
						st.spacing = doc.Spacing(v)
					}
				case "font-weight":
					st.bold = val == "bold" || val == "bolder" || val == "700" || val == "800" || val == "900"
				case "font-style":
					st.italic = val == "italic" || val == "oblique"
				}
			}
		}
	}
	return st
}

// alignStyle maps a CSS alignment; left and start clear alignment.
func alignStyle(v string) (doc.Name, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center":
		return doc.AlignCenter, true
	case "right", "end":
		return doc.AlignRight, true
	case "justify":
		return doc.AlignJustify, true
	case "left", "start":
		return nil, true
	}
	return nil, false
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
