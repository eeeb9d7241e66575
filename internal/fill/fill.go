// Package fill replaces [[key]] placeholders inside an existing .docx file
// without going through the tagged document model.
package fill

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/didilebossducode/lettre-motivation-ai/internal/marker"
)

// isStoryPart reports whether name is a part holding paragraph text.
func isStoryPart(name string) bool {
	if name == "word/document.xml" {
		return true
	}
	dir, file := path.Split(name)
	return dir == "word/" && strings.HasSuffix(file, ".xml") &&
		(strings.HasPrefix(file, "header") || strings.HasPrefix(file, "footer"))
}

// Template copies the .docx read from r, replacing every [[key]] whose value
// is non-empty. A placeholder split across several runs is rewritten into
// the run where it starts, so it takes that run's formatting. It returns
// the new file and the number of replacements.
func Template(r io.ReaderAt, size int64, values map[string]string) ([]byte, int, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, 0, fmt.Errorf("open docx: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	total := 0
	for _, f := range zr.File {
		if !isStoryPart(f.Name) {
			if err := zw.Copy(f); err != nil {
				return nil, 0, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}

		data, n, err := fillPart(f, values)
		if err != nil {
			return nil, 0, fmt.Errorf("fill %s: %w", f.Name, err)
		}
		total += n
		hdr := f.FileHeader
		w, err := zw.CreateHeader(&hdr)
		if err != nil {
			return nil, 0, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, 0, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, 0, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), total, nil
}

func fillPart(f *zip.File, values map[string]string) ([]byte, int, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, 0, err
	}
	raw, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, 0, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, 0, fmt.Errorf("parse xml: %w", err)
	}
	total := 0
	for _, p := range doc.FindElements("//w:p") {
		total += fillParagraph(p, values)
	}
	if total == 0 {
		return raw, 0, nil
	}
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, 0, fmt.Errorf("serialize xml: %w", err)
	}
	return out, total, nil
}

// textNodes collects the w:t elements of a paragraph in order, leaving out
// nested paragraphs (text boxes), which are filled on their own.
func textNodes(el *etree.Element, out []*etree.Element) []*etree.Element {
	for _, c := range el.ChildElements() {
		switch {
		case c.Space == "w" && c.Tag == "t":
			out = append(out, c)
		case c.Space == "w" && c.Tag == "p":
		default:
			out = textNodes(c, out)
		}
	}
	return out
}

func fillParagraph(p *etree.Element, values map[string]string) int {
	nodes := textNodes(p, nil)
	if len(nodes) == 0 {
		return 0
	}
	starts := make([]int, len(nodes)+1)
	var joined strings.Builder
	for i, n := range nodes {
		starts[i] = joined.Len()
		joined.WriteString(n.Text())
	}
	starts[len(nodes)] = joined.Len()

	// node returns the index of the text node holding byte offset off.
	node := func(off int, end bool) int {
		for i := range nodes {
			if (!end && off < starts[i+1]) || (end && off <= starts[i+1]) {
				return i
			}
		}
		return len(nodes) - 1
	}

	placeholders := marker.FindPlaceholders(joined.String())
	count := 0
	for k := len(placeholders) - 1; k >= 0; k-- {
		ph := placeholders[k]
		value := values[ph.Key]
		if value == "" {
			continue
		}
		i, j := node(ph.Start, false), node(ph.End, true)
		first := nodes[i].Text()
		if i == j {
			setText(nodes[i], first[:ph.Start-starts[i]]+value+first[ph.End-starts[i]:])
		} else {
			setText(nodes[i], first[:ph.Start-starts[i]]+value)
			for m := i + 1; m < j; m++ {
				setText(nodes[m], "")
			}
			last := nodes[j].Text()
			setText(nodes[j], last[ph.End-starts[j]:])
		}
		count++
	}
	return count
}

func setText(t *etree.Element, s string) {
	t.SetText(s)
	t.CreateAttr("xml:space", "preserve")
}
