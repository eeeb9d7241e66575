// Package chunker splits long prompts into sections a small generation
// model can take one at a time.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the section size used when none is given.
const DefaultMaxChars = 1000

// Sections splits text into sections of at most maxChars characters.
// Paragraphs (separated by blank lines) are packed together while they fit;
// a paragraph longer than maxChars is cut between words. A single word
// longer than maxChars becomes a section of its own.
func Sections(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var out []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, para := range splitParagraphs(text) {
		n := utf8.RuneCountInString(para)
		if n > maxChars {
			flush()
			out = append(out, splitWords(para, maxChars)...)
			continue
		}
		if curLen > 0 && curLen+2+n > maxChars {
			flush()
		}
		if curLen > 0 {
			cur.WriteString("\n\n")
			curLen += 2
		}
		cur.WriteString(para)
		curLen += n
	}
	flush()
	return out
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitWords packs whitespace-separated words into lines of at most
// maxChars, joined by single spaces.
func splitWords(text string, maxChars int) []string {
	var out []string
	var cur []string
	curLen := 0
	for _, w := range strings.Fields(text) {
		n := utf8.RuneCountInString(w)
		if len(cur) > 0 && curLen+1+n > maxChars {
			out = append(out, strings.Join(cur, " "))
			cur, curLen = cur[:0], 0
		}
		if len(cur) > 0 {
			curLen++
		}
		cur = append(cur, w)
		curLen += n
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, " "))
	}
	return out
}
