package marker

import "regexp"

// placeholderRe matches [[key]] placeholders in plain text. A key is any
// run of characters other than square brackets, spaces and dashes included.
var placeholderRe = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

// ReplacePlain substitutes every [[key]] in template whose key has a
// non-empty value. Other placeholders are left as written.
func ReplacePlain(template string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		key := m[2 : len(m)-2]
		if v := values[key]; v != "" {
			return v
		}
		return m
	})
}

// PlainKeys lists the distinct placeholder keys in template, first seen first.
func PlainKeys(template string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// Placeholder is one [[key]] occurrence located by byte offsets.
type Placeholder struct {
	Key   string
	Start int
	End   int
}

// FindPlaceholders returns every placeholder in s in order.
func FindPlaceholders(s string) []Placeholder {
	var out []Placeholder
	for _, idx := range placeholderRe.FindAllStringSubmatchIndex(s, -1) {
		out = append(out, Placeholder{Key: s[idx[2]:idx[3]], Start: idx[0], End: idx[1]})
	}
	return out
}
