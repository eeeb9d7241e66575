package doc

import (
	"encoding/json"
	"fmt"
)

// TagRecord is the stored form of a tag: {"tag": name, "start": "l.c", "end": "l.c"}.
type TagRecord struct {
	Tag   string   `json:"tag" yaml:"tag"`
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// Records returns the stored form of every tag.
func (d *Document) Records() []TagRecord {
	tags := d.Tags()
	out := make([]TagRecord, len(tags))
	for i, t := range tags {
		out[i] = TagRecord{Tag: t.Name.String(), Start: t.Start, End: t.End}
	}
	return out
}

// FromRecords builds a document from text and stored tags. Positions past
// the end of a line or of the document are clamped. Unknown tag names are
// skipped and returned so callers can report them.
func FromRecords(text string, records []TagRecord) (*Document, []string, error) {
	d := New(text)
	var skipped []string
	for _, rec := range records {
		name, err := ParseName(rec.Tag)
		if err != nil {
			skipped = append(skipped, rec.Tag)
			continue
		}
		if err := d.AddTag(name, d.ClampPosition(rec.Start), d.ClampPosition(rec.End)); err != nil {
			return nil, skipped, fmt.Errorf("restore tag %s: %w", rec.Tag, err)
		}
	}
	return d, skipped, nil
}

type documentJSON struct {
	Text string      `json:"text"`
	Tags []TagRecord `json:"tags"`
}

// MarshalJSON encodes the document as {"text": ..., "tags": [...]}.
func (d *Document) MarshalJSON() ([]byte, error) {
	tags := d.Records()
	if tags == nil {
		tags = []TagRecord{}
	}
	return json.Marshal(documentJSON{Text: d.Text(), Tags: tags})
}

// UnmarshalJSON decodes the MarshalJSON form. Unknown tag names are an error.
func (d *Document) UnmarshalJSON(b []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out, skipped, err := FromRecords(raw.Text, raw.Tags)
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		return fmt.Errorf("unknown tag names: %v", skipped)
	}
	*d = *out
	return nil
}
