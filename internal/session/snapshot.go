// Package session holds the whole-letter working state: field values, the
// tagged template, the custom paragraph and where generated files go.
package session

import (
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/didilebossducode/lettre-motivation-ai/internal/engine"
	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
	"github.com/didilebossducode/lettre-motivation-ai/internal/marker"
)

// Required lists the fields that must be filled before generating.
var Required = []string{"company", "position", "duration", "start_date"}

// TemplateStyle is the editor-wide presentation chosen for the template.
type TemplateStyle struct {
	FontName    string  `json:"font_name" yaml:"font_name"`
	FontSize    float64 `json:"font_size" yaml:"font_size"`
	Alignment   string  `json:"alignment" yaml:"alignment"`
	LineSpacing float64 `json:"line_spacing" yaml:"line_spacing"`
}

// DefaultTemplateStyle is Times New Roman 11, left aligned, 1.15 spacing.
func DefaultTemplateStyle() TemplateStyle {
	return TemplateStyle{FontName: "Times New Roman", FontSize: 11, Alignment: "left", LineSpacing: 1.15}
}

// Snapshot is one saved session. Keys match the last_session.json file.
type Snapshot struct {
	Company         string            `json:"company" yaml:"company"`
	Position        string            `json:"position" yaml:"position"`
	Duration        string            `json:"duration" yaml:"duration"`
	StartDate       string            `json:"start_date" yaml:"start_date"`
	TodayDate       string            `json:"today_date" yaml:"today_date"`
	Template        string            `json:"template" yaml:"template"`
	TextStyles      []doc.TagRecord   `json:"text_styles" yaml:"text_styles"`
	Custom          string            `json:"custom" yaml:"custom"`
	TemplateStyle   TemplateStyle     `json:"template_style" yaml:"template_style"`
	CustomTemplates map[string]string `json:"custom_templates,omitempty" yaml:"custom_templates,omitempty"`
	WordSavePath    string            `json:"word_save_path" yaml:"word_save_path"`
}

// New returns an empty session with the default template style.
func New() *Snapshot {
	return &Snapshot{TextStyles: []doc.TagRecord{}, TemplateStyle: DefaultTemplateStyle()}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.TextStyles = slices.Clone(s.TextStyles)
	c.CustomTemplates = maps.Clone(s.CustomTemplates)
	return &c
}

// Document rebuilds the tagged template. Tag names it does not know are
// skipped and returned.
func (s *Snapshot) Document() (*doc.Document, []string, error) {
	return doc.FromRecords(s.Template, s.TextStyles)
}

// SetDocument stores d as the template.
func (s *Snapshot) SetDocument(d *doc.Document) {
	s.Template = d.Text()
	s.TextStyles = d.Records()
	if s.TextStyles == nil {
		s.TextStyles = []doc.TagRecord{}
	}
}

// Values returns the marker values keyed by marker name.
func (s *Snapshot) Values() map[string]string {
	return map[string]string{
		string(doc.MarkerCompany):   s.Company,
		string(doc.MarkerPosition):  s.Position,
		string(doc.MarkerDuration):  s.Duration,
		string(doc.MarkerStartDate): s.StartDate,
		string(doc.MarkerTodayDate): s.TodayDate,
		string(doc.MarkerCustom):    s.Custom,
	}
}

// Context is the resolution context for this session, with today's date
// filled in when the field is blank.
func (s *Snapshot) Context(now time.Time) marker.Context {
	return marker.FromValues(s.Values()).WithDefaults(now)
}

// Validate returns an *export.MissingFieldError naming every empty required
// field.
func (s *Snapshot) Validate() error {
	values := s.Values()
	return export.CheckRequired(Required, func(k string) string { return values[k] })
}

// Render validates the session and substitutes its markers. The template
// style's line spacing is the base spacing of the result.
func (s *Snapshot) Render(now time.Time) (*doc.Document, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	tmpl, _, err := s.Document()
	if err != nil {
		return nil, err
	}
	return engine.Substitute(tmpl, s.Context(now), engine.Options{LineSpacing: s.TemplateStyle.LineSpacing})
}

// ExportOptions returns the desktop layout defaults. The template style
// supplies the default alignment for untagged paragraphs.
func (s *Snapshot) ExportOptions() export.Options {
	opts := export.DesktopOptions()
	if s.TemplateStyle.Alignment != "" {
		opts.Alignment = export.ParseAlignment(s.TemplateStyle.Alignment)
	}
	return opts
}

// Layout renders the session and lays it out for export.
func (s *Snapshot) Layout(now time.Time) (*export.Layout, error) {
	out, err := s.Render(now)
	if err != nil {
		return nil, err
	}
	return export.FromDocument(out, s.ExportOptions()), nil
}

// Filename is the generated file name for this session's company.
func (s *Snapshot) Filename(author string, f export.Format) string {
	return export.Filename(author, s.Company, f)
}

// OutputPath joins the chosen save folder (or dir when none was chosen)
// with Filename.
func (s *Snapshot) OutputPath(dir, author string, f export.Format) string {
	if s.WordSavePath != "" {
		dir = s.WordSavePath
	}
	return filepath.Join(dir, s.Filename(author, f))
}
