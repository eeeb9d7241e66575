package export

import (
	"strings"
	"time"

	"github.com/didilebossducode/lettre-motivation-ai/internal/marker"
)

// Letter is a complete application letter as submitted by the web form.
type Letter struct {
	FullName          string `json:"full_name" yaml:"full_name"`
	Address           string `json:"address" yaml:"address"`
	PostalCode        string `json:"postal_code" yaml:"postal_code"`
	City              string `json:"city" yaml:"city"`
	Phone             string `json:"phone" yaml:"phone"`
	Email             string `json:"email" yaml:"email"`
	Company           string `json:"company" yaml:"company"`
	CompanyAddress    string `json:"company_address" yaml:"company_address"`
	CompanyPostalCode string `json:"company_postal_code" yaml:"company_postal_code"`
	CompanyCity       string `json:"company_city" yaml:"company_city"`
	Subject           string `json:"subject" yaml:"subject"`
	Content           string `json:"content" yaml:"content"`
	Format            string `json:"format" yaml:"format"`
	Date              string `json:"date,omitempty" yaml:"date,omitempty"`
	Header            string `json:"header,omitempty" yaml:"header,omitempty"`
	Footer            string `json:"footer,omitempty" yaml:"footer,omitempty"`
}

// LetterRequired lists the fields Validate checks, in order.
var LetterRequired = []string{
	"full_name", "address", "postal_code", "city", "phone", "email",
	"company", "company_address", "company_postal_code", "company_city",
	"subject", "content", "format",
}

// ClosingFormula ends every letter.
const ClosingFormula = "Je vous prie d'agréer, Madame, Monsieur, l'expression de mes salutations distinguées."

func (l Letter) field(name string) string {
	switch name {
	case "full_name":
		return l.FullName
	case "address":
		return l.Address
	case "postal_code":
		return l.PostalCode
	case "city":
		return l.City
	case "phone":
		return l.Phone
	case "email":
		return l.Email
	case "company":
		return l.Company
	case "company_address":
		return l.CompanyAddress
	case "company_postal_code":
		return l.CompanyPostalCode
	case "company_city":
		return l.CompanyCity
	case "subject":
		return l.Subject
	case "content":
		return l.Content
	case "format":
		return l.Format
	}
	return ""
}

// Validate checks required fields, then the format.
func (l Letter) Validate() (Format, error) {
	if err := CheckRequired(LetterRequired, l.field); err != nil {
		return "", err
	}
	return ParseFormat(l.Format)
}

const (
	letterFontSize    = 11.5
	letterLineSpacing = 1.15
	noteFontSize      = 9
	noteColor         = "666666"
	indentMM          = 10
)

// BuildLetter lays out l: sender, recipient, place and date, subject,
// salutation, body, closing and signature. Date defaults to now in French.
func BuildLetter(l Letter, now time.Time) *Layout {
	date := strings.TrimSpace(l.Date)
	if date == "" {
		date = marker.FrenchDate(now)
	}

	out := &Layout{Font: "Times New Roman", FontSize: letterFontSize, Page: A4()}
	add := func(p Paragraph) {
		if p.Alignment == "" {
			p.Alignment = AlignLeft
		}
		p.LineSpacing = letterLineSpacing
		out.Paragraphs = append(out.Paragraphs, p)
	}
	text := func(s string, a Alignment) {
		add(Paragraph{Runs: []Run{{Text: s}}, Alignment: a})
	}
	blank := func() { add(Paragraph{}) }

	if h := strings.TrimSpace(l.Header); h != "" {
		add(Paragraph{Runs: []Run{{Text: h, Size: noteFontSize, Color: noteColor}}})
	}

	text(l.FullName, AlignLeft)
	text(l.Address, AlignLeft)
	text(l.PostalCode+" "+l.City, AlignLeft)
	text("Tél : "+l.Phone, AlignLeft)
	text("Email : "+l.Email, AlignLeft)
	blank()

	text(l.Company, AlignLeft)
	text(l.CompanyAddress, AlignLeft)
	text(l.CompanyPostalCode+" "+l.CompanyCity, AlignLeft)
	blank()

	text(l.City+", le "+date, AlignRight)
	blank()

	add(Paragraph{Runs: []Run{{Text: "Objet : ", Bold: true}, {Text: l.Subject}}})
	blank()

	text("Madame, Monsieur,", AlignLeft)
	blank()

	for _, line := range strings.Split(l.Content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if item, ok := strings.CutPrefix(line, "- "); ok {
			add(Paragraph{Runs: []Run{{Text: "• " + item}}, LeftIndent: indentMM})
			continue
		}
		add(Paragraph{Runs: []Run{{Text: line}}, FirstLineIndent: indentMM})
	}

	text(ClosingFormula, AlignLeft)
	text(l.FullName, AlignRight)

	if f := strings.TrimSpace(l.Footer); f != "" {
		add(Paragraph{Runs: []Run{{Text: f, Size: noteFontSize, Color: noteColor}}})
	}
	return out
}
