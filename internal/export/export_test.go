package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/fumiama/go-docx"
)

func TestFromDocument_UnmarkedTextUnchanged(t *testing.T) {
	text := "Madame, Monsieur,\n\nJe vous écris.\n"
	l := FromDocument(doc.New(text), DesktopOptions())

	if len(l.Paragraphs) != 4 {
		t.Fatalf("expected 4 paragraphs, got %d", len(l.Paragraphs))
	}
	if got := l.Text(); got != text {
		t.Errorf("expected %q, got %q", text, got)
	}
	for i, p := range l.Paragraphs {
		if p.Alignment != AlignLeft || p.LineSpacing != 1 || p.SpaceAfter != 12 {
			t.Errorf("paragraph %d: unexpected defaults %+v", i, p)
		}
	}
}

func TestFromDocument_TagsToParagraphAndRuns(t *testing.T) {
	d := doc.New("Titre centré\ncorps gras et italique")
	mustSpan(t, d, doc.AlignCenter, 0, 12)
	mustSpan(t, d, doc.Spacing(1.5), 0, 12)
	mustSpan(t, d, doc.Bold, 19, 23)
	mustSpan(t, d, doc.Italic, 21, 35)

	l := FromDocument(d, DesktopOptions())
	if len(l.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(l.Paragraphs))
	}
	title := l.Paragraphs[0]
	if title.Alignment != AlignCenter || title.LineSpacing != 1.5 {
		t.Errorf("expected centered 1.5 title, got %+v", title)
	}

	body := l.Paragraphs[1]
	if body.Alignment != AlignLeft {
		t.Errorf("expected left body, got %s", body.Alignment)
	}
	want := []Run{
		{Text: "corps "},
		{Text: "gr", Bold: true},
		{Text: "as", Bold: true, Italic: true},
		{Text: " et italique", Italic: true},
	}
	if len(body.Runs) != len(want) {
		t.Fatalf("expected %d runs, got %+v", len(want), body.Runs)
	}
	for i := range want {
		if body.Runs[i] != want[i] {
			t.Errorf("run %d: expected %+v, got %+v", i, want[i], body.Runs[i])
		}
	}
}

func mustSpan(t *testing.T, d *doc.Document, n doc.Name, s, e int) {
	t.Helper()
	if err := d.AddSpan(n, s, e); err != nil {
		t.Fatal(err)
	}
}

func sampleLetter() Letter {
	return Letter{
		FullName: "Camille Martin", Address: "3 rue des Lilas", PostalCode: "69001", City: "Lyon",
		Phone: "0601020304", Email: "camille@example.fr",
		Company: "Acme", CompanyAddress: "1 avenue Centrale", CompanyPostalCode: "75002", CompanyCity: "Paris",
		Subject: "Candidature au poste de développeuse",
		Content: "Premier paragraphe.\n\n- Go\n- SQL\nDernier paragraphe.",
		Format:  "docx",
	}
}

func TestLetter_Validate(t *testing.T) {
	l := sampleLetter()
	if f, err := l.Validate(); err != nil || f != FormatDOCX {
		t.Fatalf("expected valid docx letter, got %q, %v", f, err)
	}

	l.Email, l.Subject = "", "  "
	_, err := l.Validate()
	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if strings.Join(mf.Fields, ",") != "email,subject" {
		t.Errorf("expected email and subject missing, got %v", mf.Fields)
	}

	single := &MissingFieldError{Fields: []string{"company"}}
	if single.Error() != "Le champ company est requis" {
		t.Errorf("unexpected message %q", single.Error())
	}

	l = sampleLetter()
	l.Format = "odt"
	if _, err := l.Validate(); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestBuildLetter(t *testing.T) {
	now := time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)
	l := sampleLetter()
	l.Footer = "Camille Martin - camille@example.fr"
	layout := BuildLetter(l, now)

	var dateLine, subject, item, body *Paragraph
	for i := range layout.Paragraphs {
		p := &layout.Paragraphs[i]
		switch text := p.Text(); {
		case text == "Lyon, le 17 octobre 2026":
			dateLine = p
		case strings.HasPrefix(text, "Objet : "):
			subject = p
		case text == "• Go":
			item = p
		case text == "Premier paragraphe.":
			body = p
		}
		if p.LineSpacing != 1.15 {
			t.Errorf("paragraph %d: expected 1.15 spacing, got %v", i, p.LineSpacing)
		}
	}

	if dateLine == nil || dateLine.Alignment != AlignRight {
		t.Errorf("expected right-aligned date line, got %+v", dateLine)
	}
	if subject == nil || !subject.Runs[0].Bold || subject.Runs[1].Bold {
		t.Errorf("expected bold label then plain subject, got %+v", subject)
	}
	if item == nil || item.LeftIndent != 10 || item.FirstLineIndent != 0 {
		t.Errorf("expected indented list item, got %+v", item)
	}
	if body == nil || body.FirstLineIndent != 10 {
		t.Errorf("expected first-line indent on body, got %+v", body)
	}

	last := layout.Paragraphs[len(layout.Paragraphs)-1]
	if last.Runs[0].Size != 9 || last.Runs[0].Color != "666666" {
		t.Errorf("expected small grey footer, got %+v", last)
	}
	signature := layout.Paragraphs[len(layout.Paragraphs)-2]
	if signature.Text() != "Camille Martin" || signature.Alignment != AlignRight {
		t.Errorf("expected right-aligned signature, got %+v", signature)
	}
}

func TestWriteDOCX(t *testing.T) {
	d := doc.New("Lettre\nTexte en gras")
	mustSpan(t, d, doc.AlignRight, 0, 6)
	mustSpan(t, d, doc.Bold, 16, 20)
	data, err := DOCXBytes(FromDocument(d, DesktopOptions()))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	parsed, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var paras []*docx.Paragraph
	for _, item := range parsed.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paras = append(paras, p)
		}
	}
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if jc := paras[0].Properties.Justification; jc == nil || jc.Val != "end" {
		t.Errorf("expected right justification, got %+v", jc)
	}

	var text strings.Builder
	bold := ""
	for _, c := range paras[1].Children {
		run, ok := c.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if tx, ok := rc.(*docx.Text); ok {
				text.WriteString(tx.Text)
				if run.RunProperties != nil && run.RunProperties.Bold != nil {
					bold += tx.Text
				}
			}
		}
	}
	if text.String() != "Texte en gras" {
		t.Errorf("expected %q, got %q", "Texte en gras", text.String())
	}
	if bold != "gras" {
		t.Errorf("expected bold %q, got %q", "gras", bold)
	}
}

func TestFilenames(t *testing.T) {
	got := Filename("Adrien Lange", "Société Générale", FormatDOCX)
	want := "stage_adrien-lange_lettre de motivation_societe-generale.docx"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := Filename("", "", FormatPDF); got != "stage_inconnu_lettre de motivation_inconnu.pdf" {
		t.Errorf("unexpected fallback name %q", got)
	}
	now := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
	if got := DownloadName(FormatPDF, now); got != "lettre_motivation_2026-10-17.pdf" {
		t.Errorf("unexpected download name %q", got)
	}
}
