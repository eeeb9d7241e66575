package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// minimalPDF builds a one-page PDF with a correct xref table.
func minimalPDF() []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>",
	}
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func fakeSoffice(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script converter")
	}
	path := filepath.Join(t.TempDir(), "soffice")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

const copyFixture = `while [ $# -gt 1 ]; do
  if [ "$1" = "--outdir" ]; then out="$2"; fi
  shift
done
cp "$PDF_FIXTURE" "$out/lettre.pdf"`

func assertEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected temp directory to be cleaned up, found %d entries", len(entries))
	}
}

func TestValidate(t *testing.T) {
	pages, err := Validate(minimalPDF())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if pages != 1 {
		t.Errorf("expected 1 page, got %d", pages)
	}
	if _, err := Validate([]byte("not a pdf")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestToPDF_Success(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := os.WriteFile(fixture, minimalPDF(), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PDF_FIXTURE", fixture)

	work := t.TempDir()
	s := NewSoffice(fakeSoffice(t, copyFixture), 10*time.Second, nil)
	s.TempDir = work

	out, err := s.ToPDF(context.Background(), []byte("docx"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("expected pdf output, got %q", out[:min(len(out), 8)])
	}
	assertEmpty(t, work)
}

func TestToPDF_Failures(t *testing.T) {
	cases := []struct {
		name    string
		binary  string
		timeout time.Duration
		stage   string
	}{
		{"missing binary", "/nonexistent/soffice", time.Second, "lookup"},
		{"non-zero exit", fakeSoffice(t, "echo boom >&2; exit 3"), 10 * time.Second, "convert"},
		{"no output", fakeSoffice(t, "exit 0"), 10 * time.Second, "output"},
		{"timeout", fakeSoffice(t, "exec sleep 5"), 100 * time.Millisecond, "timeout"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			work := t.TempDir()
			s := NewSoffice(c.binary, c.timeout, nil)
			s.TempDir = work

			_, err := s.ToPDF(context.Background(), []byte("docx"))
			var ce *ConversionError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConversionError, got %v", err)
			}
			if ce.Stage != c.stage {
				t.Errorf("expected stage %q, got %q (%v)", c.stage, ce.Stage, ce.Err)
			}
			assertEmpty(t, work)
		})
	}
}
