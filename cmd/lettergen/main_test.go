package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
)

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"company=Acme", "custom=a=b", " position =stagiaire"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"company": "Acme", "custom": "a=b", "position": "stagiaire"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, got[k])
		}
	}
	if _, err := parseSets([]string{"novalue"}); err == nil {
		t.Error("expected an error for a flag without =")
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		flag, output string
		want         export.Format
	}{
		{"", "", export.FormatDOCX},
		{"", "lettre.PDF", export.FormatPDF},
		{"docx", "lettre.pdf", export.FormatDOCX},
	}
	for _, tt := range tests {
		got, err := formatFor(tt.flag, tt.output)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("formatFor(%q, %q): expected %q, got %q", tt.flag, tt.output, tt.want, got)
		}
	}
	if _, err := formatFor("rtf", ""); err == nil {
		t.Error("expected an error for rtf")
	}
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("LETTRE_CONFIG", "")
	t.Setenv("LETTRE_DATA_DIR", t.TempDir())
	path := filepath.Join(t.TempDir(), "modele.txt")
	if err := os.WriteFile(path, []byte("Chez [[company]], poste [[position]]."), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"render", path, "--set", "company=Acme"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "Chez Acme, poste [[position]]." {
		t.Errorf("unexpected output %q", got)
	}
}

func TestMarkersCommand(t *testing.T) {
	t.Setenv("LETTRE_CONFIG", "")
	t.Setenv("LETTRE_DATA_DIR", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"markers"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"company", "#34C759", "start_date"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}
}
