// Package convert renders .docx files to PDF with a headless LibreOffice.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	pdflib "github.com/ledongthuc/pdf"
	"go.uber.org/multierr"
)

// ConversionError reports a failed PDF conversion. Stage is one of
// "prepare", "lookup", "timeout", "convert", "output" or "validate".
type ConversionError struct {
	Stage  string
	Output string // converter stdout and stderr, when it ran
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("pdf conversion failed (%s): %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Converter turns .docx bytes into PDF bytes.
type Converter interface {
	ToPDF(ctx context.Context, docx []byte) ([]byte, error)
}

// Soffice converts through `soffice --headless --convert-to pdf`. Every call
// works in its own temp directory, removed whatever the outcome.
type Soffice struct {
	Binary  string
	Timeout time.Duration
	TempDir string // parent of the per-call directories; "" means os.TempDir
	log     *slog.Logger
}

// NewSoffice returns a converter running binary with the given timeout.
func NewSoffice(binary string, timeout time.Duration, log *slog.Logger) *Soffice {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Soffice{Binary: binary, Timeout: timeout, log: log}
}

// ToPDF converts docx and checks that the result is a readable PDF.
func (s *Soffice) ToPDF(ctx context.Context, docx []byte) (out []byte, err error) {
	dir, err := os.MkdirTemp(s.TempDir, "lettre-pdf-*")
	if err != nil {
		return nil, &ConversionError{Stage: "prepare", Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			err = multierr.Append(err, fmt.Errorf("remove temp dir: %w", rmErr))
		}
	}()

	in := filepath.Join(dir, "lettre.docx")
	if err := os.WriteFile(in, docx, 0o600); err != nil {
		return nil, &ConversionError{Stage: "prepare", Err: err}
	}

	bin, err := exec.LookPath(s.Binary)
	if err != nil {
		return nil, &ConversionError{Stage: "lookup", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, bin,
		"--headless", "--norestore",
		"-env:UserInstallation=file://"+filepath.ToSlash(filepath.Join(dir, "profile")),
		"--convert-to", "pdf",
		"--outdir", dir,
		in,
	)
	cmd.WaitDelay = 5 * time.Second
	output, runErr := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &ConversionError{Stage: "timeout", Output: string(output), Err: ctx.Err()}
	}
	if runErr != nil {
		return nil, &ConversionError{Stage: "convert", Output: string(output), Err: runErr}
	}

	data, err := os.ReadFile(filepath.Join(dir, "lettre.pdf"))
	if err != nil {
		return nil, &ConversionError{Stage: "output", Output: string(output), Err: err}
	}
	pages, err := Validate(data)
	if err != nil {
		return nil, &ConversionError{Stage: "validate", Err: err}
	}

	if s.log != nil {
		s.log.Debug("pdf converted",
			"bytes", len(data),
			"pages", pages,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return data, nil
}

// Validate opens data as a PDF and returns its page count. A file that
// cannot be parsed or has no pages is an error.
func Validate(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	pages = r.NumPage()
	if pages < 1 {
		return 0, errors.New("pdf has no pages")
	}
	return pages, nil
}
