package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/didilebossducode/lettre-motivation-ai/internal/convert"
	"github.com/didilebossducode/lettre-motivation-ai/internal/draft"
	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
)

// ErrNoGenerator is the failure of a draft job when no model is configured.
var ErrNoGenerator = errors.New("no text generator configured")

// Worker runs export and draft jobs.
type Worker struct {
	conv     convert.Converter
	gen      draft.Generator
	log      *slog.Logger
	author   string
	maxChars int

	now     func() time.Time
	backoff func(int) time.Duration
}

// NewWorker builds a worker. conv and gen may be nil; jobs needing them fail.
func NewWorker(conv convert.Converter, gen draft.Generator, log *slog.Logger, author string, maxChars int) *Worker {
	return &Worker{
		conv:     conv,
		gen:      gen,
		log:      log,
		author:   author,
		maxChars: maxChars,
		now:      time.Now,
		backoff:  Backoff,
	}
}

// Process runs a job to completion or failure.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind)
	start := time.Now()

	switch job.Kind {
	case KindExport:
		w.export(ctx, log, job)
	case KindDraft:
		w.draft(ctx, log, job)
	default:
		job.Fail("queued", fmt.Errorf("unknown job kind %q", job.Kind))
	}

	snap := job.Snapshot()
	log.Info("job finished", "status", snap.Status, "size", snap.Size, "duration_ms", time.Since(start).Milliseconds())
}

func (w *Worker) export(ctx context.Context, log *slog.Logger, job *Job) {
	in := job.exportIn
	job.SetStatus(StatusRendering, "rendering")

	format := in.Format
	if format == "" {
		format = export.FormatDOCX
	}

	var (
		layout *export.Layout
		name   string
		err    error
	)
	now := w.now()
	switch {
	case in.Letter != nil:
		if format, err = in.Letter.Validate(); err == nil {
			layout = export.BuildLetter(*in.Letter, now)
			name = export.DownloadName(format, now)
		}
	case in.Session != nil:
		if layout, err = in.Session.Layout(now); err == nil {
			name = in.Session.Filename(w.author, format)
		}
	default:
		err = errors.New("nothing to export")
	}
	if err != nil {
		log.Warn("render failed", "error", err)
		job.Fail("rendering", err)
		return
	}

	data, err := export.DOCXBytes(layout)
	if err != nil {
		job.Fail("rendering", err)
		return
	}

	if format == export.FormatPDF {
		if w.conv == nil {
			job.Fail("converting", &convert.ConversionError{Stage: "lookup", Err: errors.New("no converter configured")})
			return
		}
		job.SetStatus(StatusConverting, "converting")
		if data, err = w.conv.ToPDF(ctx, data); err != nil {
			log.Error("conversion failed", "error", err)
			job.Fail("converting", err)
			return
		}
	}
	job.Complete(data, format.ContentType(), name)
}

func (w *Worker) draft(ctx context.Context, log *slog.Logger, job *Job) {
	if w.gen == nil {
		job.Fail("drafting", ErrNoGenerator)
		return
	}
	job.SetStatus(StatusDrafting, "drafting")

	prompt := draft.BuildPrompt(job.draftIn)
	gen := retrying{gen: w.gen, backoff: w.backoff, log: log}
	text, err := draft.Compose(ctx, gen, prompt, w.maxChars)
	if err != nil {
		log.Error("draft failed", "error", err)
		job.Fail("drafting", err)
		return
	}
	job.Complete([]byte(text), "text/plain; charset=utf-8", "brouillon_"+w.now().Format("2006-01-02")+".txt")
}
