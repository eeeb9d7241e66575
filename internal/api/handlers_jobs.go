package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/didilebossducode/lettre-motivation-ai/internal/draft"
	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
	"github.com/didilebossducode/lettre-motivation-ai/internal/pipeline"
)

// exportJobRequest renders either an explicit letter or the current session.
type exportJobRequest struct {
	Format     string         `json:"format"`
	Letter     *export.Letter `json:"letter,omitempty"`
	UseSession bool           `json:"use_session,omitempty"`
}

func (s *Server) handleExportJob(w http.ResponseWriter, r *http.Request) {
	if s.deps.Pipeline == nil {
		jsonError(w, "job queue unavailable", http.StatusServiceUnavailable)
		return
	}
	var req exportJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := pipeline.ExportInput{Letter: req.Letter}
	switch {
	case req.Letter != nil && req.UseSession:
		jsonError(w, "letter and use_session are exclusive", http.StatusBadRequest)
		return
	case req.Letter != nil:
		if req.Format != "" {
			req.Letter.Format = req.Format
		}
		f, err := req.Letter.Validate()
		if err != nil {
			jsonError(w, err.Error(), errorStatus(err))
			return
		}
		in.Format = f
	case req.UseSession:
		f, err := export.ParseFormat(orDefault(req.Format, string(export.FormatDOCX)))
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		snap := s.deps.Sessions.Get()
		if err := snap.Validate(); err != nil {
			jsonError(w, err.Error(), errorStatus(err))
			return
		}
		in.Session = snap
		in.Format = f
	default:
		jsonError(w, "letter or use_session is required", http.StatusBadRequest)
		return
	}

	s.submit(w, pipeline.NewExportJob(in))
}

func (s *Server) handleDraftJob(w http.ResponseWriter, r *http.Request) {
	if s.deps.Pipeline == nil {
		jsonError(w, "job queue unavailable", http.StatusServiceUnavailable)
		return
	}
	var req draft.Request
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.submit(w, pipeline.NewDraftJob(req))
}

func (s *Server) submit(w http.ResponseWriter, job *pipeline.Job) {
	if err := s.deps.Pipeline.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("job queued", "job_id", job.ID, "kind", job.Kind)
	writeJSON(w, http.StatusAccepted, job.Snapshot())
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.job(w, r)
	if job == nil {
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleJobDownload(w http.ResponseWriter, r *http.Request) {
	job := s.job(w, r)
	if job == nil {
		return
	}
	data, contentType, filename, ok := job.Result()
	if !ok {
		jsonError(w, "job has not completed", http.StatusConflict)
		return
	}
	sendFile(w, data, contentType, filename)
}

func (s *Server) job(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	if s.deps.Pipeline == nil {
		jsonError(w, "job queue unavailable", http.StatusServiceUnavailable)
		return nil
	}
	job := s.deps.Pipeline.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
