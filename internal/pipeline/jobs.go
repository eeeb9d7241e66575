package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/didilebossducode/lettre-motivation-ai/internal/draft"
	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
	"github.com/didilebossducode/lettre-motivation-ai/internal/session"
)

// JobKind says what a job produces.
type JobKind string

const (
	KindExport JobKind = "export"
	KindDraft  JobKind = "draft"
)

// JobStatus represents the state of a job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusRendering  JobStatus = "rendering"
	StatusConverting JobStatus = "converting"
	StatusDrafting   JobStatus = "drafting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition can happen.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ExportInput is what an export job renders: exactly one of Letter or
// Session is set.
type ExportInput struct {
	Letter  *export.Letter
	Session *session.Snapshot
	Format  export.Format
}

// Job tracks one queued export or draft.
type Job struct {
	mu sync.Mutex

	ID     string    `json:"job_id"`
	Kind   JobKind   `json:"kind"`
	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	exportIn    ExportInput
	draftIn     draft.Request
	result      []byte
	contentType string
	filename    string
	errors      []string
}

func newJob(kind JobKind) *Job {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	now := time.Now()
	return &Job{
		ID:        id.String(),
		Kind:      kind,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewExportJob queues a letter or session export.
func NewExportJob(in ExportInput) *Job {
	j := newJob(KindExport)
	j.exportIn = in
	return j
}

// NewDraftJob queues a model draft.
func NewDraftJob(req draft.Request) *Job {
	j := newJob(KindDraft)
	j.draftIn = req
	return j
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes jobs not updated within the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		stale := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if stale {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail records err and marks the job failed in phase.
func (j *Job) Fail(phase string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err.Error())
	j.Status = StatusFailed
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Complete stores the job's output and marks it completed.
func (j *Job) Complete(data []byte, contentType, filename string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = data
	j.contentType = contentType
	j.filename = filename
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Result returns the output of a completed job.
func (j *Job) Result() (data []byte, contentType, filename string, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusCompleted {
		return nil, "", "", false
	}
	return j.result, j.contentType, j.filename, true
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Kind      JobKind   `json:"kind"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename,omitempty"`
	Size      int       `json:"size,omitempty"`
	SHA256    string    `json:"sha256,omitempty"`
	Text      string    `json:"text,omitempty"`
	Errors    []string  `json:"errors"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state. Draft results are
// included as text.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.errors...)
	snap := JobSnapshot{
		ID:        j.ID,
		Kind:      j.Kind,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.filename,
		Errors:    errs,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.result != nil {
		snap.Size = len(j.result)
		snap.SHA256 = ContentHashHex(j.result)
		if j.Kind == KindDraft {
			snap.Text = string(j.result)
		}
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
