package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
	"github.com/didilebossducode/lettre-motivation-ai/internal/pathstore"
)

const savedSession = `{
    "company": "acme",
    "position": "Stagiaire",
    "duration": "6 mois",
    "start_date": "1er mars",
    "today_date": "",
    "template": "LETTRE DE MOTIVATION\nChez company, poste position.",
    "text_styles": [
        {"tag": "bold", "start": "1.0", "end": "1.20"},
        {"tag": "align_center", "start": "1.0", "end": "2.0"},
        {"tag": "company", "start": "2.5", "end": "2.12"},
        {"tag": "position", "start": "2.20", "end": "2.28"},
        {"tag": "sel", "start": "1.0", "end": "1.1"}
    ],
    "custom": "",
    "template_style": {"font_name": "Times New Roman", "font_size": 11, "alignment": "left", "line_spacing": 1.15},
    "word_save_path": ""
}`

func parse(t *testing.T, data string) *Snapshot {
	t.Helper()
	s, err := decode([]byte(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return s
}

func TestSnapshot_DocumentSkipsUnknownTags(t *testing.T) {
	s := parse(t, savedSession)
	d, skipped, err := s.Document()
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "sel" {
		t.Errorf("expected [sel] skipped, got %v", skipped)
	}
	if got := len(d.MarkerSpans()); got != 2 {
		t.Errorf("expected 2 markers, got %d", got)
	}
	company := d.SpansOf(doc.MarkerCompany)
	if len(company) != 1 || d.Slice(company[0].Start, company[0].End) != "company" {
		t.Errorf("expected company marker over %q, got %v", "company", company)
	}
}

func TestSnapshot_SetDocumentRoundTrip(t *testing.T) {
	s := parse(t, savedSession)
	d, _, err := s.Document()
	if err != nil {
		t.Fatal(err)
	}
	var again Snapshot
	again.SetDocument(d)
	d2, skipped, err := again.Document()
	if err != nil || len(skipped) != 0 {
		t.Fatalf("document: %v %v", err, skipped)
	}
	if d2.Text() != d.Text() || len(d2.Spans()) != len(d.Spans()) {
		t.Errorf("expected identical documents, got %v vs %v", d2.Spans(), d.Spans())
	}
}

func TestSnapshot_Render(t *testing.T) {
	s := parse(t, savedSession)
	out, err := s.Render(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "LETTRE DE MOTIVATION\nChez acme, poste Stagiaire."
	if out.Text() != want {
		t.Errorf("expected %q, got %q", want, out.Text())
	}
	if !out.HasTagAt(doc.Spacing(1.15), out.Len()-1) {
		t.Errorf("expected base spacing from the template style, got %v", out.TagsAtOffset(out.Len()-1))
	}

	l, err := s.Layout(time.Now())
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(l.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(l.Paragraphs))
	}
	if l.Paragraphs[0].Alignment != export.AlignCenter {
		t.Errorf("expected centered title, got %q", l.Paragraphs[0].Alignment)
	}
	if !l.Paragraphs[0].Runs[0].Bold {
		t.Error("expected bold title")
	}
}

func TestSnapshot_ValidateListsMissingFields(t *testing.T) {
	s := New()
	s.Position = "Stagiaire"
	err := s.Validate()
	var mf *export.MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if strings.Join(mf.Fields, ",") != "company,duration,start_date" {
		t.Errorf("expected company,duration,start_date, got %v", mf.Fields)
	}
	if _, err := s.Render(time.Now()); !errors.As(err, &mf) {
		t.Errorf("expected render to refuse, got %v", err)
	}
}

func TestSnapshot_OutputPath(t *testing.T) {
	s := New()
	s.Company = "Société Générale"
	got := s.OutputPath("/tmp", "Adrien Lange", export.FormatDOCX)
	want := filepath.Join("/tmp", "stage_adrien-lange_lettre de motivation_societe-generale.docx")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	s.WordSavePath = "/docs"
	if dir := filepath.Dir(s.OutputPath("/tmp", "x", export.FormatDOCX)); dir != "/docs" {
		t.Errorf("expected chosen folder, got %q", dir)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "last_session.json")
	store := FileStore{Path: path}

	s, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if s.TemplateStyle != DefaultTemplateStyle() {
		t.Errorf("expected default style, got %+v", s.TemplateStyle)
	}

	s.Company = "Société Générale"
	s.SetDocument(doc.New("Bonjour"))
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `"company": "Société Générale"`) {
		t.Errorf("expected readable indented JSON, got %s", raw)
	}

	back, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Company != s.Company || back.Template != "Bonjour" {
		t.Errorf("expected saved fields back, got %+v", back)
	}
}

func TestFileStore_OldFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_session.json")
	if err := os.WriteFile(path, []byte(`{"company": "X"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(context.Background(), FileStore{Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Company != "X" || s.TemplateStyle.LineSpacing != 1.15 || s.TextStyles == nil {
		t.Errorf("expected defaults for absent keys, got %+v", s)
	}
}

func TestLoad_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(context.Background(), FileStore{Path: path})
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Op != "load" {
		t.Fatalf("expected load PersistenceError, got %v", err)
	}
	if s == nil || s.TemplateStyle != DefaultTemplateStyle() {
		t.Errorf("expected a fresh session, got %+v", s)
	}
}

// kvServer is a minimal pathstore stand-in.
func kvServer(t *testing.T) (*httptest.Server, map[string]json.RawMessage) {
	t.Helper()
	var mu sync.Mutex
	nodes := make(map[string]json.RawMessage)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/kv/")
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			var req struct {
				Value json.RawMessage `json:"value"`
			}
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			nodes[key] = req.Value
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			v, ok := nodes[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"key_path": key, "value": v})
		}
	}))
	t.Cleanup(srv.Close)
	return srv, nodes
}

func TestRemoteStore(t *testing.T) {
	ctx := context.Background()
	srv, nodes := kvServer(t)
	client := pathstore.NewClient(srv.URL, "secret")
	defer client.Close()
	store := RemoteStore{Client: client, ID: "adrien"}

	if _, err := store.Load(ctx); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist before first save, got %v", err)
	}
	s := parse(t, savedSession)
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := nodes["lettre/sessions/adrien"]; !ok {
		t.Errorf("expected node at lettre/sessions/adrien, got %v", nodes)
	}
	back, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.Company != "acme" || len(back.TextStyles) != len(s.TextStyles) {
		t.Errorf("expected stored session back, got %+v", back)
	}

	bad := RemoteStore{Client: pathstore.NewClient(srv.URL, "wrong")}
	var pe *PersistenceError
	if err := bad.Save(ctx, s); !errors.As(err, &pe) {
		t.Errorf("expected PersistenceError on rejected save, got %v", err)
	}
}

type recordingStore struct {
	mu    sync.Mutex
	saved []*Snapshot
	err   error
}

func (r *recordingStore) Load(context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saved) == 0 {
		return nil, os.ErrNotExist
	}
	return r.saved[len(r.saved)-1], nil
}

func (r *recordingStore) Save(_ context.Context, s *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, s)
	return nil
}

func (r *recordingStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func TestMirror(t *testing.T) {
	ctx := context.Background()
	primary := FileStore{Path: filepath.Join(t.TempDir(), "s.json")}
	broken := &recordingStore{err: errors.New("offline")}
	backup := &recordingStore{}
	m := &Mirror{Primary: primary, Secondaries: []Store{broken, backup}}

	s := New()
	s.Company = "Acme"
	if err := m.Save(ctx, s); err != nil {
		t.Fatalf("expected secondary failures to be ignored, got %v", err)
	}
	if backup.count() != 1 {
		t.Errorf("expected backup to receive the save, got %d", backup.count())
	}

	empty := &Mirror{Primary: FileStore{Path: filepath.Join(t.TempDir(), "none.json")}, Secondaries: []Store{backup}}
	got, err := empty.Load(ctx)
	if err != nil || got.Company != "Acme" {
		t.Errorf("expected fallback to backup, got %+v, %v", got, err)
	}
}

func TestAutoSaver_DebouncesToLatest(t *testing.T) {
	store := &recordingStore{}
	a := NewAutoSaver(context.Background(), store, time.Hour, nil)

	for _, c := range []string{"A", "B", "C"} {
		s := New()
		s.Company = c
		a.Touch(s)
	}
	if err := a.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if store.count() != 1 || store.saved[0].Company != "C" {
		t.Fatalf("expected one save of the latest snapshot, got %d", store.count())
	}

	s := New()
	s.Company = "D"
	a.Touch(s)
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if store.count() != 2 || store.saved[1].Company != "D" {
		t.Errorf("expected close to save the pending snapshot, got %d saves", store.count())
	}
	if err := a.Flush(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}
}

func TestAutoSaver_SavesAfterDelay(t *testing.T) {
	store := &recordingStore{}
	a := NewAutoSaver(context.Background(), store, 10*time.Millisecond, nil)
	defer a.Close()

	a.Touch(New())
	deadline := time.Now().Add(2 * time.Second)
	for store.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if store.count() != 1 {
		t.Errorf("expected one debounced save, got %d", store.count())
	}
}

func TestManager_UpdateTouchesSaver(t *testing.T) {
	store := &recordingStore{}
	a := NewAutoSaver(context.Background(), store, time.Hour, nil)
	m := NewManager(nil, a)

	got := m.Update(func(s *Snapshot) { s.Position = "Analyste" })
	got.Position = "changed"
	if m.Get().Position != "Analyste" {
		t.Error("expected Update to return a copy")
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if store.count() != 1 || store.saved[0].Position != "Analyste" {
		t.Errorf("expected the update to be saved, got %d saves", store.count())
	}
}

func TestAutoSaver_SavesEditsAfterCancel(t *testing.T) {
	store := &recordingStore{}
	ctx, cancel := context.WithCancel(context.Background())
	a := NewAutoSaver(ctx, store, time.Hour, nil)
	m := NewManager(nil, a)

	cancel()
	m.Update(func(s *Snapshot) { s.Company = "Acme" })

	flushCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	if err := a.Flush(flushCtx); err != nil {
		t.Fatalf("expected flush to work after cancel, got %v", err)
	}
	m.Update(func(s *Snapshot) { s.Position = "Analyste" })
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if store.count() != 2 {
		t.Fatalf("expected both edits saved, got %d saves", store.count())
	}
	last := store.saved[1]
	if last.Company != "Acme" || last.Position != "Analyste" {
		t.Errorf("expected the latest edit saved, got %q %q", last.Company, last.Position)
	}
}
