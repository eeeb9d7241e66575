package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/didilebossducode/lettre-motivation-ai/internal/atomicfile"
	"github.com/didilebossducode/lettre-motivation-ai/internal/canned"
	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/didilebossducode/lettre-motivation-ai/internal/pathstore"
	"go.uber.org/multierr"
)

// PersistenceError wraps a failed session read or write.
type PersistenceError = canned.PersistenceError

// Store reads and writes whole snapshots. Load returns an error matching
// fs.ErrNotExist when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}

// Load reads the last session from store. A missing session yields New().
// On any other failure New() is still returned, with a *PersistenceError.
func Load(ctx context.Context, store Store) (*Snapshot, error) {
	s, err := store.Load(ctx)
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, fs.ErrNotExist):
		return New(), nil
	default:
		var pe *PersistenceError
		if !errors.As(err, &pe) {
			pe = &PersistenceError{Op: "load", Err: err}
		}
		return New(), pe
	}
}

// decode fills New() from data so keys absent from older files keep their
// defaults.
func decode(data []byte) (*Snapshot, error) {
	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if s.TextStyles == nil {
		s.TextStyles = []doc.TagRecord{}
	}
	return s, nil
}

// FileStore keeps the session in one JSON file.
type FileStore struct {
	Path string
}

func (f FileStore) Load(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: f.Path, Err: err}
	}
	s, err := decode(data)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: f.Path, Err: fmt.Errorf("decode: %w", err)}
	}
	return s, nil
}

// Save rewrites the file atomically, indented, without escaping accents.
func (f FileStore) Save(_ context.Context, s *Snapshot) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s); err != nil {
		return &PersistenceError{Op: "save", Path: f.Path, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := atomicfile.Write(f.Path, buf.Bytes(), 0o600); err != nil {
		return &PersistenceError{Op: "save", Path: f.Path, Err: err}
	}
	return nil
}

// KeyPrefix is where RemoteStore keeps sessions in pathstore.
const KeyPrefix = "lettre/sessions/"

// RemoteStore keeps the session as a pathstore node.
type RemoteStore struct {
	Client *pathstore.Client
	ID     string
}

func (r RemoteStore) key() string {
	id := r.ID
	if id == "" {
		id = "default"
	}
	return KeyPrefix + id
}

func (r RemoteStore) Load(ctx context.Context) (*Snapshot, error) {
	key := r.key()
	node, err := r.Client.GetNode(ctx, key)
	if errors.Is(err, pathstore.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", key, fs.ErrNotExist)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: key, Err: err}
	}
	s, err := decode(node.Value)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: key, Err: fmt.Errorf("decode: %w", err)}
	}
	return s, nil
}

func (r RemoteStore) Save(ctx context.Context, s *Snapshot) error {
	key := r.key()
	err := r.Client.PutNode(ctx, key, pathstore.NodeRequest{
		Value:     s,
		MergeMode: "replace",
		Source:    "lettre-motivation-ai",
	})
	if err != nil {
		return &PersistenceError{Op: "save", Path: key, Err: err}
	}
	return nil
}

// Mirror saves to Primary and then, best effort, to every Secondary.
// Secondary failures are logged, never returned. Load falls back to the
// secondaries in order when Primary has nothing saved.
type Mirror struct {
	Primary     Store
	Secondaries []Store
	Log         *slog.Logger
}

func (m *Mirror) Load(ctx context.Context) (*Snapshot, error) {
	s, err := m.Primary.Load(ctx)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return s, err
	}
	for _, sec := range m.Secondaries {
		if s, serr := sec.Load(ctx); serr == nil {
			return s, nil
		}
	}
	return nil, err
}

func (m *Mirror) Save(ctx context.Context, s *Snapshot) error {
	if err := m.Primary.Save(ctx, s); err != nil {
		return err
	}
	var errs error
	for _, sec := range m.Secondaries {
		errs = multierr.Append(errs, sec.Save(ctx, s))
	}
	if errs != nil && m.Log != nil {
		m.Log.Warn("session mirror save failed", "errors", len(multierr.Errors(errs)), "error", errs)
	}
	return nil
}
