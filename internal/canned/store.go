package canned

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/didilebossducode/lettre-motivation-ai/internal/atomicfile"
	"gopkg.in/yaml.v3"
)

// FileStore keeps the collection in one mapping file, name to body. Files
// ending in .yaml or .yml are YAML; anything else is JSON.
type FileStore struct {
	Path string
}

func (s FileStore) yaml() bool {
	ext := strings.ToLower(filepath.Ext(s.Path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the mapping file.
func (s FileStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if s.yaml() {
		err = yaml.Unmarshal(data, &out)
	} else {
		err = json.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.Path, Err: fmt.Errorf("decode: %w", err)}
	}
	return out, nil
}

// Save rewrites the mapping file atomically.
func (s FileStore) Save(entries map[string]string) error {
	var (
		data []byte
		err  error
	)
	if s.yaml() {
		data, err = yaml.Marshal(entries)
	} else {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		err = enc.Encode(entries)
		data = buf.Bytes()
	}
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.Path, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := atomicfile.Write(s.Path, data, 0o600); err != nil {
		return &PersistenceError{Op: "save", Path: s.Path, Err: err}
	}
	return nil
}
