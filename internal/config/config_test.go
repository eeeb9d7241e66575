package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "WORKER_COUNT", "LLM_MAX_TOKENS", "LLM_TOP_K", "LETTRE_SESSION_FILE", "PATHSTORE_URL", "LLM_TOP_P", "LLM_TEMPERATURE"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8090" || cfg.MaxTokens != 2000 || cfg.TopK != 40 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if filepath.Base(cfg.SessionPath()) != "last_session.json" {
		t.Errorf("expected last_session.json, got %q", cfg.SessionPath())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lettre.yaml")
	yml := "port: \"9000\"\nworker_count: 6\njob_ttl: 10m\ndata_dir: /srv/lettre\ntemplates_file: modeles.yaml\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("WORKER_COUNT", "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("expected env to win, got port %q", cfg.Port)
	}
	if cfg.WorkerCount != 6 {
		t.Errorf("expected worker_count 6 from file, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 10*time.Minute {
		t.Errorf("expected 10m TTL, got %s", cfg.JobTTL)
	}
	if want := filepath.Join("/srv/lettre", "modeles.yaml"); cfg.TemplatesPath() != want {
		t.Errorf("expected %q, got %q", want, cfg.TemplatesPath())
	}
}

func TestLoadFile_ClampsInvalidValues(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("JOB_TTL", "not-a-duration")
	t.Setenv("MAX_QUEUE_SIZE", "0")
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d := Defaults()
	if cfg.WorkerCount != d.WorkerCount || cfg.MaxQueueSize != d.MaxQueueSize || cfg.JobTTL != d.JobTTL {
		t.Errorf("expected clamped defaults, got %+v", cfg)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("port: [unclosed"), 0o600)
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.PathstoreURL = "http://kv"
	if err := cfg.Validate(); err == nil {
		t.Error("expected pathstore key to be required")
	}
	cfg = Defaults()
	cfg.TopP = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected top_p out of range to fail")
	}
}
