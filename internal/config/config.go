package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth for the /api group; empty disables it.
	APIKey string `yaml:"api_key"`

	// Local persistence
	DataDir       string `yaml:"data_dir"`
	SessionFile   string `yaml:"session_file"`
	TemplatesFile string `yaml:"templates_file"`

	// Remote session mirror; empty URL disables it.
	PathstoreURL    string `yaml:"pathstore_url"`
	PathstoreAPIKey string `yaml:"pathstore_api_key"`
	SessionID       string `yaml:"session_id"`

	// Drafting
	AnthropicAPIKey   string  `yaml:"anthropic_api_key"`
	AnthropicModel    string  `yaml:"anthropic_model"`
	AnthropicBaseURL  string  `yaml:"anthropic_base_url"`
	MaxTokens         int     `yaml:"max_tokens"`
	Temperature       float64 `yaml:"temperature"`
	TopK              int     `yaml:"top_k"`
	TopP              float64 `yaml:"top_p"`
	DraftSectionChars int     `yaml:"draft_section_chars"`

	// PDF
	SofficeBinary        string        `yaml:"soffice_binary"`
	ConvertTimeout       time.Duration `yaml:"convert_timeout"`
	PDFFallbackPdftotext bool          `yaml:"pdf_fallback_pdftotext"`

	// Worker pool
	WorkerCount  int           `yaml:"worker_count"`
	MaxQueueSize int           `yaml:"max_queue_size"`
	JobTTL       time.Duration `yaml:"job_ttl"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Session behaviour
	AutosaveDelay   time.Duration `yaml:"autosave_delay"`
	BaseLineSpacing float64       `yaml:"base_line_spacing"`

	// Author name used in generated file names.
	Author string `yaml:"author"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	dataDir := ".lettre_motivation_ai"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, dataDir)
	}
	return Config{
		Port:                 "8090",
		DataDir:              dataDir,
		SessionFile:          "last_session.json",
		TemplatesFile:        "custom_templates.json",
		SessionID:            "default",
		AnthropicModel:       "claude-sonnet-4-5-20250929",
		MaxTokens:            2000,
		Temperature:          0.7,
		TopK:                 40,
		TopP:                 0.4,
		DraftSectionChars:    1000,
		SofficeBinary:        "soffice",
		ConvertTimeout:       2 * time.Minute,
		PDFFallbackPdftotext: true,
		WorkerCount:          2,
		MaxQueueSize:         100,
		JobTTL:               1 * time.Hour,
		MaxUploadBytes:       10 << 20, // 10MB
		AutosaveDelay:        500 * time.Millisecond,
		BaseLineSpacing:      1.15,
		Author:               "Adrien LANGE",
	}
}

// Load reads the optional YAML file named by LETTRE_CONFIG, then the
// environment. Environment variables win over the file.
func Load() (Config, error) {
	return LoadFile(os.Getenv("LETTRE_CONFIG"))
}

// LoadFile is Load with an explicit YAML path; empty means none.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.clamp()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("LETTRE_API_KEY", c.APIKey)

	c.DataDir = envOr("LETTRE_DATA_DIR", c.DataDir)
	c.SessionFile = envOr("LETTRE_SESSION_FILE", c.SessionFile)
	c.TemplatesFile = envOr("LETTRE_TEMPLATES_FILE", c.TemplatesFile)

	c.PathstoreURL = envOr("PATHSTORE_URL", c.PathstoreURL)
	c.PathstoreAPIKey = envOr("PATHSTORE_API_KEY", c.PathstoreAPIKey)
	c.SessionID = envOr("LETTRE_SESSION_ID", c.SessionID)

	c.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	c.AnthropicModel = envOr("ANTHROPIC_MODEL", c.AnthropicModel)
	c.AnthropicBaseURL = envOr("ANTHROPIC_BASE_URL", c.AnthropicBaseURL)
	c.MaxTokens = envInt("LLM_MAX_TOKENS", c.MaxTokens)
	c.Temperature = envFloat("LLM_TEMPERATURE", c.Temperature)
	c.TopK = envInt("LLM_TOP_K", c.TopK)
	c.TopP = envFloat("LLM_TOP_P", c.TopP)
	c.DraftSectionChars = envInt("DRAFT_SECTION_CHARS", c.DraftSectionChars)

	c.SofficeBinary = envOr("SOFFICE_BINARY", c.SofficeBinary)
	c.ConvertTimeout = envDuration("CONVERT_TIMEOUT", c.ConvertTimeout)
	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)

	c.WorkerCount = envInt("WORKER_COUNT", c.WorkerCount)
	c.MaxQueueSize = envInt("MAX_QUEUE_SIZE", c.MaxQueueSize)
	c.JobTTL = envDuration("JOB_TTL", c.JobTTL)

	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)

	c.AutosaveDelay = envDuration("AUTOSAVE_DELAY", c.AutosaveDelay)
	c.BaseLineSpacing = envFloat("BASE_LINE_SPACING", c.BaseLineSpacing)
	c.Author = envOr("LETTRE_AUTHOR", c.Author)
}

// clamp puts invalid numeric values back to their defaults.
func (c *Config) clamp() {
	d := Defaults()
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.DraftSectionChars <= 0 {
		c.DraftSectionChars = d.DraftSectionChars
	}
	if c.ConvertTimeout <= 0 {
		c.ConvertTimeout = d.ConvertTimeout
	}
	if c.AutosaveDelay < 0 {
		c.AutosaveDelay = d.AutosaveDelay
	}
	if c.BaseLineSpacing < 0 {
		c.BaseLineSpacing = d.BaseLineSpacing
	}
}

// SessionPath is the session file inside DataDir unless it is absolute.
func (c Config) SessionPath() string { return c.inDataDir(c.SessionFile) }

// TemplatesPath is the canned template file inside DataDir unless absolute.
func (c Config) TemplatesPath() string { return c.inDataDir(c.TemplatesFile) }

func (c Config) inDataDir(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data dir is required")
	}
	if c.PathstoreURL != "" && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature %v outside 0..1", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("top_p %v outside 0..1", c.TopP)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
