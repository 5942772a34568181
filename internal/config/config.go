package config

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/prismfold/internal/htmldom"
	"gopkg.in/yaml.v3"
)

// Config represents the prismfold configuration.
type Config struct {
	CommentSelectors []string      `json:"commentSelectors" yaml:"commentSelectors"`
	SeverityMarker   string        `json:"severityMarker" yaml:"severityMarker"`
	SeverityIcons    []string      `json:"severityIcons" yaml:"severityIcons"`
	FolderIcon       string        `json:"folderIcon" yaml:"folderIcon"`
	SectionLabels    SectionLabels `json:"sectionLabels" yaml:"sectionLabels"`
	Chrome           ChromeConfig  `json:"chrome" yaml:"chrome"`
	DebounceDelayMs  int           `json:"debounceDelayMs" yaml:"debounceDelayMs"`
	Format           string        `json:"format" yaml:"format"`
	FailOn           string        `json:"failOn" yaml:"failOn"`
	LogLevel         string        `json:"logLevel" yaml:"logLevel"`
	Cache            CacheConfig   `json:"cache" yaml:"cache"`
	Privacy          PrivacyConfig `json:"privacy" yaml:"privacy"`
}

// CacheConfig controls the formatted-page digest cache.
type CacheConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Dir        string `json:"dir,omitempty" yaml:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds" yaml:"ttlSeconds"`
}

// PrivacyConfig controls secret redaction in reports.
type PrivacyConfig struct {
	RedactSecrets  bool     `json:"redactSecrets" yaml:"redactSecrets"`
	RedactPatterns []string `json:"redactPatterns,omitempty" yaml:"redactPatterns,omitempty"`
}

// SectionLabels are the bold labels that open each comment section.
type SectionLabels struct {
	Issue      string `json:"issue" yaml:"issue"`
	Suggestion string `json:"suggestion" yaml:"suggestion"`
	Context    string `json:"context" yaml:"context"`
}

// ChromeConfig locates the host page's UI around a comment body.
type ChromeConfig struct {
	ContainerClass     string `json:"containerClass" yaml:"containerClass"`
	HeaderSelector     string `json:"headerSelector" yaml:"headerSelector"`
	HeaderTextSelector string `json:"headerTextSelector" yaml:"headerTextSelector"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		CommentSelectors: []string{".comment-body", ".js-comment-body", ".note-text"},
		SeverityMarker:   "Severity:",
		SeverityIcons:    []string{"🔴", "🟠", "🟡", "🟢", "⚪"},
		FolderIcon:       "📂",
		SectionLabels: SectionLabels{
			Issue:      "🧐 Issue",
			Suggestion: "💡 Suggestion",
			Context:    "📝 Context",
		},
		Chrome: ChromeConfig{
			ContainerClass:     "timeline-comment",
			HeaderSelector:     ".timeline-comment-header",
			HeaderTextSelector: ".timeline-comment-header-text",
		},
		DebounceDelayMs: 500,
		Format:          "text",
		FailOn:          "none",
		LogLevel:        "info",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 7 * 24 * 60 * 60,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// DebounceDelay returns the watcher quiet period.
func (c Config) DebounceDelay() time.Duration {
	return time.Duration(c.DebounceDelayMs) * time.Millisecond
}

// SelectorGroup joins the comment selectors into one selector group.
func (c Config) SelectorGroup() string {
	return strings.Join(c.CommentSelectors, ", ")
}

// Fingerprint identifies the comment vocabulary and chrome settings. Two
// configs with the same fingerprint format any page identically.
func (c Config) Fingerprint() string {
	data, _ := json.Marshal(struct {
		Selectors []string
		Marker    string
		Icons     []string
		Folder    string
		Labels    SectionLabels
		Chrome    ChromeConfig
	}{c.CommentSelectors, c.SeverityMarker, c.SeverityIcons, c.FolderIcon, c.SectionLabels, c.Chrome})
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// Validate checks that every selector compiles and the vocabulary is usable.
func (c Config) Validate() error {
	if len(c.CommentSelectors) == 0 {
		return fmt.Errorf("commentSelectors must not be empty")
	}
	for _, sel := range c.CommentSelectors {
		if err := htmldom.Validate(sel); err != nil {
			return fmt.Errorf("invalid comment selector: %w", err)
		}
	}
	for name, sel := range map[string]string{
		"chrome.headerSelector":     c.Chrome.HeaderSelector,
		"chrome.headerTextSelector": c.Chrome.HeaderTextSelector,
	} {
		if sel == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		if err := htmldom.Validate(sel); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if c.SeverityMarker == "" {
		return fmt.Errorf("severityMarker must not be empty")
	}
	if len(c.SeverityIcons) == 0 {
		return fmt.Errorf("severityIcons must not be empty")
	}
	if c.FolderIcon == "" {
		return fmt.Errorf("folderIcon must not be empty")
	}
	if c.SectionLabels.Issue == "" || c.SectionLabels.Suggestion == "" || c.SectionLabels.Context == "" {
		return fmt.Errorf("sectionLabels must define issue, suggestion and context")
	}
	if c.DebounceDelayMs <= 0 {
		return fmt.Errorf("debounceDelayMs must be positive, got %d", c.DebounceDelayMs)
	}
	switch c.FailOn {
	case "", "none", "info", "low", "medium", "high", "critical":
	default:
		return fmt.Errorf("unknown failOn threshold: %s", c.FailOn)
	}
	switch c.Format {
	case "", "text", "json", "markdown", "sarif":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Format)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttlSeconds must not be negative, got %d", c.Cache.TTLSeconds)
	}
	for _, p := range c.Privacy.RedactPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logLevel: %s", c.LogLevel)
	}
	return nil
}

// ConfigDir returns the platform-appropriate config directory for prismfold.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prismfold"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "prismfold"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "prismfold"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "prismfold"), nil
	default:
		return filepath.Join(home, ".config", "prismfold"), nil
	}
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads the default config file. Returns zero Config and nil error if
// the file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadPath(path)
}

// LoadFileOrDefault returns the defaults with the default config file merged
// over them.
func LoadFileOrDefault() (Config, error) {
	cfg := Default()
	fileCfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	mergeFile(&cfg, fileCfg)
	return cfg, nil
}

// LoadPath loads a config file from path. JSON is the default encoding;
// .yaml and .yml files are decoded as YAML. A missing file yields a zero
// Config.
func LoadPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return cfg, nil
}

// Save writes the config to the default config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
// The "config" override selects a config file other than the default one.
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	var fileCfg Config
	var err error
	if path := overrides["config"]; path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			return Config{}, fmt.Errorf("config file: %w", statErr)
		}
		fileCfg, err = LoadPath(path)
	} else {
		fileCfg, err = LoadFile()
	}
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if len(src.CommentSelectors) > 0 {
		dst.CommentSelectors = src.CommentSelectors
	}
	if src.SeverityMarker != "" {
		dst.SeverityMarker = src.SeverityMarker
	}
	if len(src.SeverityIcons) > 0 {
		dst.SeverityIcons = src.SeverityIcons
	}
	if src.FolderIcon != "" {
		dst.FolderIcon = src.FolderIcon
	}
	if src.SectionLabels.Issue != "" {
		dst.SectionLabels.Issue = src.SectionLabels.Issue
	}
	if src.SectionLabels.Suggestion != "" {
		dst.SectionLabels.Suggestion = src.SectionLabels.Suggestion
	}
	if src.SectionLabels.Context != "" {
		dst.SectionLabels.Context = src.SectionLabels.Context
	}
	if src.Chrome.ContainerClass != "" {
		dst.Chrome.ContainerClass = src.Chrome.ContainerClass
	}
	if src.Chrome.HeaderSelector != "" {
		dst.Chrome.HeaderSelector = src.Chrome.HeaderSelector
	}
	if src.Chrome.HeaderTextSelector != "" {
		dst.Chrome.HeaderTextSelector = src.Chrome.HeaderTextSelector
	}
	if src.DebounceDelayMs > 0 {
		dst.DebounceDelayMs = src.DebounceDelayMs
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// A file cannot tell an unset bool from false, so the file only ever
	// turns these on; --no-cache and --no-redact turn them off.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets || dst.Privacy.RedactSecrets
	if len(src.Privacy.RedactPatterns) > 0 {
		dst.Privacy.RedactPatterns = src.Privacy.RedactPatterns
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("PRISMFOLD_SELECTORS"); v != "" {
		cfg.CommentSelectors = SplitList(v)
	}
	if v := os.Getenv("PRISMFOLD_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("PRISMFOLD_FAIL_ON"); v != "" {
		cfg.FailOn = v
	}
	if v := os.Getenv("PRISMFOLD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PRISMFOLD_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("PRISMFOLD_DEBOUNCE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PRISMFOLD_DEBOUNCE_MS must be an integer: %w", err)
		}
		cfg.DebounceDelayMs = n
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
	if v, ok := overrides["selectors"]; ok && v != "" {
		cfg.CommentSelectors = SplitList(v)
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["failOn"]; ok && v != "" {
		cfg.FailOn = v
	}
	if v, ok := overrides["logLevel"]; ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := overrides["debounceDelayMs"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("debounceDelayMs must be an integer: %w", err)
		}
		cfg.DebounceDelayMs = n
	}
	if overrides["noCache"] == "true" {
		cfg.Cache.Enabled = false
	}
	if overrides["noRedact"] == "true" {
		cfg.Privacy.RedactSecrets = false
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "commentSelectors":
		cfg.CommentSelectors = SplitList(value)
	case "severityMarker":
		cfg.SeverityMarker = value
	case "severityIcons":
		cfg.SeverityIcons = SplitList(value)
	case "folderIcon":
		cfg.FolderIcon = value
	case "sectionLabels.issue":
		cfg.SectionLabels.Issue = value
	case "sectionLabels.suggestion":
		cfg.SectionLabels.Suggestion = value
	case "sectionLabels.context":
		cfg.SectionLabels.Context = value
	case "chrome.containerClass":
		cfg.Chrome.ContainerClass = value
	case "chrome.headerSelector":
		cfg.Chrome.HeaderSelector = value
	case "chrome.headerTextSelector":
		cfg.Chrome.HeaderTextSelector = value
	case "debounceDelayMs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("debounceDelayMs must be an integer: %w", err)
		}
		cfg.DebounceDelayMs = n
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	case "logLevel":
		cfg.LogLevel = value
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be true or false: %w", err)
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttlSeconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be true or false: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	case "privacy.redactPatterns":
		cfg.Privacy.RedactPatterns = SplitList(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
