package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if len(cfg.CommentSelectors) != 3 {
		t.Errorf("Default selectors = %v, want 3 entries", cfg.CommentSelectors)
	}
	if cfg.SeverityMarker != "Severity:" {
		t.Errorf("Default marker = %q", cfg.SeverityMarker)
	}
	if cfg.FolderIcon != "📂" {
		t.Errorf("Default folder icon = %q", cfg.FolderIcon)
	}
	if cfg.SectionLabels.Suggestion != "💡 Suggestion" {
		t.Errorf("Default suggestion label = %q", cfg.SectionLabels.Suggestion)
	}
	if cfg.DebounceDelay() != 500*time.Millisecond {
		t.Errorf("Default debounce = %v, want 500ms", cfg.DebounceDelay())
	}
	if cfg.Format != "text" {
		t.Errorf("Default format = %q, want %q", cfg.Format, "text")
	}
	if cfg.FailOn != "none" {
		t.Errorf("Default failOn = %q, want %q", cfg.FailOn, "none")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestSelectorGroup(t *testing.T) {
	cfg := Default()
	want := ".comment-body, .js-comment-body, .note-text"
	if got := cfg.SelectorGroup(); got != want {
		t.Errorf("SelectorGroup() = %q, want %q", got, want)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("PRISMFOLD_SELECTORS", ".review, .note")
	t.Setenv("PRISMFOLD_FORMAT", "json")
	t.Setenv("PRISMFOLD_FAIL_ON", "high")
	t.Setenv("PRISMFOLD_LOG_LEVEL", "debug")
	t.Setenv("PRISMFOLD_DEBOUNCE_MS", "250")

	cfg := Default()
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}

	if len(cfg.CommentSelectors) != 2 || cfg.CommentSelectors[0] != ".review" || cfg.CommentSelectors[1] != ".note" {
		t.Errorf("CommentSelectors = %v", cfg.CommentSelectors)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.FailOn != "high" {
		t.Errorf("FailOn = %q, want %q", cfg.FailOn, "high")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.DebounceDelayMs != 250 {
		t.Errorf("DebounceDelayMs = %d, want 250", cfg.DebounceDelayMs)
	}
}

func TestMergeEnv_BadDebounce(t *testing.T) {
	t.Setenv("PRISMFOLD_DEBOUNCE_MS", "soon")
	cfg := Default()
	if err := mergeEnv(&cfg); err == nil {
		t.Error("Expected error for non-integer PRISMFOLD_DEBOUNCE_MS")
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	err := mergeOverrides(&cfg, map[string]string{
		"selectors":       ".a,.b",
		"format":          "sarif",
		"failOn":          "medium",
		"debounceDelayMs": "100",
		"logLevel":        "",
	})
	if err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.SelectorGroup() != ".a, .b" {
		t.Errorf("SelectorGroup() = %q", cfg.SelectorGroup())
	}
	if cfg.Format != "sarif" || cfg.FailOn != "medium" || cfg.DebounceDelayMs != 100 {
		t.Errorf("Unexpected config after overrides: %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Empty override should not replace logLevel, got %q", cfg.LogLevel)
	}
}

func TestMergeFile_KeepsDefaultsForZeroFields(t *testing.T) {
	cfg := Default()
	mergeFile(&cfg, Config{FolderIcon: "🗂", Chrome: ChromeConfig{ContainerClass: "review-thread"}})
	if cfg.FolderIcon != "🗂" {
		t.Errorf("FolderIcon = %q", cfg.FolderIcon)
	}
	if cfg.Chrome.ContainerClass != "review-thread" {
		t.Errorf("ContainerClass = %q", cfg.Chrome.ContainerClass)
	}
	if cfg.Chrome.HeaderSelector != ".timeline-comment-header" {
		t.Errorf("HeaderSelector should keep default, got %q", cfg.Chrome.HeaderSelector)
	}
	if cfg.SeverityMarker != "Severity:" {
		t.Errorf("SeverityMarker should keep default, got %q", cfg.SeverityMarker)
	}
}

func TestSetField(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(Config) bool
	}{
		{"commentSelectors", ".x, .y", func(c Config) bool { return len(c.CommentSelectors) == 2 }},
		{"severityMarker", "Priority:", func(c Config) bool { return c.SeverityMarker == "Priority:" }},
		{"severityIcons", "🔥,❄", func(c Config) bool { return len(c.SeverityIcons) == 2 }},
		{"folderIcon", "📁", func(c Config) bool { return c.FolderIcon == "📁" }},
		{"sectionLabels.issue", "Problem", func(c Config) bool { return c.SectionLabels.Issue == "Problem" }},
		{"sectionLabels.suggestion", "Fix", func(c Config) bool { return c.SectionLabels.Suggestion == "Fix" }},
		{"sectionLabels.context", "Why", func(c Config) bool { return c.SectionLabels.Context == "Why" }},
		{"chrome.containerClass", "thread", func(c Config) bool { return c.Chrome.ContainerClass == "thread" }},
		{"chrome.headerSelector", ".hdr", func(c Config) bool { return c.Chrome.HeaderSelector == ".hdr" }},
		{"chrome.headerTextSelector", ".hdr-text", func(c Config) bool { return c.Chrome.HeaderTextSelector == ".hdr-text" }},
		{"debounceDelayMs", "1000", func(c Config) bool { return c.DebounceDelayMs == 1000 }},
		{"format", "markdown", func(c Config) bool { return c.Format == "markdown" }},
		{"failOn", "low", func(c Config) bool { return c.FailOn == "low" }},
		{"logLevel", "warn", func(c Config) bool { return c.LogLevel == "warn" }},
		{"cache.enabled", "false", func(c Config) bool { return !c.Cache.Enabled }},
		{"cache.dir", "/tmp/pf", func(c Config) bool { return c.Cache.Dir == "/tmp/pf" }},
		{"cache.ttlSeconds", "60", func(c Config) bool { return c.Cache.TTLSeconds == 60 }},
		{"privacy.redactSecrets", "false", func(c Config) bool { return !c.Privacy.RedactSecrets }},
		{"privacy.redactPatterns", "ticket-[0-9]+", func(c Config) bool { return len(c.Privacy.RedactPatterns) == 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := Default()
			if err := SetField(&cfg, tt.key, tt.value); err != nil {
				t.Fatalf("SetField(%q) error: %v", tt.key, err)
			}
			if !tt.check(cfg) {
				t.Errorf("SetField(%q, %q) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestSetField_Errors(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "provider", "openai"); err == nil {
		t.Error("Expected error for unknown key")
	}
	if err := SetField(&cfg, "debounceDelayMs", "fast"); err == nil {
		t.Error("Expected error for non-integer debounceDelayMs")
	}
	if err := SetField(&cfg, "cache.enabled", "maybe"); err == nil {
		t.Error("Expected error for non-bool cache.enabled")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad selector", func(c *Config) { c.CommentSelectors = []string{"div[["} }},
		{"no selectors", func(c *Config) { c.CommentSelectors = nil }},
		{"bad header selector", func(c *Config) { c.Chrome.HeaderSelector = "span[[" }},
		{"empty marker", func(c *Config) { c.SeverityMarker = "" }},
		{"no icons", func(c *Config) { c.SeverityIcons = nil }},
		{"empty folder icon", func(c *Config) { c.FolderIcon = "" }},
		{"missing label", func(c *Config) { c.SectionLabels.Context = "" }},
		{"zero debounce", func(c *Config) { c.DebounceDelayMs = 0 }},
		{"unknown failOn", func(c *Config) { c.FailOn = "severe" }},
		{"unknown format", func(c *Config) { c.Format = "xml" }},
		{"negative cache ttl", func(c *Config) { c.Cache.TTLSeconds = -1 }},
		{"bad redact pattern", func(c *Config) { c.Privacy.RedactPatterns = []string{"("} }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadPath_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(jsonPath, []byte(`{"folderIcon":"🗂","debounceDelayMs":42}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadPath(jsonPath)
	if err != nil {
		t.Fatalf("LoadPath(json) error: %v", err)
	}
	if cfg.FolderIcon != "🗂" || cfg.DebounceDelayMs != 42 {
		t.Errorf("JSON config = %+v", cfg)
	}

	yamlPath := filepath.Join(dir, "prismfold.yaml")
	yamlDoc := "commentSelectors:\n  - .review-body\nsectionLabels:\n  issue: Problem\nchrome:\n  containerClass: thread\n"
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadPath(yamlPath)
	if err != nil {
		t.Fatalf("LoadPath(yaml) error: %v", err)
	}
	if len(cfg.CommentSelectors) != 1 || cfg.CommentSelectors[0] != ".review-body" {
		t.Errorf("YAML selectors = %v", cfg.CommentSelectors)
	}
	if cfg.SectionLabels.Issue != "Problem" || cfg.Chrome.ContainerClass != "thread" {
		t.Errorf("YAML config = %+v", cfg)
	}
}

func TestLoadPath_Missing(t *testing.T) {
	cfg, err := LoadPath(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Missing file should not error: %v", err)
	}
	if cfg.FolderIcon != "" {
		t.Error("Missing file should yield zero config")
	}
}

func TestLoadPath_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPath(path); err == nil {
		t.Error("Expected parse error")
	}
}

// isolate points the config dir at a temp dir and clears PRISMFOLD_* env.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"PRISMFOLD_SELECTORS", "PRISMFOLD_FORMAT", "PRISMFOLD_FAIL_ON", "PRISMFOLD_LOG_LEVEL", "PRISMFOLD_DEBOUNCE_MS", "PRISMFOLD_CACHE_DIR"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	t.Setenv("PRISMFOLD_FORMAT", "markdown")

	cfgFile := Default()
	cfgFile.Format = "json"
	cfgFile.FailOn = "low"
	cfgFile.FolderIcon = "🗂"
	if err := Save(cfgFile); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	cfg, err := Load(map[string]string{"failOn": "critical"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.FolderIcon != "🗂" {
		t.Errorf("File value lost: folderIcon = %q", cfg.FolderIcon)
	}
	if cfg.Format != "markdown" {
		t.Errorf("Env should beat file: format = %q", cfg.Format)
	}
	if cfg.FailOn != "critical" {
		t.Errorf("Override should beat file: failOn = %q", cfg.FailOn)
	}
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yml")
	if err := os.WriteFile(path, []byte("severityMarker: \"Priority:\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(map[string]string{"config": path})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SeverityMarker != "Priority:" {
		t.Errorf("SeverityMarker = %q", cfg.SeverityMarker)
	}

	if _, err := Load(map[string]string{"config": filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Error("Explicit config path that does not exist should fail")
	}
}

func TestLoad_InvalidSelector(t *testing.T) {
	isolate(t)
	if _, err := Load(map[string]string{"selectors": "div[["}); err == nil {
		t.Error("Expected invalid selector to fail Load")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" a , ,b,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SplitList = %v", got)
	}
	if SplitList("") != nil {
		t.Error("SplitList(\"\") should be nil")
	}
}

func TestLoadFileOrDefault(t *testing.T) {
	isolate(t)
	cfg, err := LoadFileOrDefault()
	if err != nil {
		t.Fatalf("LoadFileOrDefault error: %v", err)
	}
	if cfg.SeverityMarker != "Severity:" {
		t.Error("Missing file should yield defaults")
	}

	partial := Config{FolderIcon: "🗂"}
	if err := Save(partial); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFileOrDefault()
	if err != nil {
		t.Fatalf("LoadFileOrDefault error: %v", err)
	}
	if cfg.FolderIcon != "🗂" || cfg.SeverityMarker != "Severity:" {
		t.Errorf("Partial file should merge over defaults: %+v", cfg)
	}
}

func TestMergeOverrides_Disables(t *testing.T) {
	cfg := Default()
	if err := mergeOverrides(&cfg, map[string]string{"noCache": "true", "noRedact": "true"}); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Error("noCache should disable the cache")
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("noRedact should disable redaction")
	}
}

func TestMergeFile_CacheAndPrivacy(t *testing.T) {
	dst := Default()
	mergeFile(&dst, Config{
		Cache:   CacheConfig{Dir: "/var/cache/pf", TTLSeconds: 30},
		Privacy: PrivacyConfig{RedactPatterns: []string{"ticket-[0-9]+"}},
	})
	if dst.Cache.Dir != "/var/cache/pf" || dst.Cache.TTLSeconds != 30 {
		t.Errorf("cache = %+v", dst.Cache)
	}
	if !dst.Cache.Enabled || !dst.Privacy.RedactSecrets {
		t.Error("zero-valued file bools should not disable defaults")
	}
	if len(dst.Privacy.RedactPatterns) != 1 {
		t.Errorf("redact patterns = %v", dst.Privacy.RedactPatterns)
	}
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	b.DebounceDelayMs = 2000
	b.Format = "json"
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("settings outside the vocabulary should not change the fingerprint")
	}
	b.SeverityMarker = "Priority:"
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("changing the marker should change the fingerprint")
	}
	if len(a.Fingerprint()) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(a.Fingerprint()))
	}
}
