package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/itemfeed/errors"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty name defaults to itemfeed", func(t *testing.T) {
		var cfg ServiceConfig
		cfg.ApplyDefaults()
		if cfg.Name != "itemfeed" {
			t.Errorf("expected 'itemfeed', got %q", cfg.Name)
		}
		if cfg.Logging.ServiceName != "itemfeed" {
			t.Errorf("expected logging service name to follow name, got %q", cfg.Logging.ServiceName)
		}
		if cfg.Logging.Level != "warn" {
			t.Errorf("expected warn level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("debug raises log level", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("explicit level wins over debug", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Debug: true}
		cfg.Logging.Level = "error"
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "error" {
			t.Errorf("expected error level, got %q", cfg.Logging.Level)
		}
	})
}

func TestFeedConfigDefaults(t *testing.T) {
	var cfg FeedConfig
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.LineEndingByte() != '\n' {
		t.Errorf("expected newline terminator, got %q", cfg.LineEndingByte())
	}
	if cfg.Metrics.ExportInterval != 10*time.Second {
		t.Errorf("expected 10s interval, got %v", cfg.Metrics.ExportInterval)
	}
}

func TestFeedConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FeedConfig)
		wantErr string
	}{
		{"valid delimiter", func(c *FeedConfig) { c.Delimiter = `[,:]` }, ""},
		{"bad delimiter", func(c *FeedConfig) { c.Delimiter = `(` }, "delimiter"},
		{"nul line ending", func(c *FeedConfig) { c.LineEnding = `\0` }, ""},
		{"multi byte line ending", func(c *FeedConfig) { c.LineEnding = "ab" }, "line_ending"},
		{"negative header lines", func(c *FeedConfig) { c.HeaderLines = -1 }, "header_lines"},
		{"negative capacity", func(c *FeedConfig) { c.ChannelCapacity = -5 }, "channel_capacity"},
		{"read0 with comma ending", func(c *FeedConfig) { c.Read0 = true; c.LineEnding = "," }, "read0"},
		{"read0 with default ending", func(c *FeedConfig) { c.Read0 = true }, ""},
		{"bad log level", func(c *FeedConfig) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg FeedConfig
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestLineEndingByte(t *testing.T) {
	tests := []struct {
		lineEnding string
		read0      bool
		want       byte
	}{
		{`\n`, false, '\n'},
		{`\0`, false, 0},
		{",", false, ','},
		{`\n`, true, 0},
		{"", false, '\n'},
	}
	for _, tc := range tests {
		cfg := FeedConfig{LineEnding: tc.lineEnding, Read0: tc.read0}
		if got := cfg.LineEndingByte(); got != tc.want {
			t.Errorf("LineEndingByte(%q, read0=%v) = %q, want %q", tc.lineEnding, tc.read0, got, tc.want)
		}
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: test-feed
ansi: true
delimiter: ","
nth: "2.."
header_lines: 2
logging:
  level: debug
metrics:
  enabled: true
  export_interval: 5s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg FeedConfig
	if err := LoadConfig("itemfeed", &cfg, WithConfigFile(configPath), WithFileSystem(&mockFS{files: map[string]bool{configPath: true}})); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "test-feed" {
		t.Errorf("expected name 'test-feed', got %q", cfg.Name)
	}
	if !cfg.ANSI || cfg.Delimiter != "," || cfg.Nth != "2.." || cfg.HeaderLines != 2 {
		t.Errorf("unexpected feed fields: %+v", cfg)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.ExportInterval != 5*time.Second {
		t.Errorf("unexpected metrics config: %+v", cfg.Metrics)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("ITEMFEED_SHOW_ERROR", "true")
	t.Setenv("ITEMFEED_HEADER_LINES", "3")
	t.Setenv("SHOW_ERROR", "false")
	t.Setenv("ITEMFEED_LOGGING_LEVEL", "error")

	var cfg FeedConfig
	if err := LoadConfig("itemfeed", &cfg, WithFileSystem(&mockFS{})); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.ShowError {
		t.Error("expected show_error from prefixed env var")
	}
	if cfg.HeaderLines != 3 {
		t.Errorf("expected header_lines 3, got %d", cfg.HeaderLines)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected nested logging.level from env, got %q", cfg.Logging.Level)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg FeedConfig
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	t.Run("working directory first", func(t *testing.T) {
		fs := &mockFS{files: map[string]bool{
			"./.itemfeed.yml":                 true,
			"/mock/config/itemfeed/config.yml": true,
		}}
		resolver := &Resolver{FileSystem: fs}
		files := resolver.ResolveFiles("itemfeed", LoaderConfig{})
		if files.ConfigFile != "./.itemfeed.yml" {
			t.Errorf("expected ./.itemfeed.yml, got %q", files.ConfigFile)
		}
	})

	t.Run("user config directory", func(t *testing.T) {
		fs := &mockFS{files: map[string]bool{
			"/mock/config/itemfeed/config.yml": true,
			"./.env":                           true,
		}}
		resolver := &Resolver{FileSystem: fs}
		files := resolver.ResolveFiles("itemfeed", LoaderConfig{})
		if files.ConfigFile != "/mock/config/itemfeed/config.yml" {
			t.Errorf("expected user config file, got %q", files.ConfigFile)
		}
		if files.EnvFile != "./.env" {
			t.Errorf("expected ./.env, got %q", files.EnvFile)
		}
	})

	t.Run("explicit paths win", func(t *testing.T) {
		resolver := &Resolver{FileSystem: &mockFS{}}
		files := resolver.ResolveFiles("itemfeed", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
		if files.ConfigFile != "a.yml" || files.EnvFile != "b.env" {
			t.Errorf("unexpected resolved files: %+v", files)
		}
	})
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool        { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error      { return nil }
func (m *mockFS) UserConfigDir() (string, error) { return "/mock/config", nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("FEED_")(&lc)
	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
	if lc.EnvPrefix != "FEED_" {
		t.Errorf("expected env prefix, got %q", lc.EnvPrefix)
	}
}

func TestEnvName(t *testing.T) {
	tests := map[string]string{
		"line_ending":             "ITEMFEED_LINE_ENDING",
		"logging.level":           "ITEMFEED_LOGGING_LEVEL",
		"metrics.export_interval": "ITEMFEED_METRICS_EXPORT_INTERVAL",
	}
	for key, want := range tests {
		if got := envName(DefaultEnvPrefix, key); got != want {
			t.Errorf("envName(%q) = %q, want %q", key, got, want)
		}
	}
}
