package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Generation.StudentCount = -1
	cfg.Generation.ParentMinAge = 60
	cfg.Datasets.Formats = []OutputFormat{"pdf"}
	cfg.Store.Driver = "mongo"
	cfg.Retry.MaxAttempts = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, want := range []string{
		"student_count",
		"parent_min_age (60) exceeds parent_max_age",
		"invalid format: pdf",
		"invalid driver: mongo",
		"max_attempts",
		"invalid log level: loud",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestStoreConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StoreConfig
		wantErr bool
	}{
		{"sqlite with path", StoreConfig{Driver: StoreDriverSQLite, Path: "a.db"}, false},
		{"sqlite without path", StoreConfig{Driver: StoreDriverSQLite}, true},
		{"postgres with dsn", StoreConfig{Driver: StoreDriverPostgres, DSN: "postgres://x"}, false},
		{"postgres without dsn", StoreConfig{Driver: StoreDriverPostgres}, true},
		{"redis with addr", StoreConfig{Driver: StoreDriverRedis, RedisAddr: "localhost:6379"}, false},
		{"redis negative db", StoreConfig{Driver: StoreDriverRedis, RedisAddr: "x:1", RedisDB: -1}, true},
		{"empty driver", StoreConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScraperConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"https", "https://example.com", false},
		{"http with port", "http://127.0.0.1:8080", false},
		{"no scheme", "example.com", true},
		{"ftp", "ftp://example.com", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScraperConfig{BaseURL: tt.baseURL}
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerationConfig_SynthConfig(t *testing.T) {
	g := Default().Generation
	now := time.Date(2031, time.May, 1, 0, 0, 0, 0, time.UTC)

	sc := g.SynthConfig(now)
	if sc.AsOfYear != 2031 {
		t.Errorf("AsOfYear = %d, want 2031 when unset", sc.AsOfYear)
	}
	if sc.StudentAge.Min != g.StudentMinAge || sc.TeacherAge.Max != g.TeacherMaxAge {
		t.Errorf("age bands not copied: %+v", sc)
	}

	g.AsOfYear = 2020
	if got := g.SynthConfig(now).AsOfYear; got != 2020 {
		t.Errorf("AsOfYear = %d, want 2020", got)
	}
}

func TestDatasetsConfig_CatalogPaths(t *testing.T) {
	d := DatasetsConfig{}
	if _, ok := d.CatalogPaths(); ok {
		t.Error("CatalogPaths() ok = true with no names_dir")
	}

	d.NamesDir = "names"
	paths, ok := d.CatalogPaths()
	if !ok {
		t.Fatal("CatalogPaths() ok = false")
	}
	if paths.LastNames != filepath.Join("names", "ethnic_names.json") {
		t.Errorf("LastNames = %q", paths.LastNames)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, `
[generation]
student_count = 42
seed = 7

[store]
driver = "redis"
redis_addr = "cache:6379"

[retry]
max_attempts = 3
initial_interval = "50ms"
max_interval = "1s"
`)

	cfg, used, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if used != path {
		t.Errorf("path = %q, want %q", used, path)
	}

	if cfg.Generation.StudentCount != 42 || cfg.Generation.Seed != 7 {
		t.Errorf("generation = %+v", cfg.Generation)
	}
	// Unset values keep their defaults.
	if cfg.Generation.StudentMaxAge != Default().Generation.StudentMaxAge {
		t.Errorf("StudentMaxAge = %d, want default", cfg.Generation.StudentMaxAge)
	}
	if cfg.Retry.InitialInterval != 50*time.Millisecond || cfg.Retry.MaxInterval != time.Second {
		t.Errorf("retry = %+v", cfg.Retry)
	}
	if p := cfg.Retry.Policy(); p.MaxAttempts != 3 {
		t.Errorf("Policy().MaxAttempts = %d, want 3", p.MaxAttempts)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[generation\nstudent_count = 1"},
		{"invalid values", "[store]\ndriver = \"oracle\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".toml")
			writeFile(t, path, tt.content)

			_, _, err := Load(path, false)
			var loadErr *LoadError
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.As(err, &loadErr) || loadErr.Path != path {
				t.Errorf("error = %v, want *LoadError for %s", err, path)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	writeFile(t, path, "[store]\ndriver = \"postgres\"\ndsn = \"postgres://file\"\n")

	t.Setenv(EnvStoreDSN, "postgres://env")
	t.Setenv(EnvRedisPassword, "secret")

	cfg, _, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.DSN != "postgres://env" {
		t.Errorf("DSN = %q, want environment value", cfg.Store.DSN)
	}
	if cfg.Store.RedisPassword != "secret" {
		t.Errorf("RedisPassword = %q, want environment value", cfg.Store.RedisPassword)
	}
}

func TestLoad_CreatesDefaultInXDGDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())

	if _, _, err := Load("", false); err == nil {
		t.Fatal("expected error when no config exists and createDefault is false")
	}

	cfg, path, err := Load("", true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(xdg, XDGConfigSubdir, DefaultConfigFileName)
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	reloaded, reloadedPath, err := Load("", false)
	if err != nil {
		t.Fatalf("reloading written default: %v", err)
	}
	if reloadedPath != want {
		t.Errorf("reloaded from %q, want %q", reloadedPath, want)
	}
	if reloaded.Retry.MaxElapsed != cfg.Retry.MaxElapsed || reloaded.Scraper.Timeout != cfg.Scraper.Timeout {
		t.Errorf("durations changed across save and load: %+v vs %+v", reloaded.Retry, cfg.Retry)
	}
}

func TestLoad_DefaultFileOmitsEnvironmentSecrets(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())
	t.Setenv(EnvRedisPassword, "hunter2")

	cfg, path, err := Load("", true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.RedisPassword != "hunter2" {
		t.Errorf("RedisPassword = %q, want environment value", cfg.Store.RedisPassword)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading default config: %v", err)
	}
	if strings.Contains(string(data), "hunter2") {
		t.Error("default config file contains a secret from the environment")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, EnvRedisAddr+"=redis.internal:6380\n")

	// Registers cleanup that restores the variable after LoadDotEnv sets it.
	t.Setenv(EnvRedisAddr, "")
	os.Unsetenv(EnvRedisAddr)

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv(EnvRedisAddr); got != "redis.internal:6380" {
		t.Errorf("%s = %q", EnvRedisAddr, got)
	}

	cfg := Default()
	ApplyEnv(cfg)
	if cfg.Store.RedisAddr != "redis.internal:6380" {
		t.Errorf("RedisAddr = %q after ApplyEnv", cfg.Store.RedisAddr)
	}
}
