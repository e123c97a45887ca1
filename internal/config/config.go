// Package config provides configuration management for SchoolSynth.
// Configurations are loaded from TOML files with XDG-compliant paths.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/schoolsynth/schoolsynth/internal/names"
	"github.com/schoolsynth/schoolsynth/internal/store"
	"github.com/schoolsynth/schoolsynth/internal/synth"
)

// Config holds the complete application configuration.
type Config struct {
	Generation GenerationConfig `toml:"generation"`
	Datasets   DatasetsConfig   `toml:"datasets"`
	Scraper    ScraperConfig    `toml:"scraper"`
	Store      StoreConfig      `toml:"store"`
	Retry      RetryConfig      `toml:"retry"`
	Display    DisplayConfig    `toml:"display"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GenerationConfig controls the size and randomness of a generated dataset.
type GenerationConfig struct {
	StudentCount  int `toml:"student_count"`
	StudentMinAge int `toml:"student_min_age"`
	StudentMaxAge int `toml:"student_max_age"`
	ParentMinAge  int `toml:"parent_min_age"`
	ParentMaxAge  int `toml:"parent_max_age"`
	TeacherMinAge int `toml:"teacher_min_age"`
	TeacherMaxAge int `toml:"teacher_max_age"`
	// AsOfYear anchors dates of birth; 0 means the current year.
	AsOfYear int   `toml:"as_of_year"`
	Seed     int64 `toml:"seed"`
}

// DatasetsConfig locates the name lists and the generated output.
type DatasetsConfig struct {
	// NamesDir holds male.txt, female.txt and ethnic_names.json. Empty
	// means the lists compiled into the binary.
	NamesDir  string         `toml:"names_dir"`
	OutputDir string         `toml:"output_dir"`
	Formats   []OutputFormat `toml:"formats"`
}

// OutputFormat is a file format the generated tables are written in.
type OutputFormat string

const (
	FormatCSV  OutputFormat = "csv"
	FormatXLSX OutputFormat = "xlsx"
	FormatJSON OutputFormat = "json"
)

// ScraperConfig controls the last-name directory scraper.
type ScraperConfig struct {
	BaseURL   string        `toml:"base_url"`
	Groups    []string      `toml:"groups"`
	Timeout   time.Duration `toml:"timeout"`
	UserAgent string        `toml:"user_agent"`
}

// StoreConfig selects and configures the datastore tables are loaded into.
type StoreConfig struct {
	Driver StoreDriver `toml:"driver"`
	// Path is the SQLite database file.
	Path string `toml:"path"`
	// DSN is the Postgres connection string.
	DSN           string `toml:"dsn"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// StoreDriver names a store backend.
type StoreDriver string

const (
	StoreDriverSQLite   StoreDriver = "sqlite"
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverRedis    StoreDriver = "redis"
)

// RetryConfig bounds retries of transient store errors.
type RetryConfig struct {
	MaxAttempts     int           `toml:"max_attempts"`
	InitialInterval time.Duration `toml:"initial_interval"`
	MaxInterval     time.Duration `toml:"max_interval"`
	MaxElapsed      time.Duration `toml:"max_elapsed"`
}

// DisplayConfig controls the progress display.
type DisplayConfig struct {
	ColorScheme ColorScheme `toml:"color_scheme"`
}

// ColorScheme defines the terminal color palette.
type ColorScheme string

const (
	ColorSchemeGreenPhosphor ColorScheme = "green_phosphor"
	ColorSchemeAmber         ColorScheme = "amber"
	ColorSchemeWhite         ColorScheme = "white"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	// File receives JSON logs when set; otherwise text logs go to stderr.
	File string `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Generation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("generation: %w", err))
	}

	if err := c.Datasets.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("datasets: %w", err))
	}

	if err := c.Scraper.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scraper: %w", err))
	}

	if err := c.Store.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	if err := c.Retry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("retry: %w", err))
	}

	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the generation configuration is valid.
func (g *GenerationConfig) Validate() error {
	var errs []error

	if g.StudentCount < 0 {
		errs = append(errs, errors.New("student_count must be non-negative"))
	}

	bands := []struct {
		name     string
		min, max int
	}{
		{"student", g.StudentMinAge, g.StudentMaxAge},
		{"parent", g.ParentMinAge, g.ParentMaxAge},
		{"teacher", g.TeacherMinAge, g.TeacherMaxAge},
	}
	for _, b := range bands {
		if b.min < 0 {
			errs = append(errs, fmt.Errorf("%s_min_age must be non-negative", b.name))
		}
		if b.min > b.max {
			errs = append(errs, fmt.Errorf("%s_min_age (%d) exceeds %s_max_age (%d)", b.name, b.min, b.name, b.max))
		}
	}

	if g.AsOfYear < 0 {
		errs = append(errs, errors.New("as_of_year must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the datasets configuration is valid.
func (d *DatasetsConfig) Validate() error {
	var errs []error

	validFormats := map[OutputFormat]bool{
		FormatCSV:  true,
		FormatXLSX: true,
		FormatJSON: true,
	}

	for _, f := range d.Formats {
		if !validFormats[f] {
			errs = append(errs, fmt.Errorf("invalid format: %s", f))
		}
	}

	if len(d.Formats) > 0 && d.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required when formats are set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the scraper configuration is valid.
func (s *ScraperConfig) Validate() error {
	var errs []error

	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base_url: %q", s.BaseURL))
	}

	for _, g := range s.Groups {
		if g == "" {
			errs = append(errs, errors.New("groups must not contain empty names"))
			break
		}
	}

	if s.Timeout < 0 {
		errs = append(errs, errors.New("timeout must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the store configuration is valid.
func (s *StoreConfig) Validate() error {
	var errs []error

	switch s.Driver {
	case StoreDriverSQLite:
		if s.Path == "" {
			errs = append(errs, errors.New("path is required for the sqlite driver"))
		}
	case StoreDriverPostgres:
		if s.DSN == "" {
			errs = append(errs, errors.New("dsn is required for the postgres driver"))
		}
	case StoreDriverRedis:
		if s.RedisAddr == "" {
			errs = append(errs, errors.New("redis_addr is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid driver: %s", s.Driver))
	}

	if s.RedisDB < 0 {
		errs = append(errs, errors.New("redis_db must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the retry configuration is valid.
func (r *RetryConfig) Validate() error {
	var errs []error

	if r.MaxAttempts < 1 {
		errs = append(errs, errors.New("max_attempts must be at least 1"))
	}

	if r.InitialInterval < 0 || r.MaxInterval < 0 || r.MaxElapsed < 0 {
		errs = append(errs, errors.New("intervals must be non-negative"))
	}

	if r.MaxInterval > 0 && r.InitialInterval > r.MaxInterval {
		errs = append(errs, errors.New("initial_interval exceeds max_interval"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	validSchemes := map[ColorScheme]bool{
		ColorSchemeGreenPhosphor: true,
		ColorSchemeAmber:         true,
		ColorSchemeWhite:         true,
	}

	if !validSchemes[d.ColorScheme] && d.ColorScheme != "" {
		return fmt.Errorf("invalid color_scheme: %s", d.ColorScheme)
	}

	return nil
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}

	if !validLevels[l.Level] && l.Level != "" {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	gen := synth.DefaultConfig()
	retry := store.DefaultRetryPolicy()

	return &Config{
		Generation: GenerationConfig{
			StudentCount:  gen.StudentCount,
			StudentMinAge: gen.StudentAge.Min,
			StudentMaxAge: gen.StudentAge.Max,
			ParentMinAge:  gen.ParentAge.Min,
			ParentMaxAge:  gen.ParentAge.Max,
			TeacherMinAge: gen.TeacherAge.Min,
			TeacherMaxAge: gen.TeacherAge.Max,
			AsOfYear:      0,
			Seed:          gen.RandomSeed,
		},
		Datasets: DatasetsConfig{
			NamesDir:  "",
			OutputDir: "output",
			Formats:   []OutputFormat{FormatCSV},
		},
		Scraper: ScraperConfig{
			BaseURL:   names.DefaultSourceURL,
			Groups:    []string{"igbo", "yoruba", "hausa"},
			Timeout:   30 * time.Second,
			UserAgent: "schoolsynth/1.0",
		},
		Store: StoreConfig{
			Driver:      StoreDriverSQLite,
			Path:        "schoolsynth.db",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "schoolsynth:",
		},
		Retry: RetryConfig{
			MaxAttempts:     retry.MaxAttempts,
			InitialInterval: retry.InitialInterval,
			MaxInterval:     retry.MaxInterval,
			MaxElapsed:      retry.MaxElapsed,
		},
		Display: DisplayConfig{
			ColorScheme: ColorSchemeGreenPhosphor,
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			File:  "",
		},
	}
}

// SynthConfig returns the generator configuration. A zero AsOfYear becomes
// the year of now.
func (g *GenerationConfig) SynthConfig(now time.Time) synth.Config {
	year := g.AsOfYear
	if year == 0 {
		year = now.Year()
	}

	return synth.Config{
		StudentCount: g.StudentCount,
		StudentAge:   synth.AgeBand{Min: g.StudentMinAge, Max: g.StudentMaxAge},
		ParentAge:    synth.AgeBand{Min: g.ParentMinAge, Max: g.ParentMaxAge},
		TeacherAge:   synth.AgeBand{Min: g.TeacherMinAge, Max: g.TeacherMaxAge},
		AsOfYear:     year,
		RandomSeed:   g.Seed,
	}
}

// Policy returns the store retry policy.
func (r *RetryConfig) Policy() store.RetryPolicy {
	return store.RetryPolicy{
		MaxAttempts:     r.MaxAttempts,
		InitialInterval: r.InitialInterval,
		MaxInterval:     r.MaxInterval,
		MaxElapsed:      r.MaxElapsed,
	}
}

// CatalogPaths returns the name list files under NamesDir. ok is false when
// the compiled-in lists should be used.
func (d *DatasetsConfig) CatalogPaths() (paths names.CatalogPaths, ok bool) {
	if d.NamesDir == "" {
		return names.CatalogPaths{}, false
	}
	return names.CatalogPaths{
		Male:      filepath.Join(d.NamesDir, "male.txt"),
		Female:    filepath.Join(d.NamesDir, "female.txt"),
		LastNames: filepath.Join(d.NamesDir, "ethnic_names.json"),
	}, true
}

// HasFormat reports whether output in format f is enabled.
func (d *DatasetsConfig) HasFormat(f OutputFormat) bool {
	for _, x := range d.Formats {
		if x == f {
			return true
		}
	}
	return false
}
