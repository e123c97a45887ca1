package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gorm.io/gorm/logger"

	"github.com/schoolsynth/schoolsynth/internal/config"
	"github.com/schoolsynth/schoolsynth/internal/dataset"
	"github.com/schoolsynth/schoolsynth/internal/loader"
	"github.com/schoolsynth/schoolsynth/internal/models"
	"github.com/schoolsynth/schoolsynth/internal/names"
	"github.com/schoolsynth/schoolsynth/internal/store"
	"github.com/schoolsynth/schoolsynth/internal/store/gormstore"
	"github.com/schoolsynth/schoolsynth/internal/store/redisstore"
	"github.com/schoolsynth/schoolsynth/internal/store/sqlstore"
	"github.com/schoolsynth/schoolsynth/internal/synth"
	"github.com/schoolsynth/schoolsynth/internal/tui"
)

// Output file names under datasets.output_dir.
const (
	workbookFile = "schoolsynth.xlsx"
	jsonFile     = "dataset.json"
)

func namesPaths(cfg *config.Config) (names.CatalogPaths, error) {
	paths, ok := cfg.Datasets.CatalogPaths()
	if !ok {
		return names.CatalogPaths{}, errors.New("datasets.names_dir is not set")
	}
	return paths, nil
}

func writeNames(cfg *config.Config) error {
	paths, err := namesPaths(cfg)
	if err != nil {
		return err
	}
	if err := names.WriteDefaultCatalog(paths); err != nil {
		return fmt.Errorf("writing name lists: %w", err)
	}
	slog.Info("wrote built-in name lists", "dir", cfg.Datasets.NamesDir)
	return nil
}

// refreshNames scrapes the configured groups and replaces the last-name
// file. Missing first-name lists are seeded from the built-in ones so the
// directory always holds a complete catalog.
func refreshNames(ctx context.Context, cfg *config.Config) error {
	paths, err := namesPaths(cfg)
	if err != nil {
		return err
	}

	src := names.NewSource(cfg.Scraper.BaseURL,
		names.WithHTTPClient(&http.Client{Timeout: cfg.Scraper.Timeout}),
		names.WithUserAgent(cfg.Scraper.UserAgent),
	)

	groups, err := src.Refresh(ctx, cfg.Scraper.Groups)
	if err != nil {
		return fmt.Errorf("refreshing last names: %w", err)
	}
	if err := names.ValidateGroups(groups); err != nil {
		return fmt.Errorf("refreshing last names: %w", err)
	}

	if _, err := os.Stat(paths.Male); errors.Is(err, os.ErrNotExist) {
		if err := names.WriteDefaultCatalog(paths); err != nil {
			return fmt.Errorf("seeding name lists: %w", err)
		}
	}

	if err := dataset.SaveJSON(paths.LastNames, groups); err != nil {
		return fmt.Errorf("saving last names: %w", err)
	}

	slog.Info("last names refreshed", "groups", len(groups), "path", paths.LastNames)
	return nil
}

func loadCatalog(cfg *config.Config) (*names.Catalog, error) {
	paths, ok := cfg.Datasets.CatalogPaths()
	if !ok {
		return names.LoadDefaultCatalog()
	}

	c, err := names.LoadCatalog(paths)
	if err != nil {
		return nil, fmt.Errorf("loading name catalog from %s: %w", cfg.Datasets.NamesDir, err)
	}
	return c, nil
}

func generate(ctx context.Context, cfg *config.Config, catalog *names.Catalog) (*models.Dataset, error) {
	gen, err := synth.NewGenerator(catalog, cfg.Generation.SynthConfig(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	ds, err := gen.Generate(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("dataset generated",
		"dataset_id", ds.RunID,
		"students", len(ds.Students),
		"parents", len(ds.Parents),
		"teachers", len(ds.Teachers),
		"assessments", len(ds.Assessments),
	)
	return ds, nil
}

func writeOutputs(cfg *config.Config, ds *models.Dataset) error {
	dir := cfg.Datasets.OutputDir
	tables := dataset.Tables(ds)

	if cfg.Datasets.HasFormat(config.FormatCSV) {
		files, err := dataset.WriteCSVDir(dir, tables)
		if err != nil {
			return fmt.Errorf("writing CSV files: %w", err)
		}
		slog.Info("wrote CSV files", "dir", dir, "files", len(files))
	}

	if cfg.Datasets.HasFormat(config.FormatXLSX) {
		path := filepath.Join(dir, workbookFile)
		if err := dataset.WriteWorkbook(path, tables); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		slog.Info("wrote workbook", "path", path)
	}

	if cfg.Datasets.HasFormat(config.FormatJSON) {
		path := filepath.Join(dir, jsonFile)
		if err := dataset.SaveJSON(path, ds); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
		slog.Info("wrote JSON", "path", path)
	}

	return nil
}

// openStore opens the configured backend wrapped in the retry policy.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var st store.Store

	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		path, err := config.EnsureDataDir(cfg)
		if err != nil {
			return nil, fmt.Errorf("ensuring data directory: %w", err)
		}
		s, err := sqlstore.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		st = s

	case config.StoreDriverPostgres:
		s, err := gormstore.OpenPostgres(ctx, cfg.Store.DSN, gormstore.Options{
			AutoMigrate: true,
			LogLevel:    logger.Warn,
		})
		if err != nil {
			return nil, err
		}
		st = s

	case config.StoreDriverRedis:
		s, err := redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			Prefix:   cfg.Store.RedisPrefix,
		}, dataset.PrimaryKeys)
		if err != nil {
			return nil, err
		}
		st = s

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	slog.Info("store opened", "driver", cfg.Store.Driver)
	return store.NewRetrying(st, cfg.Retry.Policy()), nil
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing store", "error", err)
	}
}

func load(ctx context.Context, cfg *config.Config, ds *models.Dataset, progress bool) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	tables := dataset.Tables(ds)
	if progress {
		return loadWithProgress(ctx, cfg, st, tables)
	}

	_, err = loader.Load(ctx, st, tables, func(e loader.Event) {
		if e.Kind == loader.TableDone {
			slog.Info("table loaded", "table", e.Table, "rows", e.Written)
		}
	})
	return err
}

// loadWithProgress runs the load on a goroutine feeding the progress
// display. Quitting the display cancels the load.
func loadWithProgress(ctx context.Context, cfg *config.Config, st store.Store, tables []*dataset.Table) error {
	loadCtx, cancelLoad := context.WithCancel(ctx)
	defer cancelLoad()

	model := tui.NewProgress(tui.NewTheme(cfg.Display.ColorScheme), dataset.RowCount(tables))
	prog := tea.NewProgram(model, tea.WithContext(ctx))

	errCh := make(chan error, 1)
	go func() {
		_, err := loader.Load(loadCtx, st, tables, tui.Reporter(prog))
		errCh <- err
	}()

	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		cancelLoad()
		<-errCh
		return fmt.Errorf("running progress display: %w", err)
	}

	if model.Aborted() {
		cancelLoad()
		if err := <-errCh; err != nil {
			return fmt.Errorf("load aborted: %w", err)
		}
		return nil
	}
	return <-errCh
}

func maintain(ctx context.Context, cfg *config.Config, catalog *names.Catalog, renameStudents, refreshParents bool) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if renameStudents {
		if _, err := loader.RenameStudents(ctx, st, names.NewCursors(catalog)); err != nil {
			return fmt.Errorf("renaming students: %w", err)
		}
	}

	if refreshParents {
		enricher, err := synth.NewEnricher(rand.New(rand.NewSource(cfg.Generation.Seed)), synth.OccupationTable)
		if err != nil {
			return err
		}
		if _, err := loader.RefreshParents(ctx, st, names.NewCursors(catalog), enricher); err != nil {
			return fmt.Errorf("refreshing parents: %w", err)
		}
	}

	return nil
}
