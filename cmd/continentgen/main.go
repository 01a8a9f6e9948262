// Command continentgen generates a hex continent, encodes it and stores it in
// the continent catalog.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/hex-continent/internal/codec"
	"github.com/talgya/hex-continent/internal/entropy"
	"github.com/talgya/hex-continent/internal/persistence"
	"github.com/talgya/hex-continent/internal/world"
)

func main() {
	slog.SetDefault(newLogger(envOrDefault("LOG_LEVEL", "info")))

	// Configuration from environment.
	size := envIntOrDefault("CONTINENT_SIZE", 256)
	seed := int64(envIntOrDefault("CONTINENT_SEED", 0))
	optionsPath := os.Getenv("CONTINENT_OPTIONS")
	dbPath := envOrDefault("CONTINENT_DB", "data/continents.db")
	cachePath := envOrDefault("CONTINENT_CACHE", "data/cache")

	opts, err := loadOptions(size, optionsPath)
	if err != nil {
		slog.Error("failed to load options", "path", optionsPath, "error", err)
		os.Exit(1)
	}
	if seed != 0 {
		opts.Seed = seed
	} else if optionsPath == "" {
		opts.Seed = entropy.Seed()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, dbPath, cachePath); err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts world.Options, dbPath, cachePath string) error {
	optionsJSON, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	os.MkdirAll(filepath.Dir(dbPath), 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	cache, err := persistence.OpenCache(cachePath)
	if err != nil {
		return err
	}
	defer cache.Close()

	key := persistence.CacheKey(optionsJSON)
	if payload, ok, err := cache.Get(key); err != nil {
		slog.Warn("cache lookup failed", "error", err)
	} else if ok {
		slog.Info("continent found in cache",
			"seed", opts.Seed,
			"size", opts.Size,
			"payload", humanize.Bytes(uint64(len(payload))),
		)
		return nil
	}

	slog.Info("generating continent...", "seed", opts.Seed, "size", opts.Size)
	m, err := world.NewGenerator(slog.Default()).Generate(ctx, opts)
	if err != nil {
		return err
	}

	counts := m.ClassCounts()
	for cl := world.ClassWater; cl <= world.ClassMountains; cl++ {
		slog.Info("terrain", "class", cl.String(), "count", humanize.Comma(int64(counts[cl])))
	}

	payload, err := codec.Encode(m.Fields())
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := codec.Decode(payload); err != nil {
		return fmt.Errorf("verify encoding: %w", err)
	}
	raw := uint64(len(m.Elevation)) * (2 + 2 + 1 + 1 + 1)
	slog.Info("continent encoded",
		"raw", humanize.Bytes(raw),
		"encoded", humanize.Bytes(uint64(len(payload))),
		"elapsed", m.Elapsed,
	)

	rec := &persistence.Continent{
		Seed:         m.Seed,
		Size:         m.Size,
		SeaLevel:     m.SeaLevel,
		MaxElevation: m.MaxElevation,
		LandCells:    m.LandCells(),
		OptionsJSON:  string(optionsJSON),
		Payload:      payload,
	}
	if err := db.SaveContinent(rec); err != nil {
		return err
	}
	if err := cache.Put(key, payload); err != nil {
		slog.Warn("cache store failed", "error", err)
	}

	slog.Info("continent saved", "id", rec.ID, "db", dbPath, "created", humanize.Time(rec.Created()))
	return nil
}

// loadOptions starts from the defaults for size and overlays the JSON file at
// path, if any.
func loadOptions(size int, path string) (world.Options, error) {
	opts := world.DefaultOptions(size)
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := json.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse %s: %w", path, err)
	}
	return opts, nil
}

// newLogger writes text to a terminal and JSON everywhere else.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stdout, hopts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, hopts))
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
