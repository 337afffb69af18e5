package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/phanxgames/canopy"
)

// defaultConfigFile is read from the working directory when --config is not
// given. Its absence is not an error.
const defaultConfigFile = "canopy.toml"

// Config is the canopy.toml file. Command-line flags override it.
type Config struct {
	// Root is the directory scene documents and atlases are read from.
	Root string `toml:"root"`

	// CacheSize bounds the sub-graph cache. Zero selects the library default.
	CacheSize int `toml:"cache_size"`

	// Atlases are atlas JSON files, relative to Root, searched for sprite
	// frames.
	Atlases []string `toml:"atlases"`

	Debug bool `toml:"debug"`
}

func defaultConfig() Config {
	return Config{Root: "."}
}

// loadConfig reads path over the defaults. An empty path tries
// defaultConfigFile and ignores it if missing.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.CacheSize < 0 {
		return cfg, fmt.Errorf("config %s: cache_size must not be negative", path)
	}
	return cfg, nil
}

// newLoader wires a canopy.Loader from cfg. Diagnostics are logged to
// logOut.
func newLoader(cfg Config, logOut io.Writer) (*canopy.Loader, error) {
	src := canopy.NewDirSource(cfg.Root)

	var atlases []*canopy.Atlas
	for _, name := range cfg.Atlases {
		data, err := src.ReadDocument(name)
		if err != nil {
			return nil, err
		}
		a, err := canopy.LoadAtlas(data)
		if err != nil {
			return nil, fmt.Errorf("atlas %s: %w", name, err)
		}
		atlases = append(atlases, a)
	}

	reg := canopy.NewRegistry()
	canopy.RegisterBuiltins(reg, canopy.BuiltinOptions{Atlases: atlases})

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	return canopy.NewLoader(canopy.LoaderConfig{
		Registry: reg,
		Cache:    canopy.NewCache(cfg.CacheSize),
		Source:   src,
		Logger:   logger,
		Debug:    cfg.Debug,
	}), nil
}
