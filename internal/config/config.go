// Package config loads metactl's TOML configuration.
//
// Resolution order: an explicit --config path, then
// ~/.config/metakit/config.toml, then metakit.toml in the working
// directory. A missing file is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/meta/assets"
	"github.com/joshuapare/metakit/meta/editstore"
)

// Assets selects the asset store tables are read from.
type Assets struct {
	Driver string `toml:"driver"`
	Root   string `toml:"root"`
	S3     S3     `toml:"s3"`
}

// S3 configures the s3 asset driver. Credentials may also come from the
// environment.
type S3 struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	Prefix          string `toml:"prefix"`
	PathStyle       bool   `toml:"path_style"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// Store selects where committed edit sets are kept.
type Store struct {
	Driver        string `toml:"driver"`
	Path          string `toml:"path"`
	DSN           string `toml:"dsn"`
	LockTimeoutMS int    `toml:"lock_timeout_ms"`
}

// Cache sizes each active collection's resolution cache.
type Cache struct {
	Capacity int `toml:"capacity"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the complete configuration.
type Config struct {
	Assets  Assets  `toml:"assets"`
	Store   Store   `toml:"store"`
	Cache   Cache   `toml:"cache"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, normalizes and validates a configuration file. It
// returns the config, the path it resolved and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("metakit.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// AssetOptions converts the [assets] section for assets.Open.
func (c *Config) AssetOptions() assets.Options {
	return assets.Options{
		Driver: assets.Driver(c.Assets.Driver),
		Root:   c.Assets.Root,
		S3: assets.S3Config{
			Bucket:          c.Assets.S3.Bucket,
			Region:          c.Assets.S3.Region,
			Endpoint:        c.Assets.S3.Endpoint,
			Prefix:          c.Assets.S3.Prefix,
			PathStyle:       c.Assets.S3.PathStyle,
			AccessKeyID:     c.Assets.S3.AccessKeyID,
			SecretAccessKey: c.Assets.S3.SecretAccessKey,
		},
	}
}

// StoreOptions converts the [store] section for editstore.Open.
func (c *Config) StoreOptions() editstore.Options {
	return editstore.Options{
		Driver:      editstore.Driver(c.Store.Driver),
		Path:        c.Store.Path,
		DSN:         c.Store.DSN,
		LockTimeout: time.Duration(c.Store.LockTimeoutMS) * time.Millisecond,
	}
}

// LoggingOptions converts the [logging] section for logging.New.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.Logging.Level, Format: c.Logging.Format}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath applies the config's path expansion rules.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
