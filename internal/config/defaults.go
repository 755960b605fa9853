package config

const (
	defaultConfigPath    = "~/.config/metakit/config.toml"
	defaultStorePath     = "~/.local/share/metakit/edits.db"
	defaultLockTimeoutMS = 5000
	defaultCacheCapacity = 256
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
)

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Assets: Assets{
			Driver: "dir",
			Root:   ".",
		},
		Store: Store{
			Driver:        "sqlite",
			Path:          defaultStorePath,
			LockTimeoutMS: defaultLockTimeoutMS,
		},
		Cache: Cache{
			Capacity: defaultCacheCapacity,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
