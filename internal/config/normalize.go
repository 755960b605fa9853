package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeAssets(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = defaultCacheCapacity
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeAssets() error {
	c.Assets.Driver = strings.ToLower(strings.TrimSpace(c.Assets.Driver))
	if c.Assets.Driver == "" {
		c.Assets.Driver = "dir"
	}
	if c.Assets.Driver == "dir" {
		var err error
		if c.Assets.Root, err = expandPath(c.Assets.Root); err != nil {
			return fmt.Errorf("assets.root: %w", err)
		}
	}
	s3 := &c.Assets.S3
	s3.Bucket = strings.TrimSpace(s3.Bucket)
	s3.Prefix = strings.Trim(strings.TrimSpace(s3.Prefix), "/")
	if s3.Region == "" {
		if value, ok := os.LookupEnv("AWS_REGION"); ok {
			s3.Region = strings.TrimSpace(value)
		}
	}
	if s3.AccessKeyID == "" {
		if value, ok := os.LookupEnv("METAKIT_S3_ACCESS_KEY_ID"); ok {
			s3.AccessKeyID = strings.TrimSpace(value)
		}
	}
	if s3.SecretAccessKey == "" {
		if value, ok := os.LookupEnv("METAKIT_S3_SECRET_ACCESS_KEY"); ok {
			s3.SecretAccessKey = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeStore() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case "", "sqlite":
		c.Store.Driver = "sqlite"
		if c.Store.Path == "" {
			c.Store.Path = defaultStorePath
		}
		var err error
		if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
			return fmt.Errorf("store.path: %w", err)
		}
	case "postgres":
		if c.Store.DSN == "" {
			if value, ok := os.LookupEnv("METAKIT_DSN"); ok {
				c.Store.DSN = strings.TrimSpace(value)
			}
		}
	}
	if c.Store.LockTimeoutMS <= 0 {
		c.Store.LockTimeoutMS = defaultLockTimeoutMS
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "text", "console":
		c.Logging.Format = "text"
	case "json":
	default:
		c.Logging.Format = "text"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
