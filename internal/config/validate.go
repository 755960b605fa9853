package config

import (
	"errors"
	"fmt"

	"github.com/joshuapare/metakit/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAssets(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) validateAssets() error {
	switch c.Assets.Driver {
	case "dir":
		if c.Assets.Root == "" {
			return errors.New("assets.root must be set for the dir driver")
		}
	case "memory":
	case "s3":
		if c.Assets.S3.Bucket == "" {
			return errors.New("assets.s3.bucket must be set for the s3 driver")
		}
		if (c.Assets.S3.AccessKeyID == "") != (c.Assets.S3.SecretAccessKey == "") {
			return errors.New("assets.s3 access_key_id and secret_access_key must be set together")
		}
	default:
		return fmt.Errorf("assets.driver: unknown driver %q", c.Assets.Driver)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case "sqlite", "memory":
	case "postgres":
		if c.Store.DSN == "" {
			return errors.New("store.dsn must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	return nil
}
