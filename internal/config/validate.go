package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. It does not check that the
// executable exists; `nugetctl doctor` reports that separately.
func (c *Config) Validate() error {
	if err := c.validateNuGet(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateNuGet() error {
	if c.NuGet.Executable == "" {
		return errors.New("nuget.executable must be set")
	}
	if c.NuGet.Source == "" {
		return errors.New("nuget.source must be set")
	}
	if c.NuGet.TimeoutSeconds < 0 {
		return errors.New("nuget.timeout_seconds must not be negative (0 disables the timeout)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
