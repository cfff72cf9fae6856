package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeNuGet(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeNuGet() error {
	c.NuGet.Executable = strings.TrimSpace(c.NuGet.Executable)
	if c.NuGet.Executable == "" {
		if value, ok := os.LookupEnv("NUGET_EXE"); ok {
			c.NuGet.Executable = strings.TrimSpace(value)
		}
	}
	if c.NuGet.Executable == "" {
		c.NuGet.Executable = DefaultExecutable()
	}
	var err error
	if c.NuGet.Executable, err = expandPath(c.NuGet.Executable); err != nil {
		return fmt.Errorf("nuget.executable: %w", err)
	}

	c.NuGet.RuntimeShim = strings.TrimSpace(c.NuGet.RuntimeShim)
	c.NuGet.Source = strings.TrimSpace(c.NuGet.Source)
	if c.NuGet.Source == "" {
		c.NuGet.Source = defaultSource
	}
	c.NuGet.APIKey = strings.TrimSpace(c.NuGet.APIKey)
	if c.NuGet.APIKey == "" {
		if value, ok := os.LookupEnv("NUGET_API_KEY"); ok {
			c.NuGet.APIKey = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		if c.Paths.WorkDir, err = os.Getwd(); err != nil {
			return fmt.Errorf("paths.work_dir: resolve working directory: %w", err)
		}
	}
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
