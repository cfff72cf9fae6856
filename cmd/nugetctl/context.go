package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"nugetctl/internal/config"
	"nugetctl/internal/history"
	"nugetctl/internal/logging"
	"nugetctl/internal/packaging"
	"nugetctl/internal/services/nuget"
)

type commandContext struct {
	configFlag   *string
	workDirFlag  *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	historyOnce sync.Once
	history     *history.Store
	historyErr  error
}

func newCommandContext(configFlag, workDirFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		workDirFlag:  workDirFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if dir := flagValue(c.workDirFlag); dir != "" {
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				c.configErr = fmt.Errorf("resolve --work-dir: %w", err)
				return
			}
			cfg.Paths.WorkDir = expanded
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// historyStore opens the run journal. It returns nil without error when the
// journal is disabled.
func (c *commandContext) historyStore() (*history.Store, error) {
	c.historyOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.historyErr = err
			return
		}
		if !cfg.History.Enabled {
			return
		}
		c.history, c.historyErr = history.Open(cfg.HistoryPath())
	})
	return c.history, c.historyErr
}

func (c *commandContext) nugetClient() (*nuget.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return nuget.New(cfg.NuGet.Executable,
		nuget.WithRuntimeShim(cfg.NuGet.RuntimeShim),
		nuget.WithWorkDir(cfg.Paths.WorkDir),
		nuget.WithTimeout(time.Duration(cfg.NuGet.TimeoutSeconds)*time.Second),
		nuget.WithLogger(logger),
	)
}

func (c *commandContext) packagingService() (*packaging.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := c.nugetClient()
	if err != nil {
		return nil, err
	}

	opts := []packaging.Option{
		packaging.WithLogger(logger),
		packaging.WithWorkDir(cfg.Paths.WorkDir),
		packaging.WithSource(cfg.NuGet.Source),
		packaging.WithLockDir(cfg.LockDir()),
	}
	store, err := c.historyStore()
	if err != nil {
		logger.Warn("run history unavailable", logging.String("path", cfg.HistoryPath()), logging.Error(err))
	} else if store != nil {
		opts = append(opts, packaging.WithRecorder(store))
	}
	return packaging.NewService(client, opts...)
}

func (c *commandContext) close() {
	if c.history != nil {
		_ = c.history.Close()
		c.history = nil
	}
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
