package app

import "github.com/taskhive/taskhive/pkg/logger"

// ConfigureLogging initialises the global logger from configuration.
func ConfigureLogging(cfg LoggingConfig) error {
	return logger.Init(logger.Options{Level: cfg.Level, Encoding: cfg.Format})
}
