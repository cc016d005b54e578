package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogger configures the global logrus logger from the loaded configuration.
// Production emits JSON for log shipping; everything else gets the text formatter.
func SetupLogger(cfg *Config) {
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("Unknown LOG_LEVEL %q, falling back to info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
