package shared

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// ConfigureLogging applies level and format to the standard logrus logger
func ConfigureLogging(cfg LoggingConfig) {
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "text") {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	logrus.WithFields(logrus.Fields{
		"service_name": cfg.ServiceName,
		"level":        level.String(),
		"format":       cfg.Format,
	}).Debug("Logging configured")
}
