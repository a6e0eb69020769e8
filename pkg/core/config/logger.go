package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.WarnLevel)
	logg.SetOutput(os.Stderr)
}

// GetLogger returns the process-wide logger
func GetLogger() *logrus.Logger {
	return logg
}

// SetLevel parses a level name ("debug", "info", ...); unknown names leave the level unchanged
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logg.SetLevel(parsed)
	return nil
}

// ModuleLogger returns an entry tagged with the module name
func ModuleLogger(module string) *logrus.Entry {
	return logg.WithField("module", module)
}

// LogError logs err with the module, function, context and optional data as fields
func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
