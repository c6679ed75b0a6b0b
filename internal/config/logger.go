package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger from cfg. Unknown levels fall back to info.
func NewLogger(cfg LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stdout)
	return logger
}

// LogError logs err with the module, function and context it happened in.
func LogError(logger logrus.FieldLogger, moduleName, funcName, context string, data any, err error) {
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
