package utils

import (
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// InitLogger configures the shared logger level once at startup.
func InitLogger(level string) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Logger exposes the shared logger for middleware.
func Logger() *logrus.Logger {
	return log
}

// LogEvent prints a standardized line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	log.WithFields(logrus.Fields{
		"module":     strings.ToLower(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}).Info(message)
}

// LogError mirrors LogEvent for failure paths.
func LogError(requestID, module, action string, err error) {
	log.WithFields(logrus.Fields{
		"module":     strings.ToLower(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}).Error(err)
}
