// Package logutil builds the logger shared by the headpin binaries.
package logutil

import (
	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
)

// New returns a logger at the given level with the prefixed text format
// used across the binaries.
func New(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)

	formatter := new(prefixed.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	formatter.PrefixPadding = 20
	formatter.SpacePadding = 50
	logger.SetFormatter(formatter)

	return logger
}

// NewAtLevel parses a textual level ("debug", "info", "warn") and falls
// back to info when it doesn't parse.
func NewAtLevel(level string) *logrus.Logger {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}

	return New(parsed)
}
