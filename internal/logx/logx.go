// Package logx builds the process logger. The logger is constructed once at
// command start and handed to each component by parameter; nothing in the
// repo logs through a package-level instance.
package logx

import (
	"io"

	"github.com/sirupsen/logrus"
)

func New() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(logrus.InfoLevel)
	return log
}

// NewQuiet returns a logger that discards everything. Used by tests.
func NewQuiet() *logrus.Logger {
	log := New()
	log.SetOutput(io.Discard)
	return log
}
