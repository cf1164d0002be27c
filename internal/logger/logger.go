// Package logger builds the logrus logger shared by the CLI and the server.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Debug bool
	// JSON forces the JSON formatter even in debug mode.
	JSON bool
	Out  io.Writer
}

// New returns a text logger at debug level when cfg.Debug is set, and a JSON
// logger at info level otherwise.
func New(cfg Config) *logrus.Logger {
	l := logrus.New()
	if cfg.Out != nil {
		l.SetOutput(cfg.Out)
	} else {
		l.SetOutput(os.Stderr)
	}

	if cfg.Debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	if cfg.Debug && !cfg.JSON {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
