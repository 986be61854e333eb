// Package logger owns the process-wide logrus logger. Components ask for a
// named entry with NewLogger and log through it.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	base         = logrus.New()
	debugEnabled = os.Getenv("PALETTE_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
)

func init() {
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if debugEnabled {
		base.SetLevel(logrus.DebugLevel)
	}
}

// NewLogger returns an entry tagged with the component name.
func NewLogger(component string) *logrus.Entry {
	return base.WithField("component", component)
}

// SetLevel sets the minimum level ("debug", "info", "warn", "error").
// PALETTE_DEBUG=true always wins.
func SetLevel(level string) error {
	if debugEnabled {
		return nil
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// SetFormat switches between "text" and "json" output.
func SetFormat(format string) {
	switch strings.ToLower(format) {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	default:
		base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}
