// Package logger wires a process-wide logrus logger: a single global
// *logrus.Logger plus thin level-named wrapper functions, so callers never
// import logrus directly.
package logger

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Nil until Init is called; the
// wrapper functions below are safe to call before Init (they no-op,
// except Fatalf, which still exits with status 1).
var Logger *logrus.Logger

// Config controls where logs go and at what level (`[server] log_level`
// and `log_path`).
type Config struct {
	Level string
	Path  string
}

// Init creates the global logger. Safe to call more than once; the latest
// call wins.
func Init(cfg Config) error {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(parseLevel(cfg.Level))

	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		l.SetOutput(f)
	} else {
		l.SetOutput(os.Stdout)
	}

	Logger = l
	return nil
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func Debugf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Infof(format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Warnf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Errorf(format, args...)
	}
}

func Fatalf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Fatalf(format, args...)
		return
	}
	os.Exit(1)
}
