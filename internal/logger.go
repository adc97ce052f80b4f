package internal

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogRotation bounds the log file when logging to disk.
type LogRotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var DefaultLogRotation = LogRotation{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28, Compress: true}

// InitLogger initializes the logger with optional file output.
// Without a logfile, logs go to stderr so stdout stays clean for results.
func InitLogger(logfile, level string, rot LogRotation) {
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:   logfile == "",
		FullTimestamp: true,
		DisableQuote:  true,
		PadLevelText:  true,
	})
	logrus.SetLevel(ParseLevel(level))

	var out io.Writer = os.Stderr
	if logfile != "" {
		out = &lumberjack.Logger{
			Filename:   logfile,
			MaxSize:    rot.MaxSizeMB,
			MaxBackups: rot.MaxBackups,
			MaxAge:     rot.MaxAgeDays,
			Compress:   rot.Compress,
		}
	}
	logrus.SetOutput(out)
}

// ParseLevel maps debug|info|warn|error to logrus levels; anything else is info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "verbose":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
