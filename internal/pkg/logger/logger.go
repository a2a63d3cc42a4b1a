package logger

import (
	"log"
	"strings"
)

// Level is a logging severity threshold.
type Level int

// Severity levels, lowest first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a configured log_level string to a Level. Unknown values
// fall back to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARNING", "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// StdLogger is a lightweight implementation backed by Go's log package.
type StdLogger struct {
	level Level
}

// NewStd creates a StdLogger that drops messages below the given level.
func NewStd(level Level) *StdLogger {
	return &StdLogger{level: level}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if l.level > LevelDebug {
		return
	}
	log.Println("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if l.level > LevelInfo {
		return
	}
	log.Println("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	if l.level > LevelWarn {
		return
	}
	log.Println("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	log.Println("[ERROR]", msg, err, fields)
}
