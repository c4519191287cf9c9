package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})

	WithModule(name string) Logger
	WithFields(fields map[string]interface{}) Logger
}

const (
	levelDebug = 0
	levelInfo  = 1
	levelWarn  = 2
	levelError = 3
)

type stdLogger struct {
	out    *log.Logger
	level  int
	module string
	fields map[string]interface{}
}

// NewLogger creates a logger writing to stderr and, when logFile is
// non-empty, to that file as well. An unopenable file is reported on
// stderr and skipped rather than failing startup.
func NewLogger(level string, logFile ...string) Logger {
	w := io.Writer(os.Stderr)
	if len(logFile) > 0 && logFile[0] != "" {
		f, err := os.OpenFile(logFile[0], os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: cannot open %s: %v\n", logFile[0], err)
		} else {
			w = io.MultiWriter(os.Stderr, f)
		}
	}

	return &stdLogger{
		out:   log.New(w, "", log.LstdFlags),
		level: parseLevel(level),
	}
}

func parseLevel(l string) int {
	switch strings.ToLower(l) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *stdLogger) WithModule(name string) Logger {
	c := *l
	c.module = name
	return &c
}

func (l *stdLogger) WithFields(fields map[string]interface{}) Logger {
	c := *l
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	c.fields = merged
	return &c
}

func (l *stdLogger) prefix(level string) string {
	var b strings.Builder
	b.WriteString("[" + level + "]")
	if l.module != "" {
		b.WriteString(" [" + l.module + "]")
	}
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf(" %s=%v", k, l.fields[k]))
		}
	}
	b.WriteString(" ")
	return b.String()
}

func (l *stdLogger) Debugf(format string, v ...interface{}) {
	if l.level <= levelDebug {
		l.out.Printf(l.prefix("DEBUG")+format, v...)
	}
}

func (l *stdLogger) Infof(format string, v ...interface{}) {
	if l.level <= levelInfo {
		l.out.Printf(l.prefix("INFO")+format, v...)
	}
}

func (l *stdLogger) Warnf(format string, v ...interface{}) {
	if l.level <= levelWarn {
		l.out.Printf(l.prefix("WARN")+format, v...)
	}
}

func (l *stdLogger) Errorf(format string, v ...interface{}) {
	if l.level <= levelError {
		l.out.Printf(l.prefix("ERROR")+format, v...)
	}
}

func (l *stdLogger) Fatalf(format string, v ...interface{}) {
	l.out.Fatalf(l.prefix("FATAL")+format, v...)
}
