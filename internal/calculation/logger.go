package calculation

import (
	"fmt"
	"io"
	"log"
)

// Logger is a minimal logging interface for the simulation engine.
// Implementations should be fast; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// StdLogger writes leveled lines through a standard library logger.
type StdLogger struct {
	out   *log.Logger
	debug bool
}

// NewStdLogger returns a Logger writing to w. Debug lines are dropped unless debug is set.
func NewStdLogger(w io.Writer, debug bool) *StdLogger {
	return &StdLogger{out: log.New(w, "", log.LstdFlags), debug: debug}
}

func (l *StdLogger) Debugf(format string, args ...any) {
	if l.debug {
		l.write("DEBUG", format, args...)
	}
}
func (l *StdLogger) Infof(format string, args ...any)  { l.write("INFO", format, args...) }
func (l *StdLogger) Warnf(format string, args ...any)  { l.write("WARN", format, args...) }
func (l *StdLogger) Errorf(format string, args ...any) { l.write("ERROR", format, args...) }

func (l *StdLogger) write(level, format string, args ...any) {
	l.out.Printf("%-5s %s", level, fmt.Sprintf(format, args...))
}
