package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// noop is returned by Trace when TRACE is disabled
var noop = func() {}

// MaxLogLines is the number of lines kept in the log file after rotation
const MaxLogLines = 5000

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if l < LogLevelTrace || l > LogLevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel parses a level name. Unknown names fall back to INFO.
func ParseLogLevel(s string) LogLevel {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LogLevelWarn
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i)
		}
	}
	return LogLevelInfo
}

// RotatingLogger writes leveled lines to a file and trims the file to its
// last MaxLogLines lines whenever it grows past that.
type RotatingLogger struct {
	mu        sync.Mutex
	file      *os.File
	lineCount int
	level     LogLevel
	now       func() time.Time
}

var (
	globalMu sync.RWMutex
	global   *RotatingLogger

	// fallback serves logging before Open is called
	fallback = &RotatingLogger{file: os.Stderr, level: LogLevelInfo, now: time.Now}
)

// Open opens (or creates) the log file at path and installs it as the
// global logger.
func Open(path string, level LogLevel) (*RotatingLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	return New(f, level), nil
}

// New wraps an open file and installs it as the global logger.
func New(file *os.File, level LogLevel) *RotatingLogger {
	l := &RotatingLogger{file: file, level: level, now: time.Now}
	l.lineCount = l.countLines()

	globalMu.Lock()
	global = l
	globalMu.Unlock()
	return l
}

func current() *RotatingLogger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global != nil {
		return global
	}
	return fallback
}

// SetLevel sets the logging level
func (l *RotatingLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetGlobalLevel sets the level of the global logger
func SetGlobalLevel(level LogLevel) {
	current().SetLevel(level)
}

// Enabled reports whether level would be written
func (l *RotatingLogger) Enabled(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *RotatingLogger) logf(level LogLevel, format string, v ...any) {
	if !l.Enabled(level) {
		return
	}
	line := fmt.Sprintf("%s [%s] %s\n", l.now().Format("2006/01/02 15:04:05"), level, fmt.Sprintf(format, v...))
	l.Write([]byte(line))
}

// Trace returns a function that logs the time elapsed since Trace was
// called. Usage: defer logger.Trace("operation")()
func Trace(name string) func() {
	l := current()
	if !l.Enabled(LogLevelTrace) {
		return noop
	}
	start := time.Now()
	return func() {
		l.logf(LogLevelTrace, "%s: %v", name, time.Since(start))
	}
}

func Tracef(format string, v ...any) { current().logf(LogLevelTrace, format, v...) }
func Debug(format string, v ...any)  { current().logf(LogLevelDebug, format, v...) }
func Info(format string, v ...any)   { current().logf(LogLevelInfo, format, v...) }
func Warn(format string, v ...any)   { current().logf(LogLevelWarn, format, v...) }
func Error(format string, v ...any)  { current().logf(LogLevelError, format, v...) }

// Fatal logs at ERROR and exits with code 1
func Fatal(format string, v ...any) {
	current().logf(LogLevelError, format, v...)
	os.Exit(1)
}

// Write implements io.Writer, so the logger can back other loggers.
func (l *RotatingLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.file.Write(p)
	if err != nil {
		return n, err
	}
	l.lineCount += strings.Count(string(p[:n]), "\n")
	if l.lineCount > MaxLogLines && l.file != os.Stderr {
		l.rotate()
	}
	return n, nil
}

func (l *RotatingLogger) countLines() int {
	if l.file == os.Stderr {
		return 0
	}
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return 0
	}
	defer l.file.Seek(0, io.SeekEnd)

	count := 0
	scanner := bufio.NewScanner(l.file)
	for scanner.Scan() {
		count++
	}
	return count
}

// rotate keeps the last MaxLogLines lines. Caller holds l.mu.
func (l *RotatingLogger) rotate() {
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return
	}
	var lines []string
	scanner := bufio.NewScanner(l.file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > MaxLogLines {
		lines = lines[len(lines)-MaxLogLines:]
	}

	l.file.Truncate(0)
	l.file.Seek(0, io.SeekStart)
	w := bufio.NewWriter(l.file)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	w.Flush()
	l.lineCount = len(lines)
}

// Close closes the underlying file and restores the stderr fallback.
func (l *RotatingLogger) Close() error {
	globalMu.Lock()
	if global == l {
		global = nil
	}
	globalMu.Unlock()
	return l.file.Close()
}
