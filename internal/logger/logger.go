package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	NONE
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARNING"
	case ERROR:
		return "ERROR"
	}
	return "NONE"
}

// ParseLevel maps a config string to a level, defaulting to INFO.
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "none":
		return NONE
	}
	return INFO
}

const timeLayout = "2006-01-02 15:04:05.000"

// Logger writes "timestamp - LEVEL - message" lines.
type Logger struct {
	mu    sync.Mutex
	level LogLevel
	out   *log.Logger
	file  *os.File
}

func New(w io.Writer, level LogLevel) *Logger {
	return &Logger{level: level, out: log.New(w, "", 0)}
}

// Open appends to logfilePath (creating its directory) and mirrors to stderr.
// An empty path logs to stderr only.
func Open(logfilePath string, levelStr string) (*Logger, error) {
	l := New(os.Stderr, ParseLevel(levelStr))
	if logfilePath == "" {
		return l, nil
	}

	dir := filepath.Dir(logfilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(logfilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	l.file = f
	l.out.SetOutput(io.MultiWriter(os.Stderr, f))
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, NONE)
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) logf(level LogLevel, msg string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	// python-style comma before milliseconds
	ts := strings.Replace(time.Now().Format(timeLayout), ".", ",", 1)
	line := fmt.Sprintf(msg, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf("%s - %s - %s", ts, level, line)
}

func (l *Logger) Debug(msg string, args ...any) { l.logf(DEBUG, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logf(INFO, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logf(WARN, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logf(ERROR, msg, args...) }

// Exception logs msg at ERROR followed by err and the current stack.
func (l *Logger) Exception(err error, msg string, args ...any) {
	if l == nil || ERROR < l.level {
		return
	}
	l.logf(ERROR, msg+"\n%v\n%s", append(args, err, strings.TrimRight(string(debug.Stack()), "\n"))...)
}
