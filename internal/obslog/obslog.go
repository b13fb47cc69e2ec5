// Package obslog is the audit-trail logger that pipeline packages write
// to: a category-scoped, date-rotated file logger gated entirely on
// testrules.json's debug_mode. It is deliberately separate from the zap
// logger cmd/testrules wires up — zap is the operator-facing CLI logger,
// obslog is the persistent trail a run leaves behind for later inspection.
package obslog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Category names one of the pipeline's stages.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryDiscovery Category = "discovery"
	CategoryInspect   Category = "inspect"
	CategoryExec      Category = "exec"
	CategoryCoverage  Category = "coverage"
	CategoryLint      Category = "lint"
	CategoryReport    Category = "report"
)

// Options configures a Sink. DebugMode gates everything: when false,
// every Logger returned is a no-op and no files are created, mirroring
// the original tool's silence outside of console reporting.
type Options struct {
	DebugMode  bool
	Categories map[string]bool
	Level      string
	LogDir     string
}

// Sink owns the lazily-created per-category loggers for one run. Every
// entry a Sink's loggers write carries the same runID, so log lines from
// one invocation can be grepped out of a shared log directory.
type Sink struct {
	opts  Options
	runID string

	mu      sync.Mutex
	loggers map[Category]*Logger
	level   int
}

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// NewSink builds a Sink from Options. It does not touch the filesystem
// until a Logger is actually requested via Get.
func NewSink(opts Options) *Sink {
	lvl := levelInfo
	switch opts.Level {
	case "debug":
		lvl = levelDebug
	case "warn", "warning":
		lvl = levelWarn
	case "error":
		lvl = levelError
	}
	return &Sink{
		opts:    opts,
		runID:   uuid.New().String()[:8],
		loggers: make(map[Category]*Logger),
		level:   lvl,
	}
}

// RunID identifies this Sink's invocation across every category's log
// file, so a single run's lines can be grepped out of a shared directory.
func (s *Sink) RunID() string { return s.runID }

func (s *Sink) categoryEnabled(c Category) bool {
	if !s.opts.DebugMode {
		return false
	}
	if s.opts.Categories == nil {
		return true
	}
	enabled, exists := s.opts.Categories[string(c)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns the Logger for category c, creating its backing file on
// first use. A disabled category (or disabled debug mode entirely) gets a
// Logger whose methods are all no-ops.
func (s *Sink) Get(c Category) *Logger {
	if !s.categoryEnabled(c) {
		return &Logger{sink: s, category: c}
	}
	if s.opts.LogDir == "" {
		return &Logger{sink: s, category: c}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.loggers[c]; ok {
		return l
	}

	if err := os.MkdirAll(s.opts.LogDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "obslog: could not create log dir %s: %v\n", s.opts.LogDir, err)
		return &Logger{sink: s, category: c}
	}

	date := time.Now().Format("2006-01-02")
	path := filepath.Join(s.opts.LogDir, fmt.Sprintf("%s_%s.log", c, date))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "obslog: could not open log file %s: %v\n", path, err)
		return &Logger{sink: s, category: c}
	}

	l := &Logger{
		sink:     s,
		category: c,
		file:     file,
		inner:    log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	s.loggers[c] = l
	return l
}

// Close flushes and closes every backing file the Sink opened.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
}

// entry is the JSON shape a Logger writes when structured output is
// useful; plain runs can read the same files as a flat text tail.
type entry struct {
	Timestamp int64  `json:"ts"`
	RunID     string `json:"run"`
	Category  string `json:"cat"`
	Level     string `json:"lvl"`
	Message   string `json:"msg"`
}

// Logger writes to one category's file. A zero-value inner logger makes
// every method a no-op, so callers never branch on whether logging is on.
type Logger struct {
	sink     *Sink
	category Category
	inner    *log.Logger
	file     *os.File
}

func (l *Logger) write(level int, label, format string, args ...interface{}) {
	if l.inner == nil || level < l.sink.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	data, err := json.Marshal(entry{
		Timestamp: time.Now().UnixMilli(),
		RunID:     l.sink.runID,
		Category:  string(l.category),
		Level:     label,
		Message:   msg,
	})
	if err != nil {
		l.inner.Printf("[%s] %s", label, msg)
		return
	}
	l.inner.Printf("%s", data)
}

func (l *Logger) Debug(format string, args ...interface{}) { l.write(levelDebug, "debug", format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.write(levelInfo, "info", format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.write(levelWarn, "warn", format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.write(levelError, "error", format, args...) }
