// Package logging provides categorized, config-driven logging for folint.
// Each category is a named child of one zap logger; categories can be
// switched off individually.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem
type Category string

const (
	CategoryBoot     Category = "boot"     // CLI startup, configuration
	CategoryLoad     Category = "load"     // Parse tree decoding
	CategoryAnnotate Category = "annotate" // Name resolution, type inference, rewrites
	CategoryComplete Category = "complete" // Definition completion
	CategoryCheck    Category = "check"    // Static checks
	CategoryReport   Category = "report"   // Diagnostic rendering
	CategoryWatch    Category = "watch"    // File watching
)

// Options mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports
type Options struct {
	Level      string
	Format     string // "console" or "json"
	File       string
	DebugMode  bool
	Categories map[string]bool
}

// Logger writes printf-style messages for one category.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	options Options
	loggers = make(map[Category]*Logger)
)

// Initialize builds the process logger from opts and installs it.
// The returned logger must be synced by the caller on exit.
func Initialize(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	level := zapcore.WarnLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.DebugMode {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	if opts.File != "" {
		cfg.OutputPaths = []string{opts.File}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	Use(logger, opts)
	return logger, nil
}

// Use installs logger as the process logger.
func Use(logger *zap.Logger, opts Options) {
	mu.Lock()
	defer mu.Unlock()
	base = logger
	options = opts
	loggers = make(map[Category]*Logger)
}

// IsCategoryEnabled returns whether a specific category is enabled.
// Categories not listed are enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if options.Categories == nil {
		return true
	}
	enabled, exists := options.Categories[string(category)]
	return !exists || enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{category: category, sugar: base.Named(string(category)).Sugar()}
	loggers[category] = l
	return l
}

// Sync flushes the process logger.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With returns a logger carrying structured fields.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// =============================================================================
// Category helpers
// =============================================================================

func Boot(format string, args ...interface{})          { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{})     { Get(CategoryBoot).Debug(format, args...) }
func Load(format string, args ...interface{})          { Get(CategoryLoad).Info(format, args...) }
func LoadDebug(format string, args ...interface{})     { Get(CategoryLoad).Debug(format, args...) }
func Annotate(format string, args ...interface{})      { Get(CategoryAnnotate).Info(format, args...) }
func AnnotateDebug(format string, args ...interface{}) { Get(CategoryAnnotate).Debug(format, args...) }
func Complete(format string, args ...interface{})      { Get(CategoryComplete).Info(format, args...) }
func CompleteDebug(format string, args ...interface{}) { Get(CategoryComplete).Debug(format, args...) }
func Check(format string, args ...interface{})         { Get(CategoryCheck).Info(format, args...) }
func CheckDebug(format string, args ...interface{})    { Get(CategoryCheck).Debug(format, args...) }
func Watch(format string, args ...interface{})         { Get(CategoryWatch).Info(format, args...) }
func WatchDebug(format string, args ...interface{})    { Get(CategoryWatch).Debug(format, args...) }
func WatchWarn(format string, args ...interface{})     { Get(CategoryWatch).Warn(format, args...) }

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
