package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

func init() {
	Init(os.Getenv("LOG_LEVEL"), os.Getenv("ENVIRONMENT"))
}

// Init rebuilds the global logger. Development gets a console encoder,
// everything else JSON.
func Init(level, environment string) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = zapcore.InfoLevel
		}
	}

	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	mu.Lock()
	base = l
	sugar = l.Sugar()
	mu.Unlock()
}

// Zap exposes the underlying logger for libraries that want structured fields.
func Zap() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

func Fatal(format string, v ...interface{}) {
	current().Fatalf(format, v...)
}

func Sync() {
	_ = current().Sync()
}

// LogTransactionError records a failed secondary write for a transaction
// without interrupting the caller.
func LogTransactionError(transactionID, action string, err error) {
	Warn("Transaction log error: action=%s, transactionID=%s, error=%v", action, transactionID, err)
}
