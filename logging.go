package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SyncWrite implements zap.SyncWriter. This is a small hack to avoid usual
// `Handle is invalid` error when calling Sync() on logger using os.Stderr.
type SyncWrite struct {
	out io.Writer
}

func (sw *SyncWrite) Sync() error {
	return nil
}

func (sw *SyncWrite) Write(p []byte) (n int, err error) {
	return sw.out.Write(p)
}

// OpenLogFile ensures the logs folder exists and opens the log file in append mode.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging file: %s", err)
	}
	return logFile, nil
}

// RSyncWrite is a rotable and concurrent safe file-based logs writer used
// by the zap core. Once the file reaches max bytes it is renamed with the
// rotation time and a fresh file is opened at the same path.
type RSyncWrite struct {
	clock Clocker
	sync.Mutex
	file *os.File
	path string
	max  int64
	size int64
}

// NewRSyncWriter opens the log file defined by config. LogMaxSize is in megabytes.
func NewRSyncWriter(config *Config, clock Clocker) (*RSyncWrite, error) {
	file, err := OpenLogFile(config.LogFile)
	if err != nil {
		return nil, err
	}
	var size int64
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}
	return &RSyncWrite{
		clock: clock,
		file:  file,
		path:  config.LogFile,
		max:   int64(config.LogMaxSize) * 1048576,
		size:  size,
	}, nil
}

// Close closes the current log file.
func (rsw *RSyncWrite) Close() error {
	rsw.Lock()
	defer rsw.Unlock()
	if rsw.file == nil {
		return nil
	}
	err := rsw.file.Close()
	rsw.file = nil
	return err
}

func (rsw *RSyncWrite) Sync() error {
	rsw.Lock()
	defer rsw.Unlock()
	if rsw.file == nil {
		return nil
	}
	return rsw.file.Sync()
}

// Write implements the io.Writer interface with file rotation on max size.
func (rsw *RSyncWrite) Write(p []byte) (n int, err error) {
	rsw.Lock()
	defer rsw.Unlock()
	if rsw.file == nil {
		return 0, os.ErrClosed
	}
	pLen := int64(len(p))
	if rsw.max > 0 && rsw.size > 0 && pLen+rsw.size > rsw.max {
		if err := rsw.rotate(); err != nil {
			return 0, err
		}
	}
	n, err = rsw.file.Write(p)
	rsw.size += int64(n)
	return n, err
}

func (rsw *RSyncWrite) rotate() error {
	if err := rsw.file.Close(); err != nil {
		return err
	}
	if err := os.Rename(rsw.path, nextRotatedLogFilePath(rsw.path, rsw.clock.Now())); err != nil {
		return fmt.Errorf("logging: failed to rotate log file: %w", err)
	}
	file, err := OpenLogFile(rsw.path)
	if err != nil {
		return err
	}
	rsw.file = file
	rsw.size = 0
	return nil
}

// RotatedLogFilePath returns the name given to a log file rotated at t.
// "logs/booksearch.log" becomes "logs/booksearch.20240701.101500.log".
func RotatedLogFilePath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".log"
	}
	return fmt.Sprintf("%s.%04d%02d%02d.%02d%02d%02d%s", base, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), ext)
}

// SetupLogging is a helper function that initializes the logging module.
// In production all logs are saved to the defined file. In development
// the same logs are also printed to console, unless console is nil: the
// interactive screen owns the terminal so it never receives log lines.
// All logs come with commit, tag and build time values.
func SetupLogging(config *Config, w zapcore.WriteSyncer, console io.Writer) (*zap.Logger, func() error) {
	zapConfig := zap.NewProductionEncoderConfig()
	if !config.IsProduction {
		zapConfig = zap.NewDevelopmentEncoderConfig()
	}
	zapConfig.TimeKey = "ts"
	zapConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.LevelKey = "lvl"
	zapConfig.NameKey = "name"
	zapConfig.MessageKey = "msg"
	zapConfig.CallerKey = "caller"
	zapConfig.StacktraceKey = "skt"

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(zapConfig), w, config.LogLevel),
	}
	if !config.IsProduction && console != nil {
		cores = append(cores,
			zapcore.NewCore(zapcore.NewConsoleEncoder(zapConfig), zapcore.Lock(&SyncWrite{console}), config.LogLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel))
	logger = logger.With(zap.String("app.commit", config.GitCommit), zap.String("app.tag", config.GitTag), zap.String("app.built", config.BuildTime))

	flusher := func() error {
		if err := logger.Sync(); err != nil {
			return fmt.Errorf("[flush logs]: %w", err)
		}
		return nil
	}

	return logger, flusher
}

// nextRotatedLogFilePath returns RotatedLogFilePath, or the same name with a
// ".N" counter when earlier rotations in the same second already took it.
func nextRotatedLogFilePath(path string, t time.Time) string {
	target := RotatedLogFilePath(path, t)
	ext := filepath.Ext(target)
	base := strings.TrimSuffix(target, ext)
	for i := 1; FileExists(target); i++ {
		target = fmt.Sprintf("%s.%d%s", base, i, ext)
	}
	return target
}
