package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	logDir      = "logs"
	logFileName = "flowgrid.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging installs a JSON slog logger writing to logs/flowgrid.log when
// debug is set and discarding records otherwise. A log file over maxLogSize is renamed with a
// timestamp before a fresh one is opened. The caller closes the returned file.
func setupLogging(debug bool) *os.File {
	if !debug {
		useLogger(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
		useLogger(io.Discard)
		return nil
	}

	path := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("flowgrid_%s.log", time.Now().Format("20060102_150405")))
		if err := os.Rename(path, rotated); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
		useLogger(io.Discard)
		return nil
	}
	useLogger(f)
	slog.Info("logging started", "pid", os.Getpid())
	return f
}

func useLogger(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}
