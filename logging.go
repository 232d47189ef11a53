package main

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// newLogger writes debug logs to path. The terminal belongs to the
// dashboard, so without a path everything is discarded.
func newLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return discardLogger(), io.NopCloser(nil), nil
	}
	f, err := tea.LogToFile(path, "genesisdash")
	if err != nil {
		return nil, nil, err
	}
	return newFileLogger(f), f, nil
}

func newFileLogger(f *os.File) *slog.Logger {
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
