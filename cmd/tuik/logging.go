// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// parseLevel maps a level name to slog.Level.
func parseLevel(s string) (slog.Level, error) {
	levelStr := strings.ToLower(s)
	switch levelStr {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}
}

// logFileName names the log file for the day of now,
// e.g. tuik_2025-03-01_Saturday.log.
func logFileName(now time.Time) string {
	return fmt.Sprintf("tuik_%s_%s.log", now.Format("2006-01-02"), now.Weekday())
}

// newLogger builds a text logger on stderr. When logDir is set the output is
// also appended to the day's log file, returned as the closer; otherwise
// the closer is nil.
func newLogger(level, logDir string, stderr io.Writer, now time.Time) (*slog.Logger, io.Closer, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	out := stderr
	var file *os.File
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		path := filepath.Join(logDir, logFileName(now))
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(stderr, file)
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: lvl,
	}))
	if file == nil {
		return logger, nil, nil
	}
	return logger, file, nil
}
