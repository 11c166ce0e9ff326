/*
 * Copyright 2019-2020 by Nedim Sabic Sabic
 * https://www.fibratus.io
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package rotate provides the logrus hook that writes entries to size-rotated files.
package rotate

import (
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Config is the configuration for the rotate file hook.
type Config struct {
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Level      logrus.Level
	Formatter  logrus.Formatter
}

// maxFrames bounds the stack walk looking for the frame that emitted the entry.
const maxFrames = 16

// Hook writes formatted entries to a file rotated by lumberjack. Every entry is
// annotated with the source location that emitted it.
type Hook struct {
	mu     sync.Mutex
	config Config
	w      io.WriteCloser
}

// NewHook builds a new rotate file hook.
func NewHook(config Config) (*Hook, error) {
	if config.Filename == "" {
		return nil, errors.New("log file name is required")
	}
	if config.Formatter == nil {
		return nil, errors.New("log formatter is required")
	}
	return &Hook{
		config: config,
		w: &lumberjack.Logger{
			Filename:   config.Filename,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
		},
	}, nil
}

// Levels returns the levels up to and including the configured level.
func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels[:h.config.Level+1]
}

// Fire formats and writes the entry.
func (h *Hook) Fire(entry *logrus.Entry) error {
	e := entry.WithField("source", source())
	e.Time = entry.Time
	e.Level = entry.Level
	e.Message = entry.Message
	b, err := h.config.Formatter.Format(e)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(b)
	return err
}

// Close closes the underlying log file.
func (h *Hook) Close() error { return h.w.Close() }

// source returns the first frame outside of logrus and this package as pkg/file.go:line.
func source() string {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.Function, "sirupsen/logrus") && !strings.Contains(frame.Function, "/log/rotate.") {
			dir := filepath.Base(filepath.Dir(frame.File))
			return fmt.Sprintf("%s/%s:%d", dir, filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return ""
		}
	}
}
