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

package log

import (
	"errors"
	"expvar"
	"fmt"
	"github.com/rabbitstack/mutsweep/pkg/util/log/rotate"
	fs "github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
)

// loggerErrors counts failures to set up the rotating file hook
var loggerErrors = expvar.NewMap("logger.errors")

// InitFromConfig configures the standard logrus logger. Entries are written to
// filename under the logs directory, which is created on demand.
func InitFromConfig(c Config, filename string) error {
	path := c.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("unable to locate the logs directory: %v", err)
		}
		path = filepath.Join(filepath.Dir(exe), "..", "logs")
	}
	if filename == "" {
		return errors.New("got an empty log file name")
	}
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return fmt.Errorf("unable to create the %s logs directory: %v", path, err)
	}
	file := filepath.Join(path, filename)

	var formatter logrus.Formatter
	switch c.Formatter {
	case "text":
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	default:
		formatter = &logrus.JSONFormatter{}
	}
	logrus.SetFormatter(formatter)

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	if c.LogStdout {
		logrus.SetOutput(os.Stdout)
	} else {
		logrus.SetOutput(io.Discard)
	}

	hook, err := rotate.NewHook(rotate.Config{
		Filename:   file,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Level:      level,
		Formatter:  formatter,
	})
	if err != nil {
		loggerErrors.Add(err.Error(), 1)
		// rotation is out, but entries still make it to the file
		paths := make(fs.PathMap)
		for _, lvl := range logrus.AllLevels {
			paths[lvl] = file
		}
		logrus.AddHook(fs.NewHook(paths, formatter))
		logrus.Warnf("unable to initialize rotate file hook: %v", err)
		return nil
	}
	logrus.AddHook(hook)
	return nil
}
