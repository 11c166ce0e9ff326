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

// Package trigger runs the handle sweep once a watched module has been loaded
// into the process.
package trigger

import (
	"github.com/rabbitstack/mutsweep/pkg/handle"
	"github.com/rabbitstack/mutsweep/pkg/util/wildcard"
	log "github.com/sirupsen/logrus"
	"strings"
	"sync"
)

// Sweeper runs the sweep when the trigger fires.
type Sweeper interface {
	Sweep() (handle.Summary, error)
}

// Trigger fires the sweep at most once per process lifetime, the first time a
// module whose base name matches one of the patterns is reported as loaded.
// Library load callbacks can arrive on any thread, so ModuleLoaded is safe for
// concurrent use.
type Trigger struct {
	patterns []string
	sweeper  Sweeper

	once  sync.Once
	mu    sync.RWMutex
	fired bool
	sum   handle.Summary
	err   error
}

// New creates a trigger that runs the sweeper for modules matching any of the
// glob patterns. Patterns are matched against the base name of the module path
// ignoring the case.
func New(patterns []string, sweeper Sweeper) *Trigger {
	return &Trigger{patterns: patterns, sweeper: sweeper}
}

// ModuleLoaded is called by the host once the library at path finished loading.
// It returns true if this notification fired the sweep.
func (t *Trigger) ModuleLoaded(path string) bool {
	if t.Fired() || !t.Match(path) {
		return false
	}
	var fired bool
	t.once.Do(func() {
		fired = true
		log.Infof("%s loaded, sweeping handles", path)
		sum, err := t.sweeper.Sweep()
		if err != nil {
			log.Errorf("handle sweep triggered by %s failed: %v", path, err)
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		t.fired, t.sum, t.err = true, sum, err
	})
	return fired
}

// Match determines if the module path matches any of the patterns.
func (t *Trigger) Match(path string) bool {
	name := Base(path)
	for _, pattern := range t.patterns {
		if wildcard.MatchFold(pattern, name) {
			return true
		}
	}
	return false
}

// Fired determines whether the sweep has already run.
func (t *Trigger) Fired() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fired
}

// Result returns the summary and the error of the sweep. It is only meaningful
// once Fired returns true.
func (t *Trigger) Result() (handle.Summary, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sum, t.err
}

// Base returns the last element of a module path. Both backslash and forward
// slash separators are recognized regardless of the platform.
func Base(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}
	return path
}
