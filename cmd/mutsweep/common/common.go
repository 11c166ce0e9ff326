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

package common

import (
	"github.com/rabbitstack/mutsweep/pkg/config"
	"github.com/rabbitstack/mutsweep/pkg/handle"
	"github.com/rabbitstack/mutsweep/pkg/util/log"
	"github.com/sirupsen/logrus"
)

// InitConfigAndLogger loads the optional configuration file, validates the
// configuration and sets up the logger.
func InitConfigAndLogger(cfg *config.Config) error {
	if _, err := cfg.LoadFileIfExists(); err != nil {
		return err
	}
	if err := cfg.Init(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := log.InitFromConfig(cfg.Log, "mutsweep.log"); err != nil {
		return err
	}
	logrus.Debugf("configuration loaded from %s", cfg.File())
	return nil
}

// NewSweeper builds the sweeper for the object type from the configured settings.
func NewSweeper(cfg *config.Config, typeName string, options ...handle.Option) (*handle.Sweeper, error) {
	c := cfg.Sweep
	if typeName != "" {
		c.TypeName = typeName
	}
	return handle.NewSweeper(c, options...)
}

// NewTypeStore builds the object type store backed by the native queries.
func NewTypeStore(cfg *config.Config) *handle.TypeStore {
	return handle.NewTypeStore(handle.NewQuerier(), handle.NewHeapAllocator(), cfg.Sweep.Growth)
}
