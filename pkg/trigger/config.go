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

package trigger

import (
	"fmt"
	"github.com/mitchellh/mapstructure"
)

// Config describes a single trigger declared in the configuration file.
type Config struct {
	// Module is the glob pattern the base name of the loaded module is matched against.
	Module string `json:"module" yaml:"module" mapstructure:"module"`
	// TypeName is the object type swept when the trigger fires.
	TypeName string `json:"type-name" yaml:"type-name" mapstructure:"type-name"`
}

// Decode builds trigger configurations from the raw list found in the config file.
func Decode(raw interface{}) ([]Config, error) {
	if raw == nil {
		return nil, nil
	}
	var configs []Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &configs,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid triggers: %v", err)
	}
	for i, c := range configs {
		if c.Module == "" {
			return nil, fmt.Errorf("trigger %d has no module pattern", i)
		}
	}
	return configs, nil
}

// Set groups triggers by the object type they sweep, so every type gets a
// single trigger armed with all of its module patterns.
type Set map[string][]string

// NewSet groups the trigger configurations. Triggers without an object type
// inherit defaultType.
func NewSet(configs []Config, defaultType string) Set {
	set := make(Set)
	for _, c := range configs {
		typ := c.TypeName
		if typ == "" {
			typ = defaultType
		}
		set[typ] = append(set[typ], c.Module)
	}
	return set
}
