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

package config

import (
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

// Validate checks the config file, when present, and the effective settings
// against the configuration schema. Every violation is reported along with
// the offending property.
func (c *Config) Validate() error {
	file := c.File()
	if _, err := os.Stat(file); err == nil {
		out, err := readFile(file)
		if err != nil {
			return err
		}
		if errs := validate(out); len(errs) > 0 {
			return errors.Errorf("invalid config file %s: %s", file, join(errs))
		}
	}
	if errs := validate(c.viper.AllSettings()); len(errs) > 0 {
		return errors.Errorf("invalid config: %s", join(errs))
	}
	return nil
}

func readFile(file string) (interface{}, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var out interface{}
	switch filepath.Ext(file) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &out)
	case ".json":
		err = json.Unmarshal(b, &out)
	default:
		return nil, fmt.Errorf("%s is not a supported config file extension", filepath.Ext(file))
	}
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read the config file")
	}
	return out, nil
}

func validate(m interface{}) []error {
	converted, err := stringKeys(m, "")
	if err != nil {
		return []error{errors.Wrap(err, "fail to convert keys to string")}
	}
	sc := gojsonschema.NewStringLoader(interpolateSchema())
	r, err := gojsonschema.Validate(sc, gojsonschema.NewGoLoader(converted))
	if err != nil {
		return []error{errors.Wrap(err, "fail to validate config through schema")}
	}
	errs := make([]error, 0, len(r.Errors()))
	for _, err := range r.Errors() {
		errs = append(errs, errors.New(err.String()))
	}
	return errs
}

// stringKeys rewrites every map in the value to use string keys, since
// the schema validator only walks JSON-like documents.
func stringKeys(value interface{}, path string) (interface{}, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		dict := make(map[string]interface{}, len(v))
		for key, entry := range v {
			converted, err := stringKeys(entry, joinPath(path, key))
			if err != nil {
				return nil, err
			}
			dict[key] = converted
		}
		return dict, nil
	case map[interface{}]interface{}:
		dict := make(map[string]interface{}, len(v))
		for key, entry := range v {
			str, ok := key.(string)
			if !ok {
				if path == "" {
					return nil, errors.Errorf("non-string key at top level: %#v", key)
				}
				return nil, errors.Errorf("non-string key in %s: %#v", path, key)
			}
			converted, err := stringKeys(entry, joinPath(path, str))
			if err != nil {
				return nil, err
			}
			dict[str] = converted
		}
		return dict, nil
	case []interface{}:
		list := make([]interface{}, 0, len(v))
		for i, entry := range v {
			converted, err := stringKeys(entry, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			list = append(list, converted)
		}
		return list, nil
	}
	return value, nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func join(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
