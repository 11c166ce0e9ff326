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
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"io"
	"sort"
	"strings"
)

// Print renders the effective configuration as a table of keys and values.
func (c *Config) Print(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Value"})

	keys := c.viper.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		if key == triggers {
			continue
		}
		t.AppendRow(table.Row{key, format(c.viper.Get(key))})
	}
	if len(c.Triggers) > 0 {
		t.AppendSeparator()
		for i, trig := range c.Triggers {
			typ := trig.TypeName
			if typ == "" {
				typ = c.Sweep.TypeName
			}
			t.AppendRow(table.Row{fmt.Sprintf("triggers[%d]", i), fmt.Sprintf("%s => %s", trig.Module, typ)})
		}
	}
	t.Render()
}

func format(v interface{}) string {
	switch val := v.(type) {
	case []interface{}:
		s := make([]string, len(val))
		for i, e := range val {
			s[i] = fmt.Sprintf("%v", e)
		}
		return strings.Join(s, ", ")
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
