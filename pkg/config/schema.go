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
	"bytes"
	"github.com/rabbitstack/mutsweep/pkg/handle"
	"text/template"
)

type schemaConfig struct {
	HeapAllocator    string
	PoolAllocator    string
	VirtualAllocator string
	MaxRetries       int
}

// maxRetries caps the configurable number of handle table buffer growths.
const maxRetries = 64

var schema = `
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"definitions": {"type-name": {"type": "string", "minLength": 1}},
	"type": "object",
	"properties": {
		"config-file":	{"type": "string"},
		"sweep": {
			"type": "object",
			"properties": {
				"type-name":			{"$ref": "#/definitions/type-name"},
				"initial-buffer-size":	{"type": "integer", "minimum": 64},
				"padding":				{"type": "integer", "minimum": 0},
				"max-retries":			{"type": "integer", "minimum": 0, "maximum": {{ .MaxRetries }}},
				"fallback-type-index":	{"type": "integer", "minimum": 1, "maximum": 65535},
				"use-type-store":		{"type": "boolean"},
				"allocator":			{"type": "string", "enum": ["{{ .VirtualAllocator }}", "{{ .HeapAllocator }}", "{{ .PoolAllocator }}"]}
			},
			"additionalProperties": false
		},
		"triggers": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"module":		{"type": "string", "minLength": 1},
					"type-name":	{"$ref": "#/definitions/type-name"}
				},
				"required": ["module"],
				"additionalProperties": false
			}
		},
		"logging": {
			"type": "object",
			"properties": {
				"level":		{"type": "string", "enum": ["panic", "fatal", "error", "warn", "warning", "info", "debug", "trace"]},
				"max-age":		{"type": "integer", "minimum": 0},
				"max-backups":	{"type": "integer", "minimum": 0},
				"max-size":		{"type": "integer", "minimum": 1},
				"formatter":	{"type": "string", "enum": ["json", "text"]},
				"path":			{"type": "string"},
				"log-stdout":	{"type": "boolean"}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}
`

func interpolateSchema() string {
	tmpl := template.Must(template.New("schema").Parse(schema))
	var b bytes.Buffer
	err := tmpl.Execute(&b, &schemaConfig{
		HeapAllocator:    handle.HeapAllocatorName,
		PoolAllocator:    handle.PoolAllocatorName,
		VirtualAllocator: handle.VirtualAllocatorName,
		MaxRetries:       maxRetries,
	})
	if err != nil {
		return ""
	}
	return b.String()
}
