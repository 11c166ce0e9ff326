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

package handle

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	typeName          = "sweep.type-name"
	initialBufferSize = "sweep.initial-buffer-size"
	padding           = "sweep.padding"
	maxRetries        = "sweep.max-retries"
	fallbackTypeIndex = "sweep.fallback-type-index"
	useTypeStore      = "sweep.use-type-store"
	allocator         = "sweep.allocator"
)

// Config contains the settings that steer the handle sweeper.
type Config struct {
	// TypeName is the object type whose handles are swept.
	TypeName string `json:"sweep.type-name" yaml:"sweep.type-name"`
	// FallbackTypeIndex is used when the type index can't be resolved on the running system.
	FallbackTypeIndex TypeIndex `json:"sweep.fallback-type-index" yaml:"sweep.fallback-type-index"`
	// UseTypeStore indicates whether the object type table is consulted before the fallback index.
	UseTypeStore bool `json:"sweep.use-type-store" yaml:"sweep.use-type-store"`
	// Allocator names the allocator for handle table buffers (virtual|heap|pool).
	Allocator string `json:"sweep.allocator" yaml:"sweep.allocator"`
	// Growth determines the sizing of the handle table buffer.
	Growth GrowthPolicy `json:"-" yaml:"-"`
}

// DefaultConfig returns the sweeper configuration with default values.
func DefaultConfig() Config {
	return Config{
		TypeName:          Mutant,
		FallbackTypeIndex: FallbackMutantTypeIndex,
		UseTypeStore:      true,
		Allocator:         VirtualAllocatorName,
		Growth:            DefaultGrowthPolicy(),
	}
}

// AddFlags registers persistent sweeper flags.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(typeName, Mutant, "Specifies the object type whose handles are swept")
	flags.Int(initialBufferSize, DefaultInitialBufferSize, "Specifies the size in bytes of the first handle table buffer")
	flags.Int(padding, DefaultPadding, "Specifies the number of bytes added to the handle table size reported by the system")
	flags.Int(maxRetries, DefaultMaxRetries, "Specifies how many times the handle table buffer is grown before the sweep is abandoned")
	flags.Int(fallbackTypeIndex, int(FallbackMutantTypeIndex), "Specifies the type index used when the type index can't be resolved")
	flags.Bool(useTypeStore, true, "Indicates whether the object type table is consulted before resorting to the fallback type index")
	flags.String(allocator, VirtualAllocatorName, "Specifies the allocator for handle table buffers (virtual|heap|pool)")
}

// InitFromViper initializes sweeper flags from viper.
func (c *Config) InitFromViper(v *viper.Viper) {
	c.TypeName = v.GetString(typeName)
	c.FallbackTypeIndex = TypeIndex(v.GetInt(fallbackTypeIndex))
	c.UseTypeStore = v.GetBool(useTypeStore)
	c.Allocator = v.GetString(allocator)
	c.Growth = GrowthPolicy{
		InitialSize: v.GetInt(initialBufferSize),
		Padding:     v.GetInt(padding),
		MaxRetries:  v.GetInt(maxRetries),
	}
}
