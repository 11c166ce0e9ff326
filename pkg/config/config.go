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
	"github.com/rabbitstack/mutsweep/pkg/handle"
	"github.com/rabbitstack/mutsweep/pkg/trigger"
	"github.com/rabbitstack/mutsweep/pkg/util/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
	"strings"
)

const (
	configFile = "config-file"
	triggers   = "triggers"
)

// Config stores the configuration of the handle sweeper and its satellites.
type Config struct {
	// Sweep contains the settings that steer the handle sweeper.
	Sweep handle.Config `json:"sweep" yaml:"sweep"`
	// Triggers lists the modules whose load fires the sweep.
	Triggers []trigger.Config `json:"triggers" yaml:"triggers"`
	// Log contains log-specific configuration options.
	Log log.Config `json:"logging" yaml:"logging"`

	flags *pflag.FlagSet
	viper *viper.Viper
}

// New creates a new configuration with all flags registered.
func New() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("mutsweep")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	c := &Config{
		Sweep: handle.DefaultConfig(),
		Log:   log.Config{},
		flags: new(pflag.FlagSet),
		viper: v,
	}
	c.addFlags()
	return c
}

// MustViperize adds the flag set to the Cobra command and binds them within the Viper flags.
func (c *Config) MustViperize(cmd *cobra.Command) {
	cmd.PersistentFlags().AddFlagSet(c.flags)
	if err := c.viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		panic(err)
	}
}

// TryLoadFile attempts to load the configuration file from specified path on the file system.
func (c *Config) TryLoadFile(file string) error {
	c.viper.SetConfigFile(file)
	return c.viper.ReadInConfig()
}

// LoadFileIfExists loads the configuration file if it exists. The configuration file
// is optional, so a missing file only means flag values and defaults are in effect.
func (c *Config) LoadFileIfExists() (bool, error) {
	file := c.File()
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := c.TryLoadFile(file); err != nil {
		return false, fmt.Errorf("unable to load %s config file: %v", file, err)
	}
	return true, nil
}

// Init populates configuration sections from flags and the config file.
func (c *Config) Init() error {
	c.Sweep.InitFromViper(c.viper)
	c.Log.InitFromViper(c.viper)

	configs, err := trigger.Decode(c.viper.Get(triggers))
	if err != nil {
		return err
	}
	c.Triggers = configs
	return nil
}

// File returns the config file path.
func (c *Config) File() string { return c.viper.GetString(configFile) }

// TriggerSet groups the configured triggers by the object type they sweep.
func (c *Config) TriggerSet() trigger.Set {
	return trigger.NewSet(c.Triggers, c.Sweep.TypeName)
}

func (c *Config) addFlags() {
	file := filepath.Join(os.Getenv("PROGRAMFILES"), "mutsweep", "config", "mutsweep.yml")
	if exe, err := os.Executable(); err == nil {
		file = filepath.Join(filepath.Dir(exe), "..", "config", "mutsweep.yml")
	}
	c.flags.String(configFile, file, "Indicates the location of the configuration file")
	handle.AddFlags(c.flags)
	c.Log.AddFlags(c.flags)
}
