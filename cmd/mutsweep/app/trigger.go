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

package app

import (
	"errors"
	"fmt"
	"github.com/rabbitstack/mutsweep/cmd/mutsweep/common"
	"github.com/rabbitstack/mutsweep/pkg/config"
	"github.com/rabbitstack/mutsweep/pkg/trigger"
	"github.com/spf13/cobra"
	"os"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger [module paths]",
	Short: "Replay module load notifications through the configured triggers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  replayTriggers,
}

var triggerCfg = config.New()

func init() {
	triggerCfg.MustViperize(triggerCmd)
}

func replayTriggers(cmd *cobra.Command, args []string) error {
	if err := common.InitConfigAndLogger(triggerCfg); err != nil {
		return err
	}
	set := triggerCfg.TriggerSet()
	if len(set) == 0 {
		return errors.New("no triggers are configured")
	}

	triggers := make(map[string]*trigger.Trigger, len(set))
	for typ, patterns := range set {
		sweeper, err := common.NewSweeper(triggerCfg, typ)
		if err != nil {
			return err
		}
		triggers[typ] = trigger.New(patterns, sweeper)
	}

	for _, path := range args {
		for typ, trig := range triggers {
			if !trig.ModuleLoaded(path) {
				continue
			}
			sum, err := trig.Result()
			if err != nil {
				fmt.Fprintf(os.Stdout, "%s fired %s sweep: %v\n", trigger.Base(path), typ, err)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s fired %s sweep: %s\n", trigger.Base(path), typ, sum)
		}
	}
	return nil
}
