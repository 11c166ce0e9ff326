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
	"fmt"
	"github.com/rabbitstack/mutsweep/cmd/mutsweep/common"
	"github.com/rabbitstack/mutsweep/pkg/config"
	"github.com/rabbitstack/mutsweep/pkg/handle"
	"github.com/rabbitstack/mutsweep/pkg/util/spinner"
	"github.com/spf13/cobra"
	"os"

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Close all handles of the configured object type held by this process",
	RunE:  sweep,
}

var (
	sweepCfg   = config.New()
	probeCount int
	verbose    bool
)

func init() {
	sweepCfg.MustViperize(sweepCmd)
	sweepCmd.Flags().IntVar(&probeCount, "probe-count", 0, "Number of named objects created before the sweep to demonstrate their closure")
	sweepCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Prints the outcome of every close attempt")
}

func sweep(cmd *cobra.Command, args []string) error {
	if err := common.InitConfigAndLogger(sweepCfg); err != nil {
		return err
	}

	prober := handle.NewProber()
	for i := 0; i < probeCount; i++ {
		// probes are intentionally left open, the sweep is expected to close them
		probe, err := prober.NewProbe(sweepCfg.Sweep.TypeName)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "created %s probe with handle %s\n", sweepCfg.Sweep.TypeName, probe.Handle())
	}

	var outcomes []htypes.Outcome
	sweeper, err := common.NewSweeper(sweepCfg, "", handle.WithOutcomeCallback(func(o htypes.Outcome) {
		outcomes = append(outcomes, o)
	}))
	if err != nil {
		return err
	}

	var sum handle.Summary
	err = spinner.While("Sweeping "+sweepCfg.Sweep.TypeName+" handles", func() error {
		var err error
		sum, err = sweeper.Sweep()
		return err
	})
	if err != nil {
		return err
	}
	if verbose {
		for _, o := range outcomes {
			fmt.Fprintln(os.Stdout, o)
		}
	}
	fmt.Fprintln(os.Stdout, sum)
	return nil
}
