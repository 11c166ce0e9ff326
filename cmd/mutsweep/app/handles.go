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
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rabbitstack/mutsweep/cmd/mutsweep/common"
	"github.com/rabbitstack/mutsweep/pkg/config"
	"github.com/rabbitstack/mutsweep/pkg/handle"
	"github.com/spf13/cobra"
	"os"
	"strings"
)

var handlesCmd = &cobra.Command{
	Use:   "handles",
	Short: "List handles held by this process",
	RunE:  listHandles,
}

var (
	handlesCfg = config.New()
	typeFilter string
)

func init() {
	handlesCfg.MustViperize(handlesCmd)
	handlesCmd.Flags().StringVarP(&typeFilter, "type", "t", "", "Only lists handles of the given object type")
}

func listHandles(cmd *cobra.Command, args []string) error {
	if err := common.InitConfigAndLogger(handlesCfg); err != nil {
		return err
	}
	alloc, err := handle.NewAllocator(handlesCfg.Sweep.Allocator)
	if err != nil {
		return err
	}
	snap, err := handle.TakeSnapshot(handle.NewQuerier(), alloc, handlesCfg.Sweep.Growth)
	if err != nil {
		return err
	}
	defer snap.Release()

	types := common.NewTypeStore(handlesCfg)
	pid := uint32(os.Getpid())

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Handle", "Type index", "Type", "Access"})

	var n int
	for i := 0; i < snap.Len(); i++ {
		rec := snap.At(i)
		if rec.Pid != pid {
			continue
		}
		name := types.FindByIndex(handle.TypeIndex(rec.TypeIndex))
		if typeFilter != "" && !strings.EqualFold(name, typeFilter) {
			continue
		}
		t.AppendRow(table.Row{rec.Value, rec.TypeIndex, name, fmt.Sprintf("0x%X", rec.Access)})
		n++
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d of %d handles", n, snap.Len()), humanize.IBytes(uint64(snap.Size()))})
	t.Render()
	return nil
}
