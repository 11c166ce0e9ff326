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
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rabbitstack/mutsweep/cmd/mutsweep/common"
	"github.com/rabbitstack/mutsweep/pkg/config"
	"github.com/rabbitstack/mutsweep/pkg/handle"
	"github.com/spf13/cobra"
	"os"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List object types registered in the object manager",
	RunE:  listTypes,
}

var typesCfg = config.New()

func init() {
	typesCfg.MustViperize(typesCmd)
}

func listTypes(cmd *cobra.Command, args []string) error {
	if err := common.InitConfigAndLogger(typesCfg); err != nil {
		return err
	}
	types, err := common.NewTypeStore(typesCfg).Types()
	if err != nil {
		return err
	}

	// the classifier is authoritative, so show what it resolves next to the table
	resolved := make(map[handle.TypeIndex]bool)
	c := handle.DefaultClassifier()
	for _, name := range []string{handle.Mutant, handle.Event} {
		if idx, err := c.Resolve(name); err == nil {
			resolved[idx] = true
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Index", "Name", "Probed"})
	for _, typ := range types {
		var probed string
		if resolved[handle.TypeIndex(typ.Index)] {
			probed = "yes"
		}
		t.AppendRow(table.Row{typ.Index, typ.Name, probed})
	}
	t.Render()
	return nil
}
