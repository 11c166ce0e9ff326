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

package version

import (
	"fmt"
	semver "github.com/hashicorp/go-version"
	"github.com/jedib0t/go-pretty/v6/table"
	"io"
	"runtime"
)

// Version stores the release information along with the commit that produced
// the release and the build date.
type Version struct {
	Semver *semver.Version
	Commit string
	Date   string
}

var version string

// Set initializes the version string as global variable.
func Set(v string) { version = v }

// Get returns the version string.
func Get() string {
	if IsDev() {
		return "dev"
	}
	return version
}

// IsDev determines if this is a dev version.
func IsDev() bool { return version == "0.0.0" || version == "" }

// New parses the version string and returns the version instance. An empty
// version denotes a dev build.
func New(v, commit, date string) (Version, error) {
	ver := Version{Commit: commit, Date: date}
	if v == "" {
		return ver, nil
	}
	sem, err := semver.NewSemver(v)
	if err != nil {
		return ver, fmt.Errorf("invalid semver release %q: %v", v, err)
	}
	ver.Semver = sem
	return ver, nil
}

// String returns the release version or dev for development builds.
func (v Version) String() string {
	if v.Semver == nil {
		return "dev"
	}
	return v.Semver.String()
}

// Render writes the version information table to w.
func (v Version) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendRow(table.Row{"Version", v.String()})
	t.AppendRow(table.Row{"Commit", v.Commit})
	t.AppendRow(table.Row{"Build date", v.Date})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Go compiler", runtime.Version()})
	t.AppendRow(table.Row{"Platform", runtime.GOOS + "/" + runtime.GOARCH})

	t.Render()
}
