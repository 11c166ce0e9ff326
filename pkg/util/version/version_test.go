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
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNew(t *testing.T) {
	v, err := New("1.2.3", "d6f1e0c", "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())
	assert.Equal(t, []int{1, 2, 3}, v.Semver.Segments())

	v, err = New("", "d6f1e0c", "")
	require.NoError(t, err)
	assert.Equal(t, "dev", v.String())

	_, err = New("one.two", "", "")
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	v, err := New("0.4.0", "d6f1e0c", "2024-03-11")
	require.NoError(t, err)

	var b bytes.Buffer
	v.Render(&b)
	assert.Contains(t, b.String(), "0.4.0")
	assert.Contains(t, b.String(), "d6f1e0c")
}

func TestGet(t *testing.T) {
	Set("")
	assert.Equal(t, "dev", Get())
	Set("1.0.0")
	assert.Equal(t, "1.0.0", Get())
	assert.False(t, IsDev())
}
