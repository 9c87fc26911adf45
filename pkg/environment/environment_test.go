// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_parses_constraints_and_scenarios(t *testing.T) {
	setting, err := Load(filepath.Join("testdata", "environment.xml"))
	require.NoError(t, err)

	assert.False(t, setting.PortConstraint)
	assert.True(t, setting.PseudoTask)
	assert.False(t, setting.MockData)
	require.Len(t, setting.Scenarios, 2)

	first := setting.Scenarios[0]
	require.Len(t, first, 3)
	assert.Equal(t, "edge-0", first[0].Name)
	assert.Equal(t, "edge-1", first[1].Name)
	assert.Equal(t, "cloud-0", first[2].Name)
	assert.Equal(t, 2000.0, first[1].MIPS)
	assert.Equal(t, 1000.0, first[2].Bandwidth)
	assert.Equal(t, 2.0, first[2].CostPerMIPS)

	second := setting.Scenarios[1]
	require.Len(t, second, 1)
	assert.Equal(t, 50.0, second[0].Bandwidth)
}

func TestLoad_rejects_missing_file(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xml"))

	assert.Error(t, err)
}

func TestLoad_rejects_non_numeric_attributes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environment.xml")
	broken := `<environment>
  <scenario>
    <device name="edge">
      <host mips="fast" bandwidth="100" cost="0.5"/>
    </device>
  </scenario>
</environment>`
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}
