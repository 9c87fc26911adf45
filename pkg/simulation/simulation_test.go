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

package simulation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"

	"github.com/khomkrity/task-scheduling-simulator/pkg/config"
	"github.com/khomkrity/task-scheduling-simulator/pkg/environment"
)

func TestSimulation_Run_sweeps_workflows_and_algorithms(t *testing.T) {
	setting, err := environment.Load(filepath.Join("testdata", "environment.xml"))
	require.NoError(t, err)
	cfg := &config.SimulationConfig{
		WorkflowDirectoryPath: filepath.Join("testdata", "workflows"),
		Algorithms:            []string{"HEFT", "CPOP", "PEFT"},
	}
	scope := tally.NewTestScope("", nil)

	schedulingResults, err := New(cfg, setting, scope).Run()
	require.NoError(t, err)

	require.Len(t, schedulingResults, 3)
	for _, result := range schedulingResults {
		assert.Equal(t, "diamond", result.WorkflowName)
		assert.Equal(t, 4, result.NumberOfTask)
		assert.Equal(t, 2, result.NumberOfProcessor)
		assert.Greater(t, result.Makespan, 0.0)
		assert.Greater(t, result.Speedup, 0.0)
		assert.Len(t, result.TaskResults, 4)
		assert.Len(t, result.ProcessorResults, 2)
		assert.NotEmpty(t, result.ID)
	}
	assert.Equal(t, "HEFT", schedulingResults[0].AlgorithmName)
	assert.Equal(t, "CPOP", schedulingResults[1].AlgorithmName)
	assert.Equal(t, "PEFT", schedulingResults[2].AlgorithmName)

	snapshot := scope.Snapshot()
	counters := snapshot.Counters()
	require.Contains(t, counters, "simulation.success+")
	assert.Equal(t, int64(3), counters["simulation.success+"].Value())
}

func TestSimulation_Run_default_algorithm_sweep(t *testing.T) {
	setting, err := environment.Load(filepath.Join("testdata", "environment.xml"))
	require.NoError(t, err)
	cfg := &config.SimulationConfig{
		WorkflowDirectoryPath: filepath.Join("testdata", "workflows"),
	}

	schedulingResults, err := New(cfg, setting, tally.NoopScope).Run()
	require.NoError(t, err)

	assert.Len(t, schedulingResults, 7)
}

func TestSimulation_Run_missing_workflow_directory(t *testing.T) {
	setting, err := environment.Load(filepath.Join("testdata", "environment.xml"))
	require.NoError(t, err)
	cfg := &config.SimulationConfig{
		WorkflowDirectoryPath: filepath.Join(t.TempDir(), "missing"),
	}

	_, err = New(cfg, setting, tally.NoopScope).Run()

	assert.Error(t, err)
}

func TestSimulation_Run_unknown_algorithm_fails_the_workflow(t *testing.T) {
	setting, err := environment.Load(filepath.Join("testdata", "environment.xml"))
	require.NoError(t, err)
	cfg := &config.SimulationConfig{
		WorkflowDirectoryPath: filepath.Join("testdata", "workflows"),
		Algorithms:            []string{"FCFS"},
	}

	schedulingResults, err := New(cfg, setting, tally.NoopScope).Run()

	assert.Error(t, err)
	assert.Empty(t, schedulingResults)
}
