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

// Package config holds the simulator configuration and its YAML loader.
package config

import (
	"github.com/khomkrity/task-scheduling-simulator/pkg/common/metrics"
)

// Config is the full simulator configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Metrics    metrics.Config   `yaml:"metrics"`
}

// SimulationConfig locates the inputs and output of one sweep.
type SimulationConfig struct {
	// EnvironmentSettingPath is the environment XML with the constraint
	// flags and processor scenarios.
	EnvironmentSettingPath string `yaml:"environmentSettingPath" validate:"nonzero"`

	// WorkflowDirectoryPath is scanned non-recursively for .xml/.dax
	// workflow files.
	WorkflowDirectoryPath string `yaml:"workflowDirectoryPath" validate:"nonzero"`

	// OutputDirectoryPath receives the result JSON.
	OutputDirectoryPath string `yaml:"outputDirectoryPath"`

	// OutputName names the result file (without extension).
	OutputName string `yaml:"outputName"`

	// Algorithms overrides the default policy sweep.
	Algorithms []string `yaml:"algorithms"`
}
