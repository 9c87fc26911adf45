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
	"github.com/uber-go/tally"
)

// Metrics is the set of counters, timer and gauge the sweep driver reports.
type Metrics struct {
	// SimulationSuccess counts completed (workflow, scenario, algorithm)
	// simulations.
	SimulationSuccess tally.Counter
	// SimulationFail counts workflows whose simulations were aborted by an
	// error, once per workflow.
	SimulationFail tally.Counter
	// ScheduleDuration times one algorithm run including the commit pass.
	ScheduleDuration tally.Timer
	// Makespan reports the last committed makespan.
	Makespan tally.Gauge
}

// NewMetrics returns a new Metrics struct with all metrics initialized and
// rooted below the given tally scope.
func NewMetrics(scope tally.Scope) *Metrics {
	simulationScope := scope.SubScope("simulation")
	return &Metrics{
		SimulationSuccess: simulationScope.Counter("success"),
		SimulationFail:    simulationScope.Counter("fail"),
		ScheduleDuration:  simulationScope.Timer("schedule_duration"),
		Makespan:          simulationScope.Gauge("makespan"),
	}
}
