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

package algorithm

import (
	"math"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/rank"
	"github.com/khomkrity/task-scheduling-simulator/pkg/scheduler"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// IPPTS is the Improved Predict Priority Task Scheduling policy
// (doi.org/10.1109/TPDS.2020.3041829): rank by out-degree times the mean
// predict-cost row, select the processor minimising finish time plus the
// looking-ahead distance to the exit.
type IPPTS struct {
	ranks *rank.Tables
	calc  *cost.Calculator
}

// NewIPPTS creates an IPPTS policy over the given priority tables.
func NewIPPTS(ranks *rank.Tables, calc *cost.Calculator) *IPPTS {
	return &IPPTS{ranks: ranks, calc: calc}
}

func (i *IPPTS) String() string { return "IPPTS" }

// Run schedules the tasks and returns them in estimated-start order.
func (i *IPPTS) Run(tasks []*task.Task, processors []*processor.Processor) []*task.Task {
	for _, t := range tasks {
		t.Priority = i.ranks.MeanPredictRow(t) * float64(len(t.Children))
	}
	return runList(i.String(), i.calc, tasks, processors, higherPriority,
		func(s *scheduler.Schedule, t *task.Task) {
			i.allocate(s, t, processors)
		})
}

func (i *IPPTS) allocate(s *scheduler.Schedule, t *task.Task, processors []*processor.Processor) {
	var chosen *processor.Processor
	minLookingAhead := math.MaxFloat64
	bestReadyTime := 0.0

	for _, p := range processors {
		earliestStartTime := s.EstimatedEarliestStartTime(t, p)
		finishTime := s.FindEarliestFinishTime(t, p, earliestStartTime, false)
		lookingAheadExitTime := i.ranks.PredictAt(t, p) - cost.Computation(t, p)
		lookingAhead := finishTime + lookingAheadExitTime
		if lookingAhead < minLookingAhead {
			minLookingAhead = lookingAhead
			bestReadyTime = earliestStartTime
			chosen = p
		}
	}

	s.FindEarliestFinishTime(t, chosen, bestReadyTime, true)
}
