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

// PPTS is the Predict Priority Task Scheduling policy
// (doi.org/10.1145/3339186.3339206): rank by the mean predict-cost-matrix
// row, select the processor minimising finish time plus the predict cost.
type PPTS struct {
	ranks *rank.Tables
	calc  *cost.Calculator
}

// NewPPTS creates a PPTS policy over the given priority tables.
func NewPPTS(ranks *rank.Tables, calc *cost.Calculator) *PPTS {
	return &PPTS{ranks: ranks, calc: calc}
}

func (p *PPTS) String() string { return "PPTS" }

// Run schedules the tasks and returns them in estimated-start order.
func (p *PPTS) Run(tasks []*task.Task, processors []*processor.Processor) []*task.Task {
	for _, t := range tasks {
		t.Priority = p.ranks.MeanPredictRow(t)
	}
	return runList(p.String(), p.calc, tasks, processors, higherPriority,
		func(s *scheduler.Schedule, t *task.Task) {
			p.allocate(s, t, processors)
		})
}

func (p *PPTS) allocate(s *scheduler.Schedule, t *task.Task, processors []*processor.Processor) {
	var chosen *processor.Processor
	minLookAhead := math.MaxFloat64
	bestReadyTime := 0.0

	for _, candidate := range processors {
		earliestStartTime := s.EstimatedEarliestStartTime(t, candidate)
		finishTime := s.FindEarliestFinishTime(t, candidate, earliestStartTime, false)
		lookAhead := p.ranks.PredictAt(t, candidate) + finishTime
		if lookAhead < minLookAhead {
			minLookAhead = lookAhead
			bestReadyTime = earliestStartTime
			chosen = candidate
		}
	}

	s.FindEarliestFinishTime(t, chosen, bestReadyTime, true)
}
