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

// PEFT is the Predict Earliest Finish Time policy
// (doi.org/10.1109/TPDS.2013.57): rank by the mean optimistic-cost-table row,
// select the processor minimising finish time plus the optimistic cost. The
// lookahead lets PEFT steer a task towards the processor its successors are
// cheapest on even when the immediate finish times tie.
type PEFT struct {
	ranks *rank.Tables
	calc  *cost.Calculator
}

// NewPEFT creates a PEFT policy over the given priority tables.
func NewPEFT(ranks *rank.Tables, calc *cost.Calculator) *PEFT {
	return &PEFT{ranks: ranks, calc: calc}
}

func (p *PEFT) String() string { return "PEFT" }

// Run schedules the tasks and returns them in estimated-start order.
func (p *PEFT) Run(tasks []*task.Task, processors []*processor.Processor) []*task.Task {
	for _, t := range tasks {
		t.Priority = p.ranks.MeanOptimisticRow(t)
	}
	return runList(p.String(), p.calc, tasks, processors, higherPriority,
		func(s *scheduler.Schedule, t *task.Task) {
			p.allocate(s, t, processors)
		})
}

func (p *PEFT) allocate(s *scheduler.Schedule, t *task.Task, processors []*processor.Processor) {
	var chosen *processor.Processor
	minOptimisticFinishTime := math.MaxFloat64
	bestReadyTime := 0.0

	for _, candidate := range processors {
		earliestStartTime := s.EstimatedEarliestStartTime(t, candidate)
		finishTime := s.FindEarliestFinishTime(t, candidate, earliestStartTime, false)
		optimisticFinishTime := p.ranks.OptimisticAt(t, candidate) + finishTime
		if optimisticFinishTime < minOptimisticFinishTime {
			minOptimisticFinishTime = optimisticFinishTime
			bestReadyTime = earliestStartTime
			chosen = candidate
		}
	}

	s.FindEarliestFinishTime(t, chosen, bestReadyTime, true)
}
