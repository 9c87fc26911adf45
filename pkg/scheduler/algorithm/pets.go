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
	"github.com/khomkrity/task-scheduling-simulator/pkg/scheduler"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// PETS is the Performance Effective Task Scheduling policy
// (doi.org/10.3844/jcssp.2007.94.103): a task's rank is its mean computation
// cost plus its cumulative outgoing data-transfer cost plus the highest
// parent rank, rounded to the nearest integer. Rounding is what the policy
// does; keep as is. Ready-set ties fall to the task with the smaller mean
// computation cost, then placement is by minimum earliest finish time.
type PETS struct {
	calc *cost.Calculator
}

// NewPETS creates a PETS policy.
func NewPETS(calc *cost.Calculator) *PETS {
	return &PETS{calc: calc}
}

func (p *PETS) String() string { return "PETS" }

// Run schedules the tasks and returns them in estimated-start order.
func (p *PETS) Run(tasks []*task.Task, processors []*processor.Processor) []*task.Task {
	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	dataTransferCosts := make(map[*task.Task]float64, len(tasks))
	for _, t := range tasks {
		total := 0.0
		for _, child := range t.Children {
			total += p.calc.CommunicationAt(t, child, averageBandwidth)
		}
		dataTransferCosts[t] = total
	}
	ranks := make(map[*task.Task]float64, len(tasks))
	var rankOf func(t *task.Task) float64
	rankOf = func(t *task.Task) float64 {
		if r, ok := ranks[t]; ok {
			return r
		}
		highestParentRank := 0.0
		for _, parent := range t.Parents {
			highestParentRank = math.Max(highestParentRank, rankOf(parent))
		}
		r := math.Round(cost.Mean(cost.Computations(t, processors)) + dataTransferCosts[t] + highestParentRank)
		ranks[t] = r
		return r
	}
	for _, t := range tasks {
		t.Priority = rankOf(t)
	}

	better := func(candidate, best *task.Task) bool {
		if candidate.Priority != best.Priority {
			return candidate.Priority > best.Priority
		}
		return cost.Mean(cost.Computations(candidate, processors)) < cost.Mean(cost.Computations(best, processors))
	}
	return runList(p.String(), p.calc, tasks, processors, better,
		func(s *scheduler.Schedule, t *task.Task) {
			allocateMinEFT(s, t, processors)
		})
}
