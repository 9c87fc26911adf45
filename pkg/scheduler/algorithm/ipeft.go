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

// IPEFT is the Improved Predict Earliest Finish Time policy
// (doi.org/10.1002/cpe.3944). Tasks are ranked by the mean pessimistic-cost
// row plus the mean computation cost. A task whose average earliest and
// latest start times coincide is a critical node; a task with a critical
// child is placed by plain earliest finish time, every other task by finish
// time plus the critical-node cost table.
type IPEFT struct {
	ranks *rank.Tables
	calc  *cost.Calculator

	averageEarliestStartTimes map[*task.Task]float64
	averageLatestStartTimes   map[*task.Task]float64
	criticalNodes             map[*task.Task]struct{}
	criticalNodeCostTable     map[*task.Task]map[*processor.Processor]float64
}

// NewIPEFT creates an IPEFT policy over the given priority tables.
func NewIPEFT(ranks *rank.Tables, calc *cost.Calculator) *IPEFT {
	return &IPEFT{
		ranks:                     ranks,
		calc:                      calc,
		averageEarliestStartTimes: make(map[*task.Task]float64),
		averageLatestStartTimes:   make(map[*task.Task]float64),
		criticalNodes:             make(map[*task.Task]struct{}),
		criticalNodeCostTable:     make(map[*task.Task]map[*processor.Processor]float64),
	}
}

func (i *IPEFT) String() string { return "IPEFT" }

// Run schedules the tasks and returns them in estimated-start order.
func (i *IPEFT) Run(tasks []*task.Task, processors []*processor.Processor) []*task.Task {
	for _, t := range tasks {
		i.averageEarliestStartTime(t, processors)
	}
	for _, t := range tasks {
		i.averageLatestStartTime(t, processors)
	}
	for _, t := range tasks {
		if rank.IsEqual(i.averageEarliestStartTimes[t], i.averageLatestStartTimes[t]) {
			i.criticalNodes[t] = struct{}{}
		}
	}
	for _, t := range tasks {
		t.Priority = i.ranks.MeanPessimisticRow(t) + cost.Mean(cost.Computations(t, processors))
	}
	for _, t := range tasks {
		for _, p := range processors {
			i.criticalNodeCost(t, processors, p)
		}
	}

	return runList(i.String(), i.calc, tasks, processors, higherPriority,
		func(s *scheduler.Schedule, t *task.Task) {
			i.allocate(s, t, processors)
		})
}

func (i *IPEFT) averageEarliestStartTime(t *task.Task, processors []*processor.Processor) float64 {
	if aest, ok := i.averageEarliestStartTimes[t]; ok {
		return aest
	}

	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	aest := -math.MaxFloat64
	for _, parent := range t.Parents {
		averageComputationCost := cost.Mean(cost.Computations(parent, processors))
		communicationCost := i.calc.CommunicationAt(parent, t, averageBandwidth)
		aest = math.Max(aest, i.averageEarliestStartTime(parent, processors)+averageComputationCost+communicationCost)
	}

	if t.IsEntry() {
		aest = 0
	}
	i.averageEarliestStartTimes[t] = aest
	return aest
}

func (i *IPEFT) averageLatestStartTime(t *task.Task, processors []*processor.Processor) float64 {
	if alst, ok := i.averageLatestStartTimes[t]; ok {
		return alst
	}

	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	averageComputationCost := cost.Mean(cost.Computations(t, processors))
	alst := math.MaxFloat64
	for _, child := range t.Children {
		communicationCost := i.calc.CommunicationAt(t, child, averageBandwidth)
		alst = math.Min(alst, i.averageLatestStartTime(child, processors)-communicationCost)
	}

	if t.IsExit() {
		alst = i.averageEarliestStartTimes[t]
	} else {
		alst -= averageComputationCost
	}
	i.averageLatestStartTimes[t] = alst
	return alst
}

func (i *IPEFT) criticalNodeCost(t *task.Task, processors []*processor.Processor, selected *processor.Processor) float64 {
	if row, ok := i.criticalNodeCostTable[t]; ok {
		if c, ok := row[selected]; ok {
			return c
		}
	}

	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	criticalCost := -math.MaxFloat64
	for _, child := range t.Children {
		minCost := math.MaxFloat64
		for _, other := range processors {
			communicationCost := 0.0
			if selected != other {
				communicationCost = i.calc.CommunicationAt(t, child, averageBandwidth)
			}
			childCost := i.criticalNodeCost(child, processors, other) + cost.Computation(child, other) + communicationCost
			minCost = math.Min(minCost, childCost)
		}
		criticalCost = math.Max(criticalCost, minCost)
	}

	if t.IsExit() {
		criticalCost = 0
	}
	if i.criticalNodeCostTable[t] == nil {
		i.criticalNodeCostTable[t] = make(map[*processor.Processor]float64)
	}
	i.criticalNodeCostTable[t][selected] = criticalCost
	return criticalCost
}

// containsCriticalChild reports whether t is itself not critical but has at
// least one critical child.
func (i *IPEFT) containsCriticalChild(t *task.Task) bool {
	if _, critical := i.criticalNodes[t]; critical {
		return false
	}
	for _, child := range t.Children {
		if _, critical := i.criticalNodes[child]; critical {
			return true
		}
	}
	return false
}

func (i *IPEFT) allocate(s *scheduler.Schedule, t *task.Task, processors []*processor.Processor) {
	var chosen *processor.Processor
	bestScore := math.MaxFloat64
	bestReadyTime := 0.0
	containsCriticalChild := i.containsCriticalChild(t)

	for _, p := range processors {
		earliestStartTime := s.EstimatedEarliestStartTime(t, p)
		finishTime := s.FindEarliestFinishTime(t, p, earliestStartTime, false)
		score := finishTime
		if !containsCriticalChild {
			score += i.criticalNodeCostTable[t][p]
		}
		if score < bestScore {
			bestScore = score
			bestReadyTime = earliestStartTime
			chosen = p
		}
	}

	s.FindEarliestFinishTime(t, chosen, bestReadyTime, true)
}
