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

// Package scheduler holds the machinery shared by every scheduling policy:
// the earliest-start-time computation, the insertion-based earliest-finish
// -time slot finder, the port-collision avoider and the final commit pass.
package scheduler

import (
	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// Schedule is the in-progress placement of one algorithm run: per processor,
// the already-placed tasks ordered by ascending estimated start time.
type Schedule struct {
	calc        *cost.Calculator
	byProcessor map[*processor.Processor][]*task.Task
}

// NewSchedule creates an empty schedule for the given processors.
func NewSchedule(calc *cost.Calculator, processors []*processor.Processor) *Schedule {
	byProcessor := make(map[*processor.Processor][]*task.Task, len(processors))
	for _, p := range processors {
		byProcessor[p] = nil
	}
	return &Schedule{calc: calc, byProcessor: byProcessor}
}

// EstimatedEarliestStartTime returns the earliest time t could start on p
// given p's estimated ready time and every parent's estimated finish plus the
// cross-host communication cost.
func (s *Schedule) EstimatedEarliestStartTime(t *task.Task, p *processor.Processor) float64 {
	earliest := p.EstimatedReadyTime()
	for _, parent := range t.Parents {
		finish := parent.EstimatedFinishTime + s.calc.Communication(parent, t, parent.AssignedProcessor, p)
		if finish > earliest {
			earliest = finish
		}
	}
	return earliest
}

// FindEarliestFinishTime returns the earliest finish time t can achieve on p
// without starting before readyTime and without overlapping any task already
// placed on p. The search walks the placed tasks from the tail towards the
// head so that, among all feasible gaps, the earliest one wins.
//
// With occupy set, the slot is taken: t is spliced into p's list at the
// matching index, its estimated times and processor are written, and p's
// estimated ready time is set to the returned finish time (which moves it
// back when t fills a gap before the last placed task).
func (s *Schedule) FindEarliestFinishTime(t *task.Task, p *processor.Processor, readyTime float64, occupy bool) float64 {
	computationCost := cost.Computation(t, p)
	placed := s.byProcessor[p]

	if len(placed) == 0 {
		if occupy {
			s.occupy(t, p, readyTime, readyTime+computationCost, 0)
		}
		return readyTime + computationCost
	}

	startTime := readyTime
	if last := placed[len(placed)-1].EstimatedFinishTime; last > startTime {
		startTime = last
	}
	index := len(placed)

	for current := len(placed) - 1; current >= 1; current-- {
		currentTask := placed[current]
		previousTask := placed[current-1]

		if readyTime > previousTask.EstimatedFinishTime {
			if readyTime+computationCost <= currentTask.EstimatedStartTime {
				startTime = readyTime
				index = current
			}
			break
		}

		if previousTask.EstimatedFinishTime+computationCost <= currentTask.EstimatedStartTime {
			startTime = previousTask.EstimatedFinishTime
			index = current
		}
	}

	if readyTime+computationCost <= placed[0].EstimatedStartTime {
		startTime = readyTime
		index = 0
	}

	finishTime := startTime + computationCost
	if occupy {
		s.occupy(t, p, startTime, finishTime, index)
	}
	return finishTime
}

func (s *Schedule) occupy(t *task.Task, p *processor.Processor, startTime, finishTime float64, index int) {
	t.EstimatedStartTime = startTime
	t.EstimatedFinishTime = finishTime
	t.AssignedProcessor = p
	t.Estimated = true
	p.SetEstimatedReadyTime(finishTime)

	placed := s.byProcessor[p]
	placed = append(placed, nil)
	copy(placed[index+1:], placed[index:])
	placed[index] = t
	s.byProcessor[p] = placed
}
