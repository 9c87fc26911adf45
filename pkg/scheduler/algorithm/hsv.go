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

// HSV is the Heterogeneous Selection Value policy
// (doi.org/10.1016/j.jpdc.2015.04.005): tasks are ranked by out-degree times
// the mean upward-rank-matrix row, and each task goes to the processor
// minimising finish time times the remaining distance to the exit.
type HSV struct {
	ranks *rank.Tables
	calc  *cost.Calculator
}

// NewHSV creates an HSV policy over the given priority tables.
func NewHSV(ranks *rank.Tables, calc *cost.Calculator) *HSV {
	return &HSV{ranks: ranks, calc: calc}
}

func (h *HSV) String() string { return "HSV" }

// Run schedules the tasks and returns them in estimated-start order.
func (h *HSV) Run(tasks []*task.Task, processors []*processor.Processor) []*task.Task {
	for _, t := range tasks {
		t.Priority = float64(len(t.Children)) * h.ranks.MeanUpwardRow(t)
	}
	return runList(h.String(), h.calc, tasks, processors, higherPriority,
		func(s *scheduler.Schedule, t *task.Task) {
			h.allocate(s, t, processors)
		})
}

func (h *HSV) allocate(s *scheduler.Schedule, t *task.Task, processors []*processor.Processor) {
	var chosen *processor.Processor
	minSelectionValue := math.MaxFloat64
	bestReadyTime := 0.0

	for _, p := range processors {
		earliestStartTime := s.EstimatedEarliestStartTime(t, p)
		finishTime := s.FindEarliestFinishTime(t, p, earliestStartTime, false)
		longestDistanceExitTime := h.ranks.UpwardAt(t, p) - cost.Computation(t, p)
		selectionValue := finishTime * longestDistanceExitTime
		if selectionValue < minSelectionValue {
			minSelectionValue = selectionValue
			bestReadyTime = earliestStartTime
			chosen = p
		}
	}

	s.FindEarliestFinishTime(t, chosen, bestReadyTime, true)
}
