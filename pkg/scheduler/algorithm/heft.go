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
	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/rank"
	"github.com/khomkrity/task-scheduling-simulator/pkg/scheduler"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// HEFT is the Heterogeneous Earliest Finish Time policy
// (doi.org/10.1109/71.993206): rank tasks by upward rank, place each on the
// processor with the minimum insertion-based earliest finish time.
type HEFT struct {
	ranks *rank.Tables
	calc  *cost.Calculator
}

// NewHEFT creates a HEFT policy over the given priority tables.
func NewHEFT(ranks *rank.Tables, calc *cost.Calculator) *HEFT {
	return &HEFT{ranks: ranks, calc: calc}
}

func (h *HEFT) String() string { return "HEFT" }

// Run schedules the tasks and returns them in estimated-start order.
func (h *HEFT) Run(tasks []*task.Task, processors []*processor.Processor) []*task.Task {
	for _, t := range tasks {
		t.Priority = h.ranks.Upward(t)
	}
	return runList(h.String(), h.calc, tasks, processors, higherPriority,
		func(s *scheduler.Schedule, t *task.Task) {
			allocateMinEFT(s, t, processors)
		})
}
