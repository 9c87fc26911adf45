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

// CPOP is the Critical Path on a Processor policy (doi.org/10.1109/71.993206).
// Tasks are ranked by the sum of upward and downward rank; the chain of tasks
// matching the best entry task's rank forms the critical path, which is pinned
// to the fastest processor to keep the path's length. Everything else falls
// back to minimum earliest finish time.
type CPOP struct {
	ranks *rank.Tables
	calc  *cost.Calculator

	criticalPath          map[*task.Task]struct{}
	criticalPathProcessor *processor.Processor
}

// NewCPOP creates a CPOP policy over the given priority tables.
func NewCPOP(ranks *rank.Tables, calc *cost.Calculator) *CPOP {
	return &CPOP{
		ranks:        ranks,
		calc:         calc,
		criticalPath: make(map[*task.Task]struct{}),
	}
}

func (c *CPOP) String() string { return "CPOP" }

// Run schedules the tasks and returns them in estimated-start order.
func (c *CPOP) Run(tasks []*task.Task, processors []*processor.Processor) []*task.Task {
	for _, t := range tasks {
		t.Priority = c.ranks.Upward(t) + c.ranks.Downward(t)
	}
	c.markCriticalPath(tasks)
	c.criticalPathProcessor = fastestProcessor(processors)

	return runList(c.String(), c.calc, tasks, processors, higherPriority,
		func(s *scheduler.Schedule, t *task.Task) {
			c.allocate(s, t, processors)
		})
}

// markCriticalPath walks from the highest-priority entry task down, at each
// step following a child whose priority matches the entry's within tolerance.
func (c *CPOP) markCriticalPath(tasks []*task.Task) {
	var entry *task.Task
	for _, t := range tasks {
		if !t.IsEntry() {
			continue
		}
		if entry == nil || t.Priority > entry.Priority {
			entry = t
		}
	}
	if entry == nil {
		return
	}

	criticalPathRank := entry.Priority
	c.criticalPath[entry] = struct{}{}
	current := entry
	for current != nil && !current.IsExit() {
		var selected *task.Task
		for _, child := range current.Children {
			if rank.IsEqual(criticalPathRank, child.Priority) {
				selected = child
				c.criticalPath[selected] = struct{}{}
				break
			}
		}
		current = selected
	}
}

// allocate pins critical-path tasks to the critical-path processor
// unconditionally; other tasks take the minimum earliest finish time.
func (c *CPOP) allocate(s *scheduler.Schedule, t *task.Task, processors []*processor.Processor) {
	if _, onPath := c.criticalPath[t]; onPath {
		readyTime := s.EstimatedEarliestStartTime(t, c.criticalPathProcessor)
		s.FindEarliestFinishTime(t, c.criticalPathProcessor, readyTime, true)
		return
	}
	allocateMinEFT(s, t, processors)
}

func fastestProcessor(processors []*processor.Processor) *processor.Processor {
	var fastest *processor.Processor
	for _, p := range processors {
		if fastest == nil || p.MIPS > fastest.MIPS {
			fastest = p
		}
	}
	return fastest
}
