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

// Package algorithm implements the list-scheduling policies. Every policy is
// a prioritisation rule plus a processor-selection objective on top of the
// shared ready-set loop; the timing questions are all answered by the
// scheduler package's slot finder.
package algorithm

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/scheduler"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// Algorithm is one static list-scheduling policy. Run assigns every task an
// estimated slot on a processor and returns the tasks ordered by estimated
// start time, ready for the commit pass.
type Algorithm interface {
	fmt.Stringer
	Run(tasks []*task.Task, processors []*processor.Processor) []*task.Task
}

// higherPriority is the default ready-set selection rule: strictly greater
// priority wins, so ties fall to the task inserted into the ready set first.
func higherPriority(candidate, best *task.Task) bool {
	return candidate.Priority > best.Priority
}

// runList drives the shared control loop: keep a ready set of tasks whose
// parents are all placed, pick the best-priority ready task, let the policy
// place it, then release any children whose last parent was just placed.
// Every task ends up placed because the workflow is acyclic.
func runList(
	name string,
	calc *cost.Calculator,
	tasks []*task.Task,
	processors []*processor.Processor,
	better func(candidate, best *task.Task) bool,
	allocate func(s *scheduler.Schedule, t *task.Task),
) []*task.Task {
	log.WithFields(log.Fields{
		"algorithm":  name,
		"tasks":      len(tasks),
		"processors": len(processors),
	}).Info("running scheduling algorithm")

	schedule := scheduler.NewSchedule(calc, processors)
	var ready []*task.Task
	for _, t := range tasks {
		if t.IsEntry() {
			ready = append(ready, t)
		}
	}
	placed := make(map[*task.Task]struct{}, len(tasks))

	for len(ready) > 0 {
		best := 0
		for i := 1; i < len(ready); i++ {
			if better(ready[i], ready[best]) {
				best = i
			}
		}
		t := ready[best]
		allocate(schedule, t)

		ready = append(ready[:best], ready[best+1:]...)
		placed[t] = struct{}{}
		for _, child := range t.Children {
			if allPlaced(child.Parents, placed) {
				ready = append(ready, child)
			}
		}
	}

	scheduler.SortByEstimate(tasks)
	return tasks
}

func allPlaced(parents []*task.Task, placed map[*task.Task]struct{}) bool {
	for _, parent := range parents {
		if _, ok := placed[parent]; !ok {
			return false
		}
	}
	return true
}

// allocateMinEFT commits t to the processor with the smallest insertion-based
// earliest finish time. This is the selection objective HEFT, PETS and the
// off-critical-path half of CPOP share.
func allocateMinEFT(s *scheduler.Schedule, t *task.Task, processors []*processor.Processor) {
	var chosen *processor.Processor
	earliestFinishTime := math.MaxFloat64
	bestReadyTime := 0.0

	for _, p := range processors {
		earliestStartTime := s.EstimatedEarliestStartTime(t, p)
		finishTime := s.FindEarliestFinishTime(t, p, earliestStartTime, false)
		if finishTime < earliestFinishTime {
			bestReadyTime = earliestStartTime
			earliestFinishTime = finishTime
			chosen = p
		}
	}

	s.FindEarliestFinishTime(t, chosen, bestReadyTime, true)
}
