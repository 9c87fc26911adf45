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

package scheduler

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// ErrPrecedenceViolation reports that a task's ready time was requested while
// a predecessor was still uncommitted. This cannot happen on a correct
// schedule; it indicates a scheduler bug and aborts the run.
var ErrPrecedenceViolation = errors.New("violated the precedence constraint: all predecessors must already be completed")

// SortByEstimate orders tasks by ascending estimated start time, breaking
// ties by estimated finish time. This is the order the commit pass replays
// the logical schedule in.
func SortByEstimate(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].EstimatedStartTime != tasks[j].EstimatedStartTime {
			return tasks[i].EstimatedStartTime < tasks[j].EstimatedStartTime
		}
		return tasks[i].EstimatedFinishTime < tasks[j].EstimatedFinishTime
	})
}

// Commit replays the estimated schedule in estimated-start order and assigns
// final start and finish times, updating each processor's committed ready
// time and accumulated running time.
//
// With the port constraint enabled, every task's sending and receiving phase
// is additionally serialised on its host's single I/O port: the ready time is
// pushed past every reserved send/receive slot (buffered by one time unit),
// the send, compute and receive phases are laid out back to back, and the two
// I/O phases are reserved for the tasks that follow. Zero-cost pseudo tasks
// reserve nothing.
func Commit(calc *cost.Calculator, prioritizedTasks []*task.Task, hasPortConstraint bool) error {
	var timeslots []Timeslot

	for _, current := range prioritizedTasks {
		p := current.AssignedProcessor
		computationCost := cost.Computation(current, p)
		earliestStartTime, err := committedEarliestStartTime(calc, current, p)
		if err != nil {
			return err
		}

		if !hasPortConstraint {
			current.StartTime = earliestStartTime
			current.FinishTime = earliestStartTime + computationCost
			p.SetReadyTime(current.FinishTime)
			p.AddRunningTime(computationCost)
			continue
		}

		for _, parent := range current.Parents {
			if parent.FinishReceivingTime > earliestStartTime {
				earliestStartTime = parent.FinishReceivingTime
			}
		}
		startSendingTime := AvoidPortCollision(
			timeslots, earliestStartTime, computationCost, current.SendingLatency, current.ReceivingLatency)
		finishSendingTime := startSendingTime + current.SendingLatency
		startReceivingTime := finishSendingTime + computationCost
		finishReceivingTime := startReceivingTime + current.ReceivingLatency

		current.ReadyTime = earliestStartTime
		current.StartSendingTime = startSendingTime
		current.FinishSendingTime = finishSendingTime
		current.StartTime = finishSendingTime
		current.FinishTime = startReceivingTime
		current.StartReceivingTime = startReceivingTime
		current.FinishReceivingTime = finishReceivingTime

		if computationCost != 0 {
			timeslots = append(timeslots,
				Timeslot{StartTime: startSendingTime, FinishTime: finishSendingTime},
				Timeslot{StartTime: startReceivingTime, FinishTime: finishReceivingTime})
		}

		p.SetReadyTime(finishReceivingTime)
		p.AddRunningTime(computationCost)
	}
	return nil
}

// committedEarliestStartTime is the committed-time counterpart of the
// schedule's estimated earliest start time: the processor's committed ready
// time against every parent's committed finish plus communication.
func committedEarliestStartTime(calc *cost.Calculator, t *task.Task, p *processor.Processor) (float64, error) {
	earliest := p.ReadyTime()
	for _, parent := range t.Parents {
		if parent.FinishTime < 0 {
			return 0, errors.Wrapf(ErrPrecedenceViolation, "task %d depends on uncommitted task %d", t.ID, parent.ID)
		}
		finish := parent.FinishTime + calc.Communication(parent, t, parent.AssignedProcessor, p)
		if finish > earliest {
			earliest = finish
		}
	}
	return earliest, nil
}
