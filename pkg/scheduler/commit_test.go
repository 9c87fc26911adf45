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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// chain builds A -> B -> C and places every task on p through the slot
// finder, returning the tasks in estimated-start order.
func chain(calc *cost.Calculator, p *processor.Processor) []*task.Task {
	a := task.New(1, 10, nil, 1, 1)
	b := task.New(2, 20, nil, 1, 1)
	c := task.New(3, 30, nil, 1, 1)
	a.AddChild(b)
	b.AddParent(a)
	b.AddChild(c)
	c.AddParent(b)

	s := NewSchedule(calc, []*processor.Processor{p})
	for _, t := range []*task.Task{a, b, c} {
		readyTime := s.EstimatedEarliestStartTime(t, p)
		s.FindEarliestFinishTime(t, p, readyTime, true)
	}
	tasks := []*task.Task{a, b, c}
	SortByEstimate(tasks)
	return tasks
}

func TestCommit_assigns_final_times_and_processor_state(t *testing.T) {
	calc := cost.NewCalculator()
	p := singleProcessor(1)
	tasks := chain(calc, p)

	require.NoError(t, Commit(calc, tasks, false))

	assert.InDelta(t, 0.0, tasks[0].StartTime, delta)
	assert.InDelta(t, 10.0, tasks[0].FinishTime, delta)
	assert.InDelta(t, 10.0, tasks[1].StartTime, delta)
	assert.InDelta(t, 30.0, tasks[1].FinishTime, delta)
	assert.InDelta(t, 30.0, tasks[2].StartTime, delta)
	assert.InDelta(t, 60.0, tasks[2].FinishTime, delta)
	assert.InDelta(t, 60.0, p.ReadyTime(), delta)
	assert.InDelta(t, 60.0, p.RunningTime(), delta)
}

func TestCommit_rejects_uncommitted_parent(t *testing.T) {
	calc := cost.NewCalculator()
	p := singleProcessor(1)

	parent := task.New(1, 10, nil, 0, 0)
	child := task.New(2, 10, nil, 0, 0)
	parent.AddChild(child)
	child.AddParent(parent)
	parent.AssignedProcessor = p
	child.AssignedProcessor = p

	// committing the child alone leaves the parent at FinishTime -1
	err := Commit(calc, []*task.Task{child}, false)

	assert.True(t, errors.Is(err, ErrPrecedenceViolation))
}

func TestCommit_with_port_constraint_lays_out_phases(t *testing.T) {
	calc := cost.NewCalculator()
	p := singleProcessor(1)
	tasks := chain(calc, p)

	require.NoError(t, Commit(calc, tasks, true))

	for _, committed := range tasks {
		computationCost := cost.Computation(committed, p)
		assert.InDelta(t, committed.StartSendingTime+committed.SendingLatency, committed.FinishSendingTime, delta)
		assert.InDelta(t, committed.FinishSendingTime, committed.StartTime, delta)
		assert.InDelta(t, committed.StartTime+computationCost, committed.FinishTime, delta)
		assert.InDelta(t, committed.FinishTime, committed.StartReceivingTime, delta)
		assert.InDelta(t, committed.StartReceivingTime+committed.ReceivingLatency, committed.FinishReceivingTime, delta)
	}

	// the host's single port serialises every send/receive phase with a one
	// time-unit buffer
	var phases []Timeslot
	for _, committed := range tasks {
		phases = append(phases,
			Timeslot{StartTime: committed.StartSendingTime, FinishTime: committed.FinishSendingTime},
			Timeslot{StartTime: committed.StartReceivingTime, FinishTime: committed.FinishReceivingTime})
	}
	for i := 0; i < len(phases); i++ {
		for j := i + 1; j < len(phases); j++ {
			separated := phases[i].FinishTime+1 <= phases[j].StartTime ||
				phases[j].FinishTime+1 <= phases[i].StartTime
			assert.True(t, separated, "phases %d and %d are not buffered", i, j)
		}
	}

	assert.InDelta(t, tasks[2].FinishReceivingTime, p.ReadyTime(), delta)
}

func TestCommit_is_idempotent_after_reset(t *testing.T) {
	calc := cost.NewCalculator()
	p := singleProcessor(1)

	tasks := chain(calc, p)
	require.NoError(t, Commit(calc, tasks, false))
	firstStarts := make([]float64, len(tasks))
	firstFinishes := make([]float64, len(tasks))
	for i, committed := range tasks {
		firstStarts[i] = committed.StartTime
		firstFinishes[i] = committed.FinishTime
	}

	for _, committed := range tasks {
		committed.Reset()
	}
	p.Reset()
	s := NewSchedule(calc, []*processor.Processor{p})
	for _, candidate := range tasks {
		readyTime := s.EstimatedEarliestStartTime(candidate, p)
		s.FindEarliestFinishTime(candidate, p, readyTime, true)
	}
	SortByEstimate(tasks)
	require.NoError(t, Commit(calc, tasks, false))

	for i, committed := range tasks {
		assert.Equal(t, firstStarts[i], committed.StartTime)
		assert.Equal(t, firstFinishes[i], committed.FinishTime)
	}
}
