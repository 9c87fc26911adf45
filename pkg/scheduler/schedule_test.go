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

	"github.com/stretchr/testify/assert"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

const delta = 1e-9

func singleProcessor(mips float64) *processor.Processor {
	return processor.New(0, "device-0", mips, 100, 1)
}

// place occupies a slot for a fresh task with the given length at readyTime.
func place(s *Schedule, p *processor.Processor, id int, length, readyTime float64) *task.Task {
	t := task.New(id, length, nil, 0, 0)
	s.FindEarliestFinishTime(t, p, readyTime, true)
	return t
}

func TestSchedule_FindEarliestFinishTime_empty_schedule_starts_at_ready_time(t *testing.T) {
	p := singleProcessor(1)
	s := NewSchedule(cost.NewCalculator(), []*processor.Processor{p})

	candidate := task.New(1, 10, nil, 0, 0)
	finish := s.FindEarliestFinishTime(candidate, p, 3, true)

	assert.InDelta(t, 13.0, finish, delta)
	assert.InDelta(t, 3.0, candidate.EstimatedStartTime, delta)
	assert.InDelta(t, 13.0, candidate.EstimatedFinishTime, delta)
	assert.Equal(t, p, candidate.AssignedProcessor)
	assert.InDelta(t, 13.0, p.EstimatedReadyTime(), delta)
}

func TestSchedule_FindEarliestFinishTime_inserts_before_head(t *testing.T) {
	p := singleProcessor(1)
	s := NewSchedule(cost.NewCalculator(), []*processor.Processor{p})
	place(s, p, 1, 5, 5) // occupies [5, 10]

	candidate := task.New(2, 3, nil, 0, 0)
	finish := s.FindEarliestFinishTime(candidate, p, 0, false)

	assert.InDelta(t, 3.0, finish, delta)
}

func TestSchedule_FindEarliestFinishTime_reuses_gap(t *testing.T) {
	p := singleProcessor(1)
	s := NewSchedule(cost.NewCalculator(), []*processor.Processor{p})
	place(s, p, 1, 10, 0)  // [0, 10]
	place(s, p, 2, 10, 20) // [20, 30]

	candidate := task.New(3, 5, nil, 0, 0)
	finish := s.FindEarliestFinishTime(candidate, p, 0, false)

	assert.InDelta(t, 15.0, finish, delta)
}

func TestSchedule_FindEarliestFinishTime_earliest_gap_wins(t *testing.T) {
	p := singleProcessor(1)
	s := NewSchedule(cost.NewCalculator(), []*processor.Processor{p})
	place(s, p, 1, 10, 0)  // [0, 10]
	place(s, p, 2, 8, 12)  // [12, 20]
	place(s, p, 3, 10, 30) // [30, 40]

	candidate := task.New(4, 2, nil, 0, 0)
	finish := s.FindEarliestFinishTime(candidate, p, 0, false)

	// both gaps fit; the one at time 10 is earlier
	assert.InDelta(t, 12.0, finish, delta)
}

func TestSchedule_FindEarliestFinishTime_starts_at_ready_time_inside_gap(t *testing.T) {
	p := singleProcessor(1)
	s := NewSchedule(cost.NewCalculator(), []*processor.Processor{p})
	place(s, p, 1, 10, 0)  // [0, 10]
	place(s, p, 2, 10, 30) // [30, 40]

	candidate := task.New(3, 5, nil, 0, 0)
	finish := s.FindEarliestFinishTime(candidate, p, 15, false)

	assert.InDelta(t, 20.0, finish, delta)
}

func TestSchedule_FindEarliestFinishTime_appends_when_no_gap_fits(t *testing.T) {
	p := singleProcessor(1)
	s := NewSchedule(cost.NewCalculator(), []*processor.Processor{p})
	place(s, p, 1, 10, 0)  // [0, 10]
	place(s, p, 2, 9, 11)  // [11, 20]

	candidate := task.New(3, 5, nil, 0, 0)
	finish := s.FindEarliestFinishTime(candidate, p, 0, false)

	assert.InDelta(t, 25.0, finish, delta)
}

func TestSchedule_FindEarliestFinishTime_never_overlaps_placed_tasks(t *testing.T) {
	p := singleProcessor(1)
	s := NewSchedule(cost.NewCalculator(), []*processor.Processor{p})
	var placed []*task.Task
	for i, fixture := range []struct{ length, ready float64 }{
		{10, 0}, {10, 25}, {5, 0}, {7, 3}, {4, 60}, {9, 0},
	} {
		placed = append(placed, place(s, p, i+1, fixture.length, fixture.ready))
	}

	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			overlap := placed[i].EstimatedStartTime < placed[j].EstimatedFinishTime &&
				placed[j].EstimatedStartTime < placed[i].EstimatedFinishTime
			assert.False(t, overlap,
				"tasks %d and %d overlap", placed[i].ID, placed[j].ID)
		}
	}
}

func TestSchedule_EstimatedEarliestStartTime_uses_parents_and_processor(t *testing.T) {
	calc := cost.NewCalculator()
	processors := []*processor.Processor{
		processor.New(0, "device-0", 1, 100, 1),
		processor.New(1, "device-1", 2, 100, 1),
	}
	s := NewSchedule(calc, processors)

	parent := task.New(1, 10, nil, 0, 0)
	parent.EstimatedFinishTime = 12
	parent.AssignedProcessor = processors[0]
	child := task.New(2, 10, nil, 0, 0)
	parent.AddChild(child)
	child.AddParent(parent)

	processors[1].SetEstimatedReadyTime(5)
	assert.InDelta(t, 12.0, s.EstimatedEarliestStartTime(child, processors[1]), delta)

	processors[1].SetEstimatedReadyTime(20)
	assert.InDelta(t, 20.0, s.EstimatedEarliestStartTime(child, processors[1]), delta)
}

func TestAvoidPortCollision_no_slots_or_zero_cost_passes_through(t *testing.T) {
	assert.InDelta(t, 4.0, AvoidPortCollision(nil, 4, 10, 1, 1), delta)
	slots := []Timeslot{{StartTime: 0, FinishTime: 5}}
	assert.InDelta(t, 4.0, AvoidPortCollision(slots, 4, 0, 1, 1), delta)
}

func TestAvoidPortCollision_bumps_past_buffered_slot(t *testing.T) {
	slots := []Timeslot{{StartTime: 10, FinishTime: 11}}

	// phases span [9.5, 21.5], colliding with the slot buffered to [9, 12]
	ready := AvoidPortCollision(slots, 9.5, 10, 1, 1)

	assert.InDelta(t, 12.0, ready, delta)
}

func TestAvoidPortCollision_retries_until_clear(t *testing.T) {
	slots := []Timeslot{
		{StartTime: 2, FinishTime: 3},
		{StartTime: 8, FinishTime: 9},
	}

	// every bump lands inside the next buffered slot until time 10
	ready := AvoidPortCollision(slots, 0, 2, 1, 1)

	assert.InDelta(t, 10.0, ready, delta)
}
