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

package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

const delta = 1e-9

// diamond builds A(10) -> {B(15), C(20)} -> D(12) with no file items, so
// every communication cost is zero.
func diamond() (a, b, c, d *task.Task, tasks []*task.Task) {
	a = task.New(1, 10, nil, 0, 0)
	b = task.New(2, 15, nil, 0, 0)
	c = task.New(3, 20, nil, 0, 0)
	d = task.New(4, 12, nil, 0, 0)
	link(a, b)
	link(a, c)
	link(b, d)
	link(c, d)
	return a, b, c, d, []*task.Task{a, b, c, d}
}

func link(parent, child *task.Task) {
	parent.AddChild(child)
	child.AddParent(parent)
}

func twoProcessors() []*processor.Processor {
	return []*processor.Processor{
		processor.New(0, "device-0", 1, 100, 1),
		processor.New(1, "device-1", 2, 100, 1),
	}
}

func TestTables_Compute_diamond_upward_and_downward_ranks(t *testing.T) {
	a, b, c, d, tasks := diamond()
	processors := twoProcessors()
	ranks := NewTables(cost.NewCalculator())
	ranks.Compute(tasks, processors)

	assert.InDelta(t, 31.5, ranks.Upward(a), delta)
	assert.InDelta(t, 20.25, ranks.Upward(b), delta)
	assert.InDelta(t, 24.0, ranks.Upward(c), delta)
	assert.InDelta(t, 9.0, ranks.Upward(d), delta)

	assert.InDelta(t, 0.0, ranks.Downward(a), delta)
	assert.InDelta(t, 7.5, ranks.Downward(b), delta)
	assert.InDelta(t, 7.5, ranks.Downward(c), delta)
	assert.InDelta(t, 22.5, ranks.Downward(d), delta)
}

func TestTables_Compute_diamond_upward_rank_matrix_charges_own_cost_once(t *testing.T) {
	a, b, c, d, tasks := diamond()
	processors := twoProcessors()
	p1, p2 := processors[0], processors[1]
	ranks := NewTables(cost.NewCalculator())
	ranks.Compute(tasks, processors)

	assert.InDelta(t, 12.0, ranks.UpwardAt(d, p1), delta)
	assert.InDelta(t, 6.0, ranks.UpwardAt(d, p2), delta)
	assert.InDelta(t, 27.0, ranks.UpwardAt(b, p1), delta)
	assert.InDelta(t, 13.5, ranks.UpwardAt(b, p2), delta)
	assert.InDelta(t, 32.0, ranks.UpwardAt(c, p1), delta)
	assert.InDelta(t, 16.0, ranks.UpwardAt(c, p2), delta)
	// A's own cost is charged once, not accumulated along the path.
	assert.InDelta(t, 42.0, ranks.UpwardAt(a, p1), delta)
	assert.InDelta(t, 21.0, ranks.UpwardAt(a, p2), delta)
}

func TestTables_Compute_diamond_cost_tables(t *testing.T) {
	a, b, c, d, tasks := diamond()
	processors := twoProcessors()
	p1, p2 := processors[0], processors[1]
	ranks := NewTables(cost.NewCalculator())
	ranks.Compute(tasks, processors)

	// exit rows
	assert.InDelta(t, 0.0, ranks.OptimisticAt(d, p1), delta)
	assert.InDelta(t, 0.0, ranks.PessimisticAt(d, p1), delta)
	assert.InDelta(t, 12.0, ranks.PredictAt(d, p1), delta)
	assert.InDelta(t, 6.0, ranks.PredictAt(d, p2), delta)

	assert.InDelta(t, 16.0, ranks.OptimisticAt(a, p1), delta)
	assert.InDelta(t, 16.0, ranks.OptimisticAt(a, p2), delta)
	assert.InDelta(t, 32.0, ranks.PessimisticAt(a, p1), delta)
	assert.InDelta(t, 32.0, ranks.PessimisticAt(a, p2), delta)

	assert.InDelta(t, 19.5, ranks.PredictAt(b, p1), delta)
	assert.InDelta(t, 22.0, ranks.PredictAt(c, p2), delta)
	assert.InDelta(t, 37.0, ranks.PredictAt(a, p1), delta)
	assert.InDelta(t, 37.0, ranks.PredictAt(a, p2), delta)
}

func TestTables_Compute_is_deterministic(t *testing.T) {
	_, _, _, _, tasks := diamond()
	processors := twoProcessors()

	first := NewTables(cost.NewCalculator())
	first.Compute(tasks, processors)
	second := NewTables(cost.NewCalculator())
	second.Compute(tasks, processors)

	for _, candidate := range tasks {
		assert.Equal(t, first.Upward(candidate), second.Upward(candidate))
		assert.Equal(t, first.Downward(candidate), second.Downward(candidate))
		for _, p := range processors {
			assert.Equal(t, first.UpwardAt(candidate, p), second.UpwardAt(candidate, p))
			assert.Equal(t, first.OptimisticAt(candidate, p), second.OptimisticAt(candidate, p))
			assert.Equal(t, first.PessimisticAt(candidate, p), second.PessimisticAt(candidate, p))
			assert.Equal(t, first.PredictAt(candidate, p), second.PredictAt(candidate, p))
		}
	}
}

func TestTables_Compute_homogeneous_processors_collapse_matrix_rows(t *testing.T) {
	_, _, _, _, tasks := diamond()
	processors := []*processor.Processor{
		processor.New(0, "device-0", 2, 100, 1),
		processor.New(1, "device-1", 2, 100, 1),
		processor.New(2, "device-2", 2, 100, 1),
	}
	ranks := NewTables(cost.NewCalculator())
	ranks.Compute(tasks, processors)

	for _, candidate := range tasks {
		for _, p := range processors[1:] {
			assert.InDelta(t, ranks.UpwardAt(candidate, processors[0]), ranks.UpwardAt(candidate, p), delta)
			assert.InDelta(t, ranks.OptimisticAt(candidate, processors[0]), ranks.OptimisticAt(candidate, p), delta)
			assert.InDelta(t, ranks.PessimisticAt(candidate, processors[0]), ranks.PessimisticAt(candidate, p), delta)
			assert.InDelta(t, ranks.PredictAt(candidate, processors[0]), ranks.PredictAt(candidate, p), delta)
		}
	}
}

func TestIsEqual(t *testing.T) {
	assert.True(t, IsEqual(1.0, 1.0+1e-11))
	assert.False(t, IsEqual(1.0, 1.0+1e-9))
}
