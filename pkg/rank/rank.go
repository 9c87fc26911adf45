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

// Package rank derives the priority and cost tables every scheduling policy
// ranks tasks with: the scalar upward and downward ranks and the per-processor
// upward-rank, optimistic, pessimistic and predict cost matrices.
package rank

import (
	"math"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

const epsilon = 1e-10

// IsEqual compares two rank or time values within the 1e-10 tolerance used
// throughout the scheduler. Never compare priorities bit-exactly.
func IsEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// Tables holds the memoised priority tables of one (workflow, processor set)
// pair. Build a fresh Tables per scenario; the tables are read-only once
// Compute has run.
type Tables struct {
	calc *cost.Calculator

	upwardRanks          map[*task.Task]float64
	downwardRanks        map[*task.Task]float64
	upwardRankMatrix     map[*task.Task]map[*processor.Processor]float64
	optimisticCostTable  map[*task.Task]map[*processor.Processor]float64
	pessimisticCostTable map[*task.Task]map[*processor.Processor]float64
	predictCostMatrix    map[*task.Task]map[*processor.Processor]float64
}

// NewTables creates empty tables backed by the given cost calculator.
func NewTables(calc *cost.Calculator) *Tables {
	return &Tables{
		calc:                 calc,
		upwardRanks:          make(map[*task.Task]float64),
		downwardRanks:        make(map[*task.Task]float64),
		upwardRankMatrix:     make(map[*task.Task]map[*processor.Processor]float64),
		optimisticCostTable:  make(map[*task.Task]map[*processor.Processor]float64),
		pessimisticCostTable: make(map[*task.Task]map[*processor.Processor]float64),
		predictCostMatrix:    make(map[*task.Task]map[*processor.Processor]float64),
	}
}

// Compute fills every table for the given workflow and processor set. The
// recursions terminate because the workflow is acyclic.
func (r *Tables) Compute(tasks []*task.Task, processors []*processor.Processor) {
	for _, t := range tasks {
		r.upwardRank(t, processors)
		r.downwardRank(t, processors)
		for _, p := range processors {
			r.upwardRankAt(t, processors, p)
			r.optimisticCost(t, processors, p)
			r.pessimisticCost(t, processors, p)
			r.predictCost(t, processors, p)
		}
	}
}

// Upward returns rank_u(t), the mean-cost length of the longest path from t
// to any exit.
func (r *Tables) Upward(t *task.Task) float64 {
	return r.upwardRanks[t]
}

// Downward returns rank_d(t), the longest mean-cost path from any entry to,
// but not including, t.
func (r *Tables) Downward(t *task.Task) float64 {
	return r.downwardRanks[t]
}

// UpwardAt returns the upward-rank matrix entry for (t, p).
func (r *Tables) UpwardAt(t *task.Task, p *processor.Processor) float64 {
	return r.upwardRankMatrix[t][p]
}

// OptimisticAt returns the optimistic cost table entry for (t, p).
func (r *Tables) OptimisticAt(t *task.Task, p *processor.Processor) float64 {
	return r.optimisticCostTable[t][p]
}

// PessimisticAt returns the pessimistic cost table entry for (t, p).
func (r *Tables) PessimisticAt(t *task.Task, p *processor.Processor) float64 {
	return r.pessimisticCostTable[t][p]
}

// PredictAt returns the predict cost matrix entry for (t, p).
func (r *Tables) PredictAt(t *task.Task, p *processor.Processor) float64 {
	return r.predictCostMatrix[t][p]
}

// MeanUpwardRow returns the mean of t's upward-rank matrix row.
func (r *Tables) MeanUpwardRow(t *task.Task) float64 {
	return meanRow(r.upwardRankMatrix[t])
}

// MeanOptimisticRow returns the mean of t's optimistic cost table row.
func (r *Tables) MeanOptimisticRow(t *task.Task) float64 {
	return meanRow(r.optimisticCostTable[t])
}

// MeanPessimisticRow returns the mean of t's pessimistic cost table row.
func (r *Tables) MeanPessimisticRow(t *task.Task) float64 {
	return meanRow(r.pessimisticCostTable[t])
}

// MeanPredictRow returns the mean of t's predict cost matrix row.
func (r *Tables) MeanPredictRow(t *task.Task) float64 {
	return meanRow(r.predictCostMatrix[t])
}

func meanRow(row map[*processor.Processor]float64) float64 {
	if len(row) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range row {
		sum += v
	}
	return sum / float64(len(row))
}

func (r *Tables) upwardRank(t *task.Task, processors []*processor.Processor) float64 {
	if rank, ok := r.upwardRanks[t]; ok {
		return rank
	}

	averageComputationCost := cost.Mean(cost.Computations(t, processors))
	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	rank := 0.0
	for _, child := range t.Children {
		communicationCost := r.calc.CommunicationAt(t, child, averageBandwidth)
		childCost := r.upwardRank(child, processors) + communicationCost
		rank = math.Max(rank, childCost)
	}

	if t.IsExit() {
		rank = averageComputationCost
	} else {
		rank += averageComputationCost
	}
	r.upwardRanks[t] = rank
	return rank
}

func (r *Tables) downwardRank(t *task.Task, processors []*processor.Processor) float64 {
	if rank, ok := r.downwardRanks[t]; ok {
		return rank
	}

	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	rank := 0.0
	for _, parent := range t.Parents {
		averageComputationCost := cost.Mean(cost.Computations(parent, processors))
		communicationCost := r.calc.CommunicationAt(parent, t, averageBandwidth)
		parentCost := r.downwardRank(parent, processors) + averageComputationCost + communicationCost
		rank = math.Max(rank, parentCost)
	}

	if t.IsEntry() {
		rank = 0
	}
	r.downwardRanks[t] = rank
	return rank
}

// upwardRankAt charges the selected processor's computation cost once per
// task rather than accumulating it along the path. This matches the observed
// behaviour of the heterogeneous-selection-value ranking; keep as is.
func (r *Tables) upwardRankAt(t *task.Task, processors []*processor.Processor, selected *processor.Processor) float64 {
	if row, ok := r.upwardRankMatrix[t]; ok {
		if rank, ok := row[selected]; ok {
			return rank
		}
	}

	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	rank := 0.0
	for _, child := range t.Children {
		computationCost := cost.Computation(t, selected)
		communicationCost := r.calc.CommunicationAt(t, child, averageBandwidth)
		childRank := r.upwardRankAt(child, processors, selected) + computationCost + communicationCost
		rank = math.Max(rank, childRank)
	}
	if t.IsExit() {
		rank = cost.Computation(t, selected)
	}
	r.put(r.upwardRankMatrix, t, selected, rank)
	return rank
}

func (r *Tables) optimisticCost(t *task.Task, processors []*processor.Processor, selected *processor.Processor) float64 {
	if row, ok := r.optimisticCostTable[t]; ok {
		if c, ok := row[selected]; ok {
			return c
		}
	}

	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	optimistic := 0.0
	for _, child := range t.Children {
		minCost := math.MaxFloat64
		for _, other := range processors {
			communicationCost := 0.0
			if selected != other {
				communicationCost = r.calc.CommunicationAt(t, child, averageBandwidth)
			}
			childCost := r.optimisticCost(child, processors, other) + cost.Computation(child, other) + communicationCost
			minCost = math.Min(minCost, childCost)
		}
		optimistic = math.Max(optimistic, minCost)
	}

	if t.IsExit() {
		optimistic = 0
	}
	r.put(r.optimisticCostTable, t, selected, optimistic)
	return optimistic
}

func (r *Tables) pessimisticCost(t *task.Task, processors []*processor.Processor, selected *processor.Processor) float64 {
	if row, ok := r.pessimisticCostTable[t]; ok {
		if c, ok := row[selected]; ok {
			return c
		}
	}

	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	pessimistic := 0.0
	for _, child := range t.Children {
		maxCost := 0.0
		for _, other := range processors {
			communicationCost := 0.0
			if selected != other {
				communicationCost = r.calc.CommunicationAt(t, child, averageBandwidth)
			}
			childCost := r.pessimisticCost(child, processors, other) + cost.Computation(child, other) + communicationCost
			maxCost = math.Max(maxCost, childCost)
		}
		pessimistic = math.Max(pessimistic, maxCost)
	}

	if t.IsExit() {
		pessimistic = 0
	}
	r.put(r.pessimisticCostTable, t, selected, pessimistic)
	return pessimistic
}

func (r *Tables) predictCost(t *task.Task, processors []*processor.Processor, selected *processor.Processor) float64 {
	if row, ok := r.predictCostMatrix[t]; ok {
		if c, ok := row[selected]; ok {
			return c
		}
	}

	averageBandwidth := cost.Mean(cost.Bandwidths(processors))
	predict := 0.0
	for _, child := range t.Children {
		minCost := math.MaxFloat64
		for _, other := range processors {
			communicationCost := 0.0
			if selected != other {
				communicationCost = r.calc.CommunicationAt(t, child, averageBandwidth)
			}
			childCost := r.predictCost(child, processors, other) +
				cost.Computation(t, other) +
				cost.Computation(child, other) +
				communicationCost
			minCost = math.Min(minCost, childCost)
		}
		predict = math.Max(predict, minCost)
	}

	if t.IsExit() {
		predict = cost.Computation(t, selected)
	}
	r.put(r.predictCostMatrix, t, selected, predict)
	return predict
}

func (r *Tables) put(m map[*task.Task]map[*processor.Processor]float64, t *task.Task, p *processor.Processor, v float64) {
	if m[t] == nil {
		m[t] = make(map[*processor.Processor]float64)
	}
	m[t][p] = v
}
