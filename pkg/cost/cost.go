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

// Package cost computes the computation and communication costs that every
// priority table and scheduling policy is built on.
package cost

import (
	"github.com/pkg/errors"

	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// ErrZeroComputation is returned when the communication-to-computation ratio
// is requested for a workflow whose total computation cost is not positive.
var ErrZeroComputation = errors.New("invalid computation cost: less than or equal to zero")

// Computation returns the computation cost of t on p.
func Computation(t *task.Task, p *processor.Processor) float64 {
	return t.Length / p.MIPS
}

// Computations returns the computation cost of t on every processor, in
// processor order.
func Computations(t *task.Task, processors []*processor.Processor) []float64 {
	costs := make([]float64, len(processors))
	for i, p := range processors {
		costs[i] = Computation(t, p)
	}
	return costs
}

// Bandwidths returns the bandwidth of every processor, in processor order.
func Bandwidths(processors []*processor.Processor) []float64 {
	bandwidths := make([]float64, len(processors))
	for i, p := range processors {
		bandwidths[i] = p.Bandwidth
	}
	return bandwidths
}

// Calculator memoises communication costs by (bandwidth, parent, child). The
// cache amortises the repeated edge lookups the priority tables make; it must
// be cleared with Reset when the processor scenario, and with it the bandwidth
// distribution, changes.
type Calculator struct {
	communicationCosts map[float64]map[*task.Task]map[*task.Task]float64
}

// NewCalculator creates an empty calculator.
func NewCalculator() *Calculator {
	return &Calculator{
		communicationCosts: make(map[float64]map[*task.Task]map[*task.Task]float64),
	}
}

// Communication returns the cost of the (parent → child) edge when the parent
// runs on from and the child on to. The cost is zero on the same host;
// otherwise the payload is carried at the slower of the two links.
func (c *Calculator) Communication(parent, child *task.Task, from, to *processor.Processor) float64 {
	if from == to {
		return 0
	}
	bandwidth := from.Bandwidth
	if to.Bandwidth < bandwidth {
		bandwidth = to.Bandwidth
	}
	return c.CommunicationAt(parent, child, bandwidth)
}

// CommunicationAt returns the cost of the (parent → child) edge carried at the
// given bandwidth in megabits per second.
func (c *Calculator) CommunicationAt(parent, child *task.Task, bandwidth float64) float64 {
	byParent, ok := c.communicationCosts[bandwidth]
	if !ok {
		byParent = make(map[*task.Task]map[*task.Task]float64)
		c.communicationCosts[bandwidth] = byParent
	}
	if cached, ok := byParent[parent][child]; ok {
		return cached
	}

	// bytes to megabits
	size := transferredFileSize(parent, child)
	size = size / 1_000_000.0 * 8.0
	communicationCost := size / bandwidth

	if byParent[parent] == nil {
		byParent[parent] = make(map[*task.Task]float64)
	}
	byParent[parent][child] = communicationCost
	return communicationCost
}

// transferredFileSize sums the sizes of the child's input files that the
// parent produces as output, matched by name.
func transferredFileSize(parent, child *task.Task) float64 {
	outputs := make(map[string]struct{}, len(parent.FileItems))
	for _, item := range parent.FileItems {
		if item.Type == task.FileTypeOutput {
			outputs[item.Name] = struct{}{}
		}
	}
	size := 0.0
	for _, item := range child.FileItems {
		if item.Type != task.FileTypeInput {
			continue
		}
		if _, ok := outputs[item.Name]; ok {
			size += item.Size
		}
	}
	return size
}

// Reset clears the memoised communication costs. Call at scenario boundaries.
func (c *Calculator) Reset() {
	c.communicationCosts = make(map[float64]map[*task.Task]map[*task.Task]float64)
}

// SumMedianComputationCost sums, over tasks, the median computation cost
// across processors. This is the sequential execution time used by the
// speedup and schedule-length-ratio metrics.
func SumMedianComputationCost(tasks []*task.Task, processors []*processor.Processor) float64 {
	sum := 0.0
	for _, t := range tasks {
		sum += Median(Computations(t, processors))
	}
	return sum
}

// SumAverageCommunicationCost sums the communication cost of every edge
// carried at the median bandwidth.
func (c *Calculator) SumAverageCommunicationCost(tasks []*task.Task, processors []*processor.Processor) float64 {
	bandwidth := Median(Bandwidths(processors))
	sum := 0.0
	for _, t := range tasks {
		for _, child := range t.Children {
			sum += c.CommunicationAt(t, child, bandwidth)
		}
	}
	return sum
}

// CommunicationToComputationRatio returns the workflow's CCR, the total
// average communication cost over the total median computation cost.
func (c *Calculator) CommunicationToComputationRatio(tasks []*task.Task, processors []*processor.Processor) (float64, error) {
	totalComputation := SumMedianComputationCost(tasks, processors)
	if totalComputation <= 0 {
		return 0, ErrZeroComputation
	}
	return c.SumAverageCommunicationCost(tasks, processors) / totalComputation, nil
}
