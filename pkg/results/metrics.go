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

// Package results derives the performance metrics of a committed schedule
// and exports them as JSON.
package results

import (
	"github.com/pkg/errors"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

var (
	// ErrEmptyTaskList is returned when a metric is requested on no tasks.
	ErrEmptyTaskList = errors.New("task list cannot be empty")
	// ErrZeroMakespan is returned by Speedup when the makespan is not
	// positive. ScheduleLengthRatio and Throughput do not check the makespan.
	ErrZeroMakespan = errors.New("makespan cannot be zero")
	// ErrEmptyProcessorList is returned when a metric is requested on no
	// processors.
	ErrEmptyProcessorList = errors.New("processor list cannot be empty")
)

// Makespan is the maximum committed finish time over all tasks.
func Makespan(tasks []*task.Task) (float64, error) {
	if len(tasks) == 0 {
		return 0, ErrEmptyTaskList
	}
	makespan := 0.0
	for _, t := range tasks {
		if t.FinishTime > makespan {
			makespan = t.FinishTime
		}
	}
	return makespan, nil
}

// Speedup is the sequential execution time (sum of median computation costs)
// over the makespan.
func Speedup(tasks []*task.Task, processors []*processor.Processor, makespan float64) (float64, error) {
	if makespan <= 0 {
		return 0, ErrZeroMakespan
	}
	return cost.SumMedianComputationCost(tasks, processors) / makespan, nil
}

// Efficiency is the speedup per processor.
func Efficiency(processors []*processor.Processor, speedup float64) (float64, error) {
	if len(processors) == 0 {
		return 0, ErrEmptyProcessorList
	}
	return speedup / float64(len(processors)), nil
}

// ScheduleLengthRatio is the makespan normalised by the sequential execution
// time of the given tasks. Callers report the critical-path tasks here to get
// the usual SLR.
func ScheduleLengthRatio(tasks []*task.Task, processors []*processor.Processor, makespan float64) float64 {
	return makespan / cost.SumMedianComputationCost(tasks, processors)
}

// Throughput is the number of tasks completed per minute.
func Throughput(numberOfTasks float64, makespan float64) float64 {
	return numberOfTasks / makespan * 60
}

// TotalRunningTime sums the accumulated busy time over all processors.
func TotalRunningTime(processors []*processor.Processor) float64 {
	total := 0.0
	for _, p := range processors {
		total += p.RunningTime()
	}
	return total
}

// ResourceUtilization is the processor's share of the total busy time, as a
// percentage.
func ResourceUtilization(p *processor.Processor, totalRunningTime float64) float64 {
	return p.RunningTime() / totalRunningTime * 100
}
