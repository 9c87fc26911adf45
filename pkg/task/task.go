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

package task

import (
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
)

// Task is a node of a workflow DAG. Identity and structure (ID, Length,
// FileItems, latencies, Parents, Children, Depth) are fixed once the DAG is
// built; the remaining fields are per-run scheduling state and are cleared by
// Reset between algorithm runs.
//
// FinishTime is -1 until the commit pass has placed the task.
type Task struct {
	ID               int
	Length           float64
	FileItems        []FileItem
	SendingLatency   float64
	ReceivingLatency float64

	Parents  []*Task
	Children []*Task
	Depth    int

	Priority            float64
	AssignedProcessor   *processor.Processor
	ReadyTime           float64
	StartTime           float64
	FinishTime          float64
	EstimatedStartTime  float64
	EstimatedFinishTime float64
	StartSendingTime    float64
	FinishSendingTime   float64
	StartReceivingTime  float64
	FinishReceivingTime float64
	Estimated           bool
}

// New creates a task with the given identity. The task starts uncommitted,
// with FinishTime -1.
func New(id int, length float64, fileItems []FileItem, sendingLatency, receivingLatency float64) *Task {
	return &Task{
		ID:               id,
		Length:           length,
		FileItems:        fileItems,
		SendingLatency:   sendingLatency,
		ReceivingLatency: receivingLatency,
		FinishTime:       -1,
	}
}

// IsEntry reports whether the task has no parents.
func (t *Task) IsEntry() bool {
	return len(t.Parents) == 0
}

// IsExit reports whether the task has no children.
func (t *Task) IsExit() bool {
	return len(t.Children) == 0
}

// AddParent appends a parent edge.
func (t *Task) AddParent(parent *Task) {
	t.Parents = append(t.Parents, parent)
}

// AddChild appends a child edge.
func (t *Task) AddChild(child *Task) {
	t.Children = append(t.Children, child)
}

// Siblings returns the tasks sharing at least one parent with t, including t
// itself once per shared parent.
func (t *Task) Siblings() []*Task {
	var siblings []*Task
	for _, parent := range t.Parents {
		siblings = append(siblings, parent.Children...)
	}
	return siblings
}

// Reset clears all per-run scheduling state so the task can be scheduled
// again by another algorithm. FinishTime goes back to -1 (uncommitted).
func (t *Task) Reset() {
	t.Priority = 0
	t.AssignedProcessor = nil
	t.ReadyTime = 0
	t.StartTime = 0
	t.FinishTime = -1
	t.EstimatedStartTime = 0
	t.EstimatedFinishTime = 0
	t.StartSendingTime = 0
	t.FinishSendingTime = 0
	t.StartReceivingTime = 0
	t.FinishReceivingTime = 0
	t.Estimated = false
}
