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

// Package workflow loads task graphs from DAX files and answers structural
// questions about them: entries and exits, width and height, density and the
// critical path.
package workflow

import (
	"github.com/khomkrity/task-scheduling-simulator/pkg/rank"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// Roots returns the entry tasks.
func Roots(tasks []*task.Task) []*task.Task {
	var roots []*task.Task
	for _, t := range tasks {
		if t.IsEntry() {
			roots = append(roots, t)
		}
	}
	return roots
}

// Exits returns the exit tasks.
func Exits(tasks []*task.Task) []*task.Task {
	var exits []*task.Task
	for _, t := range tasks {
		if t.IsExit() {
			exits = append(exits, t)
		}
	}
	return exits
}

// TotalEdges returns the number of edges in the workflow.
func TotalEdges(tasks []*task.Task) int {
	edges := 0
	for _, t := range tasks {
		edges += len(t.Children)
	}
	return edges
}

// Width returns the maximum number of tasks sharing one depth level.
func Width(tasks []*task.Task) int {
	depthCounts := make(map[int]int)
	for _, t := range tasks {
		depthCounts[t.Depth]++
	}
	width := 0
	for _, count := range depthCounts {
		if count > width {
			width = count
		}
	}
	return width
}

// Height returns the number of depth levels.
func Height(tasks []*task.Task) int {
	height := 0
	for _, t := range tasks {
		if t.Depth > height {
			height = t.Depth
		}
	}
	return height
}

// Density is the ratio of actual edges to the maximum possible number of
// edges in a DAG over the same tasks.
func Density(tasks []*task.Task) float64 {
	n := len(tasks)
	return float64(TotalEdges(tasks)) / (float64(n*(n-1)) / 2)
}

// AverageTaskDegree is the mean out-degree.
func AverageTaskDegree(tasks []*task.Task) float64 {
	return float64(TotalEdges(tasks)) / float64(len(tasks))
}

// CriticalPath extracts the chain of tasks whose combined upward and
// downward rank matches the best entry task's, walking entry to exit.
func CriticalPath(tasks []*task.Task, ranks *rank.Tables) []*task.Task {
	priorities := make(map[*task.Task]float64, len(tasks))
	for _, t := range tasks {
		priorities[t] = ranks.Upward(t) + ranks.Downward(t)
	}

	var entry *task.Task
	for _, t := range tasks {
		if !t.IsEntry() {
			continue
		}
		if entry == nil || priorities[t] > priorities[entry] {
			entry = t
		}
	}
	if entry == nil {
		return nil
	}

	criticalPath := []*task.Task{entry}
	entryPriority := priorities[entry]
	current := entry
	for current != nil && !current.IsExit() {
		var selected *task.Task
		for _, child := range current.Children {
			if rank.IsEqual(entryPriority, priorities[child]) {
				selected = child
				criticalPath = append(criticalPath, selected)
				break
			}
		}
		current = selected
	}
	return criticalPath
}

// AssignDepths numbers tasks by depth-first descent from the roots, keeping
// the maximum depth when paths of different lengths reach the same task.
// Roots sit at depth 1. The numbering doubles as a cycle check: it only
// terminates on a DAG.
func AssignDepths(roots []*task.Task) {
	for _, root := range roots {
		assignDepth(root, 1)
	}
}

func assignDepth(t *task.Task, depth int) {
	if depth > t.Depth {
		t.Depth = depth
	}
	for _, child := range t.Children {
		assignDepth(child, t.Depth+1)
	}
}
