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

package workflow

import (
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// AddPseudoTasks makes the workflow single-source and single-sink by
// inserting zero-cost pseudo tasks: an entry with id 0 when several roots
// exist, an exit with id max+1 when several exits exist. A workflow that is
// already single-entry and single-exit is returned untouched. Zero length
// keeps the makespan unchanged.
func AddPseudoTasks(tasks []*task.Task) []*task.Task {
	roots := Roots(tasks)
	exits := Exits(tasks)
	if len(roots) == 1 && len(exits) == 1 {
		return tasks
	}

	if len(roots) > 1 {
		pseudoEntry := task.New(0, 0, nil, 0, 0)
		for _, root := range roots {
			pseudoEntry.AddChild(root)
			root.AddParent(pseudoEntry)
		}
		tasks = append(tasks, pseudoEntry)
	}

	if len(exits) > 1 {
		maxID := 0
		for _, t := range tasks {
			if t.ID > maxID {
				maxID = t.ID
			}
		}
		pseudoExit := task.New(maxID+1, 0, nil, 0, 0)
		for _, exit := range exits {
			pseudoExit.AddParent(exit)
			exit.AddChild(pseudoExit)
		}
		tasks = append(tasks, pseudoExit)
	}

	return tasks
}
