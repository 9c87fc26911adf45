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
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
)

// ErrNoWorkflow is returned when a workflow directory is missing or holds no
// .xml or .dax files.
var ErrNoWorkflow = errors.New("no input files")

// daxJob is one <job> element of a DAX document.
type daxJob struct {
	ID        string    `xml:"id,attr"`
	Runtime   string    `xml:"runtime,attr"`
	Sending   string    `xml:"sending,attr"`
	Receiving string    `xml:"receiving,attr"`
	Uses      []daxUses `xml:"uses"`
}

// daxUses is one <uses> element: a file the job reads or writes.
type daxUses struct {
	Name string `xml:"name,attr"`
	File string `xml:"file,attr"`
	Link string `xml:"link,attr"`
	Size string `xml:"size,attr"`
}

// daxChild is one <child> element carrying the parent references of a job.
type daxChild struct {
	Ref     string      `xml:"ref,attr"`
	Parents []daxParent `xml:"parent"`
}

type daxParent struct {
	Ref string `xml:"ref,attr"`
}

type daxDocument struct {
	Jobs     []daxJob   `xml:"job"`
	Children []daxChild `xml:"child"`
}

// List returns the workflow file paths inside the directory, scanned
// non-recursively; only .xml and .dax extensions count. ErrNoWorkflow wraps
// both a missing directory and one without workflow files.
func List(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, errors.Wrapf(ErrNoWorkflow, "reading workflow directory %s: %v", directory, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xml", ".dax":
			paths = append(paths, filepath.Join(directory, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, errors.Wrapf(ErrNoWorkflow, "directory %s", directory)
	}
	return paths, nil
}

// Name extracts the workflow name from a path: the portion between the last
// slash (either kind) and the last dot.
func Name(path string) string {
	start := strings.LastIndexAny(path, `/\`) + 1
	end := strings.LastIndex(path, ".")
	if end < start {
		end = len(path)
	}
	return path[start:end]
}

// Parse reads one DAX workflow file into a task graph. Job elements become
// tasks with ids assigned in document order starting at 1 and length =
// runtime × 1000; child elements become edges. With the port constraint the
// per-job sending and receiving attributes become latencies. With
// addPseudoTask, a DAG with several entries or exits gains zero-cost pseudo
// tasks making it single-source and single-sink. Depths are assigned before
// returning.
func Parse(path string, hasPortConstraint, addPseudoTask bool) ([]*task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading workflow %s", path)
	}

	var document daxDocument
	if err := xml.Unmarshal(data, &document); err != nil {
		return nil, errors.Wrapf(err, "parsing workflow %s", path)
	}

	byName := make(map[string]*task.Task, len(document.Jobs))
	tasks := make([]*task.Task, 0, len(document.Jobs))
	for i, job := range document.Jobs {
		t, err := newTaskFromJob(i+1, job, hasPortConstraint)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing workflow %s", path)
		}
		byName[job.ID] = t
		tasks = append(tasks, t)
	}

	for _, child := range document.Children {
		childTask, ok := byName[child.Ref]
		if !ok {
			continue
		}
		for _, parent := range child.Parents {
			parentTask, ok := byName[parent.Ref]
			if !ok {
				continue
			}
			parentTask.AddChild(childTask)
			childTask.AddParent(parentTask)
		}
	}

	if addPseudoTask {
		tasks = AddPseudoTasks(tasks)
	}

	AssignDepths(Roots(tasks))
	return tasks, nil
}

func newTaskFromJob(id int, job daxJob, hasPortConstraint bool) (*task.Task, error) {
	length := 0.0
	if job.Runtime != "" {
		runtime, err := strconv.ParseFloat(job.Runtime, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "job %s: invalid runtime", job.ID)
		}
		length = 1000 * runtime
	}

	sendingLatency := 0.0
	receivingLatency := 0.0
	if hasPortConstraint {
		var err error
		if sendingLatency, err = strconv.ParseFloat(job.Sending, 64); err != nil {
			return nil, errors.Wrapf(err, "job %s: invalid sending latency", job.ID)
		}
		if receivingLatency, err = strconv.ParseFloat(job.Receiving, 64); err != nil {
			return nil, errors.Wrapf(err, "job %s: invalid receiving latency", job.ID)
		}
	}

	fileItems := make([]task.FileItem, 0, len(job.Uses))
	for _, uses := range job.Uses {
		item, err := newFileItem(uses)
		if err != nil {
			return nil, errors.Wrapf(err, "job %s", job.ID)
		}
		fileItems = append(fileItems, item)
	}

	return task.New(id, length, fileItems, sendingLatency, receivingLatency), nil
}

func newFileItem(uses daxUses) (task.FileItem, error) {
	name := uses.Name
	if name == "" {
		name = uses.File
	}
	size := 0.0
	if uses.Size != "" {
		parsed, err := strconv.ParseFloat(uses.Size, 64)
		if err != nil {
			return task.FileItem{}, errors.Wrapf(err, "file %s: invalid size", name)
		}
		size = parsed
	}
	fileType := task.FileTypeNone
	switch uses.Link {
	case "input":
		fileType = task.FileTypeInput
	case "output":
		fileType = task.FileTypeOutput
	}
	return task.FileItem{Name: name, Size: size, Type: fileType}, nil
}
