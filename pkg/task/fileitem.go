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

// FileType classifies a file item relative to its owning task.
type FileType int

const (
	// FileTypeNone marks a file that is neither consumed nor produced.
	FileTypeNone FileType = iota
	// FileTypeInput marks a file consumed by the task.
	FileTypeInput
	// FileTypeOutput marks a file produced by the task.
	FileTypeOutput
)

// FileItem is a file transferred between a producing and a consuming task.
// Size is in bytes.
type FileItem struct {
	Name string
	Size float64
	Type FileType
}
