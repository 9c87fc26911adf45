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

package results

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Export writes the results as a pretty-printed JSON array to
// <directory>/<name>.json, creating the directory if needed.
func Export(schedulingResults []*SchedulingResult, directory, name string) error {
	log.WithFields(log.Fields{
		"results":   len(schedulingResults),
		"directory": directory,
		"name":      name,
	}).Info("exporting results")

	data, err := json.MarshalIndent(schedulingResults, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling results")
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", directory)
	}
	path := filepath.Join(directory, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing results to %s", path)
	}
	return nil
}
