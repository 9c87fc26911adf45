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

// Package environment loads the simulation environment: the constraint flags
// and the processor scenarios the driver sweeps.
package environment

import (
	"encoding/xml"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
)

// Setting is the parsed environment: the constraint flags and one processor
// list per scenario. MockData is parsed for completeness but exercises no
// behaviour.
type Setting struct {
	PortConstraint bool
	PseudoTask     bool
	MockData       bool
	Scenarios      [][]*processor.Processor
}

type envConstraint struct {
	PortConstraint string `xml:"portConstraint,attr"`
	PseudoTask     string `xml:"pseudoTask,attr"`
	MockData       string `xml:"mockData,attr"`
}

type envHost struct {
	MIPS      string `xml:"mips,attr"`
	Bandwidth string `xml:"bandwidth,attr"`
	Cost      string `xml:"cost,attr"`
}

type envDevice struct {
	XMLName xml.Name
	Name    string    `xml:"name,attr"`
	Hosts   []envHost `xml:",any"`
}

type envScenario struct {
	Devices []envDevice `xml:",any"`
}

type envRoot struct {
	Constraints []envConstraint `xml:"constraint"`
	Scenarios   []envScenario   `xml:"scenario"`
}

// Load parses the environment XML at path. Every scenario element yields one
// processor list; each device's hosts are named "<device>-<index>" with ids
// restarting per device.
func Load(path string) (*Setting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading environment setting %s", path)
	}

	var root envRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrapf(err, "parsing environment setting %s", path)
	}

	setting := &Setting{}
	for _, constraint := range root.Constraints {
		setting.PortConstraint = constraint.PortConstraint == "true"
		setting.PseudoTask = constraint.PseudoTask == "true"
		setting.MockData = constraint.MockData == "true"
	}

	for _, scenario := range root.Scenarios {
		var processors []*processor.Processor
		for _, device := range scenario.Devices {
			deviceName := device.Name
			if deviceName == "" {
				deviceName = device.XMLName.Local
			}
			for i, host := range device.Hosts {
				p, err := newProcessor(i, deviceName, host)
				if err != nil {
					return nil, errors.Wrapf(err, "parsing environment setting %s", path)
				}
				processors = append(processors, p)
			}
		}
		setting.Scenarios = append(setting.Scenarios, processors)
	}

	return setting, nil
}

func newProcessor(index int, deviceName string, host envHost) (*processor.Processor, error) {
	mips, err := strconv.ParseFloat(host.MIPS, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "device %s: invalid mips", deviceName)
	}
	bandwidth, err := strconv.ParseFloat(host.Bandwidth, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "device %s: invalid bandwidth", deviceName)
	}
	costPerMIPS, err := strconv.ParseFloat(host.Cost, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "device %s: invalid cost", deviceName)
	}
	name := deviceName + "-" + strconv.Itoa(index)
	return processor.New(index, name, mips, bandwidth, costPerMIPS), nil
}
