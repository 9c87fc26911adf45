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

package algorithm

import (
	"github.com/pkg/errors"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/rank"
)

// Name identifies a scheduling policy.
type Name string

const (
	// NameHEFT is Heterogeneous Earliest Finish Time.
	NameHEFT = Name("HEFT")
	// NameCPOP is Critical Path on a Processor.
	NameCPOP = Name("CPOP")
	// NameHSV is Heterogeneous Selection Value.
	NameHSV = Name("HSV")
	// NamePPTS is Predict Priority Task Scheduling.
	NamePPTS = Name("PPTS")
	// NamePEFT is Predict Earliest Finish Time.
	NamePEFT = Name("PEFT")
	// NameIPEFT is Improved Predict Earliest Finish Time.
	NameIPEFT = Name("IPEFT")
	// NameIPPTS is Improved Predict Priority Task Scheduling.
	NameIPPTS = Name("IPPTS")
	// NamePETS is Performance Effective Task Scheduling.
	NamePETS = Name("PETS")
)

// DefaultNames is the policy set the driver sweeps when the configuration
// names none.
var DefaultNames = []Name{
	NameHEFT,
	NameCPOP,
	NameHSV,
	NamePPTS,
	NamePEFT,
	NameIPEFT,
	NameIPPTS,
}

// New creates the named policy over the given priority tables. Policies keep
// internal per-run caches, so create fresh instances for every run.
func New(name Name, ranks *rank.Tables, calc *cost.Calculator) (Algorithm, error) {
	switch name {
	case NameHEFT:
		return NewHEFT(ranks, calc), nil
	case NameCPOP:
		return NewCPOP(ranks, calc), nil
	case NameHSV:
		return NewHSV(ranks, calc), nil
	case NamePPTS:
		return NewPPTS(ranks, calc), nil
	case NamePEFT:
		return NewPEFT(ranks, calc), nil
	case NameIPEFT:
		return NewIPEFT(ranks, calc), nil
	case NameIPPTS:
		return NewIPPTS(ranks, calc), nil
	case NamePETS:
		return NewPETS(calc), nil
	default:
		return nil, errors.Errorf("unknown scheduling algorithm %q", name)
	}
}
