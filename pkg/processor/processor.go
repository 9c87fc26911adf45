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

package processor

// Processor is a compute host in a scheduling scenario. MIPS is the compute
// rate, Bandwidth the link rate in megabits per second. The mutable ready and
// running times are per-run state and are cleared by Reset between algorithm
// runs.
type Processor struct {
	ID          int
	Name        string
	MIPS        float64
	Bandwidth   float64
	CostPerMIPS float64

	readyTime          float64
	estimatedReadyTime float64
	runningTime        float64
}

// New creates a processor with the given specification.
func New(id int, name string, mips, bandwidth, costPerMIPS float64) *Processor {
	return &Processor{
		ID:          id,
		Name:        name,
		MIPS:        mips,
		Bandwidth:   bandwidth,
		CostPerMIPS: costPerMIPS,
	}
}

// ReadyTime returns the committed ready time.
func (p *Processor) ReadyTime() float64 {
	return p.readyTime
}

// SetReadyTime advances the committed ready time. The ready time is monotone
// non-decreasing: a value earlier than the current one is ignored.
func (p *Processor) SetReadyTime(readyTime float64) {
	if readyTime > p.readyTime {
		p.readyTime = readyTime
	}
}

// EstimatedReadyTime returns the ready time seen during processor selection,
// equal to the estimated finish of the last task placed on this processor.
func (p *Processor) EstimatedReadyTime() float64 {
	return p.estimatedReadyTime
}

// SetEstimatedReadyTime overwrites the estimated ready time.
func (p *Processor) SetEstimatedReadyTime(estimatedReadyTime float64) {
	p.estimatedReadyTime = estimatedReadyTime
}

// RunningTime returns the accumulated busy time.
func (p *Processor) RunningTime() float64 {
	return p.runningTime
}

// AddRunningTime accumulates busy time.
func (p *Processor) AddRunningTime(runningTime float64) {
	p.runningTime += runningTime
}

// Reset clears the per-run mutable state.
func (p *Processor) Reset() {
	p.readyTime = 0
	p.estimatedReadyTime = 0
	p.runningTime = 0
}
