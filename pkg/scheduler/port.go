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

package scheduler

import "math"

// Timeslot is a reserved send or receive interval on a host's single I/O
// port.
type Timeslot struct {
	StartTime  float64
	FinishTime float64
}

// portOverlapBuffer is the minimum allowable gap between any two send/receive
// phases on a single-port host.
const portOverlapBuffer = 1.0

// AvoidPortCollision returns the earliest ready time, no earlier than
// readyTime, at which a task with the given computation cost and send/receive
// latencies touches no reserved timeslot expanded by the overlap buffer. On a
// collision the ready time bumps to the colliding slot's buffered finish and
// the scan restarts. Zero-cost pseudo tasks and empty reservation lists pass
// through untouched.
func AvoidPortCollision(timeslots []Timeslot, readyTime, computationCost, sendingLatency, receivingLatency float64) float64 {
	if len(timeslots) == 0 || computationCost == 0 {
		return readyTime
	}

	for {
		collided := false
		sendingTime := readyTime + sendingLatency
		finishTime := sendingTime + computationCost
		receivingTime := finishTime + receivingLatency

		for _, slot := range timeslots {
			start := slot.StartTime - portOverlapBuffer
			finish := slot.FinishTime + portOverlapBuffer
			if math.Max(readyTime, start) < math.Min(receivingTime, finish) {
				collided = true
				readyTime = finish
				break
			}
		}
		if !collided {
			return readyTime
		}
	}
}
