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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetReadyTime_is_monotone(t *testing.T) {
	p := New(0, "device-0", 1000, 100, 0.5)

	p.SetReadyTime(10)
	p.SetReadyTime(5)

	assert.Equal(t, 10.0, p.ReadyTime())
}

func TestReset_clears_mutable_state(t *testing.T) {
	p := New(0, "device-0", 1000, 100, 0.5)
	p.SetReadyTime(10)
	p.SetEstimatedReadyTime(12)
	p.AddRunningTime(7)

	p.Reset()

	assert.Zero(t, p.ReadyTime())
	assert.Zero(t, p.EstimatedReadyTime())
	assert.Zero(t, p.RunningTime())
}
