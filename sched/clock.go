//
// Copyright 2019 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS-IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
//
// Package sched implements a discrete-time, multi-resource process
// scheduler simulator: a shared Clock, Process state machine, CPU and I/O
// resource pools, and a Scheduler that advances them tick by tick under a
// configurable dispatch policy, emitting a structured event log.
package sched

// Clock is a monotonic integer tick counter shared by a single Scheduler
// and the resources it owns. Exactly one Clock exists per simulation; CPUs
// and I/O devices never hold their own clock, they are simply ticked by
// the Scheduler once per Step.
type Clock struct {
	now int
}

// NewClock returns a Clock initialized to tick zero.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current tick.
func (c *Clock) Now() int {
	return c.now
}

// Tick advances the clock by one tick.
func (c *Clock) Tick() {
	c.now++
}

// Reset returns the clock to tick zero.
func (c *Clock) Reset() {
	c.now = 0
}
