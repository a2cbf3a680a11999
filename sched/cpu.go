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
package sched

import "fmt"

// CPU holds at most one running Process and decrements its current CPU
// burst once per tick.
type CPU struct {
	id      int
	current *Process
}

// NewCPU returns an idle CPU identified by id (0-indexed).
func NewCPU(id int) *CPU {
	return &CPU{id: id}
}

// Label is the device identifier used in event records, e.g. "CPU0".
func (c *CPU) Label() string {
	return fmt.Sprintf("CPU%d", c.id)
}

// IsBusy reports whether the CPU currently holds a process.
func (c *CPU) IsBusy() bool {
	return c.current != nil
}

// Current returns the process currently running on this CPU, or nil.
func (c *CPU) Current() *Process {
	return c.current
}

// Assign places p on this CPU. It is a precondition that the CPU was
// idle; violating it is an invariant violation (§7), not a recoverable
// error.
func (c *CPU) Assign(p *Process) {
	assertInvariant(c.current == nil, "scheduler", "CPU%d assigned while busy", c.id)
	c.current = p
}

// clear forcibly vacates the CPU, used by preemption.
func (c *CPU) clear() {
	c.current = nil
}

// Tick decrements the current CPU burst's remaining ticks by one. If the
// burst reaches zero, it advances the process's cursor, clears the CPU,
// and returns the formerly-running process with ok=true so the scheduler
// can route it to its next state. Otherwise returns (nil, false).
func (c *CPU) Tick() (*Process, bool) {
	if c.current == nil {
		return nil, false
	}
	p := c.current
	b, ok := p.CurrentBurst()
	assertInvariant(ok && b.Kind == CPUBurst, "scheduler", "CPU%d ticked a process %s not on a CPU burst", c.id, p.PID)
	assertInvariant(b.CPUTicks > 0, "scheduler", "CPU%d ticked process %s with zero remaining CPU ticks", c.id, p.PID)

	b.CPUTicks--
	p.RunningTime++
	if b.CPUTicks > 0 {
		return nil, false
	}
	p.Cursor++
	c.current = nil
	return p, true
}
