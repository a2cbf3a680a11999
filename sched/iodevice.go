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

// IODevice holds at most one process performing I/O and decrements its
// current I/O burst's duration once per tick. Symmetric to CPU.
type IODevice struct {
	id      int
	current *Process
}

// NewIODevice returns an idle I/O device identified by id (0-indexed).
func NewIODevice(id int) *IODevice {
	return &IODevice{id: id}
}

// Label is the device identifier used in event records, e.g. "IO0".
func (d *IODevice) Label() string {
	return fmt.Sprintf("IO%d", d.id)
}

// IsBusy reports whether the device currently holds a process.
func (d *IODevice) IsBusy() bool {
	return d.current != nil
}

// Current returns the process currently performing I/O on this device, or
// nil.
func (d *IODevice) Current() *Process {
	return d.current
}

// Assign places p on this device. Precondition: the device was idle.
func (d *IODevice) Assign(p *Process) {
	assertInvariant(d.current == nil, "scheduler", "IO%d assigned while busy", d.id)
	d.current = p
}

// Tick decrements the current I/O burst's remaining duration by one. If
// it reaches zero, advances the cursor, clears the device, and returns
// the process with ok=true.
func (d *IODevice) Tick() (*Process, bool) {
	if d.current == nil {
		return nil, false
	}
	p := d.current
	b, ok := p.CurrentBurst()
	assertInvariant(ok && b.Kind == IOBurst, "scheduler", "IO%d ticked a process %s not on an I/O burst", d.id, p.PID)
	assertInvariant(b.IODuration > 0, "scheduler", "IO%d ticked process %s with zero remaining I/O duration", d.id, p.PID)

	b.IODuration--
	p.IOWaitTime++
	if b.IODuration > 0 {
		return nil, false
	}
	p.Cursor++
	d.current = nil
	return p, true
}
