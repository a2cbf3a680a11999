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

import "testing"

func TestCPUTickDecrementsAndCompletes(t *testing.T) {
	c := NewCPU(0)
	if c.IsBusy() {
		t.Fatalf("new CPU reports busy")
	}
	p, err := NewProcess("P1", 0, 1, 4, []Burst{{Kind: CPUBurst, CPUTicks: 2}})
	if err != nil {
		t.Fatalf("NewProcess() failed: %v", err)
	}
	c.Assign(p)
	if !c.IsBusy() || c.Current() != p {
		t.Fatalf("Assign() did not make the CPU busy with p")
	}

	if _, done := c.Tick(); done {
		t.Fatalf("Tick() reported done after the first of two ticks")
	}
	if p.RunningTime != 1 {
		t.Errorf("RunningTime = %d, want 1", p.RunningTime)
	}

	got, done := c.Tick()
	if !done || got != p {
		t.Fatalf("Tick() = %v, %v, want (p, true) on burst exhaustion", got, done)
	}
	if p.RunningTime != 2 {
		t.Errorf("RunningTime = %d, want 2", p.RunningTime)
	}
	if p.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", p.Cursor)
	}
	if c.IsBusy() {
		t.Errorf("CPU still busy after burst exhaustion")
	}
}

func TestCPUAssignWhileBusyPanics(t *testing.T) {
	c := NewCPU(0)
	p1, _ := NewProcess("P1", 0, 1, 4, []Burst{{Kind: CPUBurst, CPUTicks: 2}})
	p2, _ := NewProcess("P2", 0, 1, 4, []Burst{{Kind: CPUBurst, CPUTicks: 2}})
	c.Assign(p1)

	defer func() {
		if recover() == nil {
			t.Fatalf("Assign() on a busy CPU did not panic")
		}
	}()
	c.Assign(p2)
}
