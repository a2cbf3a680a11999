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

func TestIODeviceTickDecrementsAndCompletes(t *testing.T) {
	d := NewIODevice(0)
	p, err := NewProcess("P1", 0, 1, 4, []Burst{{Kind: IOBurst, IOType: "disk", IODuration: 2}})
	if err != nil {
		t.Fatalf("NewProcess() failed: %v", err)
	}
	d.Assign(p)

	if _, done := d.Tick(); done {
		t.Fatalf("Tick() reported done after the first of two ticks")
	}
	if p.IOWaitTime != 1 {
		t.Errorf("IOWaitTime = %d, want 1", p.IOWaitTime)
	}

	got, done := d.Tick()
	if !done || got != p {
		t.Fatalf("Tick() = %v, %v, want (p, true) on burst exhaustion", got, done)
	}
	if p.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", p.Cursor)
	}
	if d.IsBusy() {
		t.Errorf("device still busy after burst exhaustion")
	}
}

func TestIODeviceLabel(t *testing.T) {
	if got, want := NewIODevice(3).Label(), "IO3"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}
