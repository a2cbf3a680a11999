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

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEventJSONRoundTrip(t *testing.T) {
	want := Event{
		Time:       3,
		Event:      "P1 dispatched to CPU0",
		EventType:  EventDispatchCPU,
		Process:    "P1",
		Device:     "CPU0",
		ReadyQueue: []PID{"P2", "P3"},
		WaitQueue:  nil,
		CPUs:       []PID{"P1"},
		IOs:        []PID{""},
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	var got Event
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEventString(t *testing.T) {
	e := Event{Time: 2, EventType: EventFinished, Process: "P1", Device: "CPU0"}
	got := e.String()
	want := "t=2 finished process=P1 device=CPU0"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
