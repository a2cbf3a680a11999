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
package main

import (
	"testing"

	"github.com/google/schedsim/sched"
)

func TestParseArgsSplitsKeyValueTokens(t *testing.T) {
	a := parseArgs([]string{"algorithm=RR", "cpus=2", "save_temp=true", "noequals", "workload=cpu_heavy"})

	if got, want := a.str("algorithm", ""), "RR"; got != want {
		t.Errorf("algorithm = %q, want %q", got, want)
	}
	if got, want := a.int("cpus", 0), 2; got != want {
		t.Errorf("cpus = %d, want %d", got, want)
	}
	if !a.boolean("save_temp", false) {
		t.Errorf("save_temp = false, want true")
	}
	if got, want := a.str("workload", ""), "cpu_heavy"; got != want {
		t.Errorf("workload = %q, want %q", got, want)
	}
	if _, ok := a["noequals"]; ok {
		t.Errorf("token without '=' should not produce a key, got entry for %q", "noequals")
	}
}

func TestArgsFallBackToDefaultsOnMissingOrMalformed(t *testing.T) {
	a := parseArgs([]string{"cpus=notanumber", "arrival_spacing=notanumber"})

	if got, want := a.int("cpus", 3), 3; got != want {
		t.Errorf("int() with malformed value = %d, want default %d", got, want)
	}
	if got, want := a.float("arrival_spacing", 5.0), 5.0; got != want {
		t.Errorf("float() with malformed value = %v, want default %v", got, want)
	}
	if got, want := a.str("missing", "fallback"), "fallback"; got != want {
		t.Errorf("str() with missing key = %q, want %q", got, want)
	}
	if got, want := a.int("missing", 7), 7; got != want {
		t.Errorf("int() with missing key = %d, want %d", got, want)
	}
}

func TestBooleanDefaultsToFalseForUnrecognizedValue(t *testing.T) {
	a := parseArgs([]string{"save_temp=yes"})
	if a.boolean("save_temp", false) {
		t.Errorf("boolean(%q) = true, want false for non true/false literal", "yes")
	}
}

func TestCloneProcessProducesIndependentState(t *testing.T) {
	orig, err := sched.NewProcess("P1", 0, 1, 4, []sched.Burst{
		{Kind: sched.CPUBurst, CPUTicks: 5},
		{Kind: sched.IOBurst, IOType: "disk", IODuration: 2},
	})
	if err != nil {
		t.Fatalf("NewProcess() failed: %v", err)
	}
	orig.Cursor = 1
	orig.RunningTime = 5
	orig.State = sched.Ready

	clone, err := cloneProcess(orig)
	if err != nil {
		t.Fatalf("cloneProcess() failed: %v", err)
	}
	if clone.Cursor != 0 || clone.RunningTime != 0 || clone.State != sched.New {
		t.Errorf("clone carried mutated state from orig: cursor=%d running=%d state=%v", clone.Cursor, clone.RunningTime, clone.State)
	}
	if clone.PID != orig.PID || clone.Priority != orig.Priority || clone.Quantum != orig.Quantum {
		t.Errorf("clone identity fields diverged from orig: %+v vs %+v", clone, orig)
	}
	if len(clone.Bursts) != len(orig.Bursts) {
		t.Fatalf("clone.Bursts has %d entries, want %d", len(clone.Bursts), len(orig.Bursts))
	}
}

func TestRunCompareSucceedsForKnownPolicies(t *testing.T) {
	procs := []*sched.Process{
		mustProcess(t, "P1", 0, 1, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 3}}),
		mustProcess(t, "P2", 1, 2, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 2}}),
	}
	if err := runCompare(procs, []string{"FCFS", "RR", "SJF"}, 1, 1); err != nil {
		t.Fatalf("runCompare() failed: %v", err)
	}
}

func TestRunCompareRejectsUnknownPolicy(t *testing.T) {
	procs := []*sched.Process{
		mustProcess(t, "P1", 0, 1, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 3}}),
	}
	if err := runCompare(procs, []string{"NotAPolicy"}, 1, 1); err == nil {
		t.Errorf("runCompare() with unknown policy succeeded, want error")
	}
}

func mustProcess(t *testing.T, pid sched.PID, arrival, priority, quantum int, bursts []sched.Burst) *sched.Process {
	t.Helper()
	p, err := sched.NewProcess(pid, arrival, priority, quantum, bursts)
	if err != nil {
		t.Fatalf("NewProcess(%s) failed: %v", pid, err)
	}
	return p
}
