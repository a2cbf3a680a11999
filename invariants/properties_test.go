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
package invariants

import (
	"testing"

	"github.com/google/schedsim/sched"
)

func mustProcess(t *testing.T, pid sched.PID, arrival, priority, quantum int, bursts []sched.Burst) *sched.Process {
	t.Helper()
	p, err := sched.NewProcess(pid, arrival, priority, quantum, bursts)
	if err != nil {
		t.Fatalf("NewProcess(%s) failed: %v", pid, err)
	}
	return p
}

func runToCompletion(t *testing.T, policy sched.Policy, numCPUs, numIOs int, procs []*sched.Process) *sched.Scheduler {
	t.Helper()
	s, err := sched.New(sched.WithPolicy(policy), sched.WithCPUs(numCPUs), sched.WithIOs(numIOs))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	for _, p := range procs {
		if err := s.AddProcess(p); err != nil {
			t.Fatalf("AddProcess(%s) failed: %v", p.PID, err)
		}
	}
	s.Run()
	return s
}

func TestCheckFCFSDispatchOrderOnS1(t *testing.T) {
	p1 := mustProcess(t, "P1", 0, 0, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 3}})
	p2 := mustProcess(t, "P2", 1, 0, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 2}})
	s := runToCompletion(t, sched.FCFS, 1, 1, []*sched.Process{p1, p2})

	arrival := map[sched.PID]int{"P1": 0, "P2": 1}
	if err := CheckFCFSDispatchOrder(s.Events(), arrival); err != nil {
		t.Errorf("CheckFCFSDispatchOrder() = %v, want nil", err)
	}
}

func TestCheckFCFSDispatchOrderCatchesViolation(t *testing.T) {
	events := []sched.Event{
		{Time: 0, EventType: sched.EventDispatchCPU, Process: "P2"},
		{Time: 2, EventType: sched.EventDispatchCPU, Process: "P1"},
	}
	arrival := map[sched.PID]int{"P1": 0, "P2": 1}
	if err := CheckFCFSDispatchOrder(events, arrival); err == nil {
		t.Errorf("CheckFCFSDispatchOrder() = nil, want a violation (P2 arrived after P1 but dispatched first)")
	}
}

func TestCheckRRQuantumBoundOnS4(t *testing.T) {
	p1 := mustProcess(t, "P1", 0, 0, 2, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 5}})
	p2 := mustProcess(t, "P2", 0, 0, 2, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 3}})
	s := runToCompletion(t, sched.RR, 1, 1, []*sched.Process{p1, p2})

	quantum := map[sched.PID]int{"P1": 2, "P2": 2}
	if err := CheckRRQuantumBound(s.Events(), quantum); err != nil {
		t.Errorf("CheckRRQuantumBound() = %v, want nil", err)
	}
}

func TestCheckPriorityOrderingOnPriorityPolicy(t *testing.T) {
	p1 := mustProcess(t, "P1", 0, 5, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 3}})
	p2 := mustProcess(t, "P2", 0, 1, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 3}})
	s := runToCompletion(t, sched.Priority, 1, 1, []*sched.Process{p1, p2})

	priority := map[sched.PID]int{"P1": 5, "P2": 1}
	if err := CheckPriorityOrdering(s.Events(), priority); err != nil {
		t.Errorf("CheckPriorityOrdering() = %v, want nil", err)
	}
}

func TestCheckExactlyOneLocationOnS6(t *testing.T) {
	p1 := mustProcess(t, "P1", 0, 0, 10, []sched.Burst{
		{Kind: sched.CPUBurst, CPUTicks: 2},
		{Kind: sched.IOBurst, IOType: "disk", IODuration: 3},
		{Kind: sched.CPUBurst, CPUTicks: 1},
	})
	s := runToCompletion(t, sched.RR, 1, 1, []*sched.Process{p1})

	if err := CheckExactlyOneLocation(s.Events()); err != nil {
		t.Errorf("CheckExactlyOneLocation() = %v, want nil", err)
	}
}

func TestCheckCPUBudgetConservationAndAllFinished(t *testing.T) {
	p1 := mustProcess(t, "P1", 0, 0, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 3}})
	p2 := mustProcess(t, "P2", 1, 0, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 2}})
	s := runToCompletion(t, sched.FCFS, 1, 1, []*sched.Process{p1, p2})

	if err := CheckCPUBudgetConservation(s.AllProcesses()); err != nil {
		t.Errorf("CheckCPUBudgetConservation() = %v, want nil", err)
	}
	if err := CheckAllFinished(s.AllProcesses()); err != nil {
		t.Errorf("CheckAllFinished() = %v, want nil", err)
	}
}

func TestCheckTerminatesOnS1(t *testing.T) {
	p1 := mustProcess(t, "P1", 0, 0, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 3}})
	p2 := mustProcess(t, "P2", 1, 0, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 2}})
	s := runToCompletion(t, sched.FCFS, 1, 1, []*sched.Process{p1, p2})

	if err := CheckTerminates(s.AllProcesses(), s.Now(), 0); err != nil {
		t.Errorf("CheckTerminates() = %v, want nil", err)
	}
}
