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
	"fmt"

	"github.com/ilhamster/ltl/pkg/ltl"
	"github.com/ilhamster/ltl/pkg/operators"

	"github.com/google/schedsim/sched"
)

// Trace is an event log under property check, paired with the tokens an
// EventMatcher-built ltl.Operator consumes.
type Trace struct {
	events []sched.Event
	tokens []ltl.Token
	gen    func(s string) (ltl.Operator, error)
}

// NewTrace wraps events for property checking.
func NewTrace(events []sched.Event) *Trace {
	return &Trace{events: events, tokens: Tokens(events), gen: Generator(events)}
}

// tm builds an EventMatcher ltl.Operator from a matcher string, panicking
// on malformed input: property definitions below are fixed string
// literals, so a parse failure is a programming error, not a runtime one.
func (tr *Trace) tm(s string) ltl.Operator {
	op, err := tr.gen(s)
	if err != nil {
		panic(fmt.Sprintf("invariants: invalid matcher %q: %v", s, err))
	}
	return op
}

// existsFrom reports whether op matches some suffix of tokens starting at
// or after start.
func (tr *Trace) existsFrom(start int, op ltl.Operator) (bool, error) {
	for i := start; i < len(tr.tokens); i++ {
		cur := op
		var env ltl.Environment
		for _, tok := range tr.tokens[i:] {
			if cur == nil {
				break
			}
			cur, env = ltl.Match(cur, tok)
			if env.Err() != nil {
				return false, env.Err()
			}
			if env.Matching() {
				return true, nil
			}
		}
	}
	return false, nil
}

// CheckRRQuantumBound encodes spec.md §8 property 5: no process runs for
// more than quantum consecutive ticks on a CPU without being reinserted
// into a queue. For each dispatch_cpu event of p, an interrupting event
// for p (cpu_to_ready, preempted, cpu_to_io, or finished) must follow
// within quantum ticks (ops.Limit bounds how many tokens the eventual
// match may consume, mirroring the teacher's own use of
// ops.Limit(n, ops.Eventually(...)) to bound a search window).
func CheckRRQuantumBound(events []sched.Event, quantum map[sched.PID]int) error {
	tr := NewTrace(events)
	for i, e := range events {
		if e.EventType != sched.EventDispatchCPU {
			continue
		}
		q, ok := quantum[e.Process]
		if !ok {
			continue
		}
		// "event_type is one of {cpu_to_ready, preempted, cpu_to_io,
		// finished}" expressed via De Morgan, since the matcher grammar
		// only exposes equality and the operators package only exposes
		// And/Not/Then/Eventually/Limit combinators.
		notAnyInterrupt := operators.And(
			operators.Not(tr.tm(fmt.Sprintf("event.event_type=%s", sched.EventCPUToReady))),
			operators.And(
				operators.Not(tr.tm(fmt.Sprintf("event.event_type=%s", sched.EventPreempted))),
				operators.And(
					operators.Not(tr.tm(fmt.Sprintf("event.event_type=%s", sched.EventCPUToIO))),
					operators.Not(tr.tm(fmt.Sprintf("event.event_type=%s", sched.EventFinished))),
				),
			),
		)
		op := operators.Limit(q, operators.Eventually(operators.And(
			tr.tm(fmt.Sprintf("event.process=%s", e.Process)),
			operators.Not(notAnyInterrupt),
		)))
		matched, err := tr.existsFrom(i, op)
		if err != nil {
			return fmt.Errorf("invariants: checking RR quantum bound at dispatch of %s@%d: %v", e.Process, e.Time, err)
		}
		if !matched {
			return fmt.Errorf("invariants: %s dispatched at tick %d ran more than quantum=%d ticks without reinsertion", e.Process, e.Time, q)
		}
	}
	return nil
}

// CheckFCFSDispatchOrder encodes spec.md §8 property 3: under FCFS, the
// sequence of dispatch_cpu events is consistent with ascending
// arrival_time of the dispatched processes (ties by insertion order, so
// equal arrival times may dispatch in either order relative to each
// other but never out of order relative to a later-arriving process).
func CheckFCFSDispatchOrder(events []sched.Event, arrival map[sched.PID]int) error {
	lastArrival := -1
	for _, e := range events {
		if e.EventType != sched.EventDispatchCPU {
			continue
		}
		a, ok := arrival[e.Process]
		if !ok {
			continue
		}
		if a < lastArrival {
			return fmt.Errorf("invariants: %s (arrival=%d) dispatched after a process with later arrival=%d", e.Process, a, lastArrival)
		}
		lastArrival = a
	}
	return nil
}

// CheckPriorityOrdering encodes spec.md §8 property 4: for non-preemptive
// Priority, at every dispatch_cpu event no process with a strictly lower
// (i.e. higher-priority) priority value is sitting in that event's
// ready-queue snapshot.
func CheckPriorityOrdering(events []sched.Event, priority map[sched.PID]int) error {
	for _, e := range events {
		if e.EventType != sched.EventDispatchCPU {
			continue
		}
		dispatched, ok := priority[e.Process]
		if !ok {
			continue
		}
		for _, waiting := range e.ReadyQueue {
			if p, ok := priority[waiting]; ok && p < dispatched {
				return fmt.Errorf("invariants: %s (priority=%d) dispatched at tick %d while higher-priority %s (priority=%d) sat in the ready queue", e.Process, dispatched, e.Time, waiting, p)
			}
		}
	}
	return nil
}

// CheckExactlyOneLocation encodes spec.md §8 universal invariant 1: at
// every recorded event, a process named anywhere in that event's queue
// and device snapshots appears in exactly one of them.
func CheckExactlyOneLocation(events []sched.Event) error {
	for _, e := range events {
		seen := map[sched.PID]string{}
		note := func(pid sched.PID, where string) error {
			if pid == "" {
				return nil
			}
			if prev, ok := seen[pid]; ok {
				return fmt.Errorf("invariants: at tick %d, %s appears in both %s and %s", e.Time, pid, prev, where)
			}
			seen[pid] = where
			return nil
		}
		for _, pid := range e.ReadyQueue {
			if err := note(pid, "ready_queue"); err != nil {
				return err
			}
		}
		for _, pid := range e.WaitQueue {
			if err := note(pid, "wait_queue"); err != nil {
				return err
			}
		}
		for _, pid := range e.CPUs {
			if err := note(pid, "cpus"); err != nil {
				return err
			}
		}
		for _, pid := range e.IOs {
			if err := note(pid, "ios"); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckCPUBudgetConservation encodes spec.md §8 universal invariant 2:
// for every process, time actually spent running never exceeds the sum
// of its originally assigned CPU burst lengths, with equality once
// finished.
func CheckCPUBudgetConservation(procs []*sched.Process) error {
	for _, p := range procs {
		total := p.TotalCPUTime()
		if p.RunningTime > total {
			return fmt.Errorf("invariants: %s ran %d ticks, exceeding its total assigned CPU time %d", p.PID, p.RunningTime, total)
		}
		if p.State == sched.Finished && p.RunningTime != total {
			return fmt.Errorf("invariants: %s finished having run %d ticks, want exactly %d", p.PID, p.RunningTime, total)
		}
	}
	return nil
}

// CheckTerminates encodes spec.md §8 universal invariant 6: the
// simulation terminates within the stated tick bound.
func CheckTerminates(procs []*sched.Process, totalTicks, waitingContentionFactor int) error {
	sumCPU, sumIO := 0, 0
	for _, p := range procs {
		for _, b := range p.Bursts {
			if b.Kind == sched.CPUBurst {
				sumCPU += b.CPUTicks
			} else {
				sumIO += b.IODuration
			}
		}
	}
	bound := sumCPU + sumIO*(1+waitingContentionFactor)
	if totalTicks > bound {
		return fmt.Errorf("invariants: simulation ran %d ticks, exceeding bound %d (cpu=%d io=%d factor=%d)", totalTicks, bound, sumCPU, sumIO, waitingContentionFactor)
	}
	return nil
}

// CheckAllFinished reports processes that never reached the Finished
// state; useful alongside CheckTerminates to confirm a run actually
// drained its workload rather than merely stopping early.
func CheckAllFinished(procs []*sched.Process) error {
	for _, p := range procs {
		if p.State != sched.Finished {
			return fmt.Errorf("invariants: %s ended in state %s, want finished", p.PID, p.State)
		}
	}
	return nil
}
