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
	"container/list"
	"sort"
)

// Policy selects the ready-queue insertion/selection discipline (§4.4).
type Policy int8

const (
	// FCFS dispatches strictly in arrival order.
	FCFS Policy = iota
	// SJF dispatches the process with the shortest current CPU burst.
	SJF
	// SRTF is preemptive SJF over total remaining CPU time.
	SRTF
	// Priority dispatches the lowest-priority-value process first,
	// non-preemptively.
	Priority
	// PriorityPreemptive is Priority, but a higher-priority arrival on the
	// ready queue preempts the running process immediately.
	PriorityPreemptive
	// RR is Round Robin: FIFO with a bounded per-dispatch quantum.
	RR
)

func (p Policy) String() string {
	switch p {
	case FCFS:
		return "FCFS"
	case SJF:
		return "SJF"
	case SRTF:
		return "SRTF"
	case Priority:
		return "Priority"
	case PriorityPreemptive:
		return "PriorityPreemptive"
	case RR:
		return "RR"
	default:
		return "unknown"
	}
}

// ParsePolicy parses one of the six algorithm names. Unknown names are a
// configuration error (§7); callers decide whether to fall back to RR or
// exit.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "FCFS":
		return FCFS, nil
	case "SJF":
		return SJF, nil
	case "SRTF":
		return SRTF, nil
	case "Priority":
		return Priority, nil
	case "PriorityPreemptive":
		return PriorityPreemptive, nil
	case "RR":
		return RR, nil
	default:
		return 0, configErrorf("scheduler", "unknown algorithm %q", s)
	}
}

// preemptive reports whether the policy preempts a running process from
// the ready queue (step 4 of §4.5).
func (p Policy) preemptive() bool {
	return p == SRTF || p == PriorityPreemptive
}

// queue is the common shape of the ready queue (policy-ordered) and the
// wait queue (always plain FIFO, §4.5 step 7).
type queue interface {
	insert(p *Process)
	popFront() (*Process, bool)
	peek() (*Process, bool)
	pids() []PID
	all() []*Process
	len() int
}

// fifoQueue is a plain FIFO: append at the tail, pop from the head. Used
// for RR's ready queue and unconditionally for the wait queue, since I/O
// dispatch is FIFO regardless of the active CPU policy.
type fifoQueue struct {
	l *list.List
}

func newFIFOQueue() *fifoQueue {
	return &fifoQueue{l: list.New()}
}

func (q *fifoQueue) insert(p *Process) {
	q.l.PushBack(p)
}

func (q *fifoQueue) popFront() (*Process, bool) {
	e := q.l.Front()
	if e == nil {
		return nil, false
	}
	q.l.Remove(e)
	return e.Value.(*Process), true
}

func (q *fifoQueue) peek() (*Process, bool) {
	e := q.l.Front()
	if e == nil {
		return nil, false
	}
	return e.Value.(*Process), true
}

func (q *fifoQueue) pids() []PID {
	out := make([]PID, 0, q.l.Len())
	for e := q.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Process).PID)
	}
	return out
}

func (q *fifoQueue) all() []*Process {
	out := make([]*Process, 0, q.l.Len())
	for e := q.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Process))
	}
	return out
}

func (q *fifoQueue) len() int {
	return q.l.Len()
}

// orderedQueue keeps a slice sorted ascending by the policy's key
// function, with ties broken by insertion order (§4.4 "stable under
// ties"). Selection is always pop-head, which the reference design notes
// (§9) is observably equivalent to a linear scan for the minimum.
type orderedQueue struct {
	policy Policy
	items  []*Process
}

func newOrderedQueue(policy Policy) *orderedQueue {
	return &orderedQueue{policy: policy}
}

// key computes the ordering value for p under this queue's policy.
func (q *orderedQueue) key(p *Process) int {
	switch q.policy {
	case SJF:
		return p.currentCPUBurstLength()
	case SRTF:
		return p.RemainingBurstTime()
	case Priority, PriorityPreemptive:
		return p.Priority
	default: // FCFS
		return p.ArrivalTime
	}
}

func (q *orderedQueue) insert(p *Process) {
	k := q.key(p)
	// First index whose key is strictly greater than k: inserting there
	// keeps equal keys in arrival/insertion order (stable, §4.4).
	idx := sort.Search(len(q.items), func(i int) bool {
		return q.key(q.items[i]) > k
	})
	q.items = append(q.items, nil)
	copy(q.items[idx+1:], q.items[idx:])
	q.items[idx] = p
}

func (q *orderedQueue) popFront() (*Process, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	p := q.items[0]
	q.items = q.items[1:]
	return p, true
}

func (q *orderedQueue) peek() (*Process, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

func (q *orderedQueue) pids() []PID {
	out := make([]PID, 0, len(q.items))
	for _, p := range q.items {
		out = append(out, p.PID)
	}
	return out
}

func (q *orderedQueue) all() []*Process {
	out := make([]*Process, len(q.items))
	copy(out, q.items)
	return out
}

func (q *orderedQueue) len() int {
	return len(q.items)
}

// newReadyQueue returns the ready-queue implementation appropriate for
// policy: a plain FIFO under RR, an ordered queue otherwise.
func newReadyQueue(policy Policy) queue {
	if policy == RR {
		return newFIFOQueue()
	}
	return newOrderedQueue(policy)
}
