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
	"fmt"
	"sort"
)

// Scheduler orchestrates arrivals, queues, dispatch, preemption, and
// completion under a configured Policy (§4.5), advancing a single shared
// Clock and emitting a structured Event for every state-change-worthy
// action. It is the sole mutator of the clock, both queues, and every
// CPU/IO device; there is no external concurrent writer (§5).
type Scheduler struct {
	clock  *Clock
	policy Policy

	cpus []*CPU
	ios  []*IODevice

	// future holds not-yet-admitted processes, sorted ascending by
	// ArrivalTime so admission only ever inspects the head.
	future []*Process

	ready queue
	wait  queue

	finished  []*Process
	processes map[PID]*Process

	events []Event
}

// New constructs a Scheduler from opts. Defaults match §6: policy RR, 1
// CPU, 1 I/O device.
func New(opts ...Option) (*Scheduler, error) {
	o := &schedulerOptions{policy: RR, numCPUs: 1, numIOs: 1}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.numCPUs <= 0 {
		o.numCPUs = 1
	}
	if o.numIOs <= 0 {
		o.numIOs = 1
	}
	s := &Scheduler{
		clock:     NewClock(),
		policy:    o.policy,
		ready:     newReadyQueue(o.policy),
		wait:      newFIFOQueue(),
		processes: make(map[PID]*Process),
	}
	for i := 0; i < o.numCPUs; i++ {
		s.cpus = append(s.cpus, NewCPU(i))
	}
	for i := 0; i < o.numIOs; i++ {
		s.ios = append(s.ios, NewIODevice(i))
	}
	return s, nil
}

// Policy returns the configured dispatch policy.
func (s *Scheduler) Policy() Policy { return s.policy }

// Now returns the current tick.
func (s *Scheduler) Now() int { return s.clock.Now() }

// NumCPUs and NumIOs report pool sizes.
func (s *Scheduler) NumCPUs() int { return len(s.cpus) }
func (s *Scheduler) NumIOs() int  { return len(s.ios) }

// Events returns the event log recorded so far, in emission order.
func (s *Scheduler) Events() []Event { return s.events }

// Finished returns completed processes in completion order.
func (s *Scheduler) Finished() []*Process { return s.finished }

// Process looks up a process by pid, among any state.
func (s *Scheduler) Process(pid PID) (*Process, bool) {
	p, ok := s.processes[pid]
	return p, ok
}

// AllProcesses returns every process known to the scheduler, regardless
// of state, ordered by pid.
func (s *Scheduler) AllProcesses() []*Process {
	out := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

// AddProcess admits p into the simulation. A process whose ArrivalTime
// has already passed is inserted directly into the ready queue, emitting
// enqueue (arrival is reserved for Step's own admission pass, §4.5 step
// 1); otherwise it is held on the future-arrivals list until Step admits
// it.
func (s *Scheduler) AddProcess(p *Process) error {
	if _, dup := s.processes[p.PID]; dup {
		return inputErrorf("scheduler", "duplicate pid %s", p.PID)
	}
	s.processes[p.PID] = p
	if p.ArrivalTime <= s.clock.Now() {
		p.State = Ready
		s.ready.insert(p)
		s.record(EventEnqueue, fmt.Sprintf("%s added to ready queue", p.PID), p.PID, "")
		return nil
	}
	idx := sort.Search(len(s.future), func(i int) bool { return s.future[i].ArrivalTime > p.ArrivalTime })
	s.future = append(s.future, nil)
	copy(s.future[idx+1:], s.future[idx:])
	s.future[idx] = p
	return nil
}

// Done reports whether the simulation has reached quiescence (§4.5
// Termination): no future arrivals, nothing queued, every resource idle.
func (s *Scheduler) Done() bool {
	if len(s.future) != 0 || s.ready.len() != 0 || s.wait.len() != 0 {
		return false
	}
	for _, c := range s.cpus {
		if c.IsBusy() {
			return false
		}
	}
	for _, d := range s.ios {
		if d.IsBusy() {
			return false
		}
	}
	return true
}

// Run steps the simulation to quiescence and returns the full event log.
func (s *Scheduler) Run() []Event {
	for !s.Done() {
		s.Step()
	}
	return s.events
}

// Step performs one tick of the fixed eight-step algorithm (§4.5).
func (s *Scheduler) Step() {
	s.admitArrivals()
	s.tickCPUs()
	if s.policy == RR {
		s.applyQuantum()
	}
	if s.policy.preemptive() {
		s.applyPreemption()
	}
	s.tickIOs()
	s.dispatchCPUs()
	s.dispatchIOs()
	s.accumulateQueued()
	s.clock.Tick()
}

// admitArrivals is step 1.
func (s *Scheduler) admitArrivals() {
	now := s.clock.Now()
	i := 0
	for i < len(s.future) && s.future[i].ArrivalTime <= now {
		i++
	}
	if i == 0 {
		return
	}
	arrivals := s.future[:i]
	s.future = s.future[i:]
	for _, p := range arrivals {
		p.State = Ready
		s.ready.insert(p)
		s.record(EventArrival, fmt.Sprintf("%s arrived", p.PID), p.PID, "")
	}
}

// tickCPUs is step 2.
func (s *Scheduler) tickCPUs() {
	for _, c := range s.cpus {
		if !c.IsBusy() {
			continue
		}
		if p, done := c.Tick(); done {
			s.routeAfterBurst(p, c.Label(), true)
		}
	}
}

// applyQuantum is step 3 (RR only).
func (s *Scheduler) applyQuantum() {
	for _, c := range s.cpus {
		if !c.IsBusy() {
			continue
		}
		p := c.Current()
		p.RemainingQuantum--
		if p.RemainingQuantum > 0 || !p.HasMoreCPUWork() {
			continue
		}
		c.clear()
		p.RemainingQuantum = p.Quantum
		p.State = Ready
		s.ready.insert(p)
		s.record(EventPreempted, fmt.Sprintf("%s preempted: quantum expired", p.PID), p.PID, c.Label())
	}
}

// applyPreemption is step 4 (SRTF / PriorityPreemptive only). Preemption
// and the preempting process's dispatch both happen within this same
// tick (§9 "Preemption-in-same-tick").
func (s *Scheduler) applyPreemption() {
	for _, c := range s.cpus {
		if !c.IsBusy() {
			continue
		}
		head, ok := s.ready.peek()
		if !ok {
			continue
		}
		cur := c.Current()
		var preempt bool
		switch s.policy {
		case SRTF:
			preempt = head.RemainingBurstTime() < cur.RemainingBurstTime()
		case PriorityPreemptive:
			preempt = head.Priority < cur.Priority
		}
		if !preempt {
			continue
		}
		s.ready.popFront()
		c.clear()
		cur.State = Ready
		s.ready.insert(cur)
		s.record(EventPreempted, fmt.Sprintf("%s preempted by %s", cur.PID, head.PID), cur.PID, c.Label())

		head.State = Running
		head.RemainingQuantum = head.Quantum
		c.Assign(head)
		s.record(EventDispatchCPU, fmt.Sprintf("%s dispatched", head.PID), head.PID, c.Label())
	}
}

// tickIOs is step 5.
func (s *Scheduler) tickIOs() {
	for _, d := range s.ios {
		if !d.IsBusy() {
			continue
		}
		if p, done := d.Tick(); done {
			s.routeAfterBurst(p, d.Label(), false)
		}
	}
}

// routeAfterBurst applies the cursor-routing rule shared by steps 2 and
// 5: finished if the cursor has passed the burst list, otherwise ready
// or waiting depending on the next burst's kind. fromCPU selects the
// event-type label appropriate to the completing device; the generator
// produces alternating bursts by construction, but the scheduler does
// not assume it (§9 "Burst sequence alternation").
func (s *Scheduler) routeAfterBurst(p *Process, device string, fromCPU bool) {
	if _, ok := p.CurrentBurst(); !ok {
		p.State = Finished
		s.finished = append(s.finished, p)
		s.record(EventFinished, fmt.Sprintf("%s finished", p.PID), p.PID, device)
		return
	}
	b, _ := p.CurrentBurst()
	if b.Kind == CPUBurst {
		p.State = Ready
		s.ready.insert(p)
		et := EventIOToReady
		if fromCPU {
			et = EventCPUToReady
		}
		s.record(et, fmt.Sprintf("%s moved to ready queue", p.PID), p.PID, device)
		return
	}
	p.State = Waiting
	s.wait.insert(p)
	s.record(EventCPUToIO, fmt.Sprintf("%s moved to wait queue", p.PID), p.PID, device)
}

// dispatchCPUs is step 6.
func (s *Scheduler) dispatchCPUs() {
	for _, c := range s.cpus {
		if c.IsBusy() {
			continue
		}
		p, ok := s.ready.popFront()
		if !ok {
			break
		}
		p.State = Running
		p.RemainingQuantum = p.Quantum
		c.Assign(p)
		s.record(EventDispatchCPU, fmt.Sprintf("%s dispatched", p.PID), p.PID, c.Label())
	}
}

// dispatchIOs is step 7. I/O dispatch is FIFO regardless of the active
// CPU policy.
func (s *Scheduler) dispatchIOs() {
	for _, d := range s.ios {
		if d.IsBusy() {
			continue
		}
		p, ok := s.wait.popFront()
		if !ok {
			break
		}
		d.Assign(p)
		s.record(EventDispatchIO, fmt.Sprintf("%s dispatched", p.PID), p.PID, d.Label())
	}
}

// accumulateQueued charges one tick of ReadyWaitTime/IOWaitTime to every
// process left queued (not dispatched) at the end of this tick.
// RunningTime and on-device IOWaitTime are charged directly by
// CPU.Tick/IODevice.Tick as part of steps 2 and 5.
func (s *Scheduler) accumulateQueued() {
	for _, p := range s.ready.all() {
		p.ReadyWaitTime++
	}
	for _, p := range s.wait.all() {
		p.IOWaitTime++
	}
}

// record appends an Event, snapshotting current queue and device
// occupancy.
func (s *Scheduler) record(et EventType, msg string, pid PID, device string) {
	s.events = append(s.events, Event{
		Time:       s.clock.Now(),
		Event:      msg,
		EventType:  et,
		Process:    pid,
		Device:     device,
		ReadyQueue: s.ready.pids(),
		WaitQueue:  s.wait.pids(),
		CPUs:       s.cpuPids(),
		IOs:        s.ioPids(),
	})
}

func (s *Scheduler) cpuPids() []PID {
	out := make([]PID, len(s.cpus))
	for i, c := range s.cpus {
		if c.IsBusy() {
			out[i] = c.Current().PID
		}
	}
	return out
}

func (s *Scheduler) ioPids() []PID {
	out := make([]PID, len(s.ios))
	for i, d := range s.ios {
		if d.IsBusy() {
			out[i] = d.Current().PID
		}
	}
	return out
}
