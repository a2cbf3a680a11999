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

import "github.com/Workiva/go-datastructures/augmentedtree"

// ProcessMetrics summarizes one process's run (§8 "per-run summary
// statistics").
type ProcessMetrics struct {
	PID            PID
	ArrivalTime    int
	FinishTime     int // -1 if the process never finished.
	TurnaroundTime int // -1 if unfinished.
	ReadyWaitTime  int
	IOWaitTime     int
	RunningTime    int
	TotalCPUTime   int
}

// RunMetrics summarizes a completed (or in-progress) Scheduler run.
type RunMetrics struct {
	Policy         Policy
	TotalTicks     int
	CPUUtilization float64
	IOUtilization  float64
	Processes      []ProcessMetrics
}

// ComputeRunMetrics derives per-process and per-run summary statistics
// directly from the process accumulators and event log; it never reads
// an input file's informational cpu_used field (§9 Open Question).
func ComputeRunMetrics(s *Scheduler) RunMetrics {
	finishTimes := make(map[PID]int, len(s.finished))
	for _, e := range s.events {
		if e.EventType == EventFinished {
			finishTimes[e.Process] = e.Time
		}
	}

	all := s.AllProcesses()
	procs := make([]ProcessMetrics, 0, len(all))
	var sumRunning int
	for _, p := range all {
		pm := ProcessMetrics{
			PID:            p.PID,
			ArrivalTime:    p.ArrivalTime,
			FinishTime:     -1,
			TurnaroundTime: -1,
			ReadyWaitTime:  p.ReadyWaitTime,
			IOWaitTime:     p.IOWaitTime,
			RunningTime:    p.RunningTime,
			TotalCPUTime:   p.TotalCPUTime(),
		}
		if ft, ok := finishTimes[p.PID]; ok {
			pm.FinishTime = ft
			pm.TurnaroundTime = ft - p.ArrivalTime
		}
		sumRunning += p.RunningTime
		procs = append(procs, pm)
	}

	total := s.Now()
	rm := RunMetrics{
		Policy:     s.policy,
		TotalTicks: total,
	}
	if total > 0 && s.NumCPUs() > 0 {
		rm.CPUUtilization = float64(sumRunning) / float64(total*s.NumCPUs())
	}
	if total > 0 && s.NumIOs() > 0 {
		rm.IOUtilization = ioUtilization(s)
	}
	rm.Processes = procs
	return rm
}

// ioUtilization sums ticks during which some I/O device was busy,
// reconstructed from dispatch_io/io_to_ready/finished events, divided by
// total device-ticks available.
func ioUtilization(s *Scheduler) float64 {
	busyTicks := 0
	start := map[PID]int{}
	for _, e := range s.events {
		switch e.EventType {
		case EventDispatchIO:
			start[e.Process] = e.Time
		case EventIOToReady, EventFinished:
			if s0, ok := start[e.Process]; ok {
				busyTicks += e.Time - s0
				delete(start, e.Process)
			}
		}
	}
	return float64(busyTicks) / float64(s.Now()*s.NumIOs())
}

// span is an interval over simulated ticks held by a single process,
// used to answer "who else was ready/waiting during this span" queries
// via an interval tree. Reconstructed from the event log rather than
// tracked live, since it is purely a read-only, after-the-fact query
// structure (cf. the teacher's per-CPU sleeping/waiting augmentedtree.Tree
// built from threadSpans).
type span struct {
	pid   PID
	start int
	end   int
	id    uint64
}

func (s *span) LowAtDimension(d uint64) int64  { return int64(s.start) }
func (s *span) HighAtDimension(d uint64) int64 { return int64(s.end) }
func (s *span) OverlapsAtDimension(o augmentedtree.Interval, d uint64) bool {
	return s.HighAtDimension(d) >= o.LowAtDimension(d) && o.HighAtDimension(d) >= s.LowAtDimension(d)
}
func (s *span) ID() uint64 { return s.id }

// SpanIndex answers point-in-time membership queries ("who was ready, or
// waiting for I/O, at tick T") over a completed run's event log.
type SpanIndex struct {
	ready augmentedtree.Tree
	wait  augmentedtree.Tree
}

// NewSpanIndex builds a SpanIndex from a Scheduler's recorded events.
// Spans still open when the event log ends (a partial run) are omitted.
func NewSpanIndex(s *Scheduler) *SpanIndex {
	readyOpen := map[EventType]bool{
		EventArrival:    true,
		EventEnqueue:    true,
		EventCPUToReady: true,
		EventIOToReady:  true,
		EventPreempted:  true,
	}
	ready, id := buildSpans(s.events, readyOpen, EventDispatchCPU, 0)
	wait, _ := buildSpans(s.events, map[EventType]bool{EventCPUToIO: true}, EventDispatchIO, id)

	readyTree := augmentedtree.New(1)
	for _, sp := range ready {
		readyTree.Add(sp)
	}
	waitTree := augmentedtree.New(1)
	for _, sp := range wait {
		waitTree.Add(sp)
	}
	return &SpanIndex{ready: readyTree, wait: waitTree}
}

func buildSpans(events []Event, openTypes map[EventType]bool, closeType EventType, startID uint64) ([]*span, uint64) {
	open := map[PID]int{}
	var spans []*span
	id := startID
	for _, e := range events {
		if e.Process == "" {
			continue
		}
		if openTypes[e.EventType] {
			open[e.Process] = e.Time
			continue
		}
		if e.EventType == closeType {
			if start, ok := open[e.Process]; ok {
				spans = append(spans, &span{pid: e.Process, start: start, end: e.Time, id: id})
				id++
				delete(open, e.Process)
			}
		}
	}
	return spans, id
}

// ReadyAt returns the pids in the ready queue at tick t.
func (si *SpanIndex) ReadyAt(t int) []PID {
	return query(si.ready, t)
}

// WaitingAt returns the pids in the I/O wait queue at tick t.
func (si *SpanIndex) WaitingAt(t int) []PID {
	return query(si.wait, t)
}

func query(tree augmentedtree.Tree, t int) []PID {
	hits := tree.Query(&span{start: t, end: t})
	out := make([]PID, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*span).pid)
	}
	return out
}
