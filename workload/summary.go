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
package workload

import (
	"fmt"

	"github.com/google/schedsim/sched"
)

// Summary reports aggregate shape statistics over a generated or loaded
// process set, restoring generate_jobs.py's print_summary (§5
// "Per-run summary statistics") ahead of simulation.
type Summary struct {
	NumProcesses   int
	TotalCPUTime   int
	TotalIOBursts  int
	TotalBursts    int
	AverageArrival float64
	ClassCounts    map[string]int
}

// Summarize computes a Summary from procs, deriving every figure from
// each process's actual burst list rather than any informational
// cpu_used-style field carried on the input (§9 Open Question).
func Summarize(procs []*sched.Process, classOf map[sched.PID]string) Summary {
	s := Summary{NumProcesses: len(procs), ClassCounts: map[string]int{}}
	var arrivalSum int
	for _, p := range procs {
		arrivalSum += p.ArrivalTime
		s.TotalBursts += len(p.Bursts)
		for _, b := range p.Bursts {
			if b.Kind == sched.CPUBurst {
				s.TotalCPUTime += b.CPUTicks
			} else {
				s.TotalIOBursts++
			}
		}
		if classOf != nil {
			s.ClassCounts[classOf[p.PID]]++
		}
	}
	if len(procs) > 0 {
		s.AverageArrival = float64(arrivalSum) / float64(len(procs))
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d processes, total CPU time %d, %d I/O bursts (%d bursts total), mean arrival %.1f",
		s.NumProcesses, s.TotalCPUTime, s.TotalIOBursts, s.TotalBursts, s.AverageArrival)
}
