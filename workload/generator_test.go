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
	"testing"
)

func testClasses() []Class {
	return []Class{
		{
			ClassID:         "A",
			PriorityRange:   [2]int{1, 5},
			CPUBurstMean:    10,
			CPUBurstStddev:  2,
			CPUBudgetMean:   50,
			CPUBudgetStddev: 5,
			IOProfile: IOProfile{
				IOTypes: []string{"disk"}, IORatio: 0.3,
				IODurationMean: 4, IODurationStddev: 1,
			},
		},
		{
			ClassID:         "B",
			PriorityRange:   [2]int{1, 3},
			CPUBurstMean:    3,
			CPUBurstStddev:  1,
			CPUBudgetMean:   15,
			CPUBudgetStddev: 3,
			IOProfile: IOProfile{
				IOTypes: []string{"net"}, IORatio: 0.7,
				IODurationMean: 2, IODurationStddev: 1,
			},
		},
	}
}

func TestGenerateProducesValidatedProcesses(t *testing.T) {
	g := NewGenerator(42)
	preset := Presets["standard"]
	procs, classOf, err := g.Generate(testClasses(), preset, 20, preset.ArrivalSpacing)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if len(procs) != 20 {
		t.Fatalf("Generate() returned %d processes, want 20", len(procs))
	}
	for i, p := range procs {
		if len(p.Bursts) == 0 {
			t.Errorf("process %s has no bursts", p.PID)
		}
		if p.Quantum <= 0 {
			t.Errorf("process %s has non-positive quantum %d", p.PID, p.Quantum)
		}
		if i > 0 && p.ArrivalTime < procs[i-1].ArrivalTime {
			t.Errorf("process %d arrival_time %d precedes process %d's %d", i, p.ArrivalTime, i-1, procs[i-1].ArrivalTime)
		}
		if _, ok := classOf[p.PID]; !ok {
			t.Errorf("process %s missing from classOf map", p.PID)
		}
	}
}

func TestGenerateIsDeterministicForASeed(t *testing.T) {
	preset := Presets["standard"]
	g1 := NewGenerator(7)
	p1, _, err := g1.Generate(testClasses(), preset, 10, preset.ArrivalSpacing)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	g2 := NewGenerator(7)
	p2, _, err := g2.Generate(testClasses(), preset, 10, preset.ArrivalSpacing)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	for i := range p1 {
		if p1[i].ArrivalTime != p2[i].ArrivalTime || len(p1[i].Bursts) != len(p2[i].Bursts) {
			t.Fatalf("process %d differs between identically-seeded runs: %+v vs %+v", i, p1[i], p2[i])
		}
	}
}

func TestBuildBurstsNeverExceedsMaxBursts(t *testing.T) {
	g := NewGenerator(1)
	class := Class{
		ClassID: "A", PriorityRange: [2]int{1, 1},
		CPUBurstMean: 1, CPUBurstStddev: 0.01,
		IOProfile: IOProfile{IOTypes: []string{"disk"}, IORatio: 0, IODurationMean: 1, IODurationStddev: 0.01},
	}
	bursts, err := g.buildBursts(class, Preset{BurstLengthMult: 1, IORatioMult: 1}, 1000)
	if err != nil {
		t.Fatalf("buildBursts() failed: %v", err)
	}
	if len(bursts) > maxBurstsPerProcess {
		t.Errorf("buildBursts() returned %d bursts, want <= %d", len(bursts), maxBurstsPerProcess)
	}
}

func TestParsePresetFallsBackToStandard(t *testing.T) {
	if got := ParsePreset("not-a-real-preset"); got.Name != "standard" {
		t.Errorf("ParsePreset() = %q, want standard", got.Name)
	}
}
