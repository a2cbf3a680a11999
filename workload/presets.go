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

import "github.com/golang/glog"

// Preset is a named workload shape (spec.md §4.6): it scales burst
// length and I/O frequency, sets the mean inter-arrival spacing, and
// fixes a class mix to draw from.
type Preset struct {
	Name            string
	BurstLengthMult float64
	IORatioMult     float64
	ArrivalSpacing  float64
	ClassMix        map[string]float64
}

// Presets is the fixed enumeration of workload.Preset of spec.md §4.6.
var Presets = map[string]Preset{
	"cpu_heavy": {
		Name:            "cpu_heavy",
		BurstLengthMult: 1.5,
		IORatioMult:     0.3,
		ArrivalSpacing:  8,
		ClassMix:        map[string]float64{"A": 0.3, "D": 0.4, "C": 0.2, "B": 0.1},
	},
	"io_heavy": {
		Name:            "io_heavy",
		BurstLengthMult: 0.7,
		IORatioMult:     1.5,
		ArrivalSpacing:  3,
		ClassMix:        map[string]float64{"B": 0.4, "C": 0.3, "A": 0.2, "D": 0.1},
	},
	"standard": {
		Name:            "standard",
		BurstLengthMult: 1.0,
		IORatioMult:     1.0,
		ArrivalSpacing:  5,
		ClassMix:        map[string]float64{"A": 0.25, "B": 0.4, "C": 0.3, "D": 0.2},
	},
	"interactive": {
		Name:            "interactive",
		BurstLengthMult: 0.5,
		IORatioMult:     2.0,
		ArrivalSpacing:  2,
		ClassMix:        map[string]float64{"B": 0.7, "C": 0.3},
	},
	"batch": {
		Name:            "batch",
		BurstLengthMult: 2.0,
		IORatioMult:     0.2,
		ArrivalSpacing:  15,
		ClassMix:        map[string]float64{"D": 0.6, "A": 0.4},
	},
}

// ParsePreset resolves name to a Preset, falling back to "standard" with
// a logged warning on an unknown name (§7 "fallback to standard/RR where
// safe"), mirroring generate_jobs.py's own "Unknown workload type"
// fallback.
func ParsePreset(name string) Preset {
	if p, ok := Presets[name]; ok {
		return p
	}
	glog.Warningf("generator: unknown workload preset %q, falling back to standard", name)
	return Presets["standard"]
}

// quantumChoices returns the discrete quantum candidates for class_id
// (spec.md §4.6 step 3).
func quantumChoices(classID string) []int {
	switch classID {
	case "B":
		return []int{2, 3, 4}
	case "C":
		return []int{3, 4, 5}
	case "A":
		return []int{4, 5, 6}
	case "D":
		return []int{5, 6, 7, 8}
	default:
		return []int{4}
	}
}
