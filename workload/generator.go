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
	"math"
	"math/rand"
	"sort"

	"github.com/golang/groupcache/lru"

	"github.com/google/schedsim/sched"
)

// maxBurstsPerProcess caps the burst-building loop (generate_jobs.py's
// max_bursts=20), guarding against runaway generation for classes whose
// budget never gets consumed by the Gaussian draw.
const maxBurstsPerProcess = 20

// catalogCacheSize bounds the number of distinct catalog file paths kept
// resident; generation runs only ever touch a handful of catalogs.
const catalogCacheSize = 8

// Generator produces synthetic Process sets from a class catalog and a
// Preset, deterministically given a seeded PRNG (spec.md §4.6). It holds
// no global mutable state — contrast generate_jobs.py's module-level
// `pid` counter, which becomes per-Generator state here.
type Generator struct {
	rng     *rand.Rand
	nextPID int

	catalogs *lru.Cache
}

// NewGenerator constructs a Generator seeded from seed. The same seed
// always produces the same sequence of generated workloads.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		catalogs: lru.New(catalogCacheSize),
	}
}

// LoadCatalog parses a class catalog from path (with generate_jobs.py's
// fallback search order, via baseDir as the script's own directory),
// caching the parsed result so repeated generation calls against the
// same catalog path don't re-parse it.
func (g *Generator) LoadCatalog(path, baseDir string) ([]Class, error) {
	if v, ok := g.catalogs.Get(path); ok {
		return v.([]Class), nil
	}
	classes, err := loadClassesFromDisk(path, baseDir)
	if err != nil {
		return nil, err
	}
	g.catalogs.Add(path, classes)
	return classes, nil
}

// gauss draws a Gaussian sample with the given mean and stddev.
func (g *Generator) gauss(mean, stddev float64) float64 {
	return g.rng.NormFloat64()*stddev + mean
}

// chooseClass performs weighted selection over preset's class mix
// (spec.md §4.6 step 1).
func (g *Generator) chooseClass(preset Preset) string {
	ids := make([]string, 0, len(preset.ClassMix))
	var total float64
	for id, w := range preset.ClassMix {
		ids = append(ids, id)
		total += w
	}
	sort.Strings(ids) // deterministic iteration order for a given seed.
	r := g.rng.Float64() * total
	var cum float64
	for _, id := range ids {
		cum += preset.ClassMix[id]
		if r < cum {
			return id
		}
	}
	return ids[len(ids)-1]
}

// Generate produces n processes from classes under preset, using
// arrivalSpacing as the mean inter-arrival gap (spec.md §4.6 steps 2-7).
// The returned map records each process's originating class_id, for
// callers (e.g. Summarize) that want a class breakdown. Classes in the
// preset's mix that the catalog does not define are left out of the draw.
func (g *Generator) Generate(classes []Class, preset Preset, n int, arrivalSpacing float64) ([]*sched.Process, map[sched.PID]string, error) {
	lookup := classLookup(classes)
	avail := preset
	avail.ClassMix = make(map[string]float64, len(preset.ClassMix))
	for id, w := range preset.ClassMix {
		if _, ok := lookup[id]; ok {
			avail.ClassMix[id] = w
		}
	}
	if len(avail.ClassMix) == 0 {
		return nil, nil, configErrorf("generator", "preset %q references no class in the catalog", preset.Name)
	}
	procs := make([]*sched.Process, 0, n)
	classOf := make(map[sched.PID]string, n)
	current := 0

	for i := 0; i < n; i++ {
		classID := g.chooseClass(avail)
		class, ok := lookup[classID]
		if !ok {
			return nil, nil, configErrorf("generator", "preset references unknown class %q", classID)
		}
		p, err := g.generateProcess(class, preset, current)
		if err != nil {
			return nil, nil, err
		}
		procs = append(procs, p)
		classOf[p.PID] = classID

		gap := int(math.Round(g.gauss(arrivalSpacing, arrivalSpacing*0.3)))
		if gap < 0 {
			gap = 0
		}
		current += gap
	}

	sort.SliceStable(procs, func(i, j int) bool { return procs[i].ArrivalTime < procs[j].ArrivalTime })
	return procs, classOf, nil
}

// generateProcess builds one Process (spec.md §4.6 steps 2-5).
func (g *Generator) generateProcess(class Class, preset Preset, arrival int) (*sched.Process, error) {
	g.nextPID++
	pid := sched.PID(fmt.Sprintf("P%d", g.nextPID))

	priority := class.PriorityRange[0]
	if hi := class.PriorityRange[1]; hi > class.PriorityRange[0] {
		priority += g.rng.Intn(hi - class.PriorityRange[0] + 1)
	}

	choices := quantumChoices(class.ClassID)
	quantum := choices[g.rng.Intn(len(choices))]

	budgetMean := class.CPUBudgetMean * preset.BurstLengthMult
	cpuBudget := int(math.Round(g.gauss(budgetMean, class.CPUBudgetStddev)))
	if cpuBudget < 5 {
		cpuBudget = 5
	}

	bursts, err := g.buildBursts(class, preset, cpuBudget)
	if err != nil {
		return nil, err
	}
	return sched.NewProcess(pid, arrival, priority, quantum, bursts)
}

// buildBursts greedily builds a burst sequence until the CPU budget is
// consumed or the burst-count cap is reached (spec.md §4.6 step 5).
func (g *Generator) buildBursts(class Class, preset Preset, budget int) ([]sched.Burst, error) {
	var bursts []sched.Burst
	used := 0
	count := 0

	for used < budget && count < maxBurstsPerProcess {
		cpu := int(math.Round(g.gauss(class.CPUBurstMean, class.CPUBurstStddev) * preset.BurstLengthMult))
		if cpu < 1 {
			cpu = 1
		}
		if used+cpu > budget {
			cpu = budget - used
		}
		bursts = append(bursts, sched.Burst{Kind: sched.CPUBurst, CPUTicks: cpu})
		used += cpu
		count++

		if used >= budget || count >= maxBurstsPerProcess {
			break
		}
		ratio := math.Min(0.95, class.IOProfile.IORatio*preset.IORatioMult)
		count++
		if g.rng.Float64() >= ratio {
			continue
		}
		ioType := class.IOProfile.IOTypes[g.rng.Intn(len(class.IOProfile.IOTypes))]
		duration := int(math.Round(g.gauss(class.IOProfile.IODurationMean, class.IOProfile.IODurationStddev)))
		if duration < 1 {
			duration = 1
		}
		bursts = append(bursts, sched.Burst{Kind: sched.IOBurst, IOType: ioType, IODuration: duration})
	}
	if len(bursts) == 0 {
		return nil, configErrorf("generator", "class %q produced an empty burst sequence for budget %d", class.ClassID, budget)
	}
	return bursts, nil
}
