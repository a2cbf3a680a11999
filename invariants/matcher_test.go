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

	"github.com/ilhamster/ltl/pkg/ltl"
	"github.com/ilhamster/ltl/pkg/operators"

	"github.com/google/schedsim/sched"
)

func sampleDispatchEvents() []sched.Event {
	return []sched.Event{
		{Time: 0, EventType: sched.EventDispatchCPU, Process: "P1", Device: "CPU0"},
		{Time: 3, EventType: sched.EventCPUToReady, Process: "P1", Device: "CPU0"},
		{Time: 3, EventType: sched.EventDispatchCPU, Process: "P2", Device: "CPU0"},
		{Time: 5, EventType: sched.EventFinished, Process: "P2", Device: "CPU0"},
	}
}

func runOp(t *testing.T, op ltl.Operator, tokens []ltl.Token) ltl.Environment {
	t.Helper()
	var env ltl.Environment
	for _, tok := range tokens {
		if op == nil {
			break
		}
		op, env = ltl.Match(op, tok)
		if env.Err() != nil {
			t.Fatalf("ltl.Match() returned error: %v", env.Err())
		}
	}
	return env
}

func TestEventMatcherLiteralMatch(t *testing.T) {
	events := sampleDispatchEvents()
	gen := Generator(events)
	op, err := gen("event.process=P1")
	if err != nil {
		t.Fatalf("gen() failed: %v", err)
	}
	env := runOp(t, op, Tokens(events)[:1])
	if !env.Matching() {
		t.Errorf("matcher for event.process=P1 did not match token 0")
	}
}

func TestEventMatcherThenSequence(t *testing.T) {
	events := sampleDispatchEvents()
	gen := Generator(events)
	dispatchP1, err := gen("event.process=P1")
	if err != nil {
		t.Fatalf("gen() failed: %v", err)
	}
	dispatchP2, err := gen("event.process=P2")
	if err != nil {
		t.Fatalf("gen() failed: %v", err)
	}
	op := operators.Then(dispatchP1, dispatchP2)
	env := runOp(t, op, Tokens(events))
	if !env.Matching() {
		t.Errorf("Then(P1-dispatch, P2-dispatch) did not match the sample trace")
	}
}

func TestGeneratorRejectsMalformedExpression(t *testing.T) {
	gen := Generator(sampleDispatchEvents())
	if _, err := gen("not a valid expression"); err == nil {
		t.Errorf("gen() succeeded on malformed input, want error")
	}
}

func TestGeneratorRejectsUnknownField(t *testing.T) {
	gen := Generator(sampleDispatchEvents())
	if _, err := gen("event.nonexistent=foo"); err == nil {
		t.Errorf("gen() succeeded for an unknown field, want error")
	}
}
