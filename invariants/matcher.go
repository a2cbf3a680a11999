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
// Package invariants checks spec.md §8's testable properties against a
// recorded event log, using an LTL (linear temporal logic) engine for the
// properties that are naturally sequential, and plain Go for the
// properties that are naturally set- or sum-based.
package invariants

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ilhamster/ltl/pkg/binder"
	be "github.com/ilhamster/ltl/pkg/bindingenvironment"
	"github.com/ilhamster/ltl/pkg/bindings"
	"github.com/ilhamster/ltl/pkg/ltl"

	"github.com/google/schedsim/sched"
)

// Field names an Event attribute an EventMatcher can query.
const (
	fieldEventType = "event_type"
	fieldProcess   = "process"
	fieldDevice    = "device"
	fieldTime      = "time"
)

var (
	// matchExprRe matches the general format of a matcher expression,
	// either attribute=value or bindingName<-attribute.
	matchExprRe = regexp.MustCompile(`^(?:(.+)=(.+))|(?:\$(\w+)<-(.+))$`)

	// fieldNamesRe matches the allowed event.<field> attribute names.
	fieldNamesRe = regexp.MustCompile(`^event\.(event_type|process|device|time)$`)

	extractFieldRe = regexp.MustCompile(`^event\.(\w+)$`)
)

// EventToken wraps the index of an Event within the slice an EventMatcher
// was built over, so it can serve as an ltl.Token.
type EventToken int

// EOI (End of Input) is always false; the event log has no in-band
// end-of-input marker.
func (t EventToken) EOI() bool { return false }

func (t EventToken) String() string { return strconv.Itoa(int(t)) }

// EventMatcher is an event-matching ltl.Operator, the schedsim analogue of
// the teacher's tracepoint matcher, narrowed to the Event fields a
// property check needs: event_type, process, device, time.
type EventMatcher struct {
	sourceInput  string
	events       []sched.Event
	matching     func(e *sched.Event) bool
	extractToken func(name string, tok ltl.Token) (*bindings.Bindings, error)
}

func (em EventMatcher) String() string { return fmt.Sprintf("[%s]", em.sourceInput) }

// Reducible returns true for all EventMatchers.
func (em EventMatcher) Reducible() bool { return true }

func newAttributeMatcher(events []sched.Event, em *EventMatcher, lhs, rhs string) (*EventMatcher, error) {
	if !fieldNamesRe.MatchString(lhs) {
		return nil, fmt.Errorf("invalid attribute %q", lhs)
	}
	field := extractFieldRe.FindStringSubmatch(lhs)[1]
	switch field {
	case fieldEventType:
		em.matching = func(e *sched.Event) bool { return string(e.EventType) == rhs }
	case fieldProcess:
		em.matching = func(e *sched.Event) bool { return string(e.Process) == rhs }
	case fieldDevice:
		em.matching = func(e *sched.Event) bool { return e.Device == rhs }
	case fieldTime:
		want, err := strconv.Atoi(rhs)
		if err != nil {
			return nil, fmt.Errorf("expected number for attribute %q, got %q", field, rhs)
		}
		em.matching = func(e *sched.Event) bool { return e.Time == want }
	}
	return em, nil
}

func attachTokenExtractor(em *EventMatcher, events []sched.Event, field string) (*EventMatcher, error) {
	var extract func(name string, e sched.Event) (*bindings.Bindings, error)
	switch field {
	case fieldEventType:
		extract = func(name string, e sched.Event) (*bindings.Bindings, error) {
			return bindings.New(bindings.String(name, string(e.EventType)))
		}
	case fieldProcess:
		extract = func(name string, e sched.Event) (*bindings.Bindings, error) {
			return bindings.New(bindings.String(name, string(e.Process)))
		}
	case fieldDevice:
		extract = func(name string, e sched.Event) (*bindings.Bindings, error) {
			return bindings.New(bindings.String(name, e.Device))
		}
	case fieldTime:
		extract = func(name string, e sched.Event) (*bindings.Bindings, error) {
			return bindings.New(bindings.Int(name, e.Time))
		}
	default:
		return nil, fmt.Errorf("invalid attribute %q in binding reference", field)
	}

	em.extractToken = func(name string, tok ltl.Token) (*bindings.Bindings, error) {
		etok, ok := tok.(EventToken)
		if !ok {
			return nil, fmt.Errorf("failed to make binding: got %T but want EventToken", tok)
		}
		if int(etok) < 0 || int(etok) >= len(events) {
			return nil, fmt.Errorf("event token %d out of range [0,%d)", etok, len(events))
		}
		return extract(name, events[etok])
	}
	return em, nil
}

func newBindingBind(events []sched.Event, em *EventMatcher, bindingName, bindingValue string) (ltl.Operator, error) {
	if !fieldNamesRe.MatchString(bindingValue) {
		return nil, fmt.Errorf("invalid binding value %q", bindingValue)
	}
	field := extractFieldRe.FindStringSubmatch(bindingValue)[1]
	em, err := attachTokenExtractor(em, events, field)
	if err != nil {
		return nil, err
	}
	return binder.NewBuilder(true, em.extractToken).Bind(bindingName), nil
}

func newBindingReference(events []sched.Event, em *EventMatcher, attributeQuery, attributeValue string) (ltl.Operator, error) {
	if !fieldNamesRe.MatchString(attributeQuery) {
		return nil, fmt.Errorf("invalid attribute %q", attributeQuery)
	}
	field := extractFieldRe.FindStringSubmatch(attributeQuery)[1]
	em, err := attachTokenExtractor(em, events, field)
	if err != nil {
		return nil, err
	}
	return binder.NewBuilder(true, em.extractToken).Reference(strings.TrimPrefix(attributeValue, "$")), nil
}

func newMatcherFromString(events []sched.Event, s string) (ltl.Operator, error) {
	if !matchExprRe.MatchString(s) {
		return nil, fmt.Errorf("expected format 'event.field=value' or '$name<-event.field', got %q", s)
	}
	captures := matchExprRe.FindStringSubmatch(s)
	attributeLHS, attributeRHS := captures[1], captures[2]
	bindingLHS, bindingRHS := captures[3], captures[4]

	em := &EventMatcher{sourceInput: s, events: events}

	if attributeLHS != "" && attributeRHS != "" && !strings.HasPrefix(attributeRHS, "$") {
		return newAttributeMatcher(events, em, attributeLHS, attributeRHS)
	}
	if attributeLHS != "" && attributeRHS != "" {
		return newBindingReference(events, em, attributeLHS, attributeRHS)
	}
	return newBindingBind(events, em, bindingLHS, bindingRHS)
}

func (em *EventMatcher) matchInternal(etok EventToken) (ltl.Operator, ltl.Environment) {
	if em == nil {
		return nil, be.New(be.Matching(false))
	}
	if int(etok) < 0 || int(etok) >= len(em.events) {
		return nil, ltl.ErrEnv(fmt.Errorf("event token %d out of range [0,%d)", etok, len(em.events)))
	}
	ev := em.events[etok]
	opts := []be.Option{be.Matching(em.matching(&ev)), be.Captured(etok)}
	return nil, be.New(opts...)
}

// Match performs an LTL match on the receiving EventMatcher.
func (em *EventMatcher) Match(tok ltl.Token) (ltl.Operator, ltl.Environment) {
	etok, ok := tok.(EventToken)
	if !ok {
		return nil, ltl.ErrEnv(fmt.Errorf("got token of type %T but expected EventToken", tok))
	}
	return em.matchInternal(etok)
}

// Generator returns a generator function producing EventMatchers over
// events. The returned function accepts strings of the form
// "event.field=value" or binding forms "$x<-event.field"/"event.field=$x".
func Generator(events []sched.Event) func(s string) (ltl.Operator, error) {
	return func(s string) (ltl.Operator, error) {
		return newMatcherFromString(events, s)
	}
}

// Tokens converts events to the ltl.Token stream an EventMatcher-built
// query expects.
func Tokens(events []sched.Event) []ltl.Token {
	toks := make([]ltl.Token, len(events))
	for i := range events {
		toks[i] = EventToken(i)
	}
	return toks
}
