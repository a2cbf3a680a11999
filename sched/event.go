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

import "fmt"

// EventType classifies an Event (§3).
type EventType string

const (
	EventArrival     EventType = "arrival"
	EventEnqueue     EventType = "enqueue"
	EventDispatchCPU EventType = "dispatch_cpu"
	EventDispatchIO  EventType = "dispatch_io"
	EventPreempted   EventType = "preempted"
	EventCPUToIO     EventType = "cpu_to_io"
	EventCPUToReady  EventType = "cpu_to_ready"
	EventIOToReady   EventType = "io_to_ready"
	EventFinished    EventType = "finished"
	EventInfo        EventType = "info"
)

// Event is emitted on any state-change-worthy action (§3). Process and
// Device are empty when not applicable to the event type. The four
// snapshot slices reflect ready/wait-queue and CPU/IO occupancy at the
// moment the event was recorded, with an empty PID standing in for an
// idle device slot.
type Event struct {
	Time       int       `json:"time"`
	Event      string    `json:"event"`
	EventType  EventType `json:"event_type"`
	Process    PID       `json:"process"`
	Device     string    `json:"device"`
	ReadyQueue []PID     `json:"ready_queue"`
	WaitQueue  []PID     `json:"wait_queue"`
	CPUs       []PID     `json:"cpus"`
	IOs        []PID     `json:"ios"`
}

func (e Event) String() string {
	return fmt.Sprintf("t=%d %s process=%s device=%s", e.Time, e.EventType, e.Process, e.Device)
}
