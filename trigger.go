package warp

import (
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/portal"
)

const (
	TRIGGER_ENTER EventType = iota
	TRIGGER_STAY
	TRIGGER_EXIT
	TELEPORT
)

// pairKey is a trigger volume and the body overlapping it
type pairKey struct {
	trigger *actor.Body
	body    *actor.Body
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Trigger events
type TriggerEnterEvent struct {
	Trigger *actor.Body
	Body    *actor.Body
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	Trigger *actor.Body
	Body    *actor.Body
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	Trigger *actor.Body
	Body    *actor.Body
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// TeleportEvent is sent once a body has been moved to the destination portal
type TeleportEvent struct {
	Body *actor.Body
	From *portal.Portal
	To   *portal.Portal
}

func (e TeleportEvent) Type() EventType { return TELEPORT }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at dispatch
	buffer []Event

	// Overlap tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 64),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordOverlap is called by the trigger pass for every overlapping pair
func (e *Events) recordOverlap(trigger, body *actor.Body) {
	e.currentActivePairs[pairKey{trigger: trigger, body: body}] = true
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// forget drops every pair involving body, without an exit event
func (e *Events) forget(body *actor.Body) {
	for pair := range e.previousActivePairs {
		if pair.trigger == body || pair.body == body {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.trigger == body || pair.body == body {
			delete(e.currentActivePairs, pair)
		}
	}
}

// processTriggerEvents compares current and previous pairs to detect Enter/Stay/Exit.
// Should be called once per step, after the trigger pass
func (e *Events) processTriggerEvents() {
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, TriggerStayEvent{Trigger: pair.trigger, Body: pair.body})
		} else {
			e.buffer = append(e.buffer, TriggerEnterEvent{Trigger: pair.trigger, Body: pair.body})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, TriggerExitEvent{Trigger: pair.trigger, Body: pair.body})
		}
	}

	// Swap for next step and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// dispatch sends all buffered events and clears the buffer.
// Listeners may emit more events, they are sent in the same call.
func (e *Events) dispatch() {
	for i := 0; i < len(e.buffer); i++ {
		event := e.buffer[i]
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	clear(e.buffer)
	e.buffer = e.buffer[:0]
}
