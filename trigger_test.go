package warp

import (
	"testing"

	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestPair() (trigger, body *actor.Body) {
	trigger = actor.NewTrigger(actor.NewTransform(), &actor.Box{HalfExtents: mgl64.Vec3{1, 1, 1}})
	body = actor.NewBody(actor.NewTransform(), &actor.Sphere{Radius: 0.5}, actor.BodyTypeKinematic)
	return trigger, body
}

type recorder struct {
	events []Event
}

func (r *recorder) listen(events *Events) {
	for _, eventType := range []EventType{TRIGGER_ENTER, TRIGGER_STAY, TRIGGER_EXIT, TELEPORT} {
		events.Subscribe(eventType, func(e Event) {
			r.events = append(r.events, e)
		})
	}
}

func (r *recorder) types() []EventType {
	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type()
	}
	return types
}

func TestTriggerEnterStayExit(t *testing.T) {
	events := NewEvents()
	rec := &recorder{}
	rec.listen(&events)
	trigger, body := newTestPair()

	// step 1: overlap begins
	events.recordOverlap(trigger, body)
	events.processTriggerEvents()
	events.dispatch()

	// step 2: still overlapping
	events.recordOverlap(trigger, body)
	events.processTriggerEvents()
	events.dispatch()

	// step 3: gone
	events.processTriggerEvents()
	events.dispatch()

	// step 4: nothing left
	events.processTriggerEvents()
	events.dispatch()

	expected := []EventType{TRIGGER_ENTER, TRIGGER_STAY, TRIGGER_EXIT}
	got := rec.types()
	if len(got) != len(expected) {
		t.Fatalf("Got events %v, want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Event %d = %v, want %v", i, got[i], expected[i])
		}
	}

	enter := rec.events[0].(TriggerEnterEvent)
	if enter.Trigger != trigger || enter.Body != body {
		t.Errorf("Enter event carries the wrong pair")
	}
}

func TestForgetDropsPairsWithoutExit(t *testing.T) {
	events := NewEvents()
	rec := &recorder{}
	rec.listen(&events)
	trigger, body := newTestPair()

	events.recordOverlap(trigger, body)
	events.processTriggerEvents()
	events.dispatch()

	events.forget(body)
	events.processTriggerEvents()
	events.dispatch()

	if got := rec.types(); len(got) != 1 || got[0] != TRIGGER_ENTER {
		t.Errorf("Got events %v, want only the enter", got)
	}
}

func TestDispatchSendsEventsEmittedByListeners(t *testing.T) {
	events := NewEvents()
	trigger, body := newTestPair()

	teleports := 0
	events.Subscribe(TRIGGER_ENTER, func(e Event) {
		events.emit(TeleportEvent{Body: e.(TriggerEnterEvent).Body})
	})
	events.Subscribe(TELEPORT, func(Event) {
		teleports++
	})

	events.recordOverlap(trigger, body)
	events.processTriggerEvents()
	events.dispatch()

	if teleports != 1 {
		t.Errorf("Teleport listener called %d times, want 1", teleports)
	}
	if len(events.buffer) != 0 {
		t.Errorf("Buffer holds %d events after dispatch", len(events.buffer))
	}
}
