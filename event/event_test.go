package event

import (
	"testing"
	"time"
)

type ping struct{ N int }

type pong struct{ N int }

func TestTagFor(t *testing.T) {
	if TagFor[ping]() != TagFor[ping]() {
		t.Error("expected TagFor to be stable for the same type")
	}
	if TagFor[ping]() == TagFor[pong]() {
		t.Error("expected distinct tags for distinct types")
	}
	if TagFor[ping]() == "" {
		t.Error("expected non-empty tag")
	}
}

func TestTagOf(t *testing.T) {
	if got, want := TagOf(ping{}), TagFor[ping](); got != want {
		t.Errorf("TagOf(ping{}) = %q, want %q", got, want)
	}
	if TagOf(nil) != "" {
		t.Errorf("TagOf(nil) = %q, want empty", TagOf(nil))
	}
}

func TestNewMetadata(t *testing.T) {
	before := time.Now()
	m := NewMetadata(TagFor[ping](), PriorityHigh, "engine")

	if m.ID == "" {
		t.Error("expected non-empty event ID")
	}
	if m.Timestamp.Before(before) {
		t.Error("expected timestamp at or after creation")
	}
	if m.Priority != PriorityHigh {
		t.Errorf("expected PriorityHigh, got %v", m.Priority)
	}
	if m.Tag != TagFor[ping]() {
		t.Errorf("expected ping tag, got %q", m.Tag)
	}
	if m.Source != "engine" {
		t.Errorf("expected source 'engine', got %q", m.Source)
	}
	if m.State != StateCreated {
		t.Errorf("expected StateCreated, got %v", m.State)
	}
}

func TestMetadata_UniqueIDs(t *testing.T) {
	a := NewMetadata(TagFor[ping](), PriorityNormal, "")
	b := NewMetadata(TagFor[ping](), PriorityNormal, "")
	if a.ID == b.ID {
		t.Error("expected unique event IDs")
	}
}

func TestMetadata_Transition(t *testing.T) {
	m := NewMetadata(TagFor[ping](), PriorityNormal, "")

	if !m.Transition(StateQueued) {
		t.Fatal("Created -> Queued should succeed")
	}
	if m.Transition(StateCompleted) {
		t.Error("Queued -> Completed should be rejected")
	}
	if m.State != StateQueued {
		t.Errorf("rejected transition must not change state, got %v", m.State)
	}
	if !m.Transition(StateProcessing) {
		t.Fatal("Queued -> Processing should succeed")
	}
	if !m.Transition(StateFailed) {
		t.Fatal("Processing -> Failed should succeed")
	}
	if m.Transition(StateCompleted) {
		t.Error("Failed is terminal; transition should be rejected")
	}
}

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope(ping{N: 7}, TagFor[ping](), PriorityLow, "input")

	p, ok := env.Payload.(ping)
	if !ok {
		t.Fatalf("expected ping payload, got %T", env.Payload)
	}
	if p.N != 7 {
		t.Errorf("expected payload N=7, got %d", p.N)
	}
	if env.Tag != TagFor[ping]() {
		t.Errorf("expected envelope tag to match payload tag, got %q", env.Tag)
	}
	if env.Meta.Tag != env.Tag {
		t.Error("expected metadata tag to match envelope tag")
	}
	if env.Meta.Priority != PriorityLow {
		t.Errorf("expected PriorityLow, got %v", env.Meta.Priority)
	}
}
