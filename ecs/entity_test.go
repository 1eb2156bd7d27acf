package ecs_test

import (
	"testing"

	"github.com/pulseecs/pulseecs/ecs"
)

func TestRegistryCreationOrderSurvivesDestroy(t *testing.T) {
	r := ecs.NewRegistry()
	e0 := r.Create()
	e1 := r.Create()
	e2 := r.Create()

	r.Destroy(e1)

	got := r.Entities()
	want := []ecs.Entity{e0, e2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if r.Alive(e1) {
		t.Errorf("e1 should not be alive after Destroy")
	}
	if r.Count() != 2 {
		t.Errorf("expected count 2, got %d", r.Count())
	}
}

func TestRegistryIdentifiersNeverReused(t *testing.T) {
	r := ecs.NewRegistry()
	e0 := r.Create()
	r.Destroy(e0)
	e1 := r.Create()

	if e0 == e1 {
		t.Fatalf("identifier %v was reused", e0)
	}
}

func TestRegistryDestroyUnknownIsNoOp(t *testing.T) {
	r := ecs.NewRegistry()
	if r.Destroy(ecs.Entity(999)) {
		t.Fatalf("destroying an unknown entity should return false")
	}
}
