package ecs_test

import (
	"iter"
	"testing"

	"github.com/pulseecs/pulseecs/ecs"
)

func TestPoolInsertionOrderPreservedAcrossRemoval(t *testing.T) {
	w := ecs.NewWorld()
	e0 := w.CreateEntity()
	e1 := w.CreateEntity()
	e2 := w.CreateEntity()

	ecs.AddComponent(w, e0, A{Value: 0})
	ecs.AddComponent(w, e1, A{Value: 1})
	ecs.AddComponent(w, e2, A{Value: 2})

	ecs.RemoveComponent[A](w, e1)
	ecs.AddComponent(w, e1, A{Value: 99})

	q := ecs.NewQuery[struct{ *A }](w)
	var got []ecs.Entity
	for e := range q.All() {
		got = append(got, e)
	}

	// e1 re-inserted after removal moves to the back of insertion order.
	want := []ecs.Entity{e0, e2, e1}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestQueryOnEmptyPoolYieldsNothing(t *testing.T) {
	w := ecs.NewWorld()
	w.CreateEntity()

	q := ecs.NewQuery[struct{ *A }](w)
	count := 0
	for range q.All() {
		count++
	}
	if count != 0 {
		t.Fatalf("expected zero matches, got %d", count)
	}
}

func TestDisjointMutableIteratorsInterleaveFreely(t *testing.T) {
	w := ecs.NewWorld()
	e0 := w.CreateEntity()
	ecs.AddComponent(w, e0, A{Value: 1})
	ecs.AddComponent(w, e0, B{Value: 1})

	qa := ecs.NewQuery[struct{ X ecs.Mut[A] }](w)
	qb := ecs.NewQuery[struct{ X ecs.Mut[B] }](w)

	nextA, stopA := iter.Pull2(qa.All())
	defer stopA()
	nextB, stopB := iter.Pull2(qb.All())
	defer stopB()

	ea, ra, okA := nextA()
	if !okA || ea != e0 {
		t.Fatalf("expected e0 from qa")
	}
	eb, rb, okB := nextB()
	if !okB || eb != e0 {
		t.Fatalf("expected e0 from qb")
	}

	ra.X.Get().Value = 10
	rb.X.Get().Value = 20

	// Stopping both iterators releases their exclusive borrows, so the
	// direct reads below do not conflict with them.
	stopA()
	stopB()

	got, _ := ecs.GetComponent[A](w, e0)
	if got.Value != 10 {
		t.Fatalf("expected A.Value 10, got %d", got.Value)
	}
	gotB, _ := ecs.GetComponent[B](w, e0)
	if gotB.Value != 20 {
		t.Fatalf("expected B.Value 20, got %d", gotB.Value)
	}
}
