package ecs

import "testing"

func TestCellSharedBorrowsStack(t *testing.T) {
	c := &cell[int]{value: 1}
	if !c.tryShared() {
		t.Fatalf("first shared borrow should succeed")
	}
	if !c.tryShared() {
		t.Fatalf("second shared borrow should succeed")
	}
	if c.tryExclusive() {
		t.Fatalf("exclusive borrow should fail while shared borrows are outstanding")
	}
	c.releaseShared()
	c.releaseShared()
	if !c.tryExclusive() {
		t.Fatalf("exclusive borrow should succeed once all shared borrows release")
	}
}

func TestCellExclusiveExcludesEverything(t *testing.T) {
	c := &cell[int]{value: 1}
	if !c.tryExclusive() {
		t.Fatalf("first exclusive borrow should succeed")
	}
	if c.tryShared() {
		t.Fatalf("shared borrow should fail while exclusively borrowed")
	}
	if c.tryExclusive() {
		t.Fatalf("second exclusive borrow should fail")
	}
	c.releaseExclusive()
	if !c.tryShared() {
		t.Fatalf("shared borrow should succeed once exclusive releases")
	}
}
