package ecs

import "reflect"

// systemDescriptor is the scheduler's internal record of one registered
// system: its display name, the component types it declares access to
// (used only for tracker snapshotting, never for reordering), and the
// closure that actually runs it against a World.
type systemDescriptor struct {
	name   string
	access []AccessEntry
	run    func(*World)
}

func (d systemDescriptor) mutableTypes() []reflect.Type {
	var out []reflect.Type
	for _, a := range d.access {
		if a.Mutable {
			out = append(out, a.Type)
		}
	}
	return out
}

// RegisterImperative registers a system defined as a plain function over
// *World. Because the function can touch the World however it likes, its
// access set is whatever the caller declares via mutableTypes; omitting a
// type the function actually mutates just means the tracker will not see
// diffs for it.
func RegisterImperative(s *Scheduler, name string, fn func(*World), mutableTypes ...reflect.Type) {
	access := make([]AccessEntry, len(mutableTypes))
	for i, t := range mutableTypes {
		access[i] = AccessEntry{Type: t, Mutable: true}
	}
	s.register(systemDescriptor{
		name:   name,
		access: access,
		run:    fn,
	})
}

// RegisterSingle registers a system built around one query. The access set
// is derived automatically from Q's atoms, so the tracker always sees
// exactly the component types the system can reach.
func RegisterSingle[Q any](s *Scheduler, name string, fn func(*QueryIterator[Q])) {
	it := NewQuery[Q](nil) // validated once at registration time for aliasing
	access := it.AccessSet()
	s.register(systemDescriptor{
		name:   name,
		access: access,
		run: func(w *World) {
			fn(NewQuery[Q](w))
		},
	})
}

// RegisterMulti2 registers a system built around two independent queries,
// iterated however fn chooses to relate them. Go's lack of variadic
// generics caps multi-query registration at this and RegisterMulti3; an
// imperative system can always compose more than three queries by hand.
func RegisterMulti2[A, B any](s *Scheduler, name string, fn func(*QueryIterator[A], *QueryIterator[B])) {
	access := append(NewQuery[A](nil).AccessSet(), NewQuery[B](nil).AccessSet()...)
	s.register(systemDescriptor{
		name:   name,
		access: access,
		run: func(w *World) {
			fn(NewQuery[A](w), NewQuery[B](w))
		},
	})
}

// RegisterMulti3 is RegisterMulti2 for three independent queries.
func RegisterMulti3[A, B, C any](s *Scheduler, name string, fn func(*QueryIterator[A], *QueryIterator[B], *QueryIterator[C])) {
	access := append(append(NewQuery[A](nil).AccessSet(), NewQuery[B](nil).AccessSet()...), NewQuery[C](nil).AccessSet()...)
	s.register(systemDescriptor{
		name:   name,
		access: access,
		run: func(w *World) {
			fn(NewQuery[A](w), NewQuery[B](w), NewQuery[C](w))
		},
	})
}
