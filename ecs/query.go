package ecs

import (
	"fmt"
	"iter"
	"reflect"
)

// Mut marks a query atom as requiring exclusive access to T. A query field
// of type Mut[T] yields a live, mutable pointer to the component for the
// duration of one iteration step; a plain *T field yields a read-only one.
type Mut[T any] struct {
	Ptr *T
}

// Get returns the borrowed pointer. It is only valid for the duration of
// the iteration step that produced it.
func (m Mut[T]) Get() *T { return m.Ptr }

func (m Mut[T]) componentType() reflect.Type { return reflect.TypeFor[T]() }

// mutAtom is implemented by Mut[T] for every T; it lets the query builder
// recognize a mutable atom field without knowing T ahead of time.
type mutAtom interface {
	componentType() reflect.Type
}

type queryAtom struct {
	typ        reflect.Type
	mutable    bool
	fieldIndex int
}

// AccessEntry names one component type a system or query touches, and
// whether it touches it mutably.
type AccessEntry struct {
	Type    reflect.Type
	Mutable bool
}

func queryAtomsFor(structType reflect.Type) []queryAtom {
	if structType.Kind() != reflect.Struct {
		panic(fmt.Sprintf("ecs: query type %s is not a struct", structType))
	}
	atoms := make([]queryAtom, 0, structType.NumField())
	seen := make(map[reflect.Type]bool)
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		var typ reflect.Type
		var mutable bool
		switch field.Type.Kind() {
		case reflect.Ptr:
			typ = field.Type.Elem()
			mutable = false
		default:
			zeroField := reflect.New(field.Type).Elem()
			ma, ok := zeroField.Interface().(mutAtom)
			if !ok {
				panic(fmt.Sprintf("ecs: query field %s.%s has unsupported type %s (want *T or Mut[T])",
					structType, field.Name, field.Type))
			}
			typ = ma.componentType()
			mutable = true
		}
		if seen[typ] {
			panic(fmt.Sprintf("ecs: query type %s aliases component %s across multiple fields", structType, typ))
		}
		seen[typ] = true
		atoms = append(atoms, queryAtom{typ: typ, mutable: mutable, fieldIndex: i})
	}
	return atoms
}

// QueryIterator walks every live entity that currently has all of Q's
// component atoms, handing out Q values whose fields point at borrowed
// component storage for exactly the span of one iteration step.
type QueryIterator[Q any] struct {
	world      *World
	atoms      []queryAtom
	structType reflect.Type
}

// NewQuery builds a QueryIterator for Q against w. Q must be a struct
// whose fields are each either *T (read-only atom) or Mut[T] (read-write
// atom); a field naming the same component type twice, regardless of
// mutability, panics immediately rather than at iteration time.
func NewQuery[Q any](w *World) *QueryIterator[Q] {
	structType := reflect.TypeFor[Q]()
	return &QueryIterator[Q]{
		world:      w,
		atoms:      queryAtomsFor(structType),
		structType: structType,
	}
}

// AccessSet describes which component types this query touches, and how.
func (q *QueryIterator[Q]) AccessSet() []AccessEntry {
	entries := make([]AccessEntry, len(q.atoms))
	for i, a := range q.atoms {
		entries[i] = AccessEntry{Type: a.typ, Mutable: a.mutable}
	}
	return entries
}

// candidateEntities computes this query's matching set fresh: the
// intersection of every atom's pool membership, ordered by the first
// atom's pool insertion order, or by registry creation order when Q has no
// atoms at all.
func (q *QueryIterator[Q]) candidateEntities() []Entity {
	if len(q.atoms) == 0 {
		return q.world.Entities()
	}
	first := q.world.poolEntities(q.atoms[0].typ)
	out := make([]Entity, 0, len(first))
	for _, e := range first {
		matched := true
		for _, a := range q.atoms[1:] {
			if !q.world.poolHas(a.typ, e) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, e)
		}
	}
	return out
}

// All returns an iterator (iter.Seq2) over every currently matching entity. Each
// atom is borrowed immediately before the entity is handed to the caller
// and released as soon as the caller resumes, so a step that cannot borrow
// one of its atoms (the component is missing, or another live borrow
// already holds it) simply skips that entity rather than failing the whole
// iteration.
func (q *QueryIterator[Q]) All() iter.Seq2[Entity, Q] {
	return func(yield func(Entity, Q) bool) {
		for _, e := range q.candidateEntities() {
			value, releases, ok := q.fetch(e)
			if !ok {
				continue
			}
			cont := yield(e, value)
			for _, release := range releases {
				release()
			}
			if !cont {
				return
			}
		}
	}
}

func (q *QueryIterator[Q]) fetch(e Entity) (Q, []func(), bool) {
	var zero Q
	v := reflect.New(q.structType).Elem()
	releases := make([]func(), 0, len(q.atoms))
	for _, a := range q.atoms {
		ptr, release, borrowed := q.world.borrowType(a.typ, e, a.mutable)
		if !borrowed {
			for _, r := range releases {
				r()
			}
			return zero, nil, false
		}
		releases = append(releases, release)

		field := v.Field(a.fieldIndex)
		if a.mutable {
			wrapper := reflect.New(field.Type()).Elem()
			wrapper.Field(0).Set(reflect.ValueOf(ptr))
			field.Set(wrapper)
		} else {
			field.Set(reflect.ValueOf(ptr))
		}
	}
	return v.Interface().(Q), releases, true
}
