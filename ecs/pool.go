package ecs

import (
	"fmt"
	"reflect"

	"github.com/kamstrup/intmap"
)

const defaultPoolCapacity = 64

// Pool is the per-component-type container mapping an Entity to a cell
// holding a T. Insertion order is preserved and is the iteration order for
// that pool; an entity's presence in the pool is the sole source of truth
// for "entity has T".
type Pool[T any] struct {
	cells *intmap.Map[Entity, *cell[T]]
	order []Entity
}

// NewPool creates an empty pool for component type T.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{
		cells: intmap.New[Entity, *cell[T]](defaultPoolCapacity),
	}
}

// Insert associates value with e, replacing any prior value for (e, T).
// Replacement is atomic from the caller's point of view: either the old
// value is wholly visible or the new one is.
func (p *Pool[T]) Insert(e Entity, value T) {
	if existing, ok := p.cells.Get(e); ok {
		existing.value = value
		return
	}
	p.cells.Put(e, &cell[T]{value: value})
	p.order = append(p.order, e)
}

// Remove drops (e, T) if present.
func (p *Pool[T]) Remove(e Entity) {
	if _, ok := p.cells.Get(e); !ok {
		return
	}
	p.cells.Del(e)
	for i, x := range p.order {
		if x == e {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Has reports whether e has a component in this pool.
func (p *Pool[T]) Has(e Entity) bool {
	_, ok := p.cells.Get(e)
	return ok
}

// Entities returns the entities present in this pool, in insertion order.
func (p *Pool[T]) Entities() []Entity {
	out := make([]Entity, len(p.order))
	copy(out, p.order)
	return out
}

// tryBorrow attempts a shared borrow of e's cell. ok is false for both a
// missing entity and a conflicting outstanding exclusive borrow; callers
// that need to distinguish the two (to fail loudly on a genuine conflict
// rather than silently skip a missing component) check Has first.
func (p *Pool[T]) tryBorrow(e Entity) (*T, func(), bool) {
	c, ok := p.cells.Get(e)
	if !ok {
		return nil, nil, false
	}
	if !c.tryShared() {
		return nil, nil, false
	}
	return &c.value, c.releaseShared, true
}

// tryBorrowMut attempts an exclusive borrow of e's cell. See tryBorrow for
// how missing vs. conflicting failures are told apart by the caller.
func (p *Pool[T]) tryBorrowMut(e Entity) (*T, func(), bool) {
	c, ok := p.cells.Get(e)
	if !ok {
		return nil, nil, false
	}
	if !c.tryExclusive() {
		return nil, nil, false
	}
	return &c.value, c.releaseExclusive, true
}

// --- poolHandle: the type-erased view the World, query engine, and
// tracker use to operate over pools without knowing T at compile time. ---

type poolHandle interface {
	componentType() reflect.Type
	has(e Entity) bool
	remove(e Entity)
	entities() []Entity
	cloneAny(e Entity) (any, bool)
	borrowAny(e Entity) (any, func(), bool)
	borrowMutAny(e Entity) (any, func(), bool)
}

func (p *Pool[T]) componentType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (p *Pool[T]) has(e Entity) bool {
	return p.Has(e)
}

func (p *Pool[T]) remove(e Entity) {
	p.Remove(e)
}

func (p *Pool[T]) entities() []Entity {
	return p.Entities()
}

func (p *Pool[T]) cloneAny(e Entity) (any, bool) {
	c, ok := p.cells.Get(e)
	if !ok {
		return nil, false
	}
	clone := c.value
	rv := reflect.ValueOf(&clone).Elem()
	for i := 0; rv.Kind() == reflect.Struct && i < rv.NumField(); i++ {
		f := rv.Field(i)
		switch {
		case !f.CanSet():
		case f.Kind() == reflect.Slice && !f.IsNil():
			f.Set(reflect.AppendSlice(reflect.MakeSlice(f.Type(), 0, f.Len()), f))
		case f.Kind() == reflect.Map && !f.IsNil():
			m := reflect.MakeMapWithSize(f.Type(), f.Len())
			for it := f.MapRange(); it.Next(); {
				m.SetMapIndex(it.Key(), it.Value())
			}
			f.Set(m)
		}
	}
	return clone, true
}

func (p *Pool[T]) borrowAny(e Entity) (any, func(), bool) {
	ptr, release, ok := p.tryBorrow(e)
	if !ok {
		return nil, nil, false
	}
	return ptr, release, true
}

func (p *Pool[T]) borrowMutAny(e Entity) (any, func(), bool) {
	ptr, release, ok := p.tryBorrowMut(e)
	if !ok {
		return nil, nil, false
	}
	return ptr, release, true
}

// borrowConflictPanic is raised when a direct, single-shot borrow finds the
// entity present but the cell already held by another live borrow. This is
// a programming error, not a recoverable condition: two live queries (or a
// query and a direct accessor) disagreed about who owns the cell.
func borrowConflictPanic(typ reflect.Type, e Entity, mutable bool) {
	kind := "shared"
	if mutable {
		kind = "exclusive"
	}
	panic(fmt.Sprintf("ecs: borrow conflict acquiring %s access to %s on entity %d", kind, typ, e))
}
