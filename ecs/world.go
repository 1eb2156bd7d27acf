package ecs

import (
	"reflect"

	"go.uber.org/zap"
)

// World owns the entity registry, every component pool, the frame clock,
// and the optional diff tracker. It is the single handle systems and
// queries are built against.
type World struct {
	registry *Registry
	pools    map[reflect.Type]poolHandle
	clock    *Clock
	tracker  *Tracker
	logger   *zap.Logger
}

// NewWorld creates an empty World. Pass WorldOptions to override the
// default no-op logger or supply a config-derived one.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		registry: NewRegistry(),
		pools:    make(map[reflect.Type]poolHandle),
		clock:    NewClock(),
		tracker:  NewTracker(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WorldOption configures a World at construction time.
type WorldOption func(*World)

// WithLogger installs a *zap.Logger for the World to use instead of the
// no-op default.
func WithLogger(logger *zap.Logger) WorldOption {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Clock returns the World's frame clock.
func (w *World) Clock() *Clock { return w.clock }

// Tracker returns the World's diff tracker.
func (w *World) Tracker() *Tracker { return w.tracker }

// Logger returns the World's structured logger.
func (w *World) Logger() *zap.Logger { return w.logger }

// CreateEntity mints a fresh entity with no components.
func (w *World) CreateEntity() Entity {
	return w.registry.Create()
}

// Alive reports whether e is a live entity.
func (w *World) Alive(e Entity) bool {
	return w.registry.Alive(e)
}

// Entities returns every live entity in creation order.
func (w *World) Entities() []Entity {
	return w.registry.Entities()
}

// DestroyEntity removes e from the registry and purges it from every
// component pool immediately, so no subsequent query in the same frame can
// observe it.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.registry.Destroy(e) {
		return false
	}
	for _, pool := range w.pools {
		pool.remove(e)
	}
	return true
}

func getOrCreatePool[T any](w *World) *Pool[T] {
	t := reflect.TypeFor[T]()
	if h, ok := w.pools[t]; ok {
		return h.(*Pool[T])
	}
	p := NewPool[T]()
	w.pools[t] = p
	return p
}

func lookupPool[T any](w *World) (*Pool[T], bool) {
	t := reflect.TypeFor[T]()
	h, ok := w.pools[t]
	if !ok {
		return nil, false
	}
	return h.(*Pool[T]), true
}

// AddComponent attaches value as e's T, replacing any existing T on e. It
// is a no-op if e is not alive.
func AddComponent[T any](w *World, e Entity, value T) {
	if !w.registry.Alive(e) {
		return
	}
	getOrCreatePool[T](w).Insert(e, value)
}

// RemoveComponent detaches e's T, if present.
func RemoveComponent[T any](w *World, e Entity) {
	pool, ok := lookupPool[T](w)
	if !ok {
		return
	}
	pool.Remove(e)
}

// HasComponent reports whether e currently has a T.
func HasComponent[T any](w *World, e Entity) bool {
	pool, ok := lookupPool[T](w)
	if !ok {
		return false
	}
	return pool.Has(e)
}

// GetComponent returns a copy of e's T. ok is false if e has no T. If e
// has a T but it is exclusively borrowed elsewhere (by a live mutable
// query iteration, for instance), GetComponent panics rather than returning
// a stale or torn read.
func GetComponent[T any](w *World, e Entity) (value T, ok bool) {
	pool, exists := lookupPool[T](w)
	if !exists || !pool.Has(e) {
		return value, false
	}
	ptr, release, borrowed := pool.tryBorrow(e)
	if !borrowed {
		borrowConflictPanic(reflect.TypeFor[T](), e, false)
	}
	defer release()
	return *ptr, true
}

// GetComponentMut exclusively borrows e's T for the duration of fn, which
// may freely mutate it. ok is false if e has no T. As with GetComponent, a
// genuine conflict with another live borrow panics instead of silently
// skipping, since this is a direct, deliberate access rather than a
// best-effort query step.
func GetComponentMut[T any](w *World, e Entity, fn func(*T)) (ok bool) {
	pool, exists := lookupPool[T](w)
	if !exists || !pool.Has(e) {
		return false
	}
	ptr, release, borrowed := pool.tryBorrowMut(e)
	if !borrowed {
		borrowConflictPanic(reflect.TypeFor[T](), e, true)
	}
	defer release()
	fn(ptr)
	return true
}

// cloneComponent is the Tracker's hook into arbitrary pools by reflect.Type
// rather than a compile-time T. It returns a copy of the stored value,
// never a live pointer. Exported slice and map fields of a struct
// component are copied one level deep, so mutating them later does not
// reach the snapshot; pointer fields, unexported fields, and containers
// nested deeper than that still share storage with the live value.
func (w *World) cloneComponent(e Entity, typ reflect.Type) (any, bool) {
	pool, ok := w.pools[typ]
	if !ok {
		return nil, false
	}
	return pool.cloneAny(e)
}

// poolEntities returns the insertion-ordered entities of the pool for typ,
// or nil if no such pool has ever been created.
func (w *World) poolEntities(typ reflect.Type) []Entity {
	pool, ok := w.pools[typ]
	if !ok {
		return nil
	}
	return pool.entities()
}

// poolHas reports whether typ's pool (if any) contains e.
func (w *World) poolHas(typ reflect.Type, e Entity) bool {
	pool, ok := w.pools[typ]
	if !ok {
		return false
	}
	return pool.has(e)
}

func (w *World) borrowType(typ reflect.Type, e Entity, mutable bool) (any, func(), bool) {
	pool, ok := w.pools[typ]
	if !ok {
		return nil, nil, false
	}
	if mutable {
		return pool.borrowMutAny(e)
	}
	return pool.borrowAny(e)
}

// ComponentTypes returns the component types that currently have a pool,
// in no particular order. A type appears here once any entity has ever
// held it, even if every holder has since had it removed.
func (w *World) ComponentTypes() []reflect.Type {
	out := make([]reflect.Type, 0, len(w.pools))
	for t := range w.pools {
		out = append(out, t)
	}
	return out
}

// ComponentValue returns a clone of e's component of type typ (copied as
// cloneComponent describes), by
// runtime type identity rather than a compile-time generic parameter. It
// is the introspection counterpart to GetComponent for tooling that only
// has a reflect.Type in hand, such as a debug UI.
func (w *World) ComponentValue(e Entity, typ reflect.Type) (any, bool) {
	return w.cloneComponent(e, typ)
}

// HasComponentType reports whether e holds a component of typ, looked up
// by runtime type identity.
func (w *World) HasComponentType(e Entity, typ reflect.Type) bool {
	return w.poolHas(typ, e)
}
