package object

import (
	"fmt"
	"sync/atomic"
)

// Obj is implemented by every simulation object. Concrete types embed
// Object, which provides the whole interface; there is no other way to
// satisfy it.
type Obj interface {
	// TypeID returns the instance's registered type.
	TypeID() TypeID
	getBase() *Object
}

// Initializable is implemented by objects that need a one-time setup hook.
// Initialize calls it exactly once per object.
type Initializable interface {
	DoInitialize()
}

// Disposable is implemented by objects that own resources to release.
// Dispose calls it exactly once per object, before the object is
// considered dead.
type Disposable interface {
	DoDispose()
}

// aggregate is the arena shared by all facets of one aggregation class.
// Facets reference the arena, not each other, so teardown never has to
// break reference cycles.
type aggregate struct {
	facets []Obj
}

// Object is the intrusive kernel record embedded in every simulation
// object. The refcount is the single concession to concurrency: Ref and
// Unref are safe from any goroutine because OS-integration helpers hold
// object handles on their own threads. Every other operation belongs to
// the simulation thread.
type Object struct {
	self        Obj
	tid         TypeID
	refs        atomic.Uint32
	agg         *aggregate
	initialized bool
	disposed    bool
}

func (b *Object) getBase() *Object { return b }

// TypeID returns the instance's registered type.
func (b *Object) TypeID() TypeID { return b.tid }

// Construct wires the embedded kernel record of a freshly allocated
// object: instance type, refcount of one, and a singleton aggregation
// class. Every concrete constructor must call it before returning.
func Construct(o Obj, tid TypeID) {
	registry.info(tid).frozen = true
	b := o.getBase()
	b.self = o
	b.tid = tid
	b.refs.Store(1)
	b.agg = &aggregate{facets: []Obj{o}}
}

// Ref takes a strong reference. Relaxed ordering suffices: the count can
// only grow from a live reference.
func (b *Object) Ref() {
	b.refs.Add(1)
}

// Unref drops a strong reference. When any facet's count reaches zero the
// whole aggregation class is disposed.
func (b *Object) Unref() {
	if b.refs.Add(^uint32(0)) == 0 {
		disposeAggregate(b.agg)
	}
}

// RefCount returns the current strong-reference count.
func (b *Object) RefCount() uint32 {
	return b.refs.Load()
}

// IsInitialized reports whether Initialize has run for this object.
func (b *Object) IsInitialized() bool { return b.initialized }

// IsDisposed reports whether the object is dead for attribute operations.
func (b *Object) IsDisposed() bool { return b.disposed }

// Aggregate merges the aggregation classes of a and b into one. All
// members then share a single logical lifetime and resolve each other via
// GetObject. Merging classes that both expose the same TypeID is a usage
// error and panics; aggregating disposed objects likewise.
func Aggregate(a, b Obj) {
	ba, bb := a.getBase(), b.getBase()
	if ba.disposed || bb.disposed {
		panic("object: cannot aggregate disposed objects")
	}
	if ba.agg == bb.agg {
		return
	}
	for _, fa := range ba.agg.facets {
		for _, fb := range bb.agg.facets {
			if fa.TypeID() == fb.TypeID() {
				panic(fmt.Sprintf("object: aggregation would hold two %q facets", fa.TypeID().Name()))
			}
		}
	}
	merged := &aggregate{facets: append(append([]Obj{}, ba.agg.facets...), bb.agg.facets...)}
	anyInitialized := false
	for _, f := range merged.facets {
		base := f.getBase()
		if base.initialized {
			anyInitialized = true
		}
		base.agg = merged
	}
	// a half-initialized class would break the exactly-once contract
	if anyInitialized {
		Initialize(a)
	}
}

// Peers returns the members of o's aggregation class, o included, in
// deterministic aggregation order. After Dispose it returns nil.
func Peers(o Obj) []Obj {
	b := o.getBase()
	if b.disposed {
		return nil
	}
	out := make([]Obj, len(b.agg.facets))
	copy(out, b.agg.facets)
	return out
}

// GetObject resolves the unique facet of o's aggregation class that has
// concrete type T. The boolean is false if the class holds no such facet
// or o is disposed.
func GetObject[T Obj](o Obj) (T, bool) {
	var zero T
	b := o.getBase()
	if b.disposed {
		return zero, false
	}
	for _, f := range b.agg.facets {
		if t, ok := f.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// GetObjectByTypeID resolves the facet whose TypeID is tid or a descendant
// of tid. With several matches the first in aggregation order wins, which
// is deterministic within a process. Returns nil if none match or o is
// disposed.
func GetObjectByTypeID(o Obj, tid TypeID) Obj {
	b := o.getBase()
	if b.disposed {
		return nil
	}
	for _, f := range b.agg.facets {
		if f.TypeID().IsDerivedFrom(tid) {
			return f
		}
	}
	return nil
}

// Initialize runs the DoInitialize hook of every facet in o's aggregation
// class exactly once. Idempotent.
func Initialize(o Obj) {
	b := o.getBase()
	if b.disposed {
		return
	}
	for _, f := range b.agg.facets {
		base := f.getBase()
		if base.initialized {
			continue
		}
		// flag first so a hook that re-enters Initialize terminates
		base.initialized = true
		if init, ok := f.(Initializable); ok {
			init.DoInitialize()
		}
	}
}

// Dispose tears down o's whole aggregation class: every facet's DoDispose
// hook runs once, then the class is broken apart. Ref counts are not
// touched — a disposed shell may linger while external handles drop — but
// the objects are dead for attribute operations and GetObject. Idempotent.
func Dispose(o Obj) {
	disposeAggregate(o.getBase().agg)
}

func disposeAggregate(agg *aggregate) {
	facets := agg.facets
	for _, f := range facets {
		base := f.getBase()
		if base.disposed {
			continue
		}
		base.disposed = true
		if d, ok := f.(Disposable); ok {
			d.DoDispose()
		}
	}
	// break the class so facets stop keeping each other reachable
	for _, f := range facets {
		base := f.getBase()
		base.agg = &aggregate{facets: []Obj{f}}
	}
}
