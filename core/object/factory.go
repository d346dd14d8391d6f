package object

import "fmt"

// Factory builds objects of one TypeID with per-factory attribute
// overrides. Create applies, for every attribute of the type and its
// ancestors, most-derived first: the factory override if present, else the
// global default override, else the registered default. The returned
// object is constructed but not initialized.
type Factory struct {
	tid       TypeID
	overrides map[string]AttributeValue
}

// NewFactory builds a factory for a registered type name. An unknown name
// is a usage error and panics.
func NewFactory(typeName string) *Factory {
	tid, err := LookupTypeID(typeName)
	if err != nil {
		panic(err)
	}
	return NewFactoryFromTypeID(tid)
}

// NewFactoryFromTypeID builds a factory for an already resolved TypeID.
func NewFactoryFromTypeID(tid TypeID) *Factory {
	return &Factory{tid: tid, overrides: make(map[string]AttributeValue)}
}

// TypeID returns the type this factory builds.
func (f *Factory) TypeID() TypeID { return f.tid }

// Set records an attribute override applied to every object this factory
// creates. The attribute must exist on the type and the value must pass
// its checker; violations are usage errors and panic.
func (f *Factory) Set(name string, v AttributeValue) *Factory {
	info, ok := f.tid.LookupAttribute(name)
	if !ok {
		panic(fmt.Sprintf("object: %q has no attribute %q", f.tid.Name(), name))
	}
	coerced, err := coerce(v, info.Checker)
	if err != nil {
		panic(fmt.Sprintf("object: override for %q::%q rejected by checker", f.tid.Name(), name))
	}
	f.overrides[name] = coerced.Copy()
	return f
}

// Create builds one object. The constructor thunk runs first, then the
// attribute defaults are applied; the object is not yet initialized.
func (f *Factory) Create() Obj {
	info := registry.info(f.tid)
	if info.constructor == nil {
		panic(fmt.Sprintf("object: TypeID %q has no constructor", info.name))
	}
	o := info.constructor()
	if o == nil {
		return nil
	}
	applyDefaults(o, f.tid, f.overrides)
	return o
}

// applyDefaults walks the TypeID chain most-derived first and sets every
// constructable attribute from override, global default, or registered
// default.
func applyDefaults(o Obj, tid TypeID, overrides map[string]AttributeValue) {
	for cur := tid; cur.IsValid(); {
		for _, attr := range registry.info(cur).attributes {
			if attr.Flags&(AttrSet|AttrConstruct) == 0 {
				continue
			}
			v := attr.Default
			if g, ok := registry.defaults[attr.owner.Name()+"::"+attr.Name]; ok {
				v = g
			}
			if ov, ok := overrides[attr.Name]; ok {
				v = ov
			}
			if v == nil {
				continue
			}
			if err := attr.Accessor.Set(o, v.Copy()); err != nil {
				panic(fmt.Sprintf("object: applying default %q::%q failed: %v", cur.Name(), attr.Name, err))
			}
		}
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		cur = parent
	}
}

// CreateWithDefaults constructs an object of the given type through a
// throwaway factory, applying registered and overridden defaults.
func CreateWithDefaults(tid TypeID) Obj {
	return NewFactoryFromTypeID(tid).Create()
}
