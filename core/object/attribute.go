package object

import "fmt"

// coerce adapts v to the attribute's variant. A StringValue is the
// universal text form: it is parsed through the checker's variant so any
// attribute can be set from a line of text.
func coerce(v AttributeValue, chk AttributeChecker) (AttributeValue, error) {
	if chk == nil {
		return v, nil
	}
	if chk.Check(v) {
		return v, nil
	}
	if sv, ok := v.(*StringValue); ok {
		parsed := chk.Create()
		if err := parsed.Parse(sv.Value); err != nil {
			return nil, err
		}
		if !chk.Check(parsed) {
			return nil, ErrAttributeBadValue
		}
		return parsed, nil
	}
	return nil, ErrAttributeBadValue
}

// SetAttribute sets the named attribute on o, walking o's TypeID chain for
// the declaration. Construct-only attributes are settable until o is
// initialized. Disposed objects reject all attribute operations.
func SetAttribute(o Obj, name string, v AttributeValue) error {
	b := o.getBase()
	if b.disposed {
		return fmt.Errorf("%w: %q", ErrObjectDisposed, b.tid.Name())
	}
	info, ok := b.tid.LookupAttribute(name)
	if !ok {
		return fmt.Errorf("%w: %q has no attribute %q", ErrAttributeUnknown, b.tid.Name(), name)
	}
	if info.Flags&AttrSet == 0 {
		if info.Flags&AttrConstruct != 0 && !b.initialized {
			// construct-only, still inside the construction window
		} else if info.Flags&AttrConstruct != 0 {
			return fmt.Errorf("%w: %q::%q", ErrAttributeConstructOnly, b.tid.Name(), name)
		} else {
			return fmt.Errorf("%w: %q::%q", ErrAttributeNotWritable, b.tid.Name(), name)
		}
	}
	coerced, err := coerce(v, info.Checker)
	if err != nil {
		return fmt.Errorf("%w: %q::%q", ErrAttributeBadValue, b.tid.Name(), name)
	}
	return info.Accessor.Set(o, coerced)
}

// MustSetAttribute is SetAttribute treating failure as a bug.
func MustSetAttribute(o Obj, name string, v AttributeValue) {
	if err := SetAttribute(o, name, v); err != nil {
		panic(err)
	}
}

// GetAttribute reads the named attribute from o.
func GetAttribute(o Obj, name string) (AttributeValue, error) {
	b := o.getBase()
	if b.disposed {
		return nil, fmt.Errorf("%w: %q", ErrObjectDisposed, b.tid.Name())
	}
	info, ok := b.tid.LookupAttribute(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no attribute %q", ErrAttributeUnknown, b.tid.Name(), name)
	}
	if info.Flags&AttrGet == 0 {
		return nil, fmt.Errorf("%w: %q::%q", ErrAttributeNotReadable, b.tid.Name(), name)
	}
	return info.Accessor.Get(o)
}

// ConnectTrace attaches cb to the named trace source of o, walking o's
// TypeID chain for the declaration. The returned Connection token
// disconnects it.
func ConnectTrace(o Obj, name string, cb func(args ...any)) (Connection, error) {
	info, ok := o.TypeID().LookupTraceSource(name)
	if !ok {
		return Connection{}, fmt.Errorf("%w: %q has no trace source %q", ErrAttributeUnknown, o.TypeID().Name(), name)
	}
	return info.Accessor(o).Connect(cb), nil
}

// DisconnectTrace detaches a previously connected callback.
func DisconnectTrace(o Obj, name string, c Connection) error {
	info, ok := o.TypeID().LookupTraceSource(name)
	if !ok {
		return fmt.Errorf("%w: %q has no trace source %q", ErrAttributeUnknown, o.TypeID().Name(), name)
	}
	info.Accessor(o).Disconnect(c)
	return nil
}
