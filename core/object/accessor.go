package object

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core"
)

// AttributeAccessor bridges boxed values to a concrete object's fields.
// The Make*Accessor helpers build one from a typed getter/setter pair;
// either side may be nil when the corresponding flag is absent.
type AttributeAccessor interface {
	Get(o Obj) (AttributeValue, error)
	Set(o Obj, v AttributeValue) error
}

type funcAccessor struct {
	get func(Obj) (AttributeValue, error)
	set func(Obj, AttributeValue) error
}

func (a *funcAccessor) Get(o Obj) (AttributeValue, error) {
	if a.get == nil {
		return nil, ErrAttributeNotReadable
	}
	return a.get(o)
}

func (a *funcAccessor) Set(o Obj, v AttributeValue) error {
	if a.set == nil {
		return ErrAttributeNotWritable
	}
	return a.set(o, v)
}

func assertOwner[T Obj](o Obj) (T, error) {
	if t, ok := o.(T); ok {
		return t, nil
	}
	// attribute declared on an ancestor type: embedding promotes the
	// ancestor's fields and methods but not its identity, so dig the
	// embedded record itself out of the concrete object
	if t, ok := embeddedOwner[T](o); ok {
		return t, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: object %q does not implement the accessor's type",
		ErrAttributeUnknown, o.TypeID().Name())
}

// embeddedOwner returns a pointer to the accessor's declaring struct when
// it is embedded, possibly several levels deep, in the concrete object.
func embeddedOwner[T Obj](o Obj) (T, bool) {
	var zero T
	want := reflect.TypeOf(zero)
	if want == nil || want.Kind() != reflect.Pointer {
		return zero, false
	}
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return zero, false
	}
	fv, ok := embeddedField(v.Elem(), want.Elem())
	if !ok {
		return zero, false
	}
	// NewAt sheds the read-only flag reflect puts on unexported embedded
	// fields; the address stays valid for as long as o itself is live
	t, ok := reflect.NewAt(want.Elem(), unsafe.Pointer(fv.UnsafeAddr())).Interface().(T)
	return t, ok
}

func embeddedField(v reflect.Value, want reflect.Type) (reflect.Value, bool) {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).Anonymous {
			continue
		}
		if t.Field(i).Type == want {
			return v.Field(i), true
		}
		if sub, ok := embeddedField(v.Field(i), want); ok {
			return sub, true
		}
	}
	return reflect.Value{}, false
}

// MakeIntegerAccessor binds an integer attribute to typed get/set funcs.
func MakeIntegerAccessor[T Obj](get func(T) int64, set func(T, int64)) AttributeAccessor {
	a := &funcAccessor{}
	if get != nil {
		a.get = func(o Obj) (AttributeValue, error) {
			t, err := assertOwner[T](o)
			if err != nil {
				return nil, err
			}
			return NewIntegerValue(get(t)), nil
		}
	}
	if set != nil {
		a.set = func(o Obj, v AttributeValue) error {
			t, err := assertOwner[T](o)
			if err != nil {
				return err
			}
			iv, ok := v.(*IntegerValue)
			if !ok {
				return ErrAttributeBadValue
			}
			set(t, iv.Value)
			return nil
		}
	}
	return a
}

// MakeUintegerAccessor binds an unsigned integer attribute.
func MakeUintegerAccessor[T Obj](get func(T) uint64, set func(T, uint64)) AttributeAccessor {
	a := &funcAccessor{}
	if get != nil {
		a.get = func(o Obj) (AttributeValue, error) {
			t, err := assertOwner[T](o)
			if err != nil {
				return nil, err
			}
			return NewUintegerValue(get(t)), nil
		}
	}
	if set != nil {
		a.set = func(o Obj, v AttributeValue) error {
			t, err := assertOwner[T](o)
			if err != nil {
				return err
			}
			uv, ok := v.(*UintegerValue)
			if !ok {
				return ErrAttributeBadValue
			}
			set(t, uv.Value)
			return nil
		}
	}
	return a
}

// MakeBooleanAccessor binds a boolean attribute.
func MakeBooleanAccessor[T Obj](get func(T) bool, set func(T, bool)) AttributeAccessor {
	a := &funcAccessor{}
	if get != nil {
		a.get = func(o Obj) (AttributeValue, error) {
			t, err := assertOwner[T](o)
			if err != nil {
				return nil, err
			}
			return NewBooleanValue(get(t)), nil
		}
	}
	if set != nil {
		a.set = func(o Obj, v AttributeValue) error {
			t, err := assertOwner[T](o)
			if err != nil {
				return err
			}
			bv, ok := v.(*BooleanValue)
			if !ok {
				return ErrAttributeBadValue
			}
			set(t, bv.Value)
			return nil
		}
	}
	return a
}

// MakeDoubleAccessor binds a float64 attribute.
func MakeDoubleAccessor[T Obj](get func(T) float64, set func(T, float64)) AttributeAccessor {
	a := &funcAccessor{}
	if get != nil {
		a.get = func(o Obj) (AttributeValue, error) {
			t, err := assertOwner[T](o)
			if err != nil {
				return nil, err
			}
			return NewDoubleValue(get(t)), nil
		}
	}
	if set != nil {
		a.set = func(o Obj, v AttributeValue) error {
			t, err := assertOwner[T](o)
			if err != nil {
				return err
			}
			dv, ok := v.(*DoubleValue)
			if !ok {
				return ErrAttributeBadValue
			}
			set(t, dv.Value)
			return nil
		}
	}
	return a
}

// MakeStringAccessor binds a string attribute.
func MakeStringAccessor[T Obj](get func(T) string, set func(T, string)) AttributeAccessor {
	a := &funcAccessor{}
	if get != nil {
		a.get = func(o Obj) (AttributeValue, error) {
			t, err := assertOwner[T](o)
			if err != nil {
				return nil, err
			}
			return NewStringValue(get(t)), nil
		}
	}
	if set != nil {
		a.set = func(o Obj, v AttributeValue) error {
			t, err := assertOwner[T](o)
			if err != nil {
				return err
			}
			sv, ok := v.(*StringValue)
			if !ok {
				return ErrAttributeBadValue
			}
			set(t, sv.Value)
			return nil
		}
	}
	return a
}

// MakeTimeAccessor binds a virtual-time attribute.
func MakeTimeAccessor[T Obj](get func(T) core.Time, set func(T, core.Time)) AttributeAccessor {
	a := &funcAccessor{}
	if get != nil {
		a.get = func(o Obj) (AttributeValue, error) {
			t, err := assertOwner[T](o)
			if err != nil {
				return nil, err
			}
			return NewTimeValue(get(t)), nil
		}
	}
	if set != nil {
		a.set = func(o Obj, v AttributeValue) error {
			t, err := assertOwner[T](o)
			if err != nil {
				return err
			}
			tv, ok := v.(*TimeValue)
			if !ok {
				return ErrAttributeBadValue
			}
			set(t, tv.Value)
			return nil
		}
	}
	return a
}

// MakeEnumAccessor binds an enum attribute; names must match the checker's
// table.
func MakeEnumAccessor[T Obj](names map[int64]string, get func(T) int64, set func(T, int64)) AttributeAccessor {
	a := &funcAccessor{}
	if get != nil {
		a.get = func(o Obj) (AttributeValue, error) {
			t, err := assertOwner[T](o)
			if err != nil {
				return nil, err
			}
			return NewEnumValue(names, get(t)), nil
		}
	}
	if set != nil {
		a.set = func(o Obj, v AttributeValue) error {
			t, err := assertOwner[T](o)
			if err != nil {
				return err
			}
			ev, ok := v.(*EnumValue)
			if !ok {
				return ErrAttributeBadValue
			}
			set(t, ev.Value)
			return nil
		}
	}
	return a
}

// MakePointerAccessor binds an object-valued attribute.
func MakePointerAccessor[T Obj](get func(T) Obj, set func(T, Obj)) AttributeAccessor {
	a := &funcAccessor{}
	if get != nil {
		a.get = func(o Obj) (AttributeValue, error) {
			t, err := assertOwner[T](o)
			if err != nil {
				return nil, err
			}
			return NewPointerValue(get(t)), nil
		}
	}
	if set != nil {
		a.set = func(o Obj, v AttributeValue) error {
			t, err := assertOwner[T](o)
			if err != nil {
				return err
			}
			pv, ok := v.(*PointerValue)
			if !ok {
				return ErrAttributeBadValue
			}
			set(t, pv.Value)
			return nil
		}
	}
	return a
}

// MakeObjectVectorAccessor binds a read-only object collection.
func MakeObjectVectorAccessor[T Obj](get func(T) []Obj) AttributeAccessor {
	return &funcAccessor{
		get: func(o Obj) (AttributeValue, error) {
			t, err := assertOwner[T](o)
			if err != nil {
				return nil, err
			}
			return NewObjectVectorValue(get(t)), nil
		},
	}
}
