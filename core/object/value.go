package object

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core"
)

// AttributeValue is a boxed attribute value. Every variant serializes to a
// single line of text and parses back losslessly, which is what makes the
// config store possible.
type AttributeValue interface {
	// String renders the value in its canonical text form.
	String() string
	// Parse replaces the value from its text form.
	Parse(s string) error
	// Copy returns an independent clone.
	Copy() AttributeValue
}

// AttributeChecker validates candidate values for one attribute and knows
// how to build an empty value of the right variant for parsing.
type AttributeChecker interface {
	Check(v AttributeValue) bool
	Create() AttributeValue
}

// === IntegerValue ===

// IntegerValue boxes a signed integer attribute (widths 8..64 are enforced
// by the checker's range).
type IntegerValue struct {
	Value int64
}

func NewIntegerValue(v int64) *IntegerValue { return &IntegerValue{Value: v} }

func (v *IntegerValue) String() string { return strconv.FormatInt(v.Value, 10) }

func (v *IntegerValue) Parse(s string) error {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrAttributeBadValue, s)
	}
	v.Value = i
	return nil
}

func (v *IntegerValue) Copy() AttributeValue { c := *v; return &c }

// IntegerChecker accepts IntegerValues within [Min, Max].
type IntegerChecker struct {
	Min, Max int64
}

// NewIntegerChecker bounds an integer attribute to [min, max].
func NewIntegerChecker(min, max int64) *IntegerChecker {
	return &IntegerChecker{Min: min, Max: max}
}

// NewIntegerCheckerFull accepts the whole int64 range.
func NewIntegerCheckerFull() *IntegerChecker {
	return &IntegerChecker{Min: math.MinInt64, Max: math.MaxInt64}
}

func (c *IntegerChecker) Check(v AttributeValue) bool {
	iv, ok := v.(*IntegerValue)
	return ok && iv.Value >= c.Min && iv.Value <= c.Max
}

func (c *IntegerChecker) Create() AttributeValue { return &IntegerValue{} }

// === UintegerValue ===

// UintegerValue boxes an unsigned integer attribute.
type UintegerValue struct {
	Value uint64
}

func NewUintegerValue(v uint64) *UintegerValue { return &UintegerValue{Value: v} }

func (v *UintegerValue) String() string { return strconv.FormatUint(v.Value, 10) }

func (v *UintegerValue) Parse(s string) error {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an unsigned integer", ErrAttributeBadValue, s)
	}
	v.Value = u
	return nil
}

func (v *UintegerValue) Copy() AttributeValue { c := *v; return &c }

// UintegerChecker accepts UintegerValues within [Min, Max].
type UintegerChecker struct {
	Min, Max uint64
}

func NewUintegerChecker(min, max uint64) *UintegerChecker {
	return &UintegerChecker{Min: min, Max: max}
}

func NewUintegerCheckerFull() *UintegerChecker {
	return &UintegerChecker{Min: 0, Max: math.MaxUint64}
}

func (c *UintegerChecker) Check(v AttributeValue) bool {
	uv, ok := v.(*UintegerValue)
	return ok && uv.Value >= c.Min && uv.Value <= c.Max
}

func (c *UintegerChecker) Create() AttributeValue { return &UintegerValue{} }

// === BooleanValue ===

// BooleanValue boxes a boolean attribute.
type BooleanValue struct {
	Value bool
}

func NewBooleanValue(v bool) *BooleanValue { return &BooleanValue{Value: v} }

func (v *BooleanValue) String() string { return strconv.FormatBool(v.Value) }

func (v *BooleanValue) Parse(s string) error {
	switch s {
	case "true", "1":
		v.Value = true
	case "false", "0":
		v.Value = false
	default:
		return fmt.Errorf("%w: %q is not a boolean", ErrAttributeBadValue, s)
	}
	return nil
}

func (v *BooleanValue) Copy() AttributeValue { c := *v; return &c }

// BooleanChecker accepts BooleanValues.
type BooleanChecker struct{}

func NewBooleanChecker() *BooleanChecker { return &BooleanChecker{} }

func (c *BooleanChecker) Check(v AttributeValue) bool {
	_, ok := v.(*BooleanValue)
	return ok
}

func (c *BooleanChecker) Create() AttributeValue { return &BooleanValue{} }

// === DoubleValue ===

// DoubleValue boxes a float64 attribute.
type DoubleValue struct {
	Value float64
}

func NewDoubleValue(v float64) *DoubleValue { return &DoubleValue{Value: v} }

// String uses the shortest representation that parses back to the same
// float, so text round trips are exact.
func (v *DoubleValue) String() string { return strconv.FormatFloat(v.Value, 'g', -1, 64) }

func (v *DoubleValue) Parse(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a double", ErrAttributeBadValue, s)
	}
	v.Value = f
	return nil
}

func (v *DoubleValue) Copy() AttributeValue { c := *v; return &c }

// DoubleChecker accepts DoubleValues within [Min, Max].
type DoubleChecker struct {
	Min, Max float64
}

func NewDoubleChecker(min, max float64) *DoubleChecker {
	return &DoubleChecker{Min: min, Max: max}
}

func NewDoubleCheckerFull() *DoubleChecker {
	return &DoubleChecker{Min: math.Inf(-1), Max: math.Inf(1)}
}

func (c *DoubleChecker) Check(v AttributeValue) bool {
	dv, ok := v.(*DoubleValue)
	return ok && dv.Value >= c.Min && dv.Value <= c.Max
}

func (c *DoubleChecker) Create() AttributeValue { return &DoubleValue{} }

// === StringValue ===

// StringValue boxes a string attribute. It doubles as the universal text
// form: setting any attribute from a StringValue parses the text through
// the attribute's checker.
type StringValue struct {
	Value string
}

func NewStringValue(v string) *StringValue { return &StringValue{Value: v} }

func (v *StringValue) String() string { return v.Value }

func (v *StringValue) Parse(s string) error {
	v.Value = s
	return nil
}

func (v *StringValue) Copy() AttributeValue { c := *v; return &c }

// StringChecker accepts StringValues.
type StringChecker struct{}

func NewStringChecker() *StringChecker { return &StringChecker{} }

func (c *StringChecker) Check(v AttributeValue) bool {
	_, ok := v.(*StringValue)
	return ok
}

func (c *StringChecker) Create() AttributeValue { return &StringValue{} }

// === TimeValue ===

// TimeValue boxes a virtual-time attribute.
type TimeValue struct {
	Value core.Time
}

func NewTimeValue(v core.Time) *TimeValue { return &TimeValue{Value: v} }

func (v *TimeValue) String() string { return v.Value.String() }

func (v *TimeValue) Parse(s string) error {
	t, err := core.ParseTime(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAttributeBadValue, err)
	}
	v.Value = t
	return nil
}

func (v *TimeValue) Copy() AttributeValue { c := *v; return &c }

// TimeChecker accepts TimeValues within [Min, Max].
type TimeChecker struct {
	Min, Max core.Time
}

func NewTimeChecker(min, max core.Time) *TimeChecker {
	return &TimeChecker{Min: min, Max: max}
}

func NewTimeCheckerFull() *TimeChecker {
	return &TimeChecker{Min: core.Time(math.MinInt64), Max: core.Time(math.MaxInt64)}
}

func (c *TimeChecker) Check(v AttributeValue) bool {
	tv, ok := v.(*TimeValue)
	return ok && tv.Value >= c.Min && tv.Value <= c.Max
}

func (c *TimeChecker) Create() AttributeValue { return &TimeValue{} }

// === EnumValue ===

// EnumValue boxes one of a closed set of named integer constants. The name
// table travels with the value so serialization needs no extra context.
type EnumValue struct {
	Value int64
	names map[int64]string
}

// NewEnumValue builds an enum value over the given name table.
func NewEnumValue(names map[int64]string, v int64) *EnumValue {
	return &EnumValue{Value: v, names: names}
}

func (v *EnumValue) String() string {
	if name, ok := v.names[v.Value]; ok {
		return name
	}
	return strconv.FormatInt(v.Value, 10)
}

func (v *EnumValue) Parse(s string) error {
	for val, name := range v.names {
		if name == s {
			v.Value = val
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not a member of the enum", ErrAttributeBadValue, s)
}

func (v *EnumValue) Copy() AttributeValue { c := *v; return &c }

// EnumChecker accepts EnumValues whose integer is in the name table.
type EnumChecker struct {
	names map[int64]string
}

// NewEnumChecker declares the closed name set, e.g.
// NewEnumChecker(map[int64]string{0: "BestEffort", 1: "HardLimit"}).
func NewEnumChecker(names map[int64]string) *EnumChecker {
	return &EnumChecker{names: names}
}

func (c *EnumChecker) Check(v AttributeValue) bool {
	ev, ok := v.(*EnumValue)
	if !ok {
		return false
	}
	_, known := c.names[ev.Value]
	return known
}

func (c *EnumChecker) Create() AttributeValue { return &EnumValue{names: c.names} }

// === PointerValue ===

// PointerValue boxes a reference to another object. It has no text form;
// the config store recurses into it instead of printing it.
type PointerValue struct {
	Value Obj
}

func NewPointerValue(o Obj) *PointerValue { return &PointerValue{Value: o} }

func (v *PointerValue) String() string {
	if v.Value == nil {
		return "0"
	}
	return v.Value.TypeID().Name()
}

func (v *PointerValue) Parse(s string) error {
	return fmt.Errorf("%w: object pointers cannot be parsed from text", ErrAttributeBadValue)
}

func (v *PointerValue) Copy() AttributeValue { c := *v; return &c }

// PointerChecker accepts nil or objects derived from the declared TypeID.
type PointerChecker struct {
	TID TypeID
}

func NewPointerChecker(tid TypeID) *PointerChecker { return &PointerChecker{TID: tid} }

func (c *PointerChecker) Check(v AttributeValue) bool {
	pv, ok := v.(*PointerValue)
	if !ok {
		return false
	}
	return pv.Value == nil || pv.Value.TypeID().IsDerivedFrom(c.TID)
}

func (c *PointerChecker) Create() AttributeValue { return &PointerValue{} }

// === ObjectVectorValue ===

// ObjectVectorValue boxes an indexable collection of objects, addressed by
// the config path segments "[n]" and "*". Like PointerValue it has no text
// form of its own.
type ObjectVectorValue struct {
	Objects []Obj
}

func NewObjectVectorValue(objs []Obj) *ObjectVectorValue {
	return &ObjectVectorValue{Objects: objs}
}

func (v *ObjectVectorValue) String() string { return strconv.Itoa(len(v.Objects)) }

func (v *ObjectVectorValue) Parse(s string) error {
	return fmt.Errorf("%w: object vectors cannot be parsed from text", ErrAttributeBadValue)
}

func (v *ObjectVectorValue) Copy() AttributeValue {
	c := &ObjectVectorValue{Objects: make([]Obj, len(v.Objects))}
	copy(c.Objects, v.Objects)
	return c
}

// ObjectVectorChecker accepts ObjectVectorValues.
type ObjectVectorChecker struct{}

func NewObjectVectorChecker() *ObjectVectorChecker { return &ObjectVectorChecker{} }

func (c *ObjectVectorChecker) Check(v AttributeValue) bool {
	_, ok := v.(*ObjectVectorValue)
	return ok
}

func (c *ObjectVectorChecker) Create() AttributeValue { return &ObjectVectorValue{} }
