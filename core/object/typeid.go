package object

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// TypeID is a handle on a registered runtime type descriptor. The zero
// TypeID is invalid. TypeIDs are registered during process initialization
// (package init functions) and are immutable once the first instance is
// constructed or the first lookup by name resolves them.
type TypeID struct {
	idx uint16
}

// AttributeFlags gate how an attribute may be accessed.
type AttributeFlags uint32

const (
	// AttrGet allows reads.
	AttrGet AttributeFlags = 1 << iota
	// AttrSet allows writes at any point in the object lifetime.
	AttrSet
	// AttrConstruct allows writes until the object is initialized. An
	// attribute with AttrConstruct but not AttrSet is construct-only.
	AttrConstruct
)

// AttributeInfo describes one named, typed, checked property of a type.
type AttributeInfo struct {
	Name     string
	Help     string
	Default  AttributeValue
	Flags    AttributeFlags
	Accessor AttributeAccessor
	Checker  AttributeChecker
	owner    TypeID
}

// TraceSourceInfo describes one named trace source of a type. Signature
// documents the argument tuple subscribers receive, e.g. "(uint32,uint32)".
type TraceSourceInfo struct {
	Name      string
	Help      string
	Signature string
	Accessor  func(Obj) *TracedCallback
}

type typeInfo struct {
	name        string
	parent      TypeID
	hasParent   bool
	group       string
	constructor func() Obj
	attributes  []AttributeInfo
	traces      []TraceSourceInfo
	frozen      bool
}

type typeRegistry struct {
	infos    []*typeInfo // index = TypeID.idx - 1
	byName   map[string]TypeID
	defaults map[string]AttributeValue // "ns3::Type::Attr" -> override
}

var registry = &typeRegistry{
	byName:   make(map[string]TypeID),
	defaults: make(map[string]AttributeValue),
}

func (r *typeRegistry) info(t TypeID) *typeInfo {
	if t.idx == 0 || int(t.idx) > len(r.infos) {
		panic(fmt.Sprintf("object: invalid TypeID %d", t.idx))
	}
	return r.infos[t.idx-1]
}

// NewTypeID registers a fresh type under a globally unique name such as
// "ns3::PingNode" and returns its builder handle. Registering the same
// name twice is a usage error and panics.
func NewTypeID(name string) TypeID {
	if _, dup := registry.byName[name]; dup {
		panic(fmt.Sprintf("object: TypeID %q registered twice", name))
	}
	registry.infos = append(registry.infos, &typeInfo{name: name})
	t := TypeID{idx: uint16(len(registry.infos))}
	registry.byName[name] = t
	return t
}

// LookupTypeID resolves a registered name. The returned TypeID's builder is
// frozen by the lookup.
func LookupTypeID(name string) (TypeID, error) {
	t, ok := registry.byName[name]
	if !ok {
		return TypeID{}, fmt.Errorf("%w: %q", ErrTypeIDUnknown, name)
	}
	registry.info(t).frozen = true
	return t, nil
}

// MustLookupTypeID is LookupTypeID for names that are known to exist.
func MustLookupTypeID(name string) TypeID {
	t, err := LookupTypeID(name)
	if err != nil {
		panic(err)
	}
	return t
}

// TypeIDNames returns all registered names in lexicographic order.
func TypeIDNames() []string {
	names := make([]string, 0, len(registry.byName))
	for name := range registry.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (t TypeID) mutable() *typeInfo {
	info := registry.info(t)
	if info.frozen {
		panic(fmt.Sprintf("object: TypeID %q is frozen, register attributes before first use", info.name))
	}
	return info
}

// SetParent declares single inheritance; attribute and trace lookups walk
// from t up through its ancestors.
func (t TypeID) SetParent(parent TypeID) TypeID {
	info := t.mutable()
	info.parent = parent
	info.hasParent = true
	return t
}

// SetGroupName tags the type with a module group such as "Core".
func (t TypeID) SetGroupName(group string) TypeID {
	t.mutable().group = group
	return t
}

// AddConstructor registers the thunk used by factories to build instances.
func (t TypeID) AddConstructor(fn func() Obj) TypeID {
	t.mutable().constructor = fn
	return t
}

// AddAttribute registers a read-write attribute that is also settable at
// construction. The default must satisfy the checker.
func (t TypeID) AddAttribute(name, help string, def AttributeValue, acc AttributeAccessor, chk AttributeChecker) TypeID {
	return t.AddAttributeFlags(name, help, AttrGet|AttrSet|AttrConstruct, def, acc, chk)
}

// AddAttributeFlags registers an attribute with explicit access flags.
func (t TypeID) AddAttributeFlags(name, help string, flags AttributeFlags, def AttributeValue, acc AttributeAccessor, chk AttributeChecker) TypeID {
	info := t.mutable()
	for _, a := range info.attributes {
		if a.Name == name {
			panic(fmt.Sprintf("object: attribute %q registered twice on %q", name, info.name))
		}
	}
	if def != nil && chk != nil && !chk.Check(def) {
		panic(fmt.Sprintf("object: default for %q::%q rejected by its own checker", info.name, name))
	}
	info.attributes = append(info.attributes, AttributeInfo{
		Name:     name,
		Help:     help,
		Default:  def,
		Flags:    flags,
		Accessor: acc,
		Checker:  chk,
		owner:    t,
	})
	return t
}

// AddTraceSource registers a named trace source with its signature key.
func (t TypeID) AddTraceSource(name, help, signature string, acc func(Obj) *TracedCallback) TypeID {
	info := t.mutable()
	for _, ts := range info.traces {
		if ts.Name == name {
			panic(fmt.Sprintf("object: trace source %q registered twice on %q", name, info.name))
		}
	}
	info.traces = append(info.traces, TraceSourceInfo{Name: name, Help: help, Signature: signature, Accessor: acc})
	return t
}

// Name returns the registered name.
func (t TypeID) Name() string { return registry.info(t).name }

// GroupName returns the group tag.
func (t TypeID) GroupName() string { return registry.info(t).group }

// Parent returns the parent TypeID, if one was declared.
func (t TypeID) Parent() (TypeID, bool) {
	info := registry.info(t)
	return info.parent, info.hasParent
}

// IsValid reports whether t names a registered type.
func (t TypeID) IsValid() bool { return t.idx != 0 }

// IsDerivedFrom reports whether t is other or a descendant of other.
func (t TypeID) IsDerivedFrom(other TypeID) bool {
	for cur := t; cur.IsValid(); {
		if cur == other {
			return true
		}
		parent, ok := cur.Parent()
		if !ok {
			return false
		}
		cur = parent
	}
	return false
}

// Attributes returns the attributes declared directly on t, in
// registration order.
func (t TypeID) Attributes() []AttributeInfo {
	return slices.Clone(registry.info(t).attributes)
}

// TraceSources returns the trace sources declared directly on t.
func (t TypeID) TraceSources() []TraceSourceInfo {
	return slices.Clone(registry.info(t).traces)
}

// LookupAttribute finds the attribute by name, walking t and then its
// ancestors.
func (t TypeID) LookupAttribute(name string) (AttributeInfo, bool) {
	for cur := t; cur.IsValid(); {
		for _, a := range registry.info(cur).attributes {
			if a.Name == name {
				return a, true
			}
		}
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		cur = parent
	}
	return AttributeInfo{}, false
}

// LookupTraceSource finds the trace source by name, walking t and then its
// ancestors.
func (t TypeID) LookupTraceSource(name string) (TraceSourceInfo, bool) {
	for cur := t; cur.IsValid(); {
		for _, ts := range registry.info(cur).traces {
			if ts.Name == name {
				return ts, true
			}
		}
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		cur = parent
	}
	return TraceSourceInfo{}, false
}

// SetDefault overrides the registered default of "ns3::Type::Attr" for
// objects constructed afterwards. The override keys on the type that
// declares the attribute, so descendants inheriting the attribute see it
// too. The value must satisfy the attribute's checker.
func SetDefault(fullName string, v AttributeValue) error {
	tid, info, err := splitAttributeName(fullName)
	if err != nil {
		return err
	}
	_ = tid
	coerced, err := coerce(v, info.Checker)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrAttributeBadValue, fullName)
	}
	registry.defaults[info.owner.Name()+"::"+info.Name] = coerced.Copy()
	return nil
}

// MustSetDefault is SetDefault treating failure as a bug.
func MustSetDefault(fullName string, v AttributeValue) {
	if err := SetDefault(fullName, v); err != nil {
		panic(err)
	}
}

// Defaults returns a copy of the active global default overrides keyed by
// "ns3::Type::Attr".
func Defaults() map[string]AttributeValue {
	out := make(map[string]AttributeValue, len(registry.defaults))
	for k, v := range registry.defaults {
		out[k] = v.Copy()
	}
	return out
}

// ClearDefaults drops every global default override.
func ClearDefaults() {
	registry.defaults = make(map[string]AttributeValue)
}

func splitAttributeName(fullName string) (TypeID, AttributeInfo, error) {
	i := lastIndexOfSep(fullName)
	if i < 0 {
		return TypeID{}, AttributeInfo{}, fmt.Errorf("%w: malformed attribute name %q", ErrAttributeUnknown, fullName)
	}
	typeName, attrName := fullName[:i], fullName[i+2:]
	tid, err := LookupTypeID(typeName)
	if err != nil {
		return TypeID{}, AttributeInfo{}, err
	}
	info, ok := tid.LookupAttribute(attrName)
	if !ok {
		return TypeID{}, AttributeInfo{}, fmt.Errorf("%w: %q", ErrAttributeUnknown, fullName)
	}
	return tid, info, nil
}

func lastIndexOfSep(s string) int {
	for i := len(s) - 2; i >= 0; i-- {
		if s[i] == ':' && s[i+1] == ':' {
			return i
		}
	}
	return -1
}
