// Package config implements the string-addressable configuration
// namespace: objects registered under root aliases, located by /-separated
// paths, with attribute get/set and trace connection on every endpoint a
// path matches.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
)

var (
	// ErrUnknownRoot names a path whose first segment is not a
	// registered root alias.
	ErrUnknownRoot = errors.New("config: unknown root alias")
	// ErrMalformedPath names a path the grammar rejects.
	ErrMalformedPath = errors.New("config: malformed path")
)

var roots = map[string]object.Obj{}

// RegisterRoot names a root object. Re-registering an alias is a usage
// error and panics.
func RegisterRoot(alias string, o object.Obj) {
	if _, dup := roots[alias]; dup {
		panic(fmt.Sprintf("config: root alias %q registered twice", alias))
	}
	roots[alias] = o
}

// UnregisterRoot removes a root alias. Unknown aliases are a no-op.
func UnregisterRoot(alias string) {
	delete(roots, alias)
}

// ClearRoots removes every root alias.
func ClearRoots() {
	roots = map[string]object.Obj{}
}

// RootAliases returns the registered aliases in lexicographic order.
func RootAliases() []string {
	aliases := make([]string, 0, len(roots))
	for alias := range roots {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	return aliases
}

// Match is one endpoint a path resolved to: an object plus the final
// segment, which names an attribute or trace source on it.
type Match struct {
	Object object.Obj
	Leaf   string
	Path   string
}

// cursor is an intermediate position during path traversal: either a
// single object or the elements of an object-vector attribute.
type cursor struct {
	obj  object.Obj
	vec  []object.Obj
	path string
}

func indexSegment(seg string) (int, bool) {
	if n, err := strconv.Atoi(seg); err == nil && n >= 0 {
		return n, true
	}
	if strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]") {
		if n, err := strconv.Atoi(seg[1 : len(seg)-1]); err == nil && n >= 0 {
			return n, true
		}
	}
	return 0, false
}

// Resolve evaluates a path to its endpoints. The path language is a
// query: segments that match nothing contribute zero endpoints and are
// never an error. Unknown root aliases and grammar violations are.
func Resolve(path string) ([]Match, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" {
		return nil, fmt.Errorf("%w: %q needs a root alias and a leaf", ErrMalformedPath, path)
	}
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrMalformedPath, path)
		}
	}
	root, ok := roots[segments[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoot, segments[0])
	}

	cursors := []cursor{{obj: root, path: "/" + segments[0]}}
	for _, seg := range segments[1 : len(segments)-1] {
		var next []cursor
		for _, cur := range cursors {
			next = append(next, cur.step(seg)...)
		}
		cursors = next
	}

	leaf := segments[len(segments)-1]
	var matches []Match
	for _, cur := range cursors {
		if cur.obj == nil {
			continue
		}
		matches = append(matches, Match{Object: cur.obj, Leaf: leaf, Path: cur.path + "/" + leaf})
	}
	return matches, nil
}

func (c cursor) step(seg string) []cursor {
	if c.vec != nil {
		if seg == "*" {
			out := make([]cursor, 0, len(c.vec))
			for i, o := range c.vec {
				out = append(out, cursor{obj: o, path: c.path + "/[" + strconv.Itoa(i) + "]"})
			}
			return out
		}
		if n, ok := indexSegment(seg); ok {
			if n < len(c.vec) {
				return []cursor{{obj: c.vec[n], path: c.path + "/[" + strconv.Itoa(n) + "]"}}
			}
			return nil
		}
		return nil
	}

	if seg == "*" {
		peers := object.Peers(c.obj)
		out := make([]cursor, 0, len(peers))
		for _, p := range peers {
			out = append(out, cursor{obj: p, path: c.path + "/" + p.TypeID().Name()})
		}
		return out
	}
	v, err := object.GetAttribute(c.obj, seg)
	if err != nil {
		return nil
	}
	switch val := v.(type) {
	case *object.PointerValue:
		if val.Value == nil {
			return nil
		}
		return []cursor{{obj: val.Value, path: c.path + "/" + seg}}
	case *object.ObjectVectorValue:
		return []cursor{{vec: val.Objects, path: c.path + "/" + seg}}
	}
	return nil
}

// Set applies v to every endpoint the path matches and returns the number
// of successful writes. Zero matches is not an error; a bad path is a
// usage error and panics.
func Set(path string, v object.AttributeValue) int {
	matches, err := Resolve(path)
	if err != nil {
		panic(err)
	}
	count := 0
	for _, m := range matches {
		if err := object.SetAttribute(m.Object, m.Leaf, v.Copy()); err != nil {
			logrus.Warnf("config: set %s: %v", m.Path, err)
			continue
		}
		count++
	}
	return count
}

// Get reads every endpoint the path matches.
func Get(path string) []object.AttributeValue {
	matches, err := Resolve(path)
	if err != nil {
		panic(err)
	}
	var values []object.AttributeValue
	for _, m := range matches {
		v, err := object.GetAttribute(m.Object, m.Leaf)
		if err != nil {
			logrus.Warnf("config: get %s: %v", m.Path, err)
			continue
		}
		values = append(values, v)
	}
	return values
}

// Subscription names the attachments one Connect call made so they can be
// detached together.
type Subscription struct {
	entries []subscriptionEntry
}

type subscriptionEntry struct {
	obj  object.Obj
	leaf string
	conn object.Connection
}

// Count returns the number of attachments the Connect call made.
func (s *Subscription) Count() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Connect attaches cb to every trace source the path matches. The returned
// subscription reports how many endpoints attached and hands the
// attachments to Disconnect.
func Connect(path string, cb func(args ...any)) *Subscription {
	matches, err := Resolve(path)
	if err != nil {
		panic(err)
	}
	sub := &Subscription{}
	for _, m := range matches {
		c, err := object.ConnectTrace(m.Object, m.Leaf, cb)
		if err != nil {
			logrus.Warnf("config: connect %s: %v", m.Path, err)
			continue
		}
		sub.entries = append(sub.entries, subscriptionEntry{obj: m.Object, leaf: m.Leaf, conn: c})
	}
	return sub
}

// Disconnect detaches every attachment in sub and returns how many it
// removed. Idempotent; a nil subscription is a no-op.
func Disconnect(sub *Subscription) int {
	if sub == nil {
		return 0
	}
	count := 0
	for _, e := range sub.entries {
		if err := object.DisconnectTrace(e.obj, e.leaf, e.conn); err != nil {
			continue
		}
		count++
	}
	sub.entries = nil
	return count
}
