package config

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
)

// Format selects the config-store file encoding.
type Format int

const (
	// FormatText is the line-oriented "PATH VALUE" format.
	FormatText Format = iota
	// FormatXML is the DTD-less XML format.
	FormatXML
	// FormatYAML is the YAML format.
	FormatYAML
)

// ParseFormat maps "text", "xml" or "yaml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "txt":
		return FormatText, nil
	case "xml":
		return FormatXML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatText, fmt.Errorf("config: unknown store format %q", s)
}

// entry is one persisted line: a global default ("ns3::Type::Attr") or a
// path-addressed value.
type entry struct {
	name  string
	value string
}

// collect walks the registered roots depth first, attributes in
// lexicographic order, and renders every readable, settable attribute to
// its text form. The walk recurses into pointer and object-vector
// attributes instead of serializing them.
func collect() (defaults, values []entry) {
	defs := object.Defaults()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		defaults = append(defaults, entry{name: name, value: defs[name].String()})
	}

	visited := map[object.Obj]bool{}
	for _, alias := range RootAliases() {
		values = append(values, collectObject(roots[alias], "/"+alias, visited)...)
	}
	return defaults, values
}

func collectObject(o object.Obj, path string, visited map[object.Obj]bool) []entry {
	if o == nil || visited[o] {
		return nil
	}
	visited[o] = true

	var attrs []object.AttributeInfo
	for tid, ok := o.TypeID(), true; ok; tid, ok = tid.Parent() {
		attrs = append(attrs, tid.Attributes()...)
	}
	slices.SortFunc(attrs, func(a, b object.AttributeInfo) int {
		return strings.Compare(a.Name, b.Name)
	})

	var out []entry
	for _, attr := range attrs {
		if attr.Flags&object.AttrGet == 0 {
			continue
		}
		v, err := object.GetAttribute(o, attr.Name)
		if err != nil {
			continue
		}
		switch val := v.(type) {
		case *object.PointerValue:
			out = append(out, collectObject(val.Value, path+"/"+attr.Name, visited)...)
		case *object.ObjectVectorValue:
			for i, child := range val.Objects {
				childPath := path + "/" + attr.Name + "/[" + strconv.Itoa(i) + "]"
				out = append(out, collectObject(child, childPath, visited)...)
			}
		default:
			if attr.Flags&(object.AttrSet|object.AttrConstruct) == 0 {
				continue
			}
			out = append(out, entry{name: path + "/" + attr.Name, value: v.String()})
		}
	}
	return out
}

func apply(defaults, values []entry) {
	for _, e := range defaults {
		if err := object.SetDefault(e.name, object.NewStringValue(e.value)); err != nil {
			logrus.Warnf("config: load default %s: %v", e.name, err)
		}
	}
	for _, e := range values {
		matches, err := Resolve(e.name)
		if err != nil {
			logrus.Warnf("config: load %s: %v", e.name, err)
			continue
		}
		if len(matches) == 0 {
			logrus.Warnf("config: load %s: no endpoint matched", e.name)
			continue
		}
		for _, m := range matches {
			if err := object.SetAttribute(m.Object, m.Leaf, object.NewStringValue(e.value)); err != nil {
				logrus.Warnf("config: load %s: %v", m.Path, err)
			}
		}
	}
}

// Save writes every defaulted-or-set attribute reachable from the
// registered roots, plus the active global defaults, in a stable order so
// save → load → save is a fixed point.
func Save(w io.Writer, format Format) error {
	defaults, values := collect()
	switch format {
	case FormatText:
		return saveText(w, defaults, values)
	case FormatXML:
		return saveXML(w, defaults, values)
	case FormatYAML:
		return saveYAML(w, defaults, values)
	}
	return fmt.Errorf("config: unknown store format %d", format)
}

// Load reads a config store and applies it. Malformed lines are reported
// and skipped; the per-line failure count comes back as an error. Unknown
// paths are tolerated with a diagnostic.
func Load(r io.Reader, format Format) error {
	switch format {
	case FormatText:
		return loadText(r)
	case FormatXML:
		return loadXML(r)
	case FormatYAML:
		return loadYAML(r)
	}
	return fmt.Errorf("config: unknown store format %d", format)
}

// === text backend ===

func saveText(w io.Writer, defaults, values []entry) error {
	for _, e := range defaults {
		if _, err := fmt.Fprintf(w, "default %s %s\n", e.name, strconv.Quote(e.value)); err != nil {
			return err
		}
	}
	for _, e := range values {
		if _, err := fmt.Fprintf(w, "%s %s\n", e.name, strconv.Quote(e.value)); err != nil {
			return err
		}
	}
	return nil
}

func loadText(r io.Reader) error {
	var defaults, values []entry
	malformed := 0
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, isDefault, err := parseTextLine(line)
		if err != nil {
			logrus.Errorf("config: line %d: %v", lineno, err)
			malformed++
			continue
		}
		if isDefault {
			defaults = append(defaults, e)
		} else {
			values = append(values, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	apply(defaults, values)
	if malformed > 0 {
		return fmt.Errorf("config: %d malformed line(s)", malformed)
	}
	return nil
}

func parseTextLine(line string) (entry, bool, error) {
	key, rest, found := strings.Cut(line, " ")
	if !found {
		return entry{}, false, fmt.Errorf("expected \"PATH VALUE\", got %q", line)
	}
	isDefault := false
	if key == "default" {
		isDefault = true
		key, rest, found = strings.Cut(rest, " ")
		if !found {
			return entry{}, false, fmt.Errorf("expected \"default NAME VALUE\", got %q", line)
		}
	}
	value, err := strconv.Unquote(strings.TrimSpace(rest))
	if err != nil {
		return entry{}, false, fmt.Errorf("bad value %q: %v", rest, err)
	}
	return entry{name: key, value: value}, isDefault, nil
}

// === XML backend ===

type xmlEntry struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlStore struct {
	XMLName  xml.Name   `xml:"ns3"`
	Defaults []xmlEntry `xml:"default"`
	Values   []xmlEntry `xml:"value"`
}

func saveXML(w io.Writer, defaults, values []entry) error {
	store := xmlStore{}
	for _, e := range defaults {
		store.Defaults = append(store.Defaults, xmlEntry{Name: e.name, Value: e.value})
	}
	for _, e := range values {
		store.Values = append(store.Values, xmlEntry{Name: e.name, Value: e.value})
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(store); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func loadXML(r io.Reader) error {
	var store xmlStore
	if err := xml.NewDecoder(r).Decode(&store); err != nil {
		return fmt.Errorf("config: bad XML store: %w", err)
	}
	apply(fromXML(store.Defaults), fromXML(store.Values))
	return nil
}

func fromXML(in []xmlEntry) []entry {
	out := make([]entry, 0, len(in))
	for _, e := range in {
		out = append(out, entry{name: e.Name, value: e.Value})
	}
	return out
}

// === YAML backend ===

type yamlEntry struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type yamlStore struct {
	Defaults []yamlEntry `yaml:"defaults,omitempty"`
	Values   []yamlEntry `yaml:"values,omitempty"`
}

func saveYAML(w io.Writer, defaults, values []entry) error {
	store := yamlStore{}
	for _, e := range defaults {
		store.Defaults = append(store.Defaults, yamlEntry{Name: e.name, Value: e.value})
	}
	for _, e := range values {
		store.Values = append(store.Values, yamlEntry{Name: e.name, Value: e.value})
	}
	out, err := yaml.Marshal(store)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func loadYAML(r io.Reader) error {
	var store yamlStore
	if err := yaml.NewDecoder(r).Decode(&store); err != nil {
		return fmt.Errorf("config: bad YAML store: %w", err)
	}
	apply(fromYAML(store.Defaults), fromYAML(store.Values))
	return nil
}

func fromYAML(in []yamlEntry) []entry {
	out := make([]entry, 0, len(in))
	for _, e := range in {
		out = append(out, entry{name: e.Name, value: e.Value})
	}
	return out
}
