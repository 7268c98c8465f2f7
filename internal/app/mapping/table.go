// Package mapping holds the static table that renames station fields onto
// the destination provider's field names.
package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ghalamif/stationbridge/internal/domain"
)

type targetKind uint8

const (
	single targetKind = iota + 1
	multi
)

// Target is the destination side of a table entry: either one field name or
// an ordered list of names that all receive a copy of the source value.
type Target struct {
	kind  targetKind
	names []string
}

func SingleTarget(name string) Target {
	return Target{kind: single, names: []string{name}}
}

func MultiTarget(names ...string) Target {
	return Target{kind: multi, names: append([]string(nil), names...)}
}

// Names returns the destination field names in order.
func (t Target) Names() []string {
	return append([]string(nil), t.names...)
}

func (t Target) IsMulti() bool { return t.kind == multi }

func (t Target) clone() Target {
	return Target{kind: t.kind, names: t.Names()}
}

func (t Target) validate() error {
	if t.kind == 0 || len(t.names) == 0 {
		return fmt.Errorf("no destination field")
	}
	for _, n := range t.names {
		if n == "" {
			return fmt.Errorf("empty destination field name")
		}
	}
	return nil
}

// UnmarshalYAML resolves a scalar into SingleTarget and a sequence of
// scalars into MultiTarget.
func (t *Target) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		*t = SingleTarget(name)
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*t = MultiTarget(names...)
	default:
		return fmt.Errorf("line %d: destination must be a field name or a list of field names", node.Line)
	}
	return t.validate()
}

// Entry pairs a source field with its destination.
type Entry struct {
	Source string
	Target Target
}

// Table is immutable once built. Entries are applied in order, so a later
// entry overwrites an earlier one that writes the same destination field.
type Table struct {
	entries []Entry
}

func New(entries ...Entry) (*Table, error) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Source == "" {
			return nil, fmt.Errorf("%w: mapping entry with empty source field", domain.ErrConfiguration)
		}
		if _, dup := seen[e.Source]; dup {
			return nil, fmt.Errorf("%w: duplicate mapping for source field %q", domain.ErrConfiguration, e.Source)
		}
		if err := e.Target.validate(); err != nil {
			return nil, fmt.Errorf("%w: source field %q: %v", domain.ErrConfiguration, e.Source, err)
		}
		seen[e.Source] = struct{}{}
		out = append(out, Entry{Source: e.Source, Target: e.Target.clone()})
	}
	return &Table{entries: out}, nil
}

// MustNew is New for tables built from literals.
func MustNew(entries ...Entry) *Table {
	t, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a table from a YAML or JSON document whose top level maps
// source field names to a destination name or a list of names.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read mapping table: %v", domain.ErrConfiguration, err)
	}
	t, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a table document, keeping entries in document order.
func Parse(raw []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse mapping table: %v", domain.ErrConfiguration, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: mapping table is empty", domain.ErrConfiguration)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: mapping table must be a mapping of field names", domain.ErrConfiguration)
	}

	entries := make([]Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		var (
			src string
			tgt Target
		)
		if err := root.Content[i].Decode(&src); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrConfiguration, root.Content[i].Line, err)
		}
		if err := root.Content[i+1].Decode(&tgt); err != nil {
			return nil, fmt.Errorf("%w: source field %q: %v", domain.ErrConfiguration, src, err)
		}
		entries = append(entries, Entry{Source: src, Target: tgt})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: mapping table is empty", domain.ErrConfiguration)
	}
	return New(entries...)
}

// Len reports the number of source fields in the table.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the table entries in application order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Source: e.Source, Target: e.Target.clone()}
	}
	return out
}

// Remap copies every non-null source value the table knows about under each
// of its destination names. Values are passed through unchanged.
func (t *Table) Remap(raw domain.RawObservation) domain.MappedObservation {
	out := make(domain.MappedObservation)
	for _, e := range t.entries {
		v, ok := raw[e.Source]
		if !ok || v == nil {
			continue
		}
		for _, name := range e.Target.names {
			out[name] = v
		}
	}
	return out
}
