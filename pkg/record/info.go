package record

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crops/pkg/types"
)

// Info section keys.
const (
	KeyName     = "name"
	KeyPlants   = "plants"
	KeyCultivar = "cultivar"
	KeyPlanted  = "planted"
	KeySource   = "source"
	KeyID       = "id"
)

// Info is the static metadata section of a crop. It wraps the mapping node
// it was loaded from so that keys the tool does not know about survive a
// rewrite, in their original order.
type Info struct {
	node    *yaml.Node
	planted time.Time
}

// InfoFields holds the values collected for a new crop.
type InfoFields struct {
	Name     string
	Plants   int
	Cultivar string
	Planted  time.Time
	Source   string
	Notes    *string
	ID       string
}

// NewInfo builds an info section in the canonical key order: name, plants,
// cultivar, planted, source, notes, id. Zero-valued optional fields other
// than notes are omitted; notes is written as null when unset.
func NewInfo(f InfoFields) *Info {
	n := mapNode(strNode(KeyName), strNode(f.Name))
	if f.Plants > 0 {
		n.Content = append(n.Content, strNode(KeyPlants), intNode(f.Plants))
	}
	if f.Cultivar != "" {
		n.Content = append(n.Content, strNode(KeyCultivar), strNode(f.Cultivar))
	}
	n.Content = append(n.Content, strNode(KeyPlanted), timestampNode(f.Planted))
	if f.Source != "" {
		n.Content = append(n.Content, strNode(KeySource), strNode(f.Source))
	}
	notes := nullNode()
	if f.Notes != nil {
		notes = strNode(*f.Notes)
	}
	n.Content = append(n.Content, strNode(KeyNotes), notes)
	if f.ID != "" {
		n.Content = append(n.Content, strNode(KeyID), strNode(f.ID))
	}
	return &Info{node: n, planted: f.Planted}
}

// decodeInfo validates the first section of a crop document.
func decodeInfo(n *yaml.Node) (*Info, error) {
	n = follow(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: info section is not a mapping", types.ErrMalformedRecord)
	}
	info := &Info{node: n}

	name := info.lookup(KeyName)
	if isNull(name) || name.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: info section has no %s", types.ErrMalformedRecord, KeyName)
	}

	planted := info.lookup(KeyPlanted)
	if isNull(planted) || planted.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: info section has no %s", types.ErrMalformedRecord, KeyPlanted)
	}
	t, err := ParseTimestamp(planted.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedRecord, KeyPlanted, err)
	}
	info.planted = t
	return info, nil
}

func (i *Info) lookup(key string) *yaml.Node {
	for j := 0; j+1 < len(i.node.Content); j += 2 {
		if follow(i.node.Content[j]).Value == key {
			return follow(i.node.Content[j+1])
		}
	}
	return nil
}

func (i *Info) str(key string) (string, bool) {
	v := i.lookup(key)
	if isNull(v) || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

// Name returns the crop name.
func (i *Info) Name() string {
	s, _ := i.str(KeyName)
	return s
}

// Planted returns the planting date or timestamp.
func (i *Info) Planted() time.Time { return i.planted }

// Plants returns the number of plants, if recorded.
func (i *Info) Plants() (int, bool) {
	s, ok := i.str(KeyPlants)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Cultivar returns the cultivar, or "".
func (i *Info) Cultivar() string {
	s, _ := i.str(KeyCultivar)
	return s
}

// Source returns the source (seeds, cutting, nursery...), or "".
func (i *Info) Source() string {
	s, _ := i.str(KeySource)
	return s
}

// Notes returns the notes and whether they are set (notes may be null).
func (i *Info) Notes() (string, bool) { return i.str(KeyNotes) }

// ID returns the crop identifier, or "" for files written before ids existed.
func (i *Info) ID() string {
	s, _ := i.str(KeyID)
	return s
}

// Keys returns the info keys in document order.
func (i *Info) Keys() []string {
	keys := make([]string, 0, len(i.node.Content)/2)
	for j := 0; j+1 < len(i.node.Content); j += 2 {
		keys = append(keys, follow(i.node.Content[j]).Value)
	}
	return keys
}

// Set replaces the value of key, or appends key at the end when absent.
func (i *Info) Set(key string, value any) error {
	v := &yaml.Node{}
	if err := v.Encode(value); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if key == KeyPlanted {
		t, err := ParseTimestamp(v.Value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", types.ErrMalformedRecord, key, err)
		}
		i.planted = t
	}
	for j := 0; j+1 < len(i.node.Content); j += 2 {
		if follow(i.node.Content[j]).Value == key {
			i.node.Content[j+1] = v
			return nil
		}
	}
	i.node.Content = append(i.node.Content, strNode(key), v)
	return nil
}

// Map decodes the info section into a generic map, e.g. for JSON output.
func (i *Info) Map() (map[string]any, error) {
	m := make(map[string]any)
	if err := i.node.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode info: %w", err)
	}
	return m, nil
}

// Node returns the info mapping node.
func (i *Info) Node() *yaml.Node { return i.node }
