package record

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crops/pkg/types"
)

// Kind identifies the variant of an event entry.
type Kind int

// Entry kinds.
const (
	// KindTag is a bare string entry other than "water" or "feed".
	KindTag Kind = iota
	KindStage
	KindWater
	KindFeed
	// KindOther is a mapping entry carrying none of the recognized keys.
	KindOther
)

// Recognized entry keys. A bare "water" or "feed" string is the detail-free
// form of the matching mapping entry.
const (
	KeyStage     = "stage"
	KeyWater     = "water"
	KeyFeed      = "feed"
	KeyAdditives = "additives"
	KeyNotes     = "notes"
)

var kindNames = map[Kind]string{
	KindTag:   "tag",
	KindStage: "stage",
	KindWater: "water",
	KindFeed:  "feed",
	KindOther: "other",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entry is one logged occurrence. Entries are decoded when a record is
// loaded; the YAML node they came from is kept so that unchanged entries
// serialize exactly as they were read.
type Entry struct {
	kind      Kind
	tag       string
	stage     string
	additives []string
	notes     string
	node      *yaml.Node
}

// NewTag returns a bare tag entry. The tags "water" and "feed" produce the
// detail-free water and feed entries.
func NewTag(tag string) Entry {
	e := Entry{kind: KindTag, tag: tag, node: strNode(tag)}
	switch tag {
	case KeyWater:
		e.kind = KindWater
	case KeyFeed:
		e.kind = KindFeed
	}
	return e
}

// NewStage returns a {stage: name} entry.
func NewStage(name string) Entry {
	return Entry{
		kind:  KindStage,
		stage: name,
		node:  mapNode(strNode(KeyStage), strNode(name)),
	}
}

// NewWater returns a water entry. With no additives and no notes it is the
// bare "water" tag; otherwise {water: {additives: [...], notes: ...}} with
// only the fields that were given.
func NewWater(additives []string, notes string) Entry {
	if len(additives) == 0 && notes == "" {
		return NewTag(KeyWater)
	}
	return Entry{
		kind:      KindWater,
		additives: slices.Clone(additives),
		notes:     notes,
		node:      mapNode(strNode(KeyWater), detailsNode(additives, notes)),
	}
}

// NewFeed returns a feed entry, bare "feed" when notes is empty.
func NewFeed(notes string) Entry {
	if notes == "" {
		return NewTag(KeyFeed)
	}
	return Entry{
		kind:  KindFeed,
		notes: notes,
		node:  mapNode(strNode(KeyFeed), detailsNode(nil, notes)),
	}
}

// Kind returns the entry variant.
func (e Entry) Kind() Kind { return e.kind }

// Tag returns the text of a bare entry, or "" for mapping entries.
func (e Entry) Tag() string { return e.tag }

// Bare reports whether the entry was written as a bare string.
func (e Entry) Bare() bool { return e.tag != "" }

// Stage returns the stage name of a stage entry.
func (e Entry) Stage() string { return e.stage }

// Additives returns the additives of a water entry.
func (e Entry) Additives() []string { return slices.Clone(e.additives) }

// Notes returns the notes of a water or feed entry.
func (e Entry) Notes() string { return e.notes }

// Node returns the YAML representation of the entry.
func (e Entry) Node() *yaml.Node { return e.node }

// decodeEntry turns one element of a time bucket into an Entry.
func decodeEntry(n *yaml.Node) (Entry, error) {
	n = follow(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() != "!!str" || n.Value == "" {
			return Entry{}, fmt.Errorf("%w: bare entry %q is not a tag", types.ErrMalformedEntry, n.Value)
		}
		e := NewTag(n.Value)
		e.node = n
		return e, nil
	case yaml.MappingNode:
		return decodeMappingEntry(n)
	default:
		return Entry{}, fmt.Errorf("%w: line %d: expected a tag or a mapping", types.ErrMalformedEntry, n.Line)
	}
}

func decodeMappingEntry(n *yaml.Node) (Entry, error) {
	var found []string
	values := make(map[string]*yaml.Node)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := follow(n.Content[i])
		if k.Kind != yaml.ScalarNode {
			return Entry{}, fmt.Errorf("%w: line %d: non-scalar key", types.ErrMalformedEntry, k.Line)
		}
		switch k.Value {
		case KeyStage, KeyWater, KeyFeed:
			found = append(found, k.Value)
			values[k.Value] = follow(n.Content[i+1])
		}
	}
	if len(found) > 1 {
		return Entry{}, fmt.Errorf("%w: line %d: entry combines %v", types.ErrMalformedEntry, n.Line, found)
	}

	e := Entry{kind: KindOther, node: n}
	if len(found) == 0 {
		return e, nil
	}

	v := values[found[0]]
	switch found[0] {
	case KeyStage:
		if v.Kind != yaml.ScalarNode || v.ShortTag() != "!!str" || v.Value == "" {
			return Entry{}, fmt.Errorf("%w: line %d: stage must be a name", types.ErrMalformedEntry, v.Line)
		}
		e.kind = KindStage
		e.stage = v.Value
	case KeyWater:
		additives, notes, err := decodeDetails(v)
		if err != nil {
			return Entry{}, err
		}
		e.kind = KindWater
		e.additives = additives
		e.notes = notes
	case KeyFeed:
		additives, notes, err := decodeDetails(v)
		if err != nil {
			return Entry{}, err
		}
		e.kind = KindFeed
		e.additives = additives
		e.notes = notes
	}
	return e, nil
}

// decodeDetails reads the optional {additives, notes} mapping of a water or
// feed entry. A null value means no details.
func decodeDetails(v *yaml.Node) ([]string, string, error) {
	if isNull(v) {
		return nil, "", nil
	}
	if v.Kind != yaml.MappingNode {
		return nil, "", fmt.Errorf("%w: line %d: details must be a mapping", types.ErrMalformedEntry, v.Line)
	}

	var additives []string
	var notes string
	for i := 0; i+1 < len(v.Content); i += 2 {
		key := follow(v.Content[i]).Value
		val := follow(v.Content[i+1])
		switch key {
		case KeyAdditives:
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.SequenceNode {
				return nil, "", fmt.Errorf("%w: line %d: additives must be a list", types.ErrMalformedEntry, val.Line)
			}
			for _, a := range val.Content {
				a = follow(a)
				if a.Kind != yaml.ScalarNode {
					return nil, "", fmt.Errorf("%w: line %d: additive must be a scalar", types.ErrMalformedEntry, a.Line)
				}
				additives = append(additives, a.Value)
			}
		case KeyNotes:
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.ScalarNode {
				return nil, "", fmt.Errorf("%w: line %d: notes must be text", types.ErrMalformedEntry, val.Line)
			}
			notes = val.Value
		}
	}
	return additives, notes, nil
}

func detailsNode(additives []string, notes string) *yaml.Node {
	d := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(additives) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, a := range additives {
			seq.Content = append(seq.Content, strNode(a))
		}
		d.Content = append(d.Content, strNode(KeyAdditives), seq)
	}
	if notes != "" {
		d.Content = append(d.Content, strNode(KeyNotes), strNode(notes))
	}
	return d
}
