package record

import (
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crops/pkg/types"
)

// EventLog is the events section: days in insertion order, each holding
// time slots in insertion order, each holding entries in append order.
// Because events are always appended with the current time, insertion order
// is chronological and the most recent entry is the last one.
type EventLog struct {
	days []*Day
	orig *yaml.Node
}

// Day groups the slots logged on one calendar date.
type Day struct {
	date  time.Time
	key   *yaml.Node
	slots []*Slot
	orig  *yaml.Node
}

// Slot groups the entries logged within one minute of a day.
type Slot struct {
	label   string
	key     *yaml.Node
	entries []Entry
	orig    *yaml.Node
}

// Date returns the day's calendar date at midnight, local time.
func (d *Day) Date() time.Time { return d.date }

// Slots returns the day's time slots, oldest first. The slice must not be
// modified.
func (d *Day) Slots() []*Slot { return d.slots }

// Label returns the slot's time-of-day label, e.g. "14h30".
func (s *Slot) Label() string { return s.label }

// Entries returns the slot's entries in append order. The slice must not be
// modified.
func (s *Slot) Entries() []Entry { return s.entries }

// Days returns the log's days, oldest first. The slice must not be modified.
func (l *EventLog) Days() []*Day { return l.days }

// Len returns the total number of entries.
func (l *EventLog) Len() int {
	n := 0
	for _, d := range l.days {
		for _, s := range d.slots {
			n += len(s.entries)
		}
	}
	return n
}

// Empty reports whether the log holds no days.
func (l *EventLog) Empty() bool { return len(l.days) == 0 }

// Append adds e to the slot of at, creating the day and slot when absent.
// New days and slots are placed after existing ones.
func (l *EventLog) Append(e Entry, at time.Time) {
	date := CivilDate(at)
	i := slices.IndexFunc(l.days, func(d *Day) bool { return sameDate(d.date, date) })
	if i < 0 {
		l.days = append(l.days, &Day{date: date, key: dateNode(date)})
		i = len(l.days) - 1
	}
	day := l.days[i]

	label := TimeLabel(at)
	j := slices.IndexFunc(day.slots, func(s *Slot) bool { return s.label == label })
	if j < 0 {
		day.slots = append(day.slots, &Slot{label: label, key: strNode(label)})
		j = len(day.slots) - 1
	}
	slot := day.slots[j]
	slot.entries = append(slot.entries, e)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// decodeEventLog reads the events section. A nil or null section is an
// empty log.
func decodeEventLog(n *yaml.Node) (*EventLog, error) {
	n = follow(n)
	l := &EventLog{orig: n}
	if isNull(n) {
		return l, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: events section is not a mapping", types.ErrMalformedRecord)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := follow(n.Content[i]), follow(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: event date is not a scalar", types.ErrMalformedRecord, k.Line)
		}
		t, err := ParseTimestamp(k.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", types.ErrMalformedRecord, k.Line, err)
		}
		date := CivilDate(t)
		if slices.ContainsFunc(l.days, func(d *Day) bool { return sameDate(d.date, date) }) {
			return nil, fmt.Errorf("%w: line %d: duplicate date %s", types.ErrMalformedRecord, k.Line, k.Value)
		}
		day, err := decodeDay(date, k, v)
		if err != nil {
			return nil, err
		}
		l.days = append(l.days, day)
	}
	return l, nil
}

func decodeDay(date time.Time, key, n *yaml.Node) (*Day, error) {
	day := &Day{date: date, key: key, orig: n}
	if isNull(n) {
		return day, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: events of %s are not a mapping", types.ErrMalformedRecord, n.Line, key.Value)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := follow(n.Content[i]), follow(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: time label is not a scalar", types.ErrMalformedRecord, k.Line)
		}
		if slices.ContainsFunc(day.slots, func(s *Slot) bool { return s.label == k.Value }) {
			return nil, fmt.Errorf("%w: line %d: duplicate time %s on %s", types.ErrMalformedRecord, k.Line, k.Value, key.Value)
		}
		slot := &Slot{label: k.Value, key: k, orig: v}
		if !isNull(v) {
			if v.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("%w: line %d: entries at %s %s are not a list", types.ErrMalformedRecord, v.Line, key.Value, k.Value)
			}
			for _, item := range v.Content {
				e, err := decodeEntry(item)
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", key.Value, k.Value, err)
				}
				slot.entries = append(slot.entries, e)
			}
		}
		day.slots = append(day.slots, slot)
	}
	return day, nil
}

// node rebuilds the events mapping, reusing loaded key and entry nodes.
func (l *EventLog) node() *yaml.Node {
	root := shell(l.orig, yaml.MappingNode, "!!map")
	for _, d := range l.days {
		dm := shell(d.orig, yaml.MappingNode, "!!map")
		for _, s := range d.slots {
			seq := shell(s.orig, yaml.SequenceNode, "!!seq")
			for _, e := range s.entries {
				seq.Content = append(seq.Content, e.node)
			}
			dm.Content = append(dm.Content, s.key, seq)
		}
		root.Content = append(root.Content, d.key, dm)
	}
	return root
}
