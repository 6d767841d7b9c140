// Package record holds the in-memory form of one crop document: an info
// section and an append-only, date/time nested event log. It converts
// between that form and the YAML sections the document is stored as.
package record

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crops/pkg/types"
)

// Record is one crop: its info section and its event log. A record is
// loaded in full, mutated by at most a few appends, and written back in full.
type Record struct {
	info   *Info
	events *EventLog

	// docs are the document nodes the sections were read from, kept for
	// their comments. Either may be nil.
	docs [2]*yaml.Node

	// withEvents records whether the events section is written even when
	// the log is empty.
	withEvents bool
}

// New returns a record with the given info and no events. Serialize writes a
// single section until an event is appended.
func New(info *Info) *Record {
	return &Record{info: info, events: &EventLog{}}
}

// Load builds a record from one or two parsed sections. A missing or null
// second section yields an empty event log. Document nodes are unwrapped.
func Load(sections []*yaml.Node) (*Record, error) {
	if len(sections) < 1 || len(sections) > 2 {
		return nil, fmt.Errorf("%w: expected 1 or 2 sections, got %d", types.ErrMalformedRecord, len(sections))
	}

	rec := &Record{}
	content := make([]*yaml.Node, len(sections))
	for i, s := range sections {
		if s != nil && s.Kind == yaml.DocumentNode {
			rec.docs[i] = s
			if len(s.Content) > 0 {
				content[i] = s.Content[0]
			}
			continue
		}
		content[i] = s
	}

	info, err := decodeInfo(content[0])
	if err != nil {
		return nil, err
	}
	rec.info = info

	var eventsNode *yaml.Node
	if len(content) == 2 {
		eventsNode = content[1]
		rec.withEvents = true
	}
	events, err := decodeEventLog(eventsNode)
	if err != nil {
		return nil, err
	}
	rec.events = events
	return rec, nil
}

// Info returns the info section.
func (r *Record) Info() *Info { return r.info }

// Events returns the event log.
func (r *Record) Events() *EventLog { return r.events }

// AppendEvent logs e under the date and minute of at, after any entries
// already logged there.
func (r *Record) AppendEvent(e Entry, at time.Time) {
	r.events.Append(e, at)
}

// Serialize returns the document nodes to persist: the info section, then
// the events section unless the record never had one and has no events.
func (r *Record) Serialize() []*yaml.Node {
	out := []*yaml.Node{document(r.docs[0], r.info.node)}
	if r.withEvents || !r.events.Empty() {
		out = append(out, document(r.docs[1], r.events.node()))
	}
	return out
}

func document(orig, content *yaml.Node) *yaml.Node {
	doc := shell(orig, yaml.DocumentNode, "")
	doc.Content = []*yaml.Node{content}
	return doc
}
