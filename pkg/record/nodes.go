package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Layouts used for date keys, time labels, and planting timestamps.
const (
	DateLayout      = "2006-01-02"
	TimeLabelLayout = "15h04"
	TimestampLayout = "2006-01-02 15:04:05.999999"
)

// timestampLayouts are tried in order when reading a date or timestamp
// scalar. They cover YAML 1.1 timestamps as written by common emitters.
var timestampLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04",
}

// ParseTimestamp reads a date or timestamp scalar. Values without a zone are
// taken in the local time zone.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a date or timestamp: %q", s)
}

// CivilDate truncates t to midnight of its calendar day, keeping its
// location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TimeLabel returns the time-of-day bucket label for t, e.g. "14h30".
func TimeLabel(t time.Time) string {
	return t.Format(TimeLabelLayout)
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func dateNode(t time.Time) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: t.Format(DateLayout)}
}

func timestampNode(t time.Time) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: t.Format(TimestampLayout)}
}

func mapNode(kv ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: kv}
}

// follow resolves alias nodes to their anchors.
func follow(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	n = follow(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// shell returns an empty container of the given kind that carries the
// presentation (style and comments) of orig, if any.
func shell(orig *yaml.Node, kind yaml.Kind, tag string) *yaml.Node {
	n := &yaml.Node{Kind: kind, Tag: tag}
	if orig != nil && orig.Kind == kind {
		n.Style = orig.Style
		n.HeadComment = orig.HeadComment
		n.LineComment = orig.LineComment
		n.FootComment = orig.FootComment
	}
	return n
}
