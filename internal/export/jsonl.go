package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/crops/internal/cropfile"
)

// Line types of the JSONL export.
const (
	LineCrop  = "crop"
	LineEvent = "event"
)

// Line is one line of the JSONL export: a crop followed by its events.
type Line struct {
	Type  string `json:"type"`
	Crop  *Crop  `json:"crop,omitempty"`
	Event *Event `json:"event,omitempty"`
}

// JSONL collects crops in memory and writes them on Close, atomically, one
// JSON object per line.
type JSONL struct {
	path string
	buf  bytes.Buffer
	n    int
}

// NewJSONL returns a JSONL sink writing to path.
func NewJSONL(path string) *JSONL {
	return &JSONL{path: path}
}

// Write appends the crop and its events. Nothing is buffered when encoding
// fails, so a bad crop never leaves a partial group behind.
func (j *JSONL) Write(c Crop, events []Event) error {
	var group bytes.Buffer
	enc := json.NewEncoder(&group)
	if err := enc.Encode(Line{Type: LineCrop, Crop: &c}); err != nil {
		return fmt.Errorf("encoding crop %s: %w", c.Name, err)
	}
	for i := range events {
		if err := enc.Encode(Line{Type: LineEvent, Event: &events[i]}); err != nil {
			return fmt.Errorf("encoding event of %s: %w", c.Name, err)
		}
	}
	j.buf.Write(group.Bytes())
	j.n++
	return nil
}

// Close writes the collected lines to the destination.
func (j *JSONL) Close() error {
	if err := cropfile.WriteFileAtomic(j.path, j.buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", j.path, err)
	}
	slog.Debug("jsonl export written", "path", j.path, "crops", j.n)
	return nil
}
