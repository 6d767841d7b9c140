// Package export writes crop records to flat formats for use by other
// tools: JSON Lines and SQLite. Each crop is exported on its own; the
// exporter never reads across crops.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/crops/pkg/record"
)

// Supported export formats.
const (
	FormatJSONL  = "jsonl"
	FormatSQLite = "sqlite"
)

// Formats lists the supported export formats.
var Formats = []string{FormatJSONL, FormatSQLite}

// cropNamespace seeds the name-based ids of crops whose files carry no id.
var cropNamespace = uuid.MustParse("5b0f8a2e-3c1d-4f6a-9e47-2d8c1a7b6e90")

// Crop is the exported info section of one crop.
type Crop struct {
	CropID   string  `json:"crop_id"`
	Name     string  `json:"name"`
	Cultivar string  `json:"cultivar,omitempty"`
	Plants   *int    `json:"plants,omitempty"`
	Planted  string  `json:"planted"`
	Source   string  `json:"source,omitempty"`
	Notes    *string `json:"notes"`
	File     string  `json:"file"`
}

// Event is one log entry, flattened with its date, time label, and position
// within the time slot.
type Event struct {
	CropID    string   `json:"crop_id"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Seq       int      `json:"seq"`
	Kind      string   `json:"kind"`
	Stage     string   `json:"stage,omitempty"`
	Tag       string   `json:"tag,omitempty"`
	Additives []string `json:"additives,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// Sink receives exported crops. Write is called once per crop file; Close
// flushes and releases the destination.
type Sink interface {
	Write(c Crop, events []Event) error
	Close() error
}

// Open returns the sink for format writing to path.
func Open(format, path string) (Sink, error) {
	switch format {
	case FormatJSONL:
		return NewJSONL(path), nil
	case FormatSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown export format %q (valid: %v)", format, Formats)
	}
}

// CropID returns the id recorded in the crop's info section or, for files
// written without one, a stable id derived from the file's absolute path.
func CropID(rec *record.Record, path string) string {
	if id := rec.Info().ID(); id != "" {
		return id
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return uuid.NewSHA1(cropNamespace, []byte(abs)).String()
}

// Flatten converts a record into its exported form, events oldest first.
func Flatten(rec *record.Record, path string) (Crop, []Event) {
	info := rec.Info()
	id := CropID(rec, path)
	c := Crop{
		CropID:   id,
		Name:     info.Name(),
		Cultivar: info.Cultivar(),
		Planted:  info.Planted().Format(record.DateLayout),
		Source:   info.Source(),
		File:     path,
	}
	if n, ok := info.Plants(); ok {
		c.Plants = &n
	}
	if notes, ok := info.Notes(); ok {
		c.Notes = &notes
	}

	var events []Event
	for _, d := range rec.Events().Days() {
		date := d.Date().Format(record.DateLayout)
		for _, s := range d.Slots() {
			for i, e := range s.Entries() {
				events = append(events, Event{
					CropID:    id,
					Date:      date,
					Time:      s.Label(),
					Seq:       i,
					Kind:      e.Kind().String(),
					Stage:     e.Stage(),
					Tag:       e.Tag(),
					Additives: e.Additives(),
					Notes:     e.Notes(),
				})
			}
		}
	}
	return c, events
}
