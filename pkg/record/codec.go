package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crops/pkg/types"
)

// yamlIndent matches the two-space layout of hand-edited crop files.
const yamlIndent = 2

// ReadSections parses every document of a YAML stream.
func ReadSections(r io.Reader) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(r)
	var sections []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return sections, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrMalformedRecord, err)
		}
		sections = append(sections, &doc)
	}
}

// WriteSections emits the sections as one YAML stream separated by "---".
func WriteSections(w io.Writer, sections []*yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)
	for _, s := range sections {
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode section: %w", err)
		}
	}
	return enc.Close()
}

// Decode reads a crop document.
func Decode(r io.Reader) (*Record, error) {
	sections, err := ReadSections(r)
	if err != nil {
		return nil, err
	}
	return Load(sections)
}

// Encode writes rec as a crop document.
func Encode(w io.Writer, rec *Record) error {
	return WriteSections(w, rec.Serialize())
}

// Marshal returns the document bytes of rec.
func Marshal(rec *Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
