package types

import "errors"

// Record and entry errors. Callers wrap these with file context and test
// them with errors.Is.
var (
	// ErrMalformedRecord reports a crop document with the wrong number of
	// sections, a non-mapping info section, or missing name/planted fields.
	ErrMalformedRecord = errors.New("malformed crop record")

	// ErrMalformedEntry reports an event entry that is neither a bare tag nor
	// a mapping of a recognized shape.
	ErrMalformedEntry = errors.New("malformed event entry")

	// ErrDestinationExists reports that a new crop file would overwrite an
	// existing file.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrUnknownStage reports a stage name outside the stage vocabulary.
	ErrUnknownStage = errors.New("unknown stage")
)
