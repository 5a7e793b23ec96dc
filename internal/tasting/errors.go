package tasting

import (
	"errors"
	"strings"
)

var (
	// ErrStoreUnavailable indicates the backing store could not be reached or
	// authenticated against.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrStoreMalformed indicates stored content that cannot be read back as a
	// table: a header mismatch or an unparseable row.
	ErrStoreMalformed = errors.New("store malformed")

	// ErrIndexOutOfRange indicates a position that does not exist in the table.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrConflict indicates the store changed since the table was loaded.
	ErrConflict = errors.New("store changed since it was loaded")

	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
