package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrInvalidDocumentID = errors.New("invalid document id")
	ErrInvalidDepth      = errors.New("depth must be a non-negative integer")
	ErrEmptySources      = errors.New("at least one source is required")
	ErrUnknownKind       = errors.New("unknown document kind")
)

// ErrUndefinedMetric is returned when precision, recall or F1 would divide by zero.
var ErrUndefinedMetric = errors.New("metric undefined")

// ErrLookupFailed wraps any failure of the citation lookup service.
var ErrLookupFailed = errors.New("citation lookup failed")

// Sentinel errors for entity lookups.
var (
	ErrReferenceSetNotFound = errors.New("reference set not found")
	ErrRunNotFound          = errors.New("run not found")
)

// ErrPersistenceDisabled is returned by run operations when no database is configured.
var ErrPersistenceDisabled = errors.New("persistence is not configured")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
