package domain

import (
	"errors"
	"fmt"
)

// ErrNilReferenceData is returned when a run is started without a reference data snapshot.
var ErrNilReferenceData = errors.New("reference data snapshot is nil")

// ValidationError reports a malformed reference row or transaction.
type ValidationError struct {
	TransactionID string
	Table         string
	Row           int // 1-based position inside an import, 0 when unknown
	Field         string
	Message       string
}

func (e *ValidationError) Error() string {
	switch {
	case e.TransactionID != "":
		return fmt.Sprintf("validation error on transaction %s field '%s': %s", e.TransactionID, e.Field, e.Message)
	case e.Table != "" && e.Row > 0:
		return fmt.Sprintf("validation error in %s row %d field '%s': %s", e.Table, e.Row, e.Field, e.Message)
	case e.Table != "":
		return fmt.Sprintf("validation error in %s field '%s': %s", e.Table, e.Field, e.Message)
	}
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// AmbiguousMatchError means a fallback key matched more than one row.
// It never aborts a run; the engine counts it and treats the lookup as no match.
type AmbiguousMatchError struct {
	TransactionID string
	Table         TableID
	Key           string
	Candidates    int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous match for transaction %s in %s on %s: %d candidates", e.TransactionID, e.Table, e.Key, e.Candidates)
}

// ConfigurationError reports a run-level problem such as a rate table that was never imported.
type ConfigurationError struct {
	Table   TableID
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Table, e.Message)
}
