package store

import "fmt"

// StorageErrorKind classifies store failures.
type StorageErrorKind int

const (
	// SchemaInit is a failure creating the backing table or index.
	SchemaInit StorageErrorKind = iota
	// WriteFailure is a failed append; the caller drops that one reading.
	WriteFailure
	// ReadFailure is a failed query; it propagates so callers can tell a
	// storage fault apart from an empty window.
	ReadFailure
)

func (k StorageErrorKind) String() string {
	switch k {
	case SchemaInit:
		return "schema init"
	case WriteFailure:
		return "write"
	case ReadFailure:
		return "read"
	default:
		return "unknown"
	}
}

// StorageError wraps a failure from the backing SQLite store.
type StorageError struct {
	Kind StorageErrorKind
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s error: %v", e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
