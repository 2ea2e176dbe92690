package diskstat

import (
	"errors"
	"io/fs"
	"sync"
)

// ErrorKind classifies a traversal error.
type ErrorKind int

const (
	// KindOther covers locked entries, path issues and any other I/O failure.
	KindOther ErrorKind = iota
	// KindNotFound is an entry that vanished or never existed.
	KindNotFound
	// KindPermission is an entry the process may not read.
	KindPermission
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindPermission:
		return "permission"
	default:
		return "other"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// classify maps an error to its ErrorKind.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	default:
		return KindOther
	}
}

// TraversalError records one entry that could not be accessed.
type TraversalError struct {
	// Path is the file or directory that failed.
	Path string `json:"path"`
	// Message is the underlying error text.
	Message string `json:"message"`
	// Kind classifies the failure.
	Kind ErrorKind `json:"kind"`
}

// ErrorLog is an append-only list of traversal errors, safe for concurrent use.
type ErrorLog struct {
	mu      sync.Mutex
	entries []TraversalError
}

// Append records a message for path.
func (l *ErrorLog) Append(path, message string) {
	l.add(TraversalError{Path: path, Message: message, Kind: KindOther})
}

// Record records err for path, classifying it.
func (l *ErrorLog) Record(path string, err error) {
	l.add(TraversalError{Path: path, Message: err.Error(), Kind: classify(err)})
}

func (l *ErrorLog) add(entry TraversalError) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
}

// Len returns the number of recorded entries.
func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// Drain returns all entries in the order they were recorded and empties the log.
func (l *ErrorLog) Drain() []TraversalError {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.entries
	l.entries = nil

	if entries == nil {
		return []TraversalError{}
	}

	return entries
}

// ErrorGroup is a set of traversal errors sharing a kind.
type ErrorGroup struct {
	Kind    ErrorKind
	Entries []TraversalError
}

// GroupErrors groups entries by kind. Groups appear in the order
// not-found, permission, other; empty groups are omitted. Entries keep
// their relative order.
func GroupErrors(entries []TraversalError) []ErrorGroup {
	order := []ErrorKind{KindNotFound, KindPermission, KindOther}
	groups := make([]ErrorGroup, 0, len(order))

	for _, kind := range order {
		group := ErrorGroup{Kind: kind}

		for _, entry := range entries {
			if entry.Kind == kind {
				group.Entries = append(group.Entries, entry)
			}
		}

		if len(group.Entries) > 0 {
			groups = append(groups, group)
		}
	}

	return groups
}
