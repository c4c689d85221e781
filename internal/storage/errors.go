package storage

import "fmt"

// PersistenceError reports that the substrate could not be read or written.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ParseError reports a stored value that could not be decoded.
type ParseError struct {
	Key   string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed value for %q: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
