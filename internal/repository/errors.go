package repository

import "fmt"

// PersistenceWriteError reports a failed upsert of one post's hit count.
// The flush loop logs it and moves on to the next record.
type PersistenceWriteError struct {
	Slug string
	Err  error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("persist hits for %q: %v", e.Slug, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }

// PersistenceReadError reports that stored hit counts could not be read or
// the schema could not be created. It is fatal at startup.
type PersistenceReadError struct {
	Op  string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceReadError) Unwrap() error { return e.Err }
