package store

import "fmt"

// PersistenceError is returned by a mutation whose change was applied in
// memory but could not be written to the slot.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving tasks: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// CorruptionError is returned by a Slot whose stored data cannot be decoded.
// Backup is where the unreadable file was moved, if anywhere.
type CorruptionError struct {
	Path   string
	Backup string
	Err    error
}

func (e *CorruptionError) Error() string {
	if e.Backup != "" {
		return fmt.Sprintf("corrupt task data in %s (moved to %s): %v", e.Path, e.Backup, e.Err)
	}
	return fmt.Sprintf("corrupt task data in %s: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}
