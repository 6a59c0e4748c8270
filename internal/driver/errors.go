package driver

import (
	"errors"
	"fmt"
)

// ErrRaceInProgress is returned when Run is called while another race on the
// same driver is still running.
var ErrRaceInProgress = errors.New("driver: race already in progress")

// DeliveryError wraps a failure to emit a frame.
type DeliveryError struct {
	Tick int
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver frame for tick %d: %v", e.Tick, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failure to load or save the roster.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s roster: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
