package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPassFinished is returned by a contribute or withdraw shell used after the
// pass that created it has ended.
var ErrPassFinished = errors.New("orchestration pass already finished")

// BusyError is returned when the registry or lifecycle is touched while a
// start or stop pass is in progress, including from inside callbacks.
type BusyError struct {
	// Operation is the refused call, e.g. "add entry points".
	Operation string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("cannot %s when starting or stopping entry points", e.Operation)
}

// RegistrationError reports an entry point or layer definition the
// orchestrator refuses to accept.
type RegistrationError struct {
	// EntryPoint is empty for layer definition errors.
	EntryPoint string
	Message    string
}

func (e *RegistrationError) Error() string {
	return e.Message
}

// NotFoundError is returned when a requested entry point is not registered.
type NotFoundError struct {
	EntryPoint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entry point %s does not exist", e.EntryPoint)
}

// UnsatisfiedError is returned when a pass runs out of candidates while
// requested entry points are still pending, for instance because they depend
// on a slot that no registered entry point contributes.
type UnsatisfiedError struct {
	// Operation is "start" or "stop".
	Operation string
	Pending   []string
}

func (e *UnsatisfiedError) Error() string {
	return fmt.Sprintf("cannot %s entry points %s: pass finished with them still pending",
		e.Operation, strings.Join(e.Pending, ", "))
}

// IsBusy checks if an error is a BusyError.
func IsBusy(err error) bool {
	var be *BusyError
	return errors.As(err, &be)
}

// IsRegistration checks if an error is a RegistrationError.
func IsRegistration(err error) bool {
	var re *RegistrationError
	return errors.As(err, &re)
}

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUnsatisfied checks if an error is an UnsatisfiedError.
func IsUnsatisfied(err error) bool {
	var ue *UnsatisfiedError
	return errors.As(err, &ue)
}
