package entrypoint

import (
	"errors"
	"fmt"
)

// ContractKind classifies a ContractError.
type ContractKind string

const (
	KindUndeclaredDependency   ContractKind = "undeclared-dependency"
	KindUndeclaredContribution ContractKind = "undeclared-contribution"
	KindUndeclaredWithdrawal   ContractKind = "undeclared-withdrawal"
	KindDuplicateContribution  ContractKind = "duplicate-contribution"
	KindMissingContribution    ContractKind = "missing-contribution"
	KindMissingWithdrawal      ContractKind = "missing-withdrawal"
	KindNotContributed         ContractKind = "not-contributed"
	KindNilFactory             ContractKind = "nil-factory"
	KindTypeMismatch           ContractKind = "type-mismatch"
)

// ContractError reports an entry point breaking the contract it declared:
// reading a slot it did not depend on, contributing or withdrawing a slot it
// did not declare, or leaving a declared slot behind.
//
// EntryPoint is empty for reads through the completion view.
type ContractError struct {
	Kind       ContractKind
	EntryPoint string
	Slot       string
	Detail     string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	switch e.Kind {
	case KindUndeclaredDependency:
		return fmt.Sprintf("slot %s is not declared as dependency by entry point %s", e.Slot, e.EntryPoint)
	case KindUndeclaredContribution:
		return fmt.Sprintf("slot %s is not declared as contribution by entry point %s", e.Slot, e.EntryPoint)
	case KindUndeclaredWithdrawal:
		return fmt.Sprintf("slot %s is not contributed by entry point %s", e.Slot, e.EntryPoint)
	case KindDuplicateContribution:
		return fmt.Sprintf("slot %s is already contributed by entry point %s", e.Slot, e.EntryPoint)
	case KindMissingContribution:
		return fmt.Sprintf("entry point %s did not contribute slot %s", e.EntryPoint, e.Slot)
	case KindMissingWithdrawal:
		return fmt.Sprintf("entry point %s did not withdraw slot %s", e.EntryPoint, e.Slot)
	case KindNilFactory:
		return fmt.Sprintf("entry point %s contributed slot %s without a factory", e.EntryPoint, e.Slot)
	case KindTypeMismatch:
		return fmt.Sprintf("slot %s %s", e.Slot, e.Detail)
	case KindNotContributed:
		if e.EntryPoint != "" {
			return fmt.Sprintf("slot %s is not contributed (requested by entry point %s)", e.Slot, e.EntryPoint)
		}
		return fmt.Sprintf("slot %s is not contributed", e.Slot)
	default:
		return fmt.Sprintf("contract violation on slot %s: %s", e.Slot, e.Detail)
	}
}

// IsContractViolation checks if an error is a ContractError.
func IsContractViolation(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

// IsContractKind checks if an error is a ContractError of the given kind.
func IsContractKind(err error, kind ContractKind) bool {
	var ce *ContractError
	return errors.As(err, &ce) && ce.Kind == kind
}
