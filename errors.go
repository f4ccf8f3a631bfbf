package vesting

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound     = errors.New("vesting: not found")
	ErrInvalidInput = errors.New("vesting: invalid input")
	ErrUnauthorized = errors.New("vesting: unauthorized")

	// Schedule creation errors
	ErrInvalidBeneficiary = errors.New("vesting: invalid beneficiary")
	ErrInvalidDuration    = errors.New("vesting: duration below one second")
	ErrInvalidAmount      = errors.New("vesting: amount must be positive")
	ErrInvalidSchedule    = errors.New("vesting: cliff precedes start")
	ErrInvalidStart       = errors.New("vesting: invalid start time")
	ErrInvalidSlice       = errors.New("vesting: slice interval below one second")

	// Release/revoke errors
	ErrInvalidIndex     = errors.New("vesting: schedule index out of range")
	ErrScheduleRevoked  = errors.New("vesting: schedule is revoked")
	ErrNotRevocable     = errors.New("vesting: schedule is not revocable")
	ErrNothingToRelease = errors.New("vesting: nothing to release")
	ErrTransferFailed   = errors.New("vesting: asset transfer failed")

	// Recovery errors
	ErrProtectedAsset = errors.New("vesting: cannot recover the managed asset")

	// Store errors
	ErrScheduleNotFound  = errors.New("vesting: schedule not found")
	ErrScheduleExists    = errors.New("vesting: schedule already exists")
	ErrStoreNotReady     = errors.New("vesting: store not ready")
	ErrStoreClosed       = errors.New("vesting: store is closed")
	ErrTransactionFailed = errors.New("vesting: transaction failed")
	ErrMigrationFailed   = errors.New("vesting: migration failed")
)

// ValidationError represents a validation failure with details. Err
// carries the sentinel kind, so errors.Is and the predicates below keep
// working on wrapped values.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("vesting: validation failed for %s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error { return e.Err }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrScheduleNotFound) ||
		errors.Is(err, ErrInvalidIndex)
}

// IsValidation returns true if the error rejects the inputs of a
// schedule creation call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidBeneficiary) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidSchedule) ||
		errors.Is(err, ErrInvalidStart) ||
		errors.Is(err, ErrInvalidSlice) ||
		errors.Is(err, ErrInvalidInput)
}

// IsRetryable returns true if the error is temporary and the operation
// can be retried. A failed transfer is retryable: the ledger rolls its
// state back, so re-issuing the call is safe.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransferFailed) ||
		errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
