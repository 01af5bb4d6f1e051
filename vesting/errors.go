package vesting

import "fmt"

// VestingError is the caller-visible error type. Code is a stable machine
// identifier, Status the HTTP status the API layer maps it to.
type VestingError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
	Status  int    `json:"-"`
}

func (e VestingError) Error() string {
	return fmt.Sprintf("Error %s: %s", e.Code, e.Message)
}

// parameter validation errors, raised by Create before any state mutation
var (
	ErrInvalidAmount          = VestingError{Message: "vesting amount must be greater than zero", Code: "InvalidAmount", Status: 400}
	ErrDurationTooShort       = VestingError{Message: "vesting duration must be at least 1 day", Code: "DurationTooShort", Status: 400}
	ErrDurationTooLong        = VestingError{Message: "vesting duration cannot exceed 10 years", Code: "DurationTooLong", Status: 400}
	ErrCliffTooLong           = VestingError{Message: "cliff duration cannot exceed vesting duration", Code: "CliffTooLong", Status: 400}
	ErrCliffPercentageTooHigh = VestingError{Message: "cliff cannot exceed 50% of vesting duration", Code: "CliffPercentageTooHigh", Status: 400}
	ErrStartTimeInPast        = VestingError{Message: "vesting start time must be in the future", Code: "StartTimeInPast", Status: 400}
)

// state-gate errors, raised when a transition precondition is unmet
var (
	ErrCliffNotReached  = VestingError{Message: "cannot claim during cliff period", Code: "CliffNotReached", Status: 409}
	ErrNothingToClaim   = VestingError{Message: "no tokens available for claiming", Code: "NothingToClaim", Status: 409}
	ErrVestingRevoked   = VestingError{Message: "this vesting schedule has been revoked", Code: "VestingRevoked", Status: 409}
	ErrVestingCompleted = VestingError{Message: "cannot revoke completed vesting schedule", Code: "VestingCompleted", Status: 409}
)

// arithmetic
var ErrCalculationOverflow = VestingError{Message: "calculation overflow", Code: "CalculationOverflow", Status: 500}

// record store and escrow errors
var (
	ErrScheduleExists    = VestingError{Message: "vesting schedule already exists for this admin, beneficiary and asset", Code: "ScheduleExists", Status: 409}
	ErrScheduleNotFound  = VestingError{Message: "vesting schedule not found", Code: "ScheduleNotFound", Status: 404}
	ErrNotBeneficiary    = VestingError{Message: "signer is not the schedule beneficiary", Code: "NotBeneficiary", Status: 403}
	ErrNotAdmin          = VestingError{Message: "signer is not the schedule admin", Code: "NotAdmin", Status: 403}
	ErrInvalidAuthority  = VestingError{Message: "presented authority does not control this holding", Code: "InvalidAuthority", Status: 403}
	ErrInsufficientFunds = VestingError{Message: "holding balance is insufficient for transfer", Code: "InsufficientFunds", Status: 409}
	ErrHoldingNotFound   = VestingError{Message: "holding not found", Code: "HoldingNotFound", Status: 404}
)

// Errf builds an ad-hoc VestingError for plumbing failures.
func Errf(status int, format string, args ...interface{}) VestingError {
	return VestingError{Message: fmt.Sprintf(format, args...), Code: "InternalError", Status: status}
}
