// internal/domain/models/errors.go
package models

import "errors"

// RuleError reports a write that would break a record invariant. The message
// is safe to show to API callers.
type RuleError struct {
	Msg string
}

func (e *RuleError) Error() string { return e.Msg }

func rule(msg string) *RuleError { return &RuleError{Msg: msg} }

// Billing invariants.
var (
	ErrGSTINWithoutGST         = rule("Cannot provide GSTIN when GST is not applicable")
	ErrInvalidGSTIN            = rule("GSTIN must be 15 characters long")
	ErrInvalidPAN              = rule("PAN card must be 10 characters long")
	ErrMSMECertificateRequired = rule("MSME certificate URL must be provided to set MSME status to true")
	ErrLastBankAccount         = rule("Cannot delete the only bank account. Add another account first.")
	ErrGSTINMissing            = rule("No GSTIN provided in billing details")
	ErrPANMissing              = rule("No PAN card provided in billing details")
	ErrVerificationRevoked     = rule("Verification flags cannot be cleared once set")
)

// Sub-document lookups.
var (
	ErrBankAccountNotFound = errors.New("bank account not found")
	ErrPOCNotFound         = errors.New("POC not found")
)

// ErrNotModified is returned when a state-setting operation would leave the
// record exactly as it is.
var ErrNotModified = errors.New("no changes made")
