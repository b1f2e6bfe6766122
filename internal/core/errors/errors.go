// Package errors defines the rejection kinds returned by distributor operations.
// Every kind aborts the whole operation; nothing is retried internally.
package errors

import "errors"

var (
	ErrUnauthorized               = errors.New("unauthorized signer")
	ErrShouldBePaused             = errors.New("program should be paused")
	ErrShouldNotBePaused          = errors.New("program should not be paused")
	ErrAlreadyInitialized         = errors.New("deployment already initialized")
	ErrNotInitialized             = errors.New("deployment not initialized")
	ErrEpochShouldBeApproved      = errors.New("epoch should be approved")
	ErrEpochShouldNotBeApproved   = errors.New("epoch should not be approved")
	ErrPreviousEpochIsNotApproved = errors.New("previous epoch is not approved")
	ErrInvalidEpochNr             = errors.New("invalid epoch number")
	ErrInvalidMintAccount         = errors.New("invalid mint account")
	ErrInvalidProof               = errors.New("invalid proof")
	ErrDropAlreadyClaimed         = errors.New("drop already claimed")
	ErrOwnerMismatch              = errors.New("token account owner did not match intended owner")
	ErrSameAccount                = errors.New("source and destination accounts must differ")
	ErrExceededMaxClaim           = errors.New("exceeded max claim")
	ErrExceededMaxNumNodes        = errors.New("exceeded maximum number of claimed nodes")
	ErrArithmeticOverflow         = errors.New("arithmetic overflow")
	ErrInvalidInput               = errors.New("invalid input")
	ErrNotFound                   = errors.New("record not found")
	ErrInsufficientFunds          = errors.New("insufficient funds")
)
