// Package common defines shared constants and sentinel errors used across
// the client and server layers. Callers should match these with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Sync errors. ErrRemoteUnavailable aborts the remainder of a pass;
	// every queued intent stays queued for the next one.
	ErrRemoteUnavailable  = errors.New("remote store unavailable")
	ErrDuplicateTimestamp = errors.New("duplicate timestamp")

	// Ledger errors.
	ErrNotObligation = errors.New("record is not an open obligation")

	// Vault errors.
	ErrVaultNotLinked = errors.New("vault not linked")
	ErrInvalidPairing = errors.New("invalid pairing payload")
)
