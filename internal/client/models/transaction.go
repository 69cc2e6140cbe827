// Package models defines the client-side domain types.
package models

// Nature classifies a transaction. NORMAL is a settled cash event;
// ASSET and LIABILITY mark an open obligation (money lent out or owed).
type Nature string

const (
	NatureNormal    Nature = "NORMAL"
	NatureAsset     Nature = "ASSET"
	NatureLiability Nature = "LIABILITY"
)

// Valid reports whether n is one of the known natures.
func (n Nature) Valid() bool {
	switch n {
	case NatureNormal, NatureAsset, NatureLiability:
		return true
	}
	return false
}

// IsObligation reports whether the obligation amount is meaningful for n.
func (n Nature) IsObligation() bool {
	return n == NatureAsset || n == NatureLiability
}

// Transaction is a single ledger entry.
//
// Timestamp is assigned once at creation (milliseconds since epoch) and is
// immutable: it is the local natural key and the sole input of the remote
// stable id, so any operation that would change it must instead create a
// new record with a fresh timestamp.
//
// Amount affects the cash balance. ObligationAmount tracks what is owed and
// never affects the cash balance; it is inert while Nature is NORMAL. By
// convention it is minted as the negation of Amount (lending out 500
// records Amount=-500, ObligationAmount=+500).
type Transaction struct {
	ID               int64
	OriginalText     string
	Amount           float64
	Description      string
	Timestamp        int64
	Nature           Nature
	ObligationAmount float64
}
