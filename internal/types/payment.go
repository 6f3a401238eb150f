//nolint:revive // types is a standard Go package name pattern
package types

// PaymentRecord is the per-token payment state stored in the key-value gate.
// The zero value is the state of a token the store has never seen.
//
// Invariants: Used=true implies CanRecord=false; CanRecord=true implies
// Paid=true.
type PaymentRecord struct {
	Paid      bool `json:"paid"`
	Used      bool `json:"used"`
	CanRecord bool `json:"canRecord"`
}

// GateState is the access state derived from a PaymentRecord.
type GateState string

// Gate states.
const (
	// StateLocked means the token has not paid.
	StateLocked GateState = "locked"
	// StateUnlocked means the token has paid and may record.
	StateUnlocked GateState = "unlocked"
	// StateConsumed means the token has paid and spent its recording.
	StateConsumed GateState = "consumed"
)

// State derives the gate state from the record. CanRecord is the
// authoritative "may record now" signal; a stale Used carries no meaning
// once CanRecord is true.
func (r PaymentRecord) State() GateState {
	switch {
	case r.CanRecord:
		return StateUnlocked
	case r.Paid:
		return StateConsumed
	default:
		return StateLocked
	}
}
