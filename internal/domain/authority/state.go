// Package authority holds the per-mint authority snapshot and the pure
// permit/deny decision used before every privileged action.
package authority

import "fmt"

// Slot names one of the three revocable authorities on a mint.
type Slot int

const (
	SlotMint Slot = iota
	SlotFreeze
	SlotUpdate
)

func (s Slot) String() string {
	switch s {
	case SlotMint:
		return "mint"
	case SlotFreeze:
		return "freeze"
	case SlotUpdate:
		return "update"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// State is a read-only snapshot of a mint's authority fields, taken from
// ledger state. A nil holder means the slot was revoked, which is terminal.
// State is never mutated locally; after any successful on-chain mutation the
// caller must fetch a fresh snapshot.
type State struct {
	MintAuthority   *string // base58 holder, nil = revoked
	FreezeAuthority *string
	UpdateAuthority *string
	MetadataMutable bool
}

// Holder returns the current holder of a slot, or nil when revoked.
func (st State) Holder(s Slot) *string {
	switch s {
	case SlotMint:
		return st.MintAuthority
	case SlotFreeze:
		return st.FreezeAuthority
	case SlotUpdate:
		return st.UpdateAuthority
	default:
		return nil
	}
}

// Revoked reports whether the slot has been permanently cleared.
func (st State) Revoked(s Slot) bool {
	return st.Holder(s) == nil
}
