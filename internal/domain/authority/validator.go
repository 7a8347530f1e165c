package authority

import "strings"

// DenyReason classifies why a privileged action is not permitted. Each
// reason maps to its own user-facing message; nothing collapses into a
// generic failure.
type DenyReason string

const (
	// DenySlotRevoked: the authority was already set to null. Terminal, no
	// holder-based action on the slot is possible anymore.
	DenySlotRevoked DenyReason = "slot-revoked"
	// DenyNotHolder: the connected signer is not the current holder.
	DenyNotHolder DenyReason = "not-holder"
	// DenyImmutableMetadata: the metadata mutability flag is false. Applies
	// to update-slot checks only.
	DenyImmutableMetadata DenyReason = "immutable-metadata"
)

// Decision is the outcome of a single authority check.
type Decision struct {
	Permitted bool
	Reason    DenyReason // set only when !Permitted
}

func permitted() Decision          { return Decision{Permitted: true} }
func denied(r DenyReason) Decision { return Decision{Reason: r} }

// Check decides whether signer may act on the given slot of the snapshot.
// It is a pure decision over already-fetched state and never re-fetches;
// the caller owns snapshot freshness and must re-check after every mutation.
func Check(st State, slot Slot, signer string) Decision {
	holder := st.Holder(slot)
	if holder == nil {
		return denied(DenySlotRevoked)
	}
	if strings.TrimSpace(signer) == "" || *holder != strings.TrimSpace(signer) {
		return denied(DenyNotHolder)
	}
	if slot == SlotUpdate && !st.MetadataMutable {
		return denied(DenyImmutableMetadata)
	}
	return permitted()
}
