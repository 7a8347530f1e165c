// Package plan turns a validated user request, a fee-schedule snapshot and
// an authority snapshot into an ordered list of instruction descriptors plus
// the exact total fee. Planning is pure: identical inputs yield identical
// plans, byte for byte.
package plan

import "github.com/ramachandrareddy352/sol-tool/internal/domain/authority"

// DescriptorKind names one ordered unit of ledger work. The composer maps
// each kind onto concrete SDK instructions; the planner only fixes order,
// accounts and parameters.
type DescriptorKind string

const (
	KindFeeTransfer       DescriptorKind = "feeTransfer"
	KindCreateMint        DescriptorKind = "createMint"    // fund and initialize the mint account itself
	KindCreateAccount     DescriptorKind = "createAccount" // holding account for the signer
	KindMint              DescriptorKind = "mint"          // mint initial supply to the holding account
	KindCreateMetadata    DescriptorKind = "createMetadata"
	KindUpdateMetadata    DescriptorKind = "updateMetadata"
	KindSetAuthority      DescriptorKind = "setAuthority" // revoke (nil) or hand over (new holder)
	KindSetCloseAuthority DescriptorKind = "setCloseAuthority"
	KindBurn              DescriptorKind = "burn"
	KindFreezeAccount     DescriptorKind = "freezeAccount"
	KindThawAccount       DescriptorKind = "thawAccount"
	KindCloseAccount      DescriptorKind = "closeAccount"
)

// Metadata carries the token-metadata fields a create/update descriptor
// writes on chain. URI points at the uploaded off-chain JSON.
type Metadata struct {
	Name           string
	Symbol         string
	URI            string
	CreatorAddress string // base58; empty = no creator entry
	Mutable        bool
}

// Descriptor is one opaque, ordered unit of ledger work. Only the fields
// relevant to its kind are set; everything is plain data so two descriptors
// built from the same inputs compare equal.
type Descriptor struct {
	Kind DescriptorKind

	// Account references, base58.
	Signer      string // fee payer / authority holder
	Mint        string
	Account     string // holding or user token account, when distinct from the mint
	Destination string // fee vault, mint target, refund recipient

	// Parameters.
	Amount       uint64
	Decimals     uint8
	Slot         authority.Slot // for KindSetAuthority
	NewAuthority *string        // nil = revoke
	Metadata     *Metadata
}

// Plan is an ordered descriptor sequence plus its computed total fee.
// Plans are built fresh per submission attempt and discarded afterwards.
type Plan struct {
	Descriptors []Descriptor
	// TotalFee is the lamport amount of the fee-transfer descriptor: the
	// sum of every schedule entry implicated by the request, computed once.
	// This is the amount quoted to the user and must match what is charged.
	TotalFee       uint64
	FeeDestination string
}

// FeeTransferFirst reports whether the plan honors the ordering invariant
// that a fee transfer, when present, leads the sequence.
func (p Plan) FeeTransferFirst() bool {
	for i, d := range p.Descriptors {
		if d.Kind == KindFeeTransfer && i != 0 {
			return false
		}
	}
	return true
}
