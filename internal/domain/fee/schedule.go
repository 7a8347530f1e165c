package fee

import (
	"errors"
	"fmt"
)

// OperationKind identifies one priced privileged operation. The set mirrors
// the fee_config account of the sol_tool program, one fee field per kind.
type OperationKind int

const (
	CreateToken OperationKind = iota
	ModifyCreatorInfo
	CustomAddress
	AccountDeleteRefund
	RevokeMint
	RevokeFreeze
	RevokeMetadataAuthority
	UpdateMint
	UpdateFreeze
	UpdateMetadataAuthority
	MintTokens
	BurnTokens
	FreezeUser
	UnfreezeUser
	UpdateMetadata

	numOperationKinds
)

// NumOperationKinds is the number of priced operations in a schedule.
const NumOperationKinds = int(numOperationKinds)

var operationKindNames = [NumOperationKinds]string{
	"createToken",
	"modifyCreatorInfo",
	"customAddress",
	"accountDeleteRefund",
	"revokeMint",
	"revokeFreeze",
	"revokeMetadataAuthority",
	"updateMint",
	"updateFreeze",
	"updateMetadataAuthority",
	"mintTokens",
	"burnTokens",
	"freezeUser",
	"unfreezeUser",
	"updateMetadata",
}

func (k OperationKind) Valid() bool {
	return k >= 0 && k < numOperationKinds
}

func (k OperationKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("operationKind(%d)", int(k))
	}
	return operationKindNames[k]
}

var (
	ErrUnknownOperation = errors.New("fee: unknown operation kind")
)

// ParseOperationKind maps a wire name back to its kind.
func ParseOperationKind(name string) (OperationKind, error) {
	for i, n := range operationKindNames {
		if n == name {
			return OperationKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Schedule is an immutable snapshot of the on-chain fee table: one lamport
// amount per operation kind. Owner is the service wallet allowed to adjust
// the table and the destination of every fee transfer.
type Schedule struct {
	Owner   string // base58 service owner from the fee_config account
	Vault   string // base58 fee destination (the fee_config PDA itself)
	amounts [NumOperationKinds]uint64
}

// NewSchedule builds a snapshot from a full amounts table.
func NewSchedule(owner, vault string, amounts [NumOperationKinds]uint64) Schedule {
	return Schedule{Owner: owner, Vault: vault, amounts: amounts}
}

// Amount returns the lamport fee for one operation kind.
func (s Schedule) Amount(k OperationKind) (uint64, error) {
	if !k.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownOperation, int(k))
	}
	return s.amounts[k], nil
}

// Sum totals the fees for every given kind. Duplicate kinds are summed
// again on purpose: one schedule entry per selected option.
func (s Schedule) Sum(kinds ...OperationKind) (uint64, error) {
	var total uint64
	for _, k := range kinds {
		amt, err := s.Amount(k)
		if err != nil {
			return 0, err
		}
		total += amt
	}
	return total, nil
}

// Amounts returns a copy of the full table, in OperationKind order.
func (s Schedule) Amounts() [NumOperationKinds]uint64 {
	return s.amounts
}
