package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/blocto/solana-go-sdk/types"

	"github.com/ramachandrareddy352/sol-tool/internal/domain/authority"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/plan"
)

// ============================================================
// Ports
// ============================================================

var (
	ErrAccountNotFound      = errors.New("ledger: account not found")
	ErrUserDeclined         = errors.New("signer: user declined")
	ErrFeeConfigUnavailable = errors.New("fee config: unavailable")
	ErrFeeScheduleNotLoaded = errors.New("fee cache: not loaded")
)

// AccountState is a raw ledger account snapshot.
type AccountState struct {
	Lamports uint64
	Owner    string // base58 owning program
	Data     []byte
}

// LedgerReader reads raw chain state. Every call may suspend on the network.
type LedgerReader interface {
	GetAccount(ctx context.Context, address string) (AccountState, error)
	GetBalance(ctx context.Context, address string) (uint64, error)
	// GetTokenBalance returns the raw amount held by a token account.
	GetTokenBalance(ctx context.Context, account string) (uint64, error)
}

// FeeConfigReader fetches and decodes the on-chain fee table.
type FeeConfigReader interface {
	Load(ctx context.Context) (fee.Schedule, error)
}

// MintState is everything a workflow needs to know about a mint before
// validating and planning: authority snapshot plus the immutable metadata
// fields.
type MintState struct {
	Authority authority.State
	Supply    uint64
	Decimals  uint8

	MetadataExists bool
	Name           string
	Symbol         string
	URI            string
}

// MintStateReader reads a mint account and its metadata account.
type MintStateReader interface {
	ReadMintState(ctx context.Context, mint string) (MintState, error)
}

// UnsignedTransaction is the composed, not-yet-signed atomic unit. The
// concrete type belongs to the composing infrastructure; callers only pass
// it through to the signer.
type UnsignedTransaction interface {
	// FeePayer is the base58 address that pays network fees and signs.
	FeePayer() string
}

// MintedTransaction is implemented by compositions that create a mint in
// flight; it exposes the new token's resolved address.
type MintedTransaction interface {
	MintAddress() string
}

// PriorityLevel scales the compute-unit price attached to a composition to
// ride out congestion. None omits the compute-budget instruction.
type PriorityLevel int

const (
	PriorityNone PriorityLevel = iota
	PriorityFast               // 1x
	PriorityTurbo              // 2x
	PriorityUltra              // 3x
)

// ComposeOptions tune a single composition.
type ComposeOptions struct {
	Priority PriorityLevel
	// MintKey is the pre-resolved vanity key pair for a custom-address
	// creation. Nil lets the composer generate a fresh pair.
	MintKey *types.Account
}

// Composer assembles a plan into one atomic transaction. Pure assembly: no
// partial unit is ever constructed.
type Composer interface {
	Compose(ctx context.Context, p plan.Plan, opts ComposeOptions) (UnsignedTransaction, error)
}

// Signer signs and broadcasts in one step, the way wallet adapters do. A
// user refusal surfaces as ErrUserDeclined.
type Signer interface {
	SignAndSend(ctx context.Context, tx UnsignedTransaction) (signature string, err error)
}

// ConfirmationVerdict is the terminal classification of a broadcast
// signature.
type ConfirmationVerdict int

const (
	VerdictConfirmed ConfirmationVerdict = iota
	VerdictTimedOut
	VerdictFailed
)

// Confirmation is the waiter's outcome. Reason is set for VerdictFailed.
type Confirmation struct {
	Verdict ConfirmationVerdict
	Reason  string
}

// ConfirmationWaiter polls until the signature reaches a terminal status or
// the bounded wait elapses. TimedOut is not failure: the transaction may
// still land later.
type ConfirmationWaiter interface {
	AwaitConfirmation(ctx context.Context, signature string, timeout time.Duration) (Confirmation, error)
}
