package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
)

// InvalidRequestError rejects a request before any instruction is planned.
// Detail is a stable reason code; the presentation layer maps each code to
// its own message.
type InvalidRequestError struct {
	Detail  string
	Context string
}

func (e *InvalidRequestError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("plan: invalid request: %s", e.Detail)
	}
	return fmt.Sprintf("plan: invalid request: %s (%s)", e.Detail, e.Context)
}

func invalid(detail, format string, args ...any) error {
	return &InvalidRequestError{Detail: detail, Context: fmt.Sprintf(format, args...)}
}

// Reason codes carried by InvalidRequestError.Detail.
const (
	DetailMalformedAddress   = "malformed-address"
	DetailNonPositiveAmount  = "non-positive-amount"
	DetailAmountExceedsFunds = "amount-exceeds-balance"
	DetailNonZeroBalance     = "non-zero-balance"
	DetailImmutableField     = "immutable-name-symbol"
	DetailRestrictedName     = "restricted-name"
	DetailMissingField       = "missing-field"
	DetailMissingVanityKey   = "missing-vanity-key"
	DetailUnsupportedKind    = "unsupported-operation"
)

var ErrInvalidRequest = errors.New("plan: invalid request")

// RefundTarget selects who receives the rent refund when a token account is
// closed: the service wallet, the token creator, the account owner, or a
// custom address.
type RefundTarget string

const (
	RefundService RefundTarget = "sol"
	RefundCreator RefundTarget = "token"
	RefundOwner   RefundTarget = "owner"
	RefundCustom  RefundTarget = "custom"
)

// CreatorOptions is the paid modify-creator option on token creation.
type CreatorOptions struct {
	Remove  bool // drop the creator entry entirely
	Name    string
	Website string
	Address string // base58, required unless Remove
}

// RecoveryOptions is the paid account-deletion option on token creation: it
// hands the holding account's close authority to the chosen recipient.
type RecoveryOptions struct {
	Target        RefundTarget
	CustomAddress string // required when Target == RefundCustom
}

// CreateOptions are the token-creation workflow inputs.
type CreateOptions struct {
	Name        string
	Symbol      string
	Decimals    uint8 // 1..12
	Supply      uint64
	MetadataURI string // uploaded off-chain JSON

	Creator *CreatorOptions // ModifyCreatorInfo fee when set

	RevokeMint   bool
	RevokeFreeze bool
	RevokeUpdate bool

	// CustomAddress switches the mint to a pre-resolved vanity key pair.
	CustomAddress bool
	VanityAddress string // base58 public key of the resolved pair

	Recovery *RecoveryOptions // AccountDeleteRefund fee when set
}

// UpdateMetadataOptions are the metadata workflow inputs. Name and symbol
// are immutable post-creation; a change request is rejected, not dropped.
type UpdateMetadataOptions struct {
	MetadataExists bool
	CurrentName    string
	CurrentSymbol  string
	Name           string
	Symbol         string
	MetadataURI    string
	Mutable        bool
}

// CloseOptions are the account-close workflow inputs.
type CloseOptions struct {
	DrainFirst     bool // burn the remaining balance before closing
	RefundTarget   RefundTarget
	CustomAddress  string
	HoldingBalance uint64 // caller-fetched balance of the account being closed
}

// Request is the single parameterized input for every workflow screen,
// discriminated by the operation kind.
type Request struct {
	Kind   fee.OperationKind
	Signer string // base58 connected wallet
	Mint   string // target mint; empty for CreateToken

	// Amount is the raw token amount for mint/burn operations.
	Amount uint64
	// KnownBalance is the caller-fetched balance backing burn-style checks.
	KnownBalance uint64
	// TargetAccount is the user token account for freeze/thaw/close.
	TargetAccount string
	// NeedsHoldingAccount asks for holding-account creation ahead of a mint.
	NeedsHoldingAccount bool
	// NewAuthority is the handover target for update-authority operations.
	NewAuthority string

	Create *CreateOptions
	Update *UpdateMetadataOptions
	Close  *CloseOptions
}

const (
	maxNameLen   = 50
	maxSymbolLen = 10
	minDecimals  = 1
	maxDecimals  = 12
)

// validate rejects everything the planner must never see. Checks are local
// and cheap; nothing touches the network.
func (r Request) validate() error {
	if !r.Kind.Valid() {
		return invalid(DetailUnsupportedKind, "kind=%d", int(r.Kind))
	}
	if !isBase58Pubkey(r.Signer) {
		return invalid(DetailMalformedAddress, "signer=%q", r.Signer)
	}

	switch r.Kind {
	case fee.CreateToken:
		return r.validateCreate()
	case fee.MintTokens:
		if err := r.requireMint(); err != nil {
			return err
		}
		if r.Amount == 0 {
			return invalid(DetailNonPositiveAmount, "mint amount")
		}
	case fee.BurnTokens:
		if err := r.requireMint(); err != nil {
			return err
		}
		if r.Amount == 0 {
			return invalid(DetailNonPositiveAmount, "burn amount")
		}
		if r.Amount > r.KnownBalance {
			return invalid(DetailAmountExceedsFunds, "burn %d > balance %d", r.Amount, r.KnownBalance)
		}
	case fee.FreezeUser, fee.UnfreezeUser:
		if err := r.requireMint(); err != nil {
			return err
		}
		if !isBase58Pubkey(r.TargetAccount) {
			return invalid(DetailMalformedAddress, "target=%q", r.TargetAccount)
		}
	case fee.RevokeMint, fee.RevokeFreeze, fee.RevokeMetadataAuthority:
		return r.requireMint()
	case fee.UpdateMint, fee.UpdateFreeze, fee.UpdateMetadataAuthority:
		if err := r.requireMint(); err != nil {
			return err
		}
		if !isBase58Pubkey(r.NewAuthority) {
			return invalid(DetailMalformedAddress, "newAuthority=%q", r.NewAuthority)
		}
	case fee.UpdateMetadata:
		if err := r.requireMint(); err != nil {
			return err
		}
		if r.Update == nil {
			return invalid(DetailMissingField, "update options")
		}
		if r.Update.MetadataExists {
			name := strings.TrimSpace(r.Update.Name)
			symbol := strings.TrimSpace(r.Update.Symbol)
			if name != "" && name != r.Update.CurrentName {
				return invalid(DetailImmutableField, "name %q -> %q", r.Update.CurrentName, name)
			}
			if symbol != "" && symbol != r.Update.CurrentSymbol {
				return invalid(DetailImmutableField, "symbol %q -> %q", r.Update.CurrentSymbol, symbol)
			}
		}
		if strings.TrimSpace(r.Update.MetadataURI) == "" {
			return invalid(DetailMissingField, "metadata uri")
		}
	case fee.AccountDeleteRefund:
		if err := r.requireMint(); err != nil {
			return err
		}
		if r.Close == nil {
			return invalid(DetailMissingField, "close options")
		}
		if !isBase58Pubkey(r.TargetAccount) {
			return invalid(DetailMalformedAddress, "account=%q", r.TargetAccount)
		}
		if r.Close.HoldingBalance > 0 && !r.Close.DrainFirst {
			return invalid(DetailNonZeroBalance, "balance=%d", r.Close.HoldingBalance)
		}
		if r.Close.RefundTarget == RefundCustom && !isBase58Pubkey(r.Close.CustomAddress) {
			return invalid(DetailMalformedAddress, "refund=%q", r.Close.CustomAddress)
		}
	default:
		// ModifyCreatorInfo and CustomAddress are create-time options, not
		// standalone workflows.
		return invalid(DetailUnsupportedKind, "kind=%s", r.Kind)
	}
	return nil
}

func (r Request) validateCreate() error {
	c := r.Create
	if c == nil {
		return invalid(DetailMissingField, "create options")
	}
	name := strings.TrimSpace(c.Name)
	symbol := strings.TrimSpace(c.Symbol)
	if name == "" || len(name) > maxNameLen {
		return invalid(DetailMissingField, "name=%q", c.Name)
	}
	if symbol == "" || len(symbol) > maxSymbolLen {
		return invalid(DetailMissingField, "symbol=%q", c.Symbol)
	}
	if c.Decimals < minDecimals || c.Decimals > maxDecimals {
		return invalid(DetailMissingField, "decimals=%d", c.Decimals)
	}
	if strings.TrimSpace(c.MetadataURI) == "" {
		return invalid(DetailMissingField, "metadata uri")
	}
	if c.Creator != nil && !c.Creator.Remove && !isBase58Pubkey(c.Creator.Address) {
		return invalid(DetailMalformedAddress, "creator=%q", c.Creator.Address)
	}
	if c.CustomAddress && !isBase58Pubkey(c.VanityAddress) {
		return invalid(DetailMissingVanityKey, "vanity=%q", c.VanityAddress)
	}
	if c.Recovery != nil && c.Recovery.Target == RefundCustom && !isBase58Pubkey(c.Recovery.CustomAddress) {
		return invalid(DetailMalformedAddress, "recovery=%q", c.Recovery.CustomAddress)
	}
	return nil
}

func (r Request) requireMint() error {
	if !isBase58Pubkey(r.Mint) {
		return invalid(DetailMalformedAddress, "mint=%q", r.Mint)
	}
	return nil
}

// Solana pubkeys are 32 bytes base58-encoded; observed length 32..44.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func isBase58Pubkey(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(base58Alphabet, r) {
			return false
		}
	}
	return true
}
