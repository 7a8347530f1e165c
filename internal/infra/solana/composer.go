package solana

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/compute_budget"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/authority"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/plan"
)

var (
	ErrPlanInvariant   = errors.New("composer: plan invariant violated")
	ErrUnknownStepKind = errors.New("composer: unknown descriptor kind")
)

// baseUnitPriceMicroLamports is the 1x compute-unit price; the priority
// level multiplies it.
const baseUnitPriceMicroLamports = 10_000

// UnsignedTx is the composed, not-yet-signed atomic transaction. It carries
// the message plus any extra key pairs (a freshly created mint) that must
// co-sign alongside the wallet.
type UnsignedTx struct {
	Message      types.Message
	ExtraSigners []types.Account

	feePayer string
	mint     string
}

func (t *UnsignedTx) FeePayer() string { return t.feePayer }

// MintAddress is the base58 address of the mint created by this transaction,
// empty when composition generated no mint key.
func (t *UnsignedTx) MintAddress() string { return t.mint }

// TransactionComposer maps an instruction plan onto concrete SDK
// instructions and a fresh blockhash. Composition is all-or-nothing: an
// unmappable step aborts with no partial transaction.
type TransactionComposer struct {
	rpc *client.Client
}

var _ usecase.Composer = (*TransactionComposer)(nil)

func NewTransactionComposer() *TransactionComposer {
	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		rpcURL = rpc.DevnetRPCEndpoint
	}
	return &TransactionComposer{rpc: client.NewClient(rpcURL)}
}

func NewTransactionComposerWithClient(c *client.Client) *TransactionComposer {
	return &TransactionComposer{rpc: c}
}

func (tc *TransactionComposer) Compose(ctx context.Context, p plan.Plan, opts usecase.ComposeOptions) (usecase.UnsignedTransaction, error) {
	if len(p.Descriptors) == 0 {
		return nil, fmt.Errorf("%w: empty plan", ErrPlanInvariant)
	}
	if !p.FeeTransferFirst() {
		return nil, fmt.Errorf("%w: fee transfer not first", ErrPlanInvariant)
	}
	if p.Descriptors[0].Kind == plan.KindFeeTransfer && p.Descriptors[0].Amount != p.TotalFee {
		return nil, fmt.Errorf("%w: fee transfer amount %d != quoted total %d",
			ErrPlanInvariant, p.Descriptors[0].Amount, p.TotalFee)
	}

	feePayer := p.Descriptors[0].Signer
	payerPk := common.PublicKeyFromString(feePayer)

	b := &txBuilder{
		rpc:     tc.rpc,
		payer:   payerPk,
		mintKey: opts.MintKey,
	}

	if price := unitPrice(opts.Priority); price > 0 {
		b.instructions = append(b.instructions, compute_budget.SetComputeUnitPrice(
			compute_budget.SetComputeUnitPriceParam{MicroLamports: price},
		))
	}

	for i, d := range p.Descriptors {
		if err := b.appendStep(ctx, d); err != nil {
			return nil, fmt.Errorf("composer: step %d (%s): %w", i, d.Kind, err)
		}
	}

	recent, err := tc.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("composer: GetLatestBlockhash: %w", err)
	}

	msg := types.NewMessage(types.NewMessageParam{
		FeePayer:        payerPk,
		RecentBlockhash: recent.Blockhash,
		Instructions:    b.instructions,
	})

	log.Printf("[composer] composed steps=%d instructions=%d fee=%d payer=%s",
		len(p.Descriptors), len(b.instructions), p.TotalFee, maskAddr(feePayer))

	mint := ""
	if b.mintKey != nil {
		mint = b.mintKey.PublicKey.ToBase58()
	}
	return &UnsignedTx{
		Message:      msg,
		ExtraSigners: b.extraSigners,
		feePayer:     feePayer,
		mint:         mint,
	}, nil
}

func unitPrice(level usecase.PriorityLevel) uint64 {
	switch level {
	case usecase.PriorityFast:
		return baseUnitPriceMicroLamports
	case usecase.PriorityTurbo:
		return 2 * baseUnitPriceMicroLamports
	case usecase.PriorityUltra:
		return 3 * baseUnitPriceMicroLamports
	default:
		return 0
	}
}

// txBuilder accumulates instructions for one composition. The mint key is
// materialized lazily on the first step that references a mint under
// creation.
type txBuilder struct {
	rpc          *client.Client
	payer        common.PublicKey
	mintKey      *types.Account
	mintCreated  bool
	instructions []types.Instruction
	extraSigners []types.Account
}

// resolveMint returns the mint pubkey for a step. An empty descriptor mint
// means the token is being created in this transaction: the pre-resolved
// vanity pair is used when present, otherwise a fresh pair is generated once
// and reused by every following step.
func (b *txBuilder) resolveMint(descMint string) common.PublicKey {
	if descMint != "" && b.mintKey == nil {
		return common.PublicKeyFromString(descMint)
	}
	if b.mintKey == nil {
		acc := types.NewAccount()
		b.mintKey = &acc
	}
	if !b.mintCreated {
		b.extraSigners = append(b.extraSigners, *b.mintKey)
		b.mintCreated = true
	}
	return b.mintKey.PublicKey
}

func (b *txBuilder) appendStep(ctx context.Context, d plan.Descriptor) error {
	switch d.Kind {
	case plan.KindFeeTransfer:
		b.instructions = append(b.instructions, system.Transfer(system.TransferParam{
			From:   b.payer,
			To:     common.PublicKeyFromString(d.Destination),
			Amount: d.Amount,
		}))
		return nil

	case plan.KindCreateMint:
		return b.appendCreateMint(ctx, d)

	case plan.KindCreateAccount:
		return b.appendCreateAccount(d)

	case plan.KindMint:
		mint := b.resolveMint(d.Mint)
		ata, _, err := common.FindAssociatedTokenAddress(common.PublicKeyFromString(d.Destination), mint)
		if err != nil {
			return fmt.Errorf("FindAssociatedTokenAddress: %w", err)
		}
		b.instructions = append(b.instructions, token.MintTo(token.MintToParam{
			Mint:   mint,
			To:     ata,
			Auth:   common.PublicKeyFromString(d.Signer),
			Amount: d.Amount,
		}))
		return nil

	case plan.KindCreateMetadata:
		return b.appendCreateMetadata(d)

	case plan.KindUpdateMetadata:
		return b.appendUpdateMetadata(d)

	case plan.KindSetAuthority:
		return b.appendSetAuthority(d)

	case plan.KindSetCloseAuthority:
		mint := b.resolveMint(d.Mint)
		ata, _, err := common.FindAssociatedTokenAddress(common.PublicKeyFromString(d.Signer), mint)
		if err != nil {
			return fmt.Errorf("FindAssociatedTokenAddress: %w", err)
		}
		newAuth := common.PublicKeyFromString(d.Destination)
		b.instructions = append(b.instructions, token.SetAuthority(token.SetAuthorityParam{
			Account:  ata,
			NewAuth:  &newAuth,
			AuthType: token.AuthorityTypeCloseAccount,
			Auth:     common.PublicKeyFromString(d.Signer),
		}))
		return nil

	case plan.KindBurn:
		b.instructions = append(b.instructions, token.Burn(token.BurnParam{
			Account: common.PublicKeyFromString(d.Account),
			Mint:    common.PublicKeyFromString(d.Mint),
			Auth:    common.PublicKeyFromString(d.Signer),
			Amount:  d.Amount,
		}))
		return nil

	case plan.KindFreezeAccount:
		b.instructions = append(b.instructions, token.FreezeAccount(token.FreezeAccountParam{
			Account: common.PublicKeyFromString(d.Account),
			Mint:    common.PublicKeyFromString(d.Mint),
			Auth:    common.PublicKeyFromString(d.Signer),
		}))
		return nil

	case plan.KindThawAccount:
		b.instructions = append(b.instructions, token.ThawAccount(token.ThawAccountParam{
			Account: common.PublicKeyFromString(d.Account),
			Mint:    common.PublicKeyFromString(d.Mint),
			Auth:    common.PublicKeyFromString(d.Signer),
		}))
		return nil

	case plan.KindCloseAccount:
		b.instructions = append(b.instructions, token.CloseAccount(token.CloseAccountParam{
			Account: common.PublicKeyFromString(d.Account),
			Auth:    common.PublicKeyFromString(d.Signer),
			To:      common.PublicKeyFromString(d.Destination),
		}))
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnknownStepKind, d.Kind)
	}
}

// appendCreateMint funds and initializes the mint account for a token under
// creation. The signer starts out holding both the mint and the freeze
// authority.
func (b *txBuilder) appendCreateMint(ctx context.Context, d plan.Descriptor) error {
	signer := common.PublicKeyFromString(d.Signer)
	mint := b.resolveMint(d.Mint)

	mintRent, err := b.rpc.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return fmt.Errorf("GetMinimumBalanceForRentExemption: %w", err)
	}
	b.instructions = append(b.instructions,
		system.CreateAccount(system.CreateAccountParam{
			From:     signer,
			New:      mint,
			Owner:    common.TokenProgramID,
			Lamports: mintRent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   d.Decimals,
			Mint:       mint,
			MintAuth:   signer,
			FreezeAuth: &signer,
		}),
	)
	return nil
}

// appendCreateAccount creates the owner's missing holding (associated token)
// account, for the mint under creation or an existing one.
func (b *txBuilder) appendCreateAccount(d plan.Descriptor) error {
	signer := common.PublicKeyFromString(d.Signer)
	owner := common.PublicKeyFromString(d.Destination)
	mint := b.resolveMint(d.Mint)

	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return fmt.Errorf("FindAssociatedTokenAddress: %w", err)
	}
	b.instructions = append(b.instructions, associated_token_account.CreateAssociatedTokenAccount(
		associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 signer,
			Owner:                  owner,
			Mint:                   mint,
			AssociatedTokenAccount: ata,
		},
	))
	return nil
}

func (b *txBuilder) appendCreateMetadata(d plan.Descriptor) error {
	if d.Metadata == nil {
		return fmt.Errorf("%w: createMetadata without metadata", ErrPlanInvariant)
	}
	signer := common.PublicKeyFromString(d.Signer)
	mint := b.resolveMint(d.Mint)

	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return fmt.Errorf("GetTokenMetaPubkey: %w", err)
	}

	var creators *[]token_metadata.Creator
	if d.Metadata.CreatorAddress != "" {
		creatorPk := common.PublicKeyFromString(d.Metadata.CreatorAddress)
		creators = &[]token_metadata.Creator{{
			Address:  creatorPk,
			Verified: creatorPk == signer,
			Share:    100,
		}}
	}

	b.instructions = append(b.instructions, token_metadata.CreateMetadataAccountV3(
		token_metadata.CreateMetadataAccountV3Param{
			Metadata:                metadataPubkey,
			Mint:                    mint,
			MintAuthority:           signer,
			UpdateAuthority:         signer,
			Payer:                   signer,
			UpdateAuthorityIsSigner: true,
			IsMutable:               d.Metadata.Mutable,
			Data: token_metadata.DataV2{
				Name:                 d.Metadata.Name,
				Symbol:               d.Metadata.Symbol,
				Uri:                  d.Metadata.URI,
				SellerFeeBasisPoints: 0,
				Creators:             creators,
			},
			CollectionDetails: nil,
		},
	))
	return nil
}

func (b *txBuilder) appendUpdateMetadata(d plan.Descriptor) error {
	if d.Metadata == nil {
		return fmt.Errorf("%w: updateMetadata without metadata", ErrPlanInvariant)
	}
	signer := common.PublicKeyFromString(d.Signer)
	mint := b.resolveMint(d.Mint)

	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return fmt.Errorf("GetTokenMetaPubkey: %w", err)
	}

	mutable := d.Metadata.Mutable
	b.instructions = append(b.instructions, token_metadata.UpdateMetadataAccountV2(
		token_metadata.UpdateMetadataAccountV2Param{
			MetadataAccount: metadataPubkey,
			UpdateAuthority: signer,
			Data: &token_metadata.DataV2{
				Name:   d.Metadata.Name,
				Symbol: d.Metadata.Symbol,
				Uri:    d.Metadata.URI,
			},
			IsMutable: &mutable,
		},
	))
	return nil
}

// appendSetAuthority routes the three slots: mint and freeze live on the
// SPL mint account, the update slot lives on the Metaplex metadata account.
// A nil NewAuthority revokes.
func (b *txBuilder) appendSetAuthority(d plan.Descriptor) error {
	signer := common.PublicKeyFromString(d.Signer)
	mint := b.resolveMint(d.Mint)

	if d.Slot == authority.SlotUpdate {
		metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint)
		if err != nil {
			return fmt.Errorf("GetTokenMetaPubkey: %w", err)
		}
		param := token_metadata.UpdateMetadataAccountV2Param{
			MetadataAccount: metadataPubkey,
			UpdateAuthority: signer,
		}
		if d.NewAuthority != nil {
			newAuth := common.PublicKeyFromString(*d.NewAuthority)
			param.NewUpdateAuthority = &newAuth
		} else {
			// Revoking burns the authority to the zero key and freezes the
			// metadata for good.
			newAuth := common.PublicKey{}
			mutable := false
			param.NewUpdateAuthority = &newAuth
			param.IsMutable = &mutable
		}
		b.instructions = append(b.instructions, token_metadata.UpdateMetadataAccountV2(param))
		return nil
	}

	authType := token.AuthorityTypeMintTokens
	if d.Slot == authority.SlotFreeze {
		authType = token.AuthorityTypeFreezeAccount
	}
	var newAuth *common.PublicKey
	if d.NewAuthority != nil {
		pk := common.PublicKeyFromString(*d.NewAuthority)
		newAuth = &pk
	}
	b.instructions = append(b.instructions, token.SetAuthority(token.SetAuthorityParam{
		Account:  mint,
		NewAuth:  newAuth,
		AuthType: authType,
		Auth:     signer,
	}))
	return nil
}
