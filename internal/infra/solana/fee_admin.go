package solana

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
)

// Anchor instruction discriminators of the sol_tool program, first 8 bytes
// of sha256("global:<name>").
var (
	initializeFeeConfigDiscriminator = [8]byte{62, 162, 20, 133, 121, 65, 145, 27}
	updateFeeConfigDiscriminator     = [8]byte{104, 184, 103, 242, 88, 151, 107, 20}
	withdrawFeesDiscriminator        = [8]byte{198, 212, 171, 109, 144, 215, 174, 89}
)

var ErrNotConfigOwner = errors.New("fee admin: wallet is not the config owner")

// FeeAdmin drives the owner-only program instructions: seeding the fee
// table, repricing it, and withdrawing the accumulated lamports from the
// vault. Ownership is enforced on chain; update and withdraw mirror that
// with a local check against the fetched config so a mis-keyed wallet fails
// before paying a transaction fee.
type FeeAdmin struct {
	rpc       *client.Client
	wallet    types.Account
	programID common.PublicKey
}

func NewFeeAdmin(wallet types.Account) *FeeAdmin {
	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		rpcURL = rpc.DevnetRPCEndpoint
	}
	pid := strings.TrimSpace(os.Getenv("SOL_TOOL_PROGRAM_ID"))
	if pid == "" {
		pid = fee.DefaultProgramID
	}
	return &FeeAdmin{
		rpc:       client.NewClient(rpcURL),
		wallet:    wallet,
		programID: common.PublicKeyFromString(pid),
	}
}

func NewFeeAdminWithClient(c *client.Client, wallet types.Account, programID common.PublicKey) *FeeAdmin {
	return &FeeAdmin{rpc: c, wallet: wallet, programID: programID}
}

// InitializeFees seeds the fee_config PDA with the given amounts and records
// the wallet as its owner. One-shot: the program rejects a second call.
func (a *FeeAdmin) InitializeFees(ctx context.Context, amounts [fee.NumOperationKinds]uint64) (string, error) {
	pda, err := fee.ConfigAddress(a.programID)
	if err != nil {
		return "", err
	}

	// Args: fee table, then the owner pubkey recorded into the account.
	data := append(encodeFeeArgs(initializeFeeConfigDiscriminator, amounts), a.wallet.PublicKey.Bytes()...)

	ix := types.Instruction{
		ProgramID: a.programID,
		Accounts: []types.AccountMeta{
			{PubKey: pda, IsSigner: false, IsWritable: true},
			{PubKey: a.wallet.PublicKey, IsSigner: true, IsWritable: true},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}
	return a.send(ctx, "initializeFeeConfig", ix)
}

// UpdateFees replaces the whole fee table in one call.
func (a *FeeAdmin) UpdateFees(ctx context.Context, amounts [fee.NumOperationKinds]uint64) (string, error) {
	pda, err := a.ensureOwner(ctx)
	if err != nil {
		return "", err
	}

	ix := types.Instruction{
		ProgramID: a.programID,
		Accounts: []types.AccountMeta{
			{PubKey: a.wallet.PublicKey, IsSigner: true, IsWritable: true},
			{PubKey: pda, IsSigner: false, IsWritable: true},
		},
		Data: encodeFeeArgs(updateFeeConfigDiscriminator, amounts),
	}
	return a.send(ctx, "updateFeeConfig", ix)
}

// WithdrawFees moves amount lamports from the vault to the receiver. An
// empty receiver withdraws to the owner wallet.
func (a *FeeAdmin) WithdrawFees(ctx context.Context, amount uint64, receiver string) (string, error) {
	pda, err := a.ensureOwner(ctx)
	if err != nil {
		return "", err
	}

	recv := a.wallet.PublicKey
	if s := strings.TrimSpace(receiver); s != "" {
		recv = common.PublicKeyFromString(s)
	}

	data := make([]byte, 8+8)
	copy(data[:8], withdrawFeesDiscriminator[:])
	binary.LittleEndian.PutUint64(data[8:], amount)

	ix := types.Instruction{
		ProgramID: a.programID,
		Accounts: []types.AccountMeta{
			{PubKey: a.wallet.PublicKey, IsSigner: true, IsWritable: true},
			{PubKey: pda, IsSigner: false, IsWritable: true},
			{PubKey: recv, IsSigner: false, IsWritable: true},
		},
		Data: data,
	}
	return a.send(ctx, "withdrawFees", ix)
}

// ensureOwner fetches the config and verifies the wallet is its recorded
// owner, returning the PDA for reuse.
func (a *FeeAdmin) ensureOwner(ctx context.Context) (common.PublicKey, error) {
	pda, err := fee.ConfigAddress(a.programID)
	if err != nil {
		return common.PublicKey{}, err
	}
	info, err := a.rpc.GetAccountInfo(ctx, pda.ToBase58())
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("fee admin: GetAccountInfo: %w", err)
	}
	schedule, err := fee.DecodeConfigAccount(pda.ToBase58(), info.Data)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("fee admin: %w", err)
	}
	if schedule.Owner != a.wallet.PublicKey.ToBase58() {
		return common.PublicKey{}, fmt.Errorf("%w: owner=%s wallet=%s",
			ErrNotConfigOwner, maskAddr(schedule.Owner), maskAddr(a.wallet.PublicKey.ToBase58()))
	}
	return pda, nil
}

// encodeFeeArgs lays out the borsh argument block: discriminator then one
// u64 (little-endian) per operation kind, IDL order.
func encodeFeeArgs(disc [8]byte, amounts [fee.NumOperationKinds]uint64) []byte {
	out := make([]byte, 8+8*fee.NumOperationKinds)
	copy(out[:8], disc[:])
	off := 8
	for _, amt := range amounts {
		binary.LittleEndian.PutUint64(out[off:off+8], amt)
		off += 8
	}
	return out
}

func (a *FeeAdmin) send(ctx context.Context, name string, ix types.Instruction) (string, error) {
	recent, err := a.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("fee admin: GetLatestBlockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{a.wallet},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        a.wallet.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions:    []types.Instruction{ix},
		}),
	})
	if err != nil {
		return "", fmt.Errorf("fee admin: NewTransaction: %w", err)
	}

	sig, err := a.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("fee admin: %s: SendTransaction: %w", name, err)
	}
	log.Printf("[fee-admin] %s sent signature=%s owner=%s", name, maskAddr(sig), maskAddr(a.wallet.PublicKey.ToBase58()))
	return sig, nil
}
