package solana

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
)

// ChainReader is the RPC-backed ledger reader. One instance is shared by
// every workflow; the underlying client is safe for concurrent use.
type ChainReader struct {
	rpc *client.Client
}

var _ usecase.LedgerReader = (*ChainReader)(nil)
var _ usecase.HoldingAccountResolver = (*ChainReader)(nil)

// NewChainReader builds a reader against the configured RPC endpoint.
// Endpoint resolution order:
// 1) SOLANA_RPC_URL env (if set)
// 2) devnet (default)
func NewChainReader() *ChainReader {
	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		rpcURL = rpc.DevnetRPCEndpoint
	}
	return &ChainReader{rpc: client.NewClient(rpcURL)}
}

// NewChainReaderWithClient wires an existing client (tests, custom endpoints).
func NewChainReaderWithClient(c *client.Client) *ChainReader {
	return &ChainReader{rpc: c}
}

func (r *ChainReader) GetAccount(ctx context.Context, address string) (usecase.AccountState, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return usecase.AccountState{}, fmt.Errorf("chain reader: address is empty")
	}

	info, err := r.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return usecase.AccountState{}, fmt.Errorf("chain reader: GetAccountInfo: %w", err)
	}
	if info.Lamports == 0 && len(info.Data) == 0 {
		return usecase.AccountState{}, fmt.Errorf("chain reader: %w: %s", usecase.ErrAccountNotFound, address)
	}

	return usecase.AccountState{
		Lamports: info.Lamports,
		Owner:    info.Owner.ToBase58(),
		Data:     info.Data,
	}, nil
}

func (r *ChainReader) GetBalance(ctx context.Context, address string) (uint64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, fmt.Errorf("chain reader: address is empty")
	}
	bal, err := r.rpc.GetBalance(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("chain reader: GetBalance: %w", err)
	}
	return bal, nil
}

// GetTokenBalance returns the raw (undivided) amount held by a token
// account. The RPC reports the amount as a decimal string.
func (r *ChainReader) GetTokenBalance(ctx context.Context, account string) (uint64, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return 0, fmt.Errorf("chain reader: account is empty")
	}
	balance, err := r.rpc.GetTokenAccountBalance(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("chain reader: GetTokenAccountBalance: %w", err)
	}
	return balance.Amount, nil
}

// ResolveHoldingAccount derives the owner's associated token account for a
// mint and checks whether it exists on chain yet.
func (r *ChainReader) ResolveHoldingAccount(ctx context.Context, owner, mint string) (string, bool, error) {
	ownerPk := common.PublicKeyFromString(strings.TrimSpace(owner))
	mintPk := common.PublicKeyFromString(strings.TrimSpace(mint))

	ata, _, err := common.FindAssociatedTokenAddress(ownerPk, mintPk)
	if err != nil {
		return "", false, fmt.Errorf("chain reader: FindAssociatedTokenAddress: %w", err)
	}

	info, err := r.rpc.GetAccountInfo(ctx, ata.ToBase58())
	if err != nil {
		return "", false, fmt.Errorf("chain reader: GetAccountInfo: %w", err)
	}
	exists := info.Lamports > 0 || len(info.Data) > 0
	return ata.ToBase58(), exists, nil
}
