package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
)

// WalletSigner signs a composed transaction with the operator wallet and
// broadcasts it in one step. It stands in for a browser wallet adapter when
// the tool runs server-side, so a key/payer mismatch surfaces as the same
// declined state a wallet popup rejection would.
type WalletSigner struct {
	rpc    *client.Client
	wallet types.Account
}

var _ usecase.Signer = (*WalletSigner)(nil)

func NewWalletSigner(wallet types.Account) *WalletSigner {
	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		rpcURL = rpc.DevnetRPCEndpoint
	}
	return &WalletSigner{rpc: client.NewClient(rpcURL), wallet: wallet}
}

func NewWalletSignerWithClient(c *client.Client, wallet types.Account) *WalletSigner {
	return &WalletSigner{rpc: c, wallet: wallet}
}

// Address is the base58 public key of the loaded wallet.
func (s *WalletSigner) Address() string {
	return s.wallet.PublicKey.ToBase58()
}

func (s *WalletSigner) SignAndSend(ctx context.Context, unsigned usecase.UnsignedTransaction) (string, error) {
	utx, ok := unsigned.(*UnsignedTx)
	if !ok {
		return "", fmt.Errorf("wallet signer: unexpected transaction type %T", unsigned)
	}
	if utx.FeePayer() != s.Address() {
		// The wallet refuses to sign for a payer it does not hold.
		return "", fmt.Errorf("wallet signer: %w: payer=%s wallet=%s",
			usecase.ErrUserDeclined, maskAddr(utx.FeePayer()), maskAddr(s.Address()))
	}

	signers := append([]types.Account{s.wallet}, utx.ExtraSigners...)
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: utx.Message,
		Signers: signers,
	})
	if err != nil {
		return "", fmt.Errorf("wallet signer: NewTransaction: %w", err)
	}

	sig, err := s.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("wallet signer: SendTransaction: %w", err)
	}
	log.Printf("[signer] sent signature=%s payer=%s", maskAddr(sig), maskAddr(s.Address()))
	return sig, nil
}

// LoadWallet restores the operator wallet, preferring Secret Manager.
// Resolution order:
// 1) WALLET_KEY_SECRET env: a Secret Version full path holding a
//    solana-keygen keypair JSON
// 2) WALLET_KEYPAIR env: the keypair JSON inline
func LoadWallet(ctx context.Context) (types.Account, error) {
	if secretName := strings.TrimSpace(os.Getenv("WALLET_KEY_SECRET")); secretName != "" {
		return loadWalletFromSecret(ctx, secretName)
	}
	if raw := strings.TrimSpace(os.Getenv("WALLET_KEYPAIR")); raw != "" {
		return accountFromKeypairJSON([]byte(raw))
	}
	return types.Account{}, fmt.Errorf("wallet: neither WALLET_KEY_SECRET nor WALLET_KEYPAIR is set")
}

func loadWalletFromSecret(ctx context.Context, secretName string) (types.Account, error) {
	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return types.Account{}, fmt.Errorf("wallet: secretmanager.NewClient: %w", err)
	}
	defer sm.Close()

	resp, err := sm.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return types.Account{}, fmt.Errorf("wallet: AccessSecretVersion: %w", err)
	}

	acc, err := accountFromKeypairJSON(resp.Payload.Data)
	if err != nil {
		return types.Account{}, err
	}
	log.Printf("[signer] loaded wallet from Secret Manager: pubkey=%s", maskAddr(acc.PublicKey.ToBase58()))
	return acc, nil
}

// accountFromKeypairJSON restores an account from a solana-keygen keypair
// JSON. The canonical form is [u8;64]; an [int,...] array is accepted for
// compatibility.
func accountFromKeypairJSON(data []byte) (types.Account, error) {
	var keyBytes []byte
	if err := json.Unmarshal(data, &keyBytes); err != nil || len(keyBytes) != ed25519.PrivateKeySize {
		var ints []int
		if err := json.Unmarshal(data, &ints); err != nil {
			return types.Account{}, fmt.Errorf("wallet: unmarshal keypair json: %w", err)
		}
		if len(ints) != ed25519.PrivateKeySize {
			return types.Account{}, fmt.Errorf("wallet: unexpected secret key length: got %d, want %d",
				len(ints), ed25519.PrivateKeySize)
		}
		keyBytes = make([]byte, len(ints))
		for i, v := range ints {
			keyBytes[i] = byte(v)
		}
	}

	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("wallet: AccountFromBytes: %w", err)
	}
	return acc, nil
}
