package solana

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
)

// confirmPollInterval paces the status polls. Devnet slots are ~400ms; one
// poll a second keeps the RPC quiet without adding visible latency.
const confirmPollInterval = time.Second

// SignatureConfirmer polls a broadcast signature until it is confirmed,
// fails on chain, or the bounded wait elapses. A timeout is reported as its
// own verdict: the transaction may still land later and the caller must not
// pretend otherwise.
type SignatureConfirmer struct {
	rpc *client.Client
}

var _ usecase.ConfirmationWaiter = (*SignatureConfirmer)(nil)

func NewSignatureConfirmer() *SignatureConfirmer {
	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		rpcURL = rpc.DevnetRPCEndpoint
	}
	return &SignatureConfirmer{rpc: client.NewClient(rpcURL)}
}

func NewSignatureConfirmerWithClient(c *client.Client) *SignatureConfirmer {
	return &SignatureConfirmer{rpc: c}
}

func (w *SignatureConfirmer) AwaitConfirmation(ctx context.Context, signature string, timeout time.Duration) (usecase.Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		status, err := w.rpc.GetSignatureStatus(ctx, signature)
		if err != nil {
			// Transient RPC trouble is not a verdict; keep polling until the
			// deadline decides.
			log.Printf("[confirmer] GetSignatureStatus: %v", err)
		} else if status != nil {
			if status.Err != nil {
				return usecase.Confirmation{
					Verdict: usecase.VerdictFailed,
					Reason:  fmt.Sprintf("%v", status.Err),
				}, nil
			}
			if status.ConfirmationStatus != nil &&
				(*status.ConfirmationStatus == rpc.CommitmentConfirmed || *status.ConfirmationStatus == rpc.CommitmentFinalized) {
				log.Printf("[confirmer] confirmed signature=%s status=%s", maskAddr(signature), *status.ConfirmationStatus)
				return usecase.Confirmation{Verdict: usecase.VerdictConfirmed}, nil
			}
		}

		select {
		case <-ctx.Done():
			return usecase.Confirmation{
				Verdict: usecase.VerdictTimedOut,
				Reason:  ctx.Err().Error(),
			}, nil
		case <-ticker.C:
		}
	}
}
