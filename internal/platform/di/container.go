// Package di wires the infrastructure into the use-case layer. main.go
// stays thin: it loads config, builds the container and serves the router.
package di

import (
	"context"
	"fmt"
	"log"
	"time"

	httpin "github.com/ramachandrareddy352/sol-tool/internal/adapters/in/http"
	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/token"
	"github.com/ramachandrareddy352/sol-tool/internal/infra/config"
	infrasolana "github.com/ramachandrareddy352/sol-tool/internal/infra/solana"
)

// Container is the bundle of wired dependencies main.go consumes.
type Container struct {
	Config  *config.Config
	Handler *httpin.Handler

	session *usecase.Session
}

// NewContainer assembles the whole dependency graph. Failures here are
// fatal to everything but /healthz.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.Load()

	// Chain access. One reader instance backs every consumer.
	reader := infrasolana.NewChainReader()
	feeSource := infrasolana.NewFeeConfigSource(reader)
	mintState := infrasolana.NewMintStateSource(reader)
	composer := infrasolana.NewTransactionComposer()
	confirmer := infrasolana.NewSignatureConfirmer()

	// Operator wallet. The tool is useless without one: every workflow
	// signs.
	wallet, err := infrasolana.LoadWallet(ctx)
	if err != nil {
		return nil, fmt.Errorf("di: load wallet: %w", err)
	}
	signer := infrasolana.NewWalletSigner(wallet)

	// Session + fee cache, bound to the loaded wallet.
	fees := usecase.NewFeeScheduleCache(feeSource)
	session := usecase.NewSession(fees)
	session.Bind(signer.Address(), cfg.Network)

	submission := usecase.NewSubmissionController(signer, confirmer, func(ctx context.Context) {
		// Post-confirmation refresh: the fee table may have been repriced by
		// the charged operation's owner flow.
		if _, err := fees.Load(ctx); err != nil {
			log.Printf("[di] WARN: fee schedule refresh failed: %v", err)
		}
	})
	if cfg.ConfirmTimeoutSeconds > 0 {
		submission.ConfirmTimeout = time.Duration(cfg.ConfirmTimeoutSeconds) * time.Second
	}

	// Restricted name/symbol list is optional.
	var blocklist *token.Blocklist
	if cfg.BlocklistPath != "" {
		blocklist, err = token.LoadBlocklist(cfg.BlocklistPath)
		if err != nil {
			return nil, fmt.Errorf("di: load blocklist: %w", err)
		}
	}

	lifecycle := usecase.NewLifecycle(session, reader, mintState, reader, composer, submission, blocklist)

	var feeAdmin *infrasolana.FeeAdmin
	if cfg.AdminEnabled {
		feeAdmin = infrasolana.NewFeeAdmin(wallet)
	}

	var handler *httpin.Handler
	if feeAdmin != nil {
		handler = httpin.NewHandler(lifecycle, session, mintState, feeAdmin)
	} else {
		handler = httpin.NewHandler(lifecycle, session, mintState, nil)
	}

	log.Printf("[di] container ready wallet=%s network=%s admin=%v",
		signer.Address(), cfg.Network, cfg.AdminEnabled)

	return &Container{
		Config:  cfg,
		Handler: handler,
		session: session,
	}, nil
}

// Close releases held resources. Nothing long-lived is open today; kept so
// main.go's shutdown path stays stable as the graph grows.
func (c *Container) Close() {}
