package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// SubmissionOutcome tags a SubmissionResult.
type SubmissionOutcome string

const (
	OutcomeConfirmed SubmissionOutcome = "confirmed"
	OutcomeRejected  SubmissionOutcome = "rejected"
	// OutcomeTimedOut is distinct from rejection: the transaction may still
	// land after the bounded wait, so the caller must not assume failure.
	OutcomeTimedOut SubmissionOutcome = "timedOut"
)

const ReasonUserDeclined = "user-declined"

// SubmissionResult is consumed once by the presentation layer and by the
// mandatory post-action state refresh. Never persisted.
type SubmissionResult struct {
	Outcome   SubmissionOutcome
	Signature string
	Reason    string // set for OutcomeRejected
	// Mint is the address the flow acted on; for a creation it is the newly
	// generated mint, which the caller has no other way to learn.
	Mint string
}

// SubmissionController signs, broadcasts, awaits confirmation and
// classifies the terminal status. On confirmation it triggers the injected
// refresh; on rejection or timeout it touches nothing — the caller discards
// the plan and re-plans from fresh state rather than retrying it.
type SubmissionController struct {
	signer Signer
	waiter ConfirmationWaiter

	// ConfirmTimeout bounds the confirmation wait.
	ConfirmTimeout time.Duration

	// onConfirmed re-fetches authority state and fee-dependent UI state.
	onConfirmed func(ctx context.Context)
}

var ErrSubmissionNotConfigured = errors.New("submission: not configured")

const defaultConfirmTimeout = 60 * time.Second

func NewSubmissionController(signer Signer, waiter ConfirmationWaiter, onConfirmed func(ctx context.Context)) *SubmissionController {
	return &SubmissionController{
		signer:         signer,
		waiter:         waiter,
		ConfirmTimeout: defaultConfirmTimeout,
		onConfirmed:    onConfirmed,
	}
}

// Submit runs one sign → broadcast → confirm round.
func (c *SubmissionController) Submit(ctx context.Context, tx UnsignedTransaction) (SubmissionResult, error) {
	if c == nil || c.signer == nil || c.waiter == nil {
		return SubmissionResult{}, ErrSubmissionNotConfigured
	}

	sig, err := c.signer.SignAndSend(ctx, tx)
	if err != nil {
		if errors.Is(err, ErrUserDeclined) {
			log.Printf("[submission] declined by user feePayer=%s", maskShort(tx.FeePayer()))
			return SubmissionResult{Outcome: OutcomeRejected, Reason: ReasonUserDeclined}, nil
		}
		return SubmissionResult{}, fmt.Errorf("submission: sign and send: %w", err)
	}

	conf, err := c.waiter.AwaitConfirmation(ctx, sig, c.ConfirmTimeout)
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("submission: await confirmation sig=%s: %w", maskShort(sig), err)
	}

	switch conf.Verdict {
	case VerdictConfirmed:
		log.Printf("[submission] confirmed sig=%s", maskShort(sig))
		if c.onConfirmed != nil {
			c.onConfirmed(ctx)
		}
		return SubmissionResult{Outcome: OutcomeConfirmed, Signature: sig}, nil
	case VerdictTimedOut:
		log.Printf("[submission] confirmation timed out sig=%s (may still land)", maskShort(sig))
		return SubmissionResult{Outcome: OutcomeTimedOut, Signature: sig}, nil
	default:
		log.Printf("[submission] rejected sig=%s reason=%s", maskShort(sig), conf.Reason)
		return SubmissionResult{Outcome: OutcomeRejected, Signature: sig, Reason: conf.Reason}, nil
	}
}
