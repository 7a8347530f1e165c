package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/blocto/solana-go-sdk/types"

	"github.com/ramachandrareddy352/sol-tool/internal/domain/authority"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/plan"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/token"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/vanity"
)

// DeniedError is the validator's refusal, carried up with its reason so the
// presentation layer can render a specific message.
type DeniedError struct {
	Slot   authority.Slot
	Reason authority.DenyReason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("authority: denied slot=%s reason=%s", e.Slot, e.Reason)
}

// HoldingAccountResolver derives the owner's holding (associated token)
// account for a mint and reports whether it exists on chain yet.
type HoldingAccountResolver interface {
	ResolveHoldingAccount(ctx context.Context, owner, mint string) (address string, exists bool, err error)
}

var (
	ErrLifecycleNotConfigured = errors.New("lifecycle: not configured")
	ErrNoVanityResult         = errors.New("lifecycle: vanity search has no result")
)

// Lifecycle is the transactional lifecycle orchestrator: one instance
// drives every workflow screen through fee load, authority check, planning,
// optional vanity search, composition and submission — strictly in that
// order within a flow.
type Lifecycle struct {
	session    *Session
	reader     LedgerReader
	mintState  MintStateReader
	holdings   HoldingAccountResolver
	composer   Composer
	submission *SubmissionController
	blocklist  *token.Blocklist
	searcher   vanity.Searcher

	mu        sync.Mutex
	workflows map[fee.OperationKind]*Workflow
	vanityJob *vanity.Job
}

func NewLifecycle(
	session *Session,
	reader LedgerReader,
	mintState MintStateReader,
	holdings HoldingAccountResolver,
	composer Composer,
	submission *SubmissionController,
	blocklist *token.Blocklist,
) *Lifecycle {
	return &Lifecycle{
		session:    session,
		reader:     reader,
		mintState:  mintState,
		holdings:   holdings,
		composer:   composer,
		submission: submission,
		blocklist:  blocklist,
		workflows:  make(map[fee.OperationKind]*Workflow),
	}
}

// Workflow returns (creating on first use) the state machine for a screen.
func (l *Lifecycle) Workflow(kind fee.OperationKind) *Workflow {
	l.mu.Lock()
	defer l.mu.Unlock()
	wf, ok := l.workflows[kind]
	if !ok {
		wf = NewWorkflow()
		l.workflows[kind] = wf
	}
	return wf
}

// LoadFees is the workflow-mount fetch. Explicit: no implicit polling.
func (l *Lifecycle) LoadFees(ctx context.Context) (fee.Schedule, error) {
	return l.session.Fees.Load(ctx)
}

// CheckAuthority re-reads the mint and decides whether the bound signer may
// act on the slot. Always a fresh read: stale authority state is never
// trusted across a mutation boundary.
func (l *Lifecycle) CheckAuthority(ctx context.Context, mint string, slot authority.Slot) (authority.State, error) {
	st, err := l.refreshAuthority(ctx, mint)
	if err != nil {
		return authority.State{}, err
	}
	if d := authority.Check(st, slot, l.session.Signer()); !d.Permitted {
		return st, &DeniedError{Slot: slot, Reason: d.Reason}
	}
	return st, nil
}

// StartVanitySearch launches a grind, discarding (cancelling) any previous
// job, and moves the create workflow into its searching state. Constraint
// validation fails fast before any iteration runs.
func (l *Lifecycle) StartVanitySearch(c vanity.Constraint) (*vanity.Job, error) {
	wf := l.Workflow(fee.CreateToken)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.vanityJob != nil {
		l.vanityJob.Cancel()
	}
	job, err := l.searcher.Start(c)
	if err != nil {
		return nil, err
	}
	l.vanityJob = job
	enterSearching(wf)
	return job, nil
}

// PollVanity reports the current job, if any. A settled job returns the
// create workflow to ready.
func (l *Lifecycle) PollVanity() (vanity.Snapshot, bool) {
	l.mu.Lock()
	job := l.vanityJob
	l.mu.Unlock()
	if job == nil {
		return vanity.Snapshot{}, false
	}
	snap := job.Poll()
	if snap.Status != vanity.StatusRunning {
		l.leaveSearching()
	}
	return snap, true
}

// CancelVanity requests a cooperative stop of the running job.
func (l *Lifecycle) CancelVanity() {
	l.mu.Lock()
	job := l.vanityJob
	l.mu.Unlock()
	if job == nil {
		return
	}
	job.Cancel()
	l.leaveSearching()
}

// enterSearching walks the create workflow into the searching state from
// wherever the previous flow left it.
func enterSearching(wf *Workflow) {
	if wf.transition(StateSearching) == nil {
		return
	}
	_ = wf.transition(StateLoading)
	_ = wf.transition(StateReady)
	_ = wf.transition(StateSearching)
}

func (l *Lifecycle) leaveSearching() {
	wf := l.Workflow(fee.CreateToken)
	if wf.State() == StateSearching {
		_ = wf.transition(StateReady)
	}
}

// vanityKeyPair returns the found key pair; the composer signs with it.
func (l *Lifecycle) vanityKeyPair() (*types.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.vanityJob == nil {
		return nil, ErrNoVanityResult
	}
	snap := l.vanityJob.Poll()
	if snap.Status != vanity.StatusFound || snap.KeyPair == nil {
		return nil, fmt.Errorf("%w: status=%s", ErrNoVanityResult, snap.Status)
	}
	return snap.KeyPair, nil
}

// Run drives one submission flow end to end. Within the flow the steps are
// strictly sequential; the workflow's busy flag blocks a concurrent second
// mutation from the same screen. On rejection or timeout nothing is
// refreshed and the plan is discarded — the caller re-runs from fresh state.
func (l *Lifecycle) Run(ctx context.Context, req plan.Request, priority PriorityLevel) (SubmissionResult, error) {
	if l == nil || l.session == nil || l.composer == nil || l.submission == nil {
		return SubmissionResult{}, ErrLifecycleNotConfigured
	}

	wf := l.Workflow(req.Kind)
	if err := wf.acquire(); err != nil {
		return SubmissionResult{}, err
	}
	defer wf.release()

	fail := func(err error) (SubmissionResult, error) {
		_ = wf.transition(StateFailed)
		return SubmissionResult{}, err
	}

	l.resetTo(wf, StateLoading)

	// 1) fee schedule: cached for the session, loaded on first use. The
	// snapshot taken here prices the whole flow; a mid-flight fee change on
	// chain does not retroactively alter this plan.
	schedule, err := l.session.Fees.Get()
	if errors.Is(err, ErrFeeScheduleNotLoaded) {
		schedule, err = l.session.Fees.Load(ctx)
	}
	if err != nil {
		return fail(err)
	}
	_ = wf.transition(StateReady)

	// 2) authority validation over a fresh snapshot.
	_ = wf.transition(StateValidating)
	state, err := l.validate(ctx, &req)
	if err != nil {
		return fail(err)
	}

	// 3) plan.
	_ = wf.transition(StatePlanning)
	p, err := plan.Build(req, schedule, state)
	if err != nil {
		return fail(err)
	}
	log.Printf("[lifecycle] planned kind=%s steps=%d fee=%d signer=%s",
		req.Kind, len(p.Descriptors), p.TotalFee, maskShort(req.Signer))

	// 4) compose + sign + submit.
	opts := ComposeOptions{Priority: priority}
	if req.Kind == fee.CreateToken && req.Create != nil && req.Create.CustomAddress {
		opts.MintKey, err = l.vanityKeyPair()
		if err != nil {
			return fail(err)
		}
	}
	unsigned, err := l.composer.Compose(ctx, p, opts)
	if err != nil {
		return fail(err)
	}
	// The composer is the only place a generated mint address exists; pull
	// it back out so the caller learns the new token's address.
	mint := targetMint(req)
	if mc, ok := unsigned.(MintedTransaction); ok && mc.MintAddress() != "" {
		mint = mc.MintAddress()
	}
	_ = wf.transition(StateAwaitingSignature)
	_ = wf.transition(StateSubmitting)

	res, err := l.submission.Submit(ctx, unsigned)
	if err != nil {
		return fail(err)
	}
	res.Mint = mint

	switch res.Outcome {
	case OutcomeConfirmed:
		_ = wf.transition(StateConfirmed)
		// Mandatory refresh: the displayed authority state must come from a
		// post-mutation read before any control is re-enabled.
		if mint != "" {
			if _, err := l.refreshAuthority(ctx, mint); err != nil {
				log.Printf("[lifecycle] WARN: post-confirm authority refresh failed mint=%s: %v", maskShort(mint), err)
			}
		}
	default:
		_ = wf.transition(StateFailed)
	}
	return res, nil
}

// validate fills network-derived request fields and runs the authority
// check the operation requires. The returned state feeds the planner.
func (l *Lifecycle) validate(ctx context.Context, req *plan.Request) (authority.State, error) {
	req.Signer = strings.TrimSpace(l.session.Signer())

	if req.Kind == fee.CreateToken {
		if req.Create != nil {
			if l.blocklist.NameRestricted(req.Create.Name) || l.blocklist.SymbolRestricted(req.Create.Symbol) {
				return authority.State{}, &plan.InvalidRequestError{Detail: plan.DetailRestrictedName}
			}
			if req.Create.CustomAddress && req.Create.VanityAddress == "" {
				key, err := l.vanityKeyPair()
				if err != nil {
					return authority.State{}, err
				}
				req.Create.VanityAddress = key.PublicKey.ToBase58()
			}
		}
		// A brand-new mint: the creator holds every authority.
		signer := req.Signer
		return authority.State{
			MintAuthority:   &signer,
			FreezeAuthority: &signer,
			UpdateAuthority: &signer,
			MetadataMutable: true,
		}, nil
	}

	if req.Kind == fee.UpdateMetadata {
		return l.validateMetadataUpdate(ctx, req)
	}

	state, err := l.refreshAuthority(ctx, req.Mint)
	if err != nil {
		return authority.State{}, err
	}

	if slot, needed := requiredSlot(req.Kind); needed {
		if d := authority.Check(state, slot, req.Signer); !d.Permitted {
			// A revocation against an already-revoked slot is not an error
			// for the planner (idempotent skip), but a direct user request
			// for it is surfaced as denied.
			return authority.State{}, &DeniedError{Slot: slot, Reason: d.Reason}
		}
	}

	return state, l.fillAccounts(ctx, req)
}

// validateMetadataUpdate reads the mint once and picks the slot from what it
// finds: a mint with no metadata account yet has no update authority to
// check — creating the account is a mint-authority operation, so only a true
// update of an existing account is gated on the update slot.
func (l *Lifecycle) validateMetadataUpdate(ctx context.Context, req *plan.Request) (authority.State, error) {
	ms, err := l.mintState.ReadMintState(ctx, req.Mint)
	if err != nil {
		return authority.State{}, err
	}
	l.session.RememberAuthority(req.Mint, ms.Authority)

	slot := authority.SlotUpdate
	if !ms.MetadataExists {
		slot = authority.SlotMint
	}
	if d := authority.Check(ms.Authority, slot, req.Signer); !d.Permitted {
		return authority.State{}, &DeniedError{Slot: slot, Reason: d.Reason}
	}

	if req.Update != nil {
		req.Update.MetadataExists = ms.MetadataExists
		req.Update.CurrentName = ms.Name
		req.Update.CurrentSymbol = ms.Symbol
		req.Update.Mutable = ms.Authority.MetadataMutable
	}
	return ms.Authority, nil
}

// fillAccounts resolves holding accounts and balances the planner validates
// against.
func (l *Lifecycle) fillAccounts(ctx context.Context, req *plan.Request) error {
	switch req.Kind {
	case fee.MintTokens:
		addr, exists, err := l.holdings.ResolveHoldingAccount(ctx, req.Signer, req.Mint)
		if err != nil {
			return err
		}
		req.TargetAccount = addr
		req.NeedsHoldingAccount = !exists
	case fee.BurnTokens:
		addr, exists, err := l.holdings.ResolveHoldingAccount(ctx, req.Signer, req.Mint)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("lifecycle: burn: %w: %s", ErrAccountNotFound, maskShort(addr))
		}
		req.TargetAccount = addr
		bal, err := l.reader.GetTokenBalance(ctx, addr)
		if err != nil {
			return err
		}
		req.KnownBalance = bal
	case fee.FreezeUser, fee.UnfreezeUser:
		// The screen takes the user's wallet; the instruction targets their
		// holding account.
		addr, exists, err := l.holdings.ResolveHoldingAccount(ctx, req.TargetAccount, req.Mint)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("lifecycle: freeze target: %w: %s", ErrAccountNotFound, maskShort(addr))
		}
		req.TargetAccount = addr
	case fee.AccountDeleteRefund:
		addr, exists, err := l.holdings.ResolveHoldingAccount(ctx, req.Signer, req.Mint)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("lifecycle: close: %w: %s", ErrAccountNotFound, maskShort(addr))
		}
		req.TargetAccount = addr
		if req.Close != nil {
			bal, err := l.reader.GetTokenBalance(ctx, addr)
			if err != nil {
				return err
			}
			req.Close.HoldingBalance = bal
		}
	}
	return nil
}

// refreshAuthority reads a fresh snapshot and replaces the session cache.
func (l *Lifecycle) refreshAuthority(ctx context.Context, mint string) (authority.State, error) {
	ms, err := l.mintState.ReadMintState(ctx, mint)
	if err != nil {
		return authority.State{}, err
	}
	l.session.RememberAuthority(mint, ms.Authority)
	return ms.Authority, nil
}

// resetTo walks the machine back to a flow start regardless of where the
// previous flow ended.
func (l *Lifecycle) resetTo(wf *Workflow, to WorkflowState) {
	if err := wf.transition(to); err != nil {
		// Terminal states re-enter via Loading.
		_ = wf.transition(StateReady)
		_ = wf.transition(StateLoading)
	}
}

// requiredSlot maps an operation to the authority it needs, if any.
func requiredSlot(k fee.OperationKind) (authority.Slot, bool) {
	switch k {
	case fee.MintTokens, fee.RevokeMint, fee.UpdateMint:
		return authority.SlotMint, true
	case fee.FreezeUser, fee.UnfreezeUser, fee.RevokeFreeze, fee.UpdateFreeze:
		return authority.SlotFreeze, true
	case fee.RevokeMetadataAuthority, fee.UpdateMetadataAuthority:
		return authority.SlotUpdate, true
	default:
		// CreateToken acts on a mint that does not exist yet; UpdateMetadata
		// picks its slot from the mint state; burning and closing need
		// account ownership, not a mint authority.
		return 0, false
	}
}

// targetMint names the mint whose state must be re-read after confirmation.
func targetMint(req plan.Request) string {
	if req.Kind == fee.CreateToken {
		if req.Create != nil && req.Create.CustomAddress {
			return req.Create.VanityAddress
		}
		return ""
	}
	return req.Mint
}
