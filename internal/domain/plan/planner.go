package plan

import (
	"github.com/ramachandrareddy352/sol-tool/internal/domain/authority"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
)

// Build maps a request, a fee-schedule snapshot and an authority snapshot
// into an ordered instruction plan. It is the single planner behind every
// workflow screen; the request kind discriminates.
//
// Ordering rules, applied in sequence when the matching option is selected:
//  1. fee transfer sized as the exact sum of every implicated schedule entry
//  2. mint-account creation, then holding-account creation, then mint-to
//     (every account exists before it is used)
//  3. metadata creation for a new token, metadata update otherwise
//  4. authority revocations, after the minting/metadata steps that still
//     need the authority
//  5. burn-remaining (drain) then close-account
//
// A selected revocation whose slot is already revoked is dropped silently
// together with its fee entry: it reflects a state someone else already
// reached and is neither charged nor emitted.
func Build(r Request, schedule fee.Schedule, state authority.State) (Plan, error) {
	if err := r.validate(); err != nil {
		return Plan{}, err
	}

	switch r.Kind {
	case fee.CreateToken:
		return buildCreate(r, schedule, state)
	case fee.MintTokens:
		return buildMint(r, schedule)
	case fee.BurnTokens:
		return buildSimple(r, schedule, Descriptor{
			Kind:    KindBurn,
			Signer:  r.Signer,
			Mint:    r.Mint,
			Account: r.TargetAccount,
			Amount:  r.Amount,
		})
	case fee.FreezeUser:
		return buildSimple(r, schedule, Descriptor{
			Kind:    KindFreezeAccount,
			Signer:  r.Signer,
			Mint:    r.Mint,
			Account: r.TargetAccount,
		})
	case fee.UnfreezeUser:
		return buildSimple(r, schedule, Descriptor{
			Kind:    KindThawAccount,
			Signer:  r.Signer,
			Mint:    r.Mint,
			Account: r.TargetAccount,
		})
	case fee.RevokeMint, fee.RevokeFreeze, fee.RevokeMetadataAuthority:
		return buildSetAuthority(r, schedule, state, nil)
	case fee.UpdateMint, fee.UpdateFreeze, fee.UpdateMetadataAuthority:
		newAuth := r.NewAuthority
		return buildSetAuthority(r, schedule, state, &newAuth)
	case fee.UpdateMetadata:
		return buildUpdateMetadata(r, schedule)
	case fee.AccountDeleteRefund:
		return buildClose(r, schedule)
	default:
		return Plan{}, invalid(DetailUnsupportedKind, "kind=%s", r.Kind)
	}
}

func buildCreate(r Request, schedule fee.Schedule, state authority.State) (Plan, error) {
	c := r.Create
	// Without a vanity key the composer generates the mint pair; the plan
	// carries the pre-resolved address only when one exists.
	mint := ""
	if c.CustomAddress {
		mint = c.VanityAddress
	}

	kinds := []fee.OperationKind{fee.CreateToken}
	if c.Creator != nil {
		kinds = append(kinds, fee.ModifyCreatorInfo)
	}
	if c.CustomAddress {
		kinds = append(kinds, fee.CustomAddress)
	}

	// The mint account is always created, supply or not; only the holding
	// account and the initial mint-to depend on a non-zero supply.
	steps := []Descriptor{
		{Kind: KindCreateMint, Signer: r.Signer, Mint: mint, Decimals: c.Decimals},
	}
	if c.Supply > 0 {
		steps = append(steps,
			Descriptor{Kind: KindCreateAccount, Signer: r.Signer, Mint: mint, Destination: r.Signer},
			Descriptor{Kind: KindMint, Signer: r.Signer, Mint: mint, Destination: r.Signer, Amount: c.Supply, Decimals: c.Decimals},
		)
	}

	creatorAddr := schedule.Owner
	if c.Creator != nil {
		if c.Creator.Remove {
			creatorAddr = ""
		} else {
			creatorAddr = c.Creator.Address
		}
	}
	steps = append(steps, Descriptor{
		Kind:     KindCreateMetadata,
		Signer:   r.Signer,
		Mint:     mint,
		Decimals: c.Decimals,
		Metadata: &Metadata{
			Name:           c.Name,
			Symbol:         c.Symbol,
			URI:            c.MetadataURI,
			CreatorAddress: creatorAddr,
			Mutable:        true,
		},
	})

	// Revocations come after minting and metadata creation: both still need
	// the authority to execute.
	revocations := []struct {
		selected bool
		slot     authority.Slot
		kind     fee.OperationKind
	}{
		{c.RevokeMint, authority.SlotMint, fee.RevokeMint},
		{c.RevokeFreeze, authority.SlotFreeze, fee.RevokeFreeze},
		{c.RevokeUpdate, authority.SlotUpdate, fee.RevokeMetadataAuthority},
	}
	for _, rev := range revocations {
		if !rev.selected {
			continue
		}
		if state.Revoked(rev.slot) {
			continue // idempotent skip, no charge
		}
		kinds = append(kinds, rev.kind)
		steps = append(steps, Descriptor{
			Kind:   KindSetAuthority,
			Signer: r.Signer,
			Mint:   mint,
			Slot:   rev.slot,
		})
	}

	if c.Recovery != nil && c.Recovery.Target != RefundOwner && c.Supply > 0 {
		recipient, err := resolveRecipient(c.Recovery.Target, c.Recovery.CustomAddress, r.Signer, schedule)
		if err != nil {
			return Plan{}, err
		}
		kinds = append(kinds, fee.AccountDeleteRefund)
		steps = append(steps, Descriptor{
			Kind:        KindSetCloseAuthority,
			Signer:      r.Signer,
			Mint:        mint,
			Destination: recipient,
		})
	}

	return assemble(r.Signer, schedule, kinds, steps)
}

func buildMint(r Request, schedule fee.Schedule) (Plan, error) {
	var steps []Descriptor
	if r.NeedsHoldingAccount {
		steps = append(steps, Descriptor{Kind: KindCreateAccount, Signer: r.Signer, Mint: r.Mint, Destination: r.Signer})
	}
	steps = append(steps, Descriptor{
		Kind:        KindMint,
		Signer:      r.Signer,
		Mint:        r.Mint,
		Destination: r.Signer,
		Amount:      r.Amount,
	})
	return assemble(r.Signer, schedule, []fee.OperationKind{fee.MintTokens}, steps)
}

func buildSimple(r Request, schedule fee.Schedule, step Descriptor) (Plan, error) {
	return assemble(r.Signer, schedule, []fee.OperationKind{r.Kind}, []Descriptor{step})
}

func buildSetAuthority(r Request, schedule fee.Schedule, state authority.State, newAuth *string) (Plan, error) {
	slot := slotFor(r.Kind)
	if newAuth == nil && state.Revoked(slot) {
		// Someone already reached this state; nothing to emit, nothing to
		// charge.
		return Plan{FeeDestination: schedule.Vault}, nil
	}
	return assemble(r.Signer, schedule, []fee.OperationKind{r.Kind}, []Descriptor{{
		Kind:         KindSetAuthority,
		Signer:       r.Signer,
		Mint:         r.Mint,
		Slot:         slot,
		NewAuthority: newAuth,
	}})
}

func buildUpdateMetadata(r Request, schedule fee.Schedule) (Plan, error) {
	u := r.Update
	var step Descriptor
	if u.MetadataExists {
		// Preserve the immutable on-chain fields; only the URI moves.
		step = Descriptor{
			Kind:   KindUpdateMetadata,
			Signer: r.Signer,
			Mint:   r.Mint,
			Metadata: &Metadata{
				Name:    u.CurrentName,
				Symbol:  u.CurrentSymbol,
				URI:     u.MetadataURI,
				Mutable: u.Mutable,
			},
		}
	} else {
		step = Descriptor{
			Kind:   KindCreateMetadata,
			Signer: r.Signer,
			Mint:   r.Mint,
			Metadata: &Metadata{
				Name:           u.Name,
				Symbol:         u.Symbol,
				URI:            u.MetadataURI,
				CreatorAddress: schedule.Owner,
				Mutable:        true,
			},
		}
	}
	return assemble(r.Signer, schedule, []fee.OperationKind{fee.UpdateMetadata}, []Descriptor{step})
}

func buildClose(r Request, schedule fee.Schedule) (Plan, error) {
	c := r.Close
	recipient, err := resolveRecipient(c.RefundTarget, c.CustomAddress, r.Signer, schedule)
	if err != nil {
		return Plan{}, err
	}

	kinds := []fee.OperationKind{fee.AccountDeleteRefund}
	var steps []Descriptor
	if c.HoldingBalance > 0 {
		// validate() guarantees DrainFirst here.
		kinds = append(kinds, fee.BurnTokens)
		steps = append(steps, Descriptor{
			Kind:    KindBurn,
			Signer:  r.Signer,
			Mint:    r.Mint,
			Account: r.TargetAccount,
			Amount:  c.HoldingBalance,
		})
	}
	steps = append(steps, Descriptor{
		Kind:        KindCloseAccount,
		Signer:      r.Signer,
		Mint:        r.Mint,
		Account:     r.TargetAccount,
		Destination: recipient,
	})
	return assemble(r.Signer, schedule, kinds, steps)
}

// assemble totals the fee once, prepends the fee transfer and freezes the
// plan. A zero total (every step dropped, or a zero-priced schedule) omits
// the fee transfer entirely.
func assemble(signer string, schedule fee.Schedule, kinds []fee.OperationKind, steps []Descriptor) (Plan, error) {
	total, err := schedule.Sum(kinds...)
	if err != nil {
		return Plan{}, err
	}

	descriptors := make([]Descriptor, 0, len(steps)+1)
	if total > 0 {
		descriptors = append(descriptors, Descriptor{
			Kind:        KindFeeTransfer,
			Signer:      signer,
			Destination: schedule.Vault,
			Amount:      total,
		})
	}
	descriptors = append(descriptors, steps...)

	return Plan{
		Descriptors:    descriptors,
		TotalFee:       total,
		FeeDestination: schedule.Vault,
	}, nil
}

func resolveRecipient(target RefundTarget, custom, signer string, schedule fee.Schedule) (string, error) {
	switch target {
	case RefundService:
		return schedule.Owner, nil
	case RefundCustom:
		return custom, nil
	case RefundOwner, "":
		return signer, nil
	default:
		return "", invalid(DetailMissingField, "refund target=%q", target)
	}
}

func slotFor(k fee.OperationKind) authority.Slot {
	switch k {
	case fee.RevokeMint, fee.UpdateMint:
		return authority.SlotMint
	case fee.RevokeFreeze, fee.UpdateFreeze:
		return authority.SlotFreeze
	default:
		return authority.SlotUpdate
	}
}
