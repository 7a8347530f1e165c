package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramachandrareddy352/sol-tool/internal/domain/authority"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
)

const (
	signerAddr = "DRpbCBMxVnDK7maPM5tGv6MvB3v1sRMC86PZ8okm21hy"
	mintAddr   = "So11111111111111111111111111111111111111112"
	vaultAddr  = "GDfnEsia2WLAW5t8yx2UPYT3PZbG86ZFXbYypZZQWpBp"
	ownerAddr  = "7hETJGVbBPJUQKQsdvcgqg4aargQBMWcv2eBUXuzrWDS"
	customAddr = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
)

func testSchedule() fee.Schedule {
	var amounts [fee.NumOperationKinds]uint64
	amounts[fee.CreateToken] = 200_000_000
	amounts[fee.RevokeMint] = 100_000_000
	amounts[fee.RevokeFreeze] = 100_000_000
	amounts[fee.RevokeMetadataAuthority] = 100_000_000
	amounts[fee.MintTokens] = 50_000_000
	amounts[fee.BurnTokens] = 25_000_000
	amounts[fee.FreezeUser] = 10_000_000
	amounts[fee.UnfreezeUser] = 10_000_000
	amounts[fee.UpdateMetadata] = 30_000_000
	amounts[fee.AccountDeleteRefund] = 15_000_000
	amounts[fee.ModifyCreatorInfo] = 5_000_000
	amounts[fee.CustomAddress] = 80_000_000
	amounts[fee.UpdateMint] = 40_000_000
	return fee.NewSchedule(ownerAddr, vaultAddr, amounts)
}

func freshMintState() authority.State {
	s := signerAddr
	return authority.State{
		MintAuthority:   &s,
		FreezeAuthority: &s,
		UpdateAuthority: &s,
		MetadataMutable: true,
	}
}

func kinds(p Plan) []DescriptorKind {
	out := make([]DescriptorKind, len(p.Descriptors))
	for i, d := range p.Descriptors {
		out[i] = d.Kind
	}
	return out
}

func TestBuildCreateWithRevokeMint(t *testing.T) {
	req := Request{
		Kind:   fee.CreateToken,
		Signer: signerAddr,
		Create: &CreateOptions{
			Name:        "Sample Token",
			Symbol:      "SMPL",
			Decimals:    9,
			Supply:      1_000_000,
			MetadataURI: "https://example.com/meta.json",
			RevokeMint:  true,
		},
	}

	p, err := Build(req, testSchedule(), freshMintState())
	require.NoError(t, err)

	assert.Equal(t, []DescriptorKind{
		KindFeeTransfer,
		KindCreateMint,
		KindCreateAccount,
		KindMint,
		KindCreateMetadata,
		KindSetAuthority,
	}, kinds(p))

	assert.Equal(t, uint64(300_000_000), p.TotalFee)
	assert.Equal(t, vaultAddr, p.FeeDestination)

	feeStep := p.Descriptors[0]
	assert.Equal(t, vaultAddr, feeStep.Destination)
	assert.Equal(t, p.TotalFee, feeStep.Amount)

	revoke := p.Descriptors[5]
	assert.Equal(t, authority.SlotMint, revoke.Slot)
	assert.Nil(t, revoke.NewAuthority)

	assert.True(t, p.FeeTransferFirst())
}

func TestBuildCreateSkipsAlreadyRevokedSlot(t *testing.T) {
	st := freshMintState()
	st.FreezeAuthority = nil

	req := Request{
		Kind:   fee.CreateToken,
		Signer: signerAddr,
		Create: &CreateOptions{
			Name:         "Sample Token",
			Symbol:       "SMPL",
			Decimals:     9,
			MetadataURI:  "https://example.com/meta.json",
			RevokeFreeze: true,
		},
	}

	p, err := Build(req, testSchedule(), st)
	require.NoError(t, err)

	// The revoked slot is dropped silently and its fee is not charged.
	assert.Equal(t, []DescriptorKind{KindFeeTransfer, KindCreateMint, KindCreateMetadata}, kinds(p))
	assert.Equal(t, uint64(200_000_000), p.TotalFee)
}

func TestBuildCreateZeroSupplyStillCreatesMint(t *testing.T) {
	req := Request{
		Kind:   fee.CreateToken,
		Signer: signerAddr,
		Create: &CreateOptions{
			Name:        "Sample Token",
			Symbol:      "SMPL",
			Decimals:    6,
			MetadataURI: "https://example.com/meta.json",
		},
	}

	p, err := Build(req, testSchedule(), freshMintState())
	require.NoError(t, err)
	// The mint account must exist for the metadata step to reference it;
	// only the holding account and the initial mint-to depend on supply.
	assert.Equal(t, []DescriptorKind{KindFeeTransfer, KindCreateMint, KindCreateMetadata}, kinds(p))
	assert.Equal(t, uint8(6), p.Descriptors[1].Decimals)
}

func TestBuildCreateCustomAddressCharged(t *testing.T) {
	req := Request{
		Kind:   fee.CreateToken,
		Signer: signerAddr,
		Create: &CreateOptions{
			Name:          "Sample Token",
			Symbol:        "SMPL",
			Decimals:      9,
			MetadataURI:   "https://example.com/meta.json",
			CustomAddress: true,
			VanityAddress: customAddr,
		},
	}

	p, err := Build(req, testSchedule(), freshMintState())
	require.NoError(t, err)
	assert.Equal(t, uint64(280_000_000), p.TotalFee) // create + custom address
	assert.Equal(t, KindCreateMint, p.Descriptors[1].Kind)
	assert.Equal(t, customAddr, p.Descriptors[1].Mint)
}

func TestBuildCreateCreatorResolution(t *testing.T) {
	base := CreateOptions{
		Name:        "Sample Token",
		Symbol:      "SMPL",
		Decimals:    9,
		MetadataURI: "https://example.com/meta.json",
	}

	// Default creator is the service owner, free of charge.
	p, err := Build(Request{Kind: fee.CreateToken, Signer: signerAddr, Create: &base}, testSchedule(), freshMintState())
	require.NoError(t, err)
	assert.Equal(t, ownerAddr, p.Descriptors[2].Metadata.CreatorAddress)
	assert.Equal(t, uint64(200_000_000), p.TotalFee)

	// A custom creator is a paid option.
	withCreator := base
	withCreator.Creator = &CreatorOptions{Address: customAddr, Name: "someone"}
	p, err = Build(Request{Kind: fee.CreateToken, Signer: signerAddr, Create: &withCreator}, testSchedule(), freshMintState())
	require.NoError(t, err)
	assert.Equal(t, customAddr, p.Descriptors[2].Metadata.CreatorAddress)
	assert.Equal(t, uint64(205_000_000), p.TotalFee)

	// Removal drops the creator entry entirely, still paid.
	removed := base
	removed.Creator = &CreatorOptions{Remove: true}
	p, err = Build(Request{Kind: fee.CreateToken, Signer: signerAddr, Create: &removed}, testSchedule(), freshMintState())
	require.NoError(t, err)
	assert.Equal(t, "", p.Descriptors[2].Metadata.CreatorAddress)
	assert.Equal(t, uint64(205_000_000), p.TotalFee)
}

func TestBuildMintWithHoldingAccount(t *testing.T) {
	req := Request{
		Kind:                fee.MintTokens,
		Signer:              signerAddr,
		Mint:                mintAddr,
		Amount:              500,
		NeedsHoldingAccount: true,
	}

	p, err := Build(req, testSchedule(), freshMintState())
	require.NoError(t, err)
	assert.Equal(t, []DescriptorKind{KindFeeTransfer, KindCreateAccount, KindMint}, kinds(p))
	assert.Equal(t, uint64(50_000_000), p.TotalFee)
}

func TestBuildBurnRejectsOverBalance(t *testing.T) {
	req := Request{
		Kind:         fee.BurnTokens,
		Signer:       signerAddr,
		Mint:         mintAddr,
		Amount:       1_000,
		KnownBalance: 500,
	}

	_, err := Build(req, testSchedule(), freshMintState())
	var invalidErr *InvalidRequestError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, DetailAmountExceedsFunds, invalidErr.Detail)
}

func TestBuildStandaloneRevokeOnRevokedSlotIsEmpty(t *testing.T) {
	st := freshMintState()
	st.MintAuthority = nil

	p, err := Build(Request{Kind: fee.RevokeMint, Signer: signerAddr, Mint: mintAddr}, testSchedule(), st)
	require.NoError(t, err)
	assert.Empty(t, p.Descriptors)
	assert.Equal(t, uint64(0), p.TotalFee)
	assert.Equal(t, vaultAddr, p.FeeDestination)
}

func TestBuildUpdateAuthorityHandover(t *testing.T) {
	p, err := Build(Request{
		Kind:         fee.UpdateMint,
		Signer:       signerAddr,
		Mint:         mintAddr,
		NewAuthority: customAddr,
	}, testSchedule(), freshMintState())
	require.NoError(t, err)

	require.Len(t, p.Descriptors, 2)
	step := p.Descriptors[1]
	assert.Equal(t, KindSetAuthority, step.Kind)
	assert.Equal(t, authority.SlotMint, step.Slot)
	require.NotNil(t, step.NewAuthority)
	assert.Equal(t, customAddr, *step.NewAuthority)
	assert.Equal(t, uint64(40_000_000), p.TotalFee)
}

func TestBuildCloseRejectsNonZeroBalanceWithoutDrain(t *testing.T) {
	req := Request{
		Kind:          fee.AccountDeleteRefund,
		Signer:        signerAddr,
		Mint:          mintAddr,
		TargetAccount: customAddr,
		Close: &CloseOptions{
			RefundTarget:   RefundOwner,
			HoldingBalance: 42,
		},
	}

	_, err := Build(req, testSchedule(), freshMintState())
	var invalidErr *InvalidRequestError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, DetailNonZeroBalance, invalidErr.Detail)
}

func TestBuildCloseDrainsThenCloses(t *testing.T) {
	req := Request{
		Kind:          fee.AccountDeleteRefund,
		Signer:        signerAddr,
		Mint:          mintAddr,
		TargetAccount: customAddr,
		Close: &CloseOptions{
			DrainFirst:     true,
			RefundTarget:   RefundService,
			HoldingBalance: 42,
		},
	}

	p, err := Build(req, testSchedule(), freshMintState())
	require.NoError(t, err)
	assert.Equal(t, []DescriptorKind{KindFeeTransfer, KindBurn, KindCloseAccount}, kinds(p))
	// Draining is a burn and is priced like one.
	assert.Equal(t, uint64(40_000_000), p.TotalFee)
	assert.Equal(t, uint64(42), p.Descriptors[1].Amount)
	assert.Equal(t, ownerAddr, p.Descriptors[2].Destination)
}

func TestBuildUpdateMetadataPreservesNameSymbol(t *testing.T) {
	req := Request{
		Kind:   fee.UpdateMetadata,
		Signer: signerAddr,
		Mint:   mintAddr,
		Update: &UpdateMetadataOptions{
			MetadataExists: true,
			CurrentName:    "Sample Token",
			CurrentSymbol:  "SMPL",
			MetadataURI:    "https://example.com/meta2.json",
			Mutable:        true,
		},
	}

	p, err := Build(req, testSchedule(), freshMintState())
	require.NoError(t, err)
	require.Len(t, p.Descriptors, 2)

	step := p.Descriptors[1]
	assert.Equal(t, KindUpdateMetadata, step.Kind)
	assert.Equal(t, "Sample Token", step.Metadata.Name)
	assert.Equal(t, "SMPL", step.Metadata.Symbol)
	assert.Equal(t, "https://example.com/meta2.json", step.Metadata.URI)
}

func TestBuildUpdateMetadataCreatesWhenMissing(t *testing.T) {
	req := Request{
		Kind:   fee.UpdateMetadata,
		Signer: signerAddr,
		Mint:   mintAddr,
		Update: &UpdateMetadataOptions{
			Name:        "Sample Token",
			Symbol:      "SMPL",
			MetadataURI: "https://example.com/meta.json",
		},
	}

	p, err := Build(req, testSchedule(), freshMintState())
	require.NoError(t, err)
	assert.Equal(t, []DescriptorKind{KindFeeTransfer, KindCreateMetadata}, kinds(p))

	step := p.Descriptors[1]
	assert.Equal(t, "Sample Token", step.Metadata.Name)
	// A fresh metadata account credits the service owner, same as the create
	// flow's default.
	assert.Equal(t, ownerAddr, step.Metadata.CreatorAddress)
	assert.True(t, step.Metadata.Mutable)
}

func TestBuildUpdateMetadataRejectsNameChange(t *testing.T) {
	req := Request{
		Kind:   fee.UpdateMetadata,
		Signer: signerAddr,
		Mint:   mintAddr,
		Update: &UpdateMetadataOptions{
			MetadataExists: true,
			CurrentName:    "Sample Token",
			CurrentSymbol:  "SMPL",
			Name:           "Renamed",
			MetadataURI:    "https://example.com/meta.json",
		},
	}

	_, err := Build(req, testSchedule(), freshMintState())
	var invalidErr *InvalidRequestError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, DetailImmutableField, invalidErr.Detail)
}

func TestBuildZeroFeeScheduleOmitsFeeTransfer(t *testing.T) {
	var zero [fee.NumOperationKinds]uint64
	schedule := fee.NewSchedule(ownerAddr, vaultAddr, zero)

	p, err := Build(Request{
		Kind:          fee.FreezeUser,
		Signer:        signerAddr,
		Mint:          mintAddr,
		TargetAccount: customAddr,
	}, schedule, freshMintState())
	require.NoError(t, err)
	assert.Equal(t, []DescriptorKind{KindFreezeAccount}, kinds(p))
	assert.Equal(t, uint64(0), p.TotalFee)
}

func TestBuildIsDeterministic(t *testing.T) {
	req := Request{
		Kind:   fee.CreateToken,
		Signer: signerAddr,
		Create: &CreateOptions{
			Name:         "Sample Token",
			Symbol:       "SMPL",
			Decimals:     9,
			Supply:       1_000,
			MetadataURI:  "https://example.com/meta.json",
			RevokeMint:   true,
			RevokeFreeze: true,
			RevokeUpdate: true,
		},
	}

	a, err := Build(req, testSchedule(), freshMintState())
	require.NoError(t, err)
	b, err := Build(req, testSchedule(), freshMintState())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValidateRejectsMalformedAddresses(t *testing.T) {
	cases := []Request{
		{Kind: fee.MintTokens, Signer: "not-base58!", Mint: mintAddr, Amount: 1},
		{Kind: fee.MintTokens, Signer: signerAddr, Mint: "short", Amount: 1},
		{Kind: fee.FreezeUser, Signer: signerAddr, Mint: mintAddr, TargetAccount: "0lI"},
		{Kind: fee.UpdateMint, Signer: signerAddr, Mint: mintAddr, NewAuthority: "xx"},
	}
	for _, req := range cases {
		_, err := Build(req, testSchedule(), freshMintState())
		var invalidErr *InvalidRequestError
		require.ErrorAs(t, err, &invalidErr, "kind %s", req.Kind)
		assert.Equal(t, DetailMalformedAddress, invalidErr.Detail)
	}
}

func TestValidateRejectsZeroAmounts(t *testing.T) {
	_, err := Build(Request{Kind: fee.MintTokens, Signer: signerAddr, Mint: mintAddr}, testSchedule(), freshMintState())
	var invalidErr *InvalidRequestError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, DetailNonPositiveAmount, invalidErr.Detail)
}

func TestValidateCreateBounds(t *testing.T) {
	base := func() *CreateOptions {
		return &CreateOptions{
			Name:        "Sample Token",
			Symbol:      "SMPL",
			Decimals:    9,
			MetadataURI: "https://example.com/meta.json",
		}
	}

	tooManyDecimals := base()
	tooManyDecimals.Decimals = 13
	_, err := Build(Request{Kind: fee.CreateToken, Signer: signerAddr, Create: tooManyDecimals}, testSchedule(), freshMintState())
	assert.Error(t, err)

	noName := base()
	noName.Name = "   "
	_, err = Build(Request{Kind: fee.CreateToken, Signer: signerAddr, Create: noName}, testSchedule(), freshMintState())
	assert.Error(t, err)

	missingVanity := base()
	missingVanity.CustomAddress = true
	_, err = Build(Request{Kind: fee.CreateToken, Signer: signerAddr, Create: missingVanity}, testSchedule(), freshMintState())
	var invalidErr *InvalidRequestError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, DetailMissingVanityKey, invalidErr.Detail)
}
