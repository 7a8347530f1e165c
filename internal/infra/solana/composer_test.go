package solana

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/plan"
)

func TestComposeRejectsEmptyPlan(t *testing.T) {
	tc := NewTransactionComposerWithClient(nil)
	_, err := tc.Compose(context.Background(), plan.Plan{}, usecase.ComposeOptions{})
	assert.ErrorIs(t, err, ErrPlanInvariant)
}

func TestComposeRejectsMisplacedFeeTransfer(t *testing.T) {
	tc := NewTransactionComposerWithClient(nil)
	p := plan.Plan{
		Descriptors: []plan.Descriptor{
			{Kind: plan.KindBurn, Signer: "signer"},
			{Kind: plan.KindFeeTransfer, Signer: "signer", Amount: 5},
		},
		TotalFee: 5,
	}
	_, err := tc.Compose(context.Background(), p, usecase.ComposeOptions{})
	assert.ErrorIs(t, err, ErrPlanInvariant)
}

func TestComposeRejectsFeeAmountMismatch(t *testing.T) {
	tc := NewTransactionComposerWithClient(nil)
	p := plan.Plan{
		Descriptors: []plan.Descriptor{
			{Kind: plan.KindFeeTransfer, Signer: "signer", Amount: 5},
		},
		TotalFee: 7,
	}
	_, err := tc.Compose(context.Background(), p, usecase.ComposeOptions{})
	assert.ErrorIs(t, err, ErrPlanInvariant)
}

func TestUnitPriceScalesWithLevel(t *testing.T) {
	assert.Equal(t, uint64(0), unitPrice(usecase.PriorityNone))
	assert.Equal(t, uint64(baseUnitPriceMicroLamports), unitPrice(usecase.PriorityFast))
	assert.Equal(t, uint64(2*baseUnitPriceMicroLamports), unitPrice(usecase.PriorityTurbo))
	assert.Equal(t, uint64(3*baseUnitPriceMicroLamports), unitPrice(usecase.PriorityUltra))
}

func TestResolveMintReusesGeneratedPair(t *testing.T) {
	b := &txBuilder{}

	first := b.resolveMint("")
	second := b.resolveMint("")
	assert.Equal(t, first, second)
	// The generated pair co-signs exactly once.
	assert.Len(t, b.extraSigners, 1)
}

func TestResolveMintPrefersVanityPair(t *testing.T) {
	vanityPair := types.NewAccount()
	b := &txBuilder{mintKey: &vanityPair}

	got := b.resolveMint(vanityPair.PublicKey.ToBase58())
	assert.Equal(t, vanityPair.PublicKey, got)
	require.Len(t, b.extraSigners, 1)
	assert.Equal(t, vanityPair, b.extraSigners[0])
}

func TestResolveMintExistingAddressIsNotASigner(t *testing.T) {
	existing := types.NewAccount().PublicKey
	b := &txBuilder{}

	got := b.resolveMint(existing.ToBase58())
	assert.Equal(t, existing, got)
	assert.Empty(t, b.extraSigners)
}

func TestEncodeFeeArgsLayout(t *testing.T) {
	var amounts [fee.NumOperationKinds]uint64
	amounts[fee.CreateToken] = 1
	amounts[fee.UpdateMetadata] = 42

	out := encodeFeeArgs(updateFeeConfigDiscriminator, amounts)
	require.Len(t, out, 8+8*fee.NumOperationKinds)
	assert.Equal(t, updateFeeConfigDiscriminator[:], out[:8])
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(out[8:16]))

	off := 8 + 8*int(fee.UpdateMetadata)
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(out[off:off+8]))
}

func TestAccountFromKeypairJSON(t *testing.T) {
	acc := types.NewAccount()

	raw, err := json.Marshal([]byte(acc.PrivateKey))
	require.NoError(t, err)
	restored, err := accountFromKeypairJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey, restored.PublicKey)

	// solana-keygen writes a plain int array.
	ints := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		ints[i] = int(b)
	}
	raw, err = json.Marshal(ints)
	require.NoError(t, err)
	restored, err = accountFromKeypairJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey, restored.PublicKey)

	_, err = accountFromKeypairJSON([]byte(`[1,2,3]`))
	assert.Error(t, err)
	_, err = accountFromKeypairJSON([]byte(`not json`))
	assert.Error(t, err)
}

func TestWalletSignerRefusesForeignPayer(t *testing.T) {
	wallet := types.NewAccount()
	s := NewWalletSignerWithClient(nil, wallet)

	_, err := s.SignAndSend(context.Background(), &UnsignedTx{
		feePayer: types.NewAccount().PublicKey.ToBase58(),
	})
	assert.ErrorIs(t, err, usecase.ErrUserDeclined)
}

func TestMaskAddr(t *testing.T) {
	assert.Equal(t, "DRpb***21hy", maskAddr("DRpbCBMxVnDK7maPM5tGv6MvB3v1sRMC86PZ8okm21hy"))
	assert.Equal(t, "short", maskAddr("short"))
}
