package solana

import (
	"context"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
)

func TestFeeConfigSourceLoad(t *testing.T) {
	owner := types.NewAccount().PublicKey.ToBase58()
	var amounts [fee.NumOperationKinds]uint64
	amounts[fee.CreateToken] = 200_000_000
	amounts[fee.UpdateMetadata] = 30_000_000

	pda, err := fee.ConfigAddress(common.PublicKeyFromString(fee.DefaultProgramID))
	require.NoError(t, err)
	vault := pda.ToBase58()

	reader := &fakeLedger{accounts: map[string]usecase.AccountState{
		vault: {
			Lamports: 1,
			Owner:    fee.DefaultProgramID,
			Data:     fee.EncodeConfigAccount(fee.NewSchedule(owner, vault, amounts)),
		},
	}}

	schedule, err := NewFeeConfigSource(reader).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, owner, schedule.Owner)
	// Fees are paid into the PDA itself.
	assert.Equal(t, vault, schedule.Vault)

	amt, err := schedule.Amount(fee.CreateToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(200_000_000), amt)
}

func TestFeeConfigSourceUninitialized(t *testing.T) {
	_, err := NewFeeConfigSource(&fakeLedger{}).Load(context.Background())
	assert.ErrorIs(t, err, usecase.ErrFeeConfigUnavailable)
}

func TestFeeConfigSourceRejectsGarbage(t *testing.T) {
	pda, err := fee.ConfigAddress(common.PublicKeyFromString(fee.DefaultProgramID))
	require.NoError(t, err)

	reader := &fakeLedger{accounts: map[string]usecase.AccountState{
		pda.ToBase58(): {Lamports: 1, Owner: fee.DefaultProgramID, Data: []byte("nonsense")},
	}}

	_, err = NewFeeConfigSource(reader).Load(context.Background())
	assert.ErrorIs(t, err, usecase.ErrFeeConfigUnavailable)
}
