package solana

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
)

// mintAccountData builds the 82-byte SPL mint layout.
func mintAccountData(mintAuth, freezeAuth *common.PublicKey, supply uint64, decimals uint8) []byte {
	data := make([]byte, mintAccountDataSize)
	if mintAuth != nil {
		binary.LittleEndian.PutUint32(data[0:4], 1)
		copy(data[4:36], mintAuth.Bytes())
	}
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1 // initialized
	if freezeAuth != nil {
		binary.LittleEndian.PutUint32(data[46:50], 1)
		copy(data[50:82], freezeAuth.Bytes())
	}
	return data
}

func TestParseMintAccount(t *testing.T) {
	auth := types.NewAccount().PublicKey

	st, supply, decimals, err := parseMintAccount(mintAccountData(&auth, &auth, 12345, 9))
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), supply)
	assert.Equal(t, uint8(9), decimals)
	require.NotNil(t, st.MintAuthority)
	assert.Equal(t, auth.ToBase58(), *st.MintAuthority)
	require.NotNil(t, st.FreezeAuthority)
	assert.Equal(t, auth.ToBase58(), *st.FreezeAuthority)
}

func TestParseMintAccountRevokedAuthorities(t *testing.T) {
	st, _, _, err := parseMintAccount(mintAccountData(nil, nil, 0, 6))
	require.NoError(t, err)
	assert.Nil(t, st.MintAuthority)
	assert.Nil(t, st.FreezeAuthority)
}

func TestParseMintAccountErrors(t *testing.T) {
	_, _, _, err := parseMintAccount(make([]byte, 10))
	assert.ErrorIs(t, err, ErrMintDataTooShort)

	data := mintAccountData(nil, nil, 0, 6)
	data[45] = 0
	_, _, _, err = parseMintAccount(data)
	assert.ErrorIs(t, err, ErrMintNotInitialized)
}

// fakeLedger serves canned accounts by address.
type fakeLedger struct {
	accounts map[string]usecase.AccountState
}

func (f *fakeLedger) GetAccount(ctx context.Context, address string) (usecase.AccountState, error) {
	acc, ok := f.accounts[address]
	if !ok {
		return usecase.AccountState{}, usecase.ErrAccountNotFound
	}
	return acc, nil
}
func (f *fakeLedger) GetBalance(ctx context.Context, address string) (uint64, error) {
	return 0, nil
}
func (f *fakeLedger) GetTokenBalance(ctx context.Context, account string) (uint64, error) {
	return 0, nil
}

func TestReadMintStateWithoutMetadata(t *testing.T) {
	auth := types.NewAccount().PublicKey
	mint := types.NewAccount().PublicKey

	reader := &fakeLedger{accounts: map[string]usecase.AccountState{
		mint.ToBase58(): {
			Lamports: 1,
			Owner:    common.TokenProgramID.ToBase58(),
			Data:     mintAccountData(&auth, nil, 777, 6),
		},
	}}

	ms, err := NewMintStateSource(reader).ReadMintState(context.Background(), mint.ToBase58())
	require.NoError(t, err)
	assert.Equal(t, uint64(777), ms.Supply)
	assert.Equal(t, uint8(6), ms.Decimals)
	assert.False(t, ms.MetadataExists)
	assert.Nil(t, ms.Authority.UpdateAuthority)
	assert.False(t, ms.Authority.MetadataMutable)
}

func TestReadMintStateRejectsForeignOwner(t *testing.T) {
	mint := types.NewAccount().PublicKey
	reader := &fakeLedger{accounts: map[string]usecase.AccountState{
		mint.ToBase58(): {
			Lamports: 1,
			Owner:    common.SystemProgramID.ToBase58(),
			Data:     mintAccountData(nil, nil, 0, 6),
		},
	}}

	_, err := NewMintStateSource(reader).ReadMintState(context.Background(), mint.ToBase58())
	assert.ErrorIs(t, err, ErrNotAMint)
}

func TestReadMintStateMissingAccount(t *testing.T) {
	_, err := NewMintStateSource(&fakeLedger{}).ReadMintState(context.Background(), types.NewAccount().PublicKey.ToBase58())
	assert.ErrorIs(t, err, usecase.ErrAccountNotFound)
}
