package solana

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/authority"
)

// SPL mint account layout (82 bytes):
//
//	 0..3   mintAuthorityOption (u32 LE, 0|1)
//	 4..35  mintAuthority
//	36..43  supply (u64 LE)
//	44      decimals
//	45      isInitialized
//	46..49  freezeAuthorityOption (u32 LE, 0|1)
//	50..81  freezeAuthority
const mintAccountDataSize = 82

var (
	ErrNotAMint           = errors.New("mint state: account is not an SPL mint")
	ErrMintDataTooShort   = errors.New("mint state: mint account data too short")
	ErrMintNotInitialized = errors.New("mint state: mint not initialized")
)

// MintStateSource reads a mint account plus its Metaplex metadata account
// and folds both into the authority snapshot the validator consumes.
type MintStateSource struct {
	reader usecase.LedgerReader
}

var _ usecase.MintStateReader = (*MintStateSource)(nil)

func NewMintStateSource(reader usecase.LedgerReader) *MintStateSource {
	return &MintStateSource{reader: reader}
}

func (s *MintStateSource) ReadMintState(ctx context.Context, mint string) (usecase.MintState, error) {
	mint = strings.TrimSpace(mint)
	if mint == "" {
		return usecase.MintState{}, fmt.Errorf("mint state: mint is empty")
	}

	acc, err := s.reader.GetAccount(ctx, mint)
	if err != nil {
		return usecase.MintState{}, err
	}
	if acc.Owner != common.TokenProgramID.ToBase58() {
		return usecase.MintState{}, fmt.Errorf("%w: owner=%s", ErrNotAMint, maskAddr(acc.Owner))
	}

	st, supply, decimals, err := parseMintAccount(acc.Data)
	if err != nil {
		return usecase.MintState{}, err
	}

	out := usecase.MintState{
		Authority: st,
		Supply:    supply,
		Decimals:  decimals,
	}

	// Metadata is optional: a mint created outside this tool may not carry a
	// Metaplex account. Its absence is state, not an error.
	meta, found, err := s.readMetadata(ctx, mint)
	if err != nil {
		return usecase.MintState{}, err
	}
	if found {
		out.MetadataExists = true
		out.Name = meta.name
		out.Symbol = meta.symbol
		out.URI = meta.uri
		out.Authority.UpdateAuthority = meta.updateAuthority
		out.Authority.MetadataMutable = meta.mutable
	}
	return out, nil
}

// parseMintAccount decodes the fixed SPL mint layout.
func parseMintAccount(data []byte) (authority.State, uint64, uint8, error) {
	if len(data) < mintAccountDataSize {
		return authority.State{}, 0, 0, fmt.Errorf("%w: got %d bytes", ErrMintDataTooShort, len(data))
	}
	if data[45] == 0 {
		return authority.State{}, 0, 0, ErrMintNotInitialized
	}

	var st authority.State
	if binary.LittleEndian.Uint32(data[0:4]) == 1 {
		addr := common.PublicKeyFromBytes(data[4:36]).ToBase58()
		st.MintAuthority = &addr
	}
	if binary.LittleEndian.Uint32(data[46:50]) == 1 {
		addr := common.PublicKeyFromBytes(data[50:82]).ToBase58()
		st.FreezeAuthority = &addr
	}

	supply := binary.LittleEndian.Uint64(data[36:44])
	decimals := data[44]
	return st, supply, decimals, nil
}

type metadataFields struct {
	name            string
	symbol          string
	uri             string
	updateAuthority *string
	mutable         bool
}

func (s *MintStateSource) readMetadata(ctx context.Context, mint string) (metadataFields, bool, error) {
	metaPubkey, err := token_metadata.GetTokenMetaPubkey(common.PublicKeyFromString(mint))
	if err != nil {
		return metadataFields{}, false, fmt.Errorf("mint state: GetTokenMetaPubkey: %w", err)
	}

	acc, err := s.reader.GetAccount(ctx, metaPubkey.ToBase58())
	if err != nil {
		if errors.Is(err, usecase.ErrAccountNotFound) {
			return metadataFields{}, false, nil
		}
		return metadataFields{}, false, err
	}

	meta, err := token_metadata.MetadataDeserialize(acc.Data)
	if err != nil {
		return metadataFields{}, false, fmt.Errorf("mint state: MetadataDeserialize: %w", err)
	}

	out := metadataFields{
		// Borsh fixed-width strings arrive NUL padded.
		name:    strings.TrimRight(meta.Data.Name, "\x00"),
		symbol:  strings.TrimRight(meta.Data.Symbol, "\x00"),
		uri:     strings.TrimRight(meta.Data.Uri, "\x00"),
		mutable: meta.IsMutable,
	}
	ua := meta.UpdateAuthority.ToBase58()
	// Metaplex has no option flag on the update authority; a revoke writes
	// the zero pubkey (burned authority).
	if meta.UpdateAuthority != (common.PublicKey{}) {
		out.updateAuthority = &ua
	}
	return out, true, nil
}
