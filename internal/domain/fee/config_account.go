package fee

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
)

// On-chain layout of the sol_tool fee_config account (anchor):
// 8-byte account discriminator, owner pubkey, then one u64 (little-endian)
// fee per operation kind in IDL order.
const (
	ConfigSeed = "fee_config"

	// DefaultProgramID is the deployed sol_tool program.
	DefaultProgramID = "A7xg3N2S6hkFcaFS9pkurxLT8gLeHxtkSwhda4MhRBqb"

	configAccountSize = 8 + 32 + 8*NumOperationKinds
)

// ConfigDiscriminator is the anchor discriminator of the feeConfig account.
var ConfigDiscriminator = [8]byte{143, 52, 146, 187, 219, 123, 76, 155}

var (
	ErrConfigTooShort         = errors.New("fee: config account data too short")
	ErrConfigBadDiscriminator = errors.New("fee: config account discriminator mismatch")
)

// ConfigAddress derives the fee_config PDA for the given program.
func ConfigAddress(programID common.PublicKey) (common.PublicKey, error) {
	pda, _, err := common.FindProgramAddress([][]byte{[]byte(ConfigSeed)}, programID)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("fee: derive config PDA: %w", err)
	}
	return pda, nil
}

// DecodeConfigAccount deserializes a raw fee_config account into a Schedule.
// vault is the address the account was read from; fee transfers are paid to
// the config PDA and withdrawn by the owner.
func DecodeConfigAccount(vault string, data []byte) (Schedule, error) {
	if len(data) < configAccountSize {
		return Schedule{}, fmt.Errorf("%w: got %d bytes, want %d", ErrConfigTooShort, len(data), configAccountSize)
	}
	if !bytes.Equal(data[:8], ConfigDiscriminator[:]) {
		return Schedule{}, ErrConfigBadDiscriminator
	}

	owner := common.PublicKeyFromBytes(data[8:40])

	var amounts [NumOperationKinds]uint64
	off := 40
	for i := range amounts {
		amounts[i] = binary.LittleEndian.Uint64(data[off : off+8])
		off += 8
	}
	return NewSchedule(owner.ToBase58(), vault, amounts), nil
}

// EncodeConfigAccount is the inverse of DecodeConfigAccount. Used by tests
// and by the local devnet seeding helper.
func EncodeConfigAccount(s Schedule) []byte {
	out := make([]byte, configAccountSize)
	copy(out[:8], ConfigDiscriminator[:])
	copy(out[8:40], common.PublicKeyFromString(s.Owner).Bytes())
	off := 40
	for _, amt := range s.Amounts() {
		binary.LittleEndian.PutUint64(out[off:off+8], amt)
		off += 8
	}
	return out
}
