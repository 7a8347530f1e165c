package solana

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
)

// FeeConfigSource fetches and decodes the program's fee_config PDA. The
// vault the fees are paid into is the PDA itself; only the recorded owner
// can withdraw the accumulated lamports.
type FeeConfigSource struct {
	reader    usecase.LedgerReader
	programID common.PublicKey
}

var _ usecase.FeeConfigReader = (*FeeConfigSource)(nil)

// NewFeeConfigSource resolves the program from SOL_TOOL_PROGRAM_ID, falling
// back to the deployed default.
func NewFeeConfigSource(reader usecase.LedgerReader) *FeeConfigSource {
	pid := strings.TrimSpace(os.Getenv("SOL_TOOL_PROGRAM_ID"))
	if pid == "" {
		pid = fee.DefaultProgramID
	}
	return &FeeConfigSource{
		reader:    reader,
		programID: common.PublicKeyFromString(pid),
	}
}

func (s *FeeConfigSource) Load(ctx context.Context) (fee.Schedule, error) {
	if s == nil || s.reader == nil {
		return fee.Schedule{}, fmt.Errorf("fee config source: not configured")
	}

	pda, err := fee.ConfigAddress(s.programID)
	if err != nil {
		return fee.Schedule{}, err
	}
	vault := pda.ToBase58()

	acc, err := s.reader.GetAccount(ctx, vault)
	if err != nil {
		if errors.Is(err, usecase.ErrAccountNotFound) {
			return fee.Schedule{}, fmt.Errorf("%w: fee_config %s not initialized", usecase.ErrFeeConfigUnavailable, maskAddr(vault))
		}
		return fee.Schedule{}, fmt.Errorf("%w: %v", usecase.ErrFeeConfigUnavailable, err)
	}

	schedule, err := fee.DecodeConfigAccount(vault, acc.Data)
	if err != nil {
		return fee.Schedule{}, fmt.Errorf("%w: %v", usecase.ErrFeeConfigUnavailable, err)
	}

	log.Printf("[fee-config] loaded vault=%s owner=%s", maskAddr(vault), maskAddr(schedule.Owner))
	return schedule, nil
}

// maskAddr shortens an address for logs, matching the wallet-side display.
func maskAddr(v string) string {
	if len(v) <= 8 {
		return v
	}
	return v[:4] + "***" + v[len(v)-4:]
}
