package http

import (
	"strings"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/plan"
)

// ============================================================
// Request bodies
// ============================================================

type bindSessionBody struct {
	Signer  string `json:"signer"`
	Network string `json:"network"`
}

type creatorBody struct {
	Remove  bool   `json:"remove"`
	Name    string `json:"name"`
	Website string `json:"website"`
	Address string `json:"address"`
}

type recoveryBody struct {
	Target        string `json:"target"` // sol | token | owner | custom
	CustomAddress string `json:"customAddress"`
}

type createBody struct {
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Decimals    uint8        `json:"decimals"`
	Supply      uint64       `json:"supply"`
	MetadataURI string       `json:"metadataUri"`
	Creator     *creatorBody `json:"creator,omitempty"`

	RevokeMint   bool `json:"revokeMint"`
	RevokeFreeze bool `json:"revokeFreeze"`
	RevokeUpdate bool `json:"revokeUpdate"`

	CustomAddress bool          `json:"customAddress"`
	Recovery      *recoveryBody `json:"recovery,omitempty"`
}

type updateMetadataBody struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	MetadataURI string `json:"metadataUri"`
}

type closeBody struct {
	DrainFirst    bool   `json:"drainFirst"`
	RefundTarget  string `json:"refundTarget"`
	CustomAddress string `json:"customAddress"`
}

// operationBody is the single envelope for every POST /operations/{kind}.
// Only the fields relevant to the kind are read.
type operationBody struct {
	Mint         string `json:"mint"`
	Amount       uint64 `json:"amount"`
	TargetWallet string `json:"targetWallet"` // freeze / unfreeze
	NewAuthority string `json:"newAuthority"`
	Priority     string `json:"priority"` // "" | fast | turbo | ultra

	Create *createBody         `json:"create,omitempty"`
	Update *updateMetadataBody `json:"update,omitempty"`
	Close  *closeBody          `json:"close,omitempty"`
}

type vanityStartBody struct {
	PrefixEnabled bool   `json:"prefixEnabled"`
	Prefix        string `json:"prefix"`
	SuffixEnabled bool   `json:"suffixEnabled"`
	Suffix        string `json:"suffix"`
}

type feeTableBody struct {
	Fees map[string]uint64 `json:"fees"` // kind name -> lamports
}

type withdrawBody struct {
	Amount   uint64 `json:"amount"`
	Receiver string `json:"receiver,omitempty"`
}

// ============================================================
// Request mapping
// ============================================================

func (b operationBody) toRequest(kind fee.OperationKind) plan.Request {
	req := plan.Request{
		Kind:          kind,
		Mint:          strings.TrimSpace(b.Mint),
		Amount:        b.Amount,
		TargetAccount: strings.TrimSpace(b.TargetWallet),
		NewAuthority:  strings.TrimSpace(b.NewAuthority),
	}

	if b.Create != nil {
		c := plan.CreateOptions{
			Name:          b.Create.Name,
			Symbol:        b.Create.Symbol,
			Decimals:      b.Create.Decimals,
			Supply:        b.Create.Supply,
			MetadataURI:   b.Create.MetadataURI,
			RevokeMint:    b.Create.RevokeMint,
			RevokeFreeze:  b.Create.RevokeFreeze,
			RevokeUpdate:  b.Create.RevokeUpdate,
			CustomAddress: b.Create.CustomAddress,
		}
		if b.Create.Creator != nil {
			c.Creator = &plan.CreatorOptions{
				Remove:  b.Create.Creator.Remove,
				Name:    b.Create.Creator.Name,
				Website: b.Create.Creator.Website,
				Address: strings.TrimSpace(b.Create.Creator.Address),
			}
		}
		if b.Create.Recovery != nil {
			c.Recovery = &plan.RecoveryOptions{
				Target:        plan.RefundTarget(b.Create.Recovery.Target),
				CustomAddress: strings.TrimSpace(b.Create.Recovery.CustomAddress),
			}
		}
		req.Create = &c
	}

	if b.Update != nil {
		req.Update = &plan.UpdateMetadataOptions{
			Name:        b.Update.Name,
			Symbol:      b.Update.Symbol,
			MetadataURI: b.Update.MetadataURI,
		}
	}

	if b.Close != nil {
		req.Close = &plan.CloseOptions{
			DrainFirst:    b.Close.DrainFirst,
			RefundTarget:  plan.RefundTarget(b.Close.RefundTarget),
			CustomAddress: strings.TrimSpace(b.Close.CustomAddress),
		}
	}
	return req
}

func parsePriority(s string) usecase.PriorityLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return usecase.PriorityFast
	case "turbo":
		return usecase.PriorityTurbo
	case "ultra":
		return usecase.PriorityUltra
	default:
		return usecase.PriorityNone
	}
}

// ============================================================
// Response bodies
// ============================================================

type feeScheduleResponse struct {
	Owner string            `json:"owner"`
	Vault string            `json:"vault"`
	Fees  map[string]uint64 `json:"fees"`
}

func toFeeScheduleResponse(s fee.Schedule) feeScheduleResponse {
	fees := make(map[string]uint64, fee.NumOperationKinds)
	for i, amt := range s.Amounts() {
		fees[fee.OperationKind(i).String()] = amt
	}
	return feeScheduleResponse{Owner: s.Owner, Vault: s.Vault, Fees: fees}
}

type mintStateResponse struct {
	Mint            string  `json:"mint"`
	Supply          uint64  `json:"supply"`
	Decimals        uint8   `json:"decimals"`
	MintAuthority   *string `json:"mintAuthority"`
	FreezeAuthority *string `json:"freezeAuthority"`
	UpdateAuthority *string `json:"updateAuthority"`
	MetadataExists  bool    `json:"metadataExists"`
	MetadataMutable bool    `json:"metadataMutable"`
	Name            string  `json:"name,omitempty"`
	Symbol          string  `json:"symbol,omitempty"`
	URI             string  `json:"uri,omitempty"`
}

type vanityStatusResponse struct {
	Status   string `json:"status"`
	Attempts uint64 `json:"attempts"`
	Address  string `json:"address,omitempty"`
}

type submissionResponse struct {
	Outcome   string `json:"outcome"`
	Signature string `json:"signature,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Mint      string `json:"mint,omitempty"`
}
