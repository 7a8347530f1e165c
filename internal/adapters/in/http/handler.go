package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ramachandrareddy352/sol-tool/internal/application/usecase"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/plan"
	"github.com/ramachandrareddy352/sol-tool/internal/domain/vanity"
	infrasolana "github.com/ramachandrareddy352/sol-tool/internal/infra/solana"
)

// feeAdminPort lets tests stand in for the on-chain admin client.
type feeAdminPort interface {
	InitializeFees(ctx context.Context, amounts [fee.NumOperationKinds]uint64) (string, error)
	UpdateFees(ctx context.Context, amounts [fee.NumOperationKinds]uint64) (string, error)
	WithdrawFees(ctx context.Context, amount uint64, receiver string) (string, error)
}

var _ feeAdminPort = (*infrasolana.FeeAdmin)(nil)

// Handler is the token-tool API surface. One instance serves every route.
type Handler struct {
	lifecycle *usecase.Lifecycle
	session   *usecase.Session
	mintState usecase.MintStateReader
	feeAdmin  feeAdminPort // nil when no admin wallet is configured
}

func NewHandler(lifecycle *usecase.Lifecycle, session *usecase.Session, mintState usecase.MintStateReader, feeAdmin feeAdminPort) *Handler {
	return &Handler{
		lifecycle: lifecycle,
		session:   session,
		mintState: mintState,
		feeAdmin:  feeAdmin,
	}
}

// ============================================================
// Session
// ============================================================

func (h *Handler) bindSession(w http.ResponseWriter, r *http.Request) {
	var body bindSessionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if strings.TrimSpace(body.Signer) == "" {
		badRequest(w, "signer is required")
		return
	}
	h.session.Bind(body.Signer, body.Network)
	writeJSON(w, http.StatusOK, map[string]string{"signer": h.session.Signer()})
}

// ============================================================
// Fees
// ============================================================

func (h *Handler) getFees(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.session.Fees.Get()
	if errors.Is(err, usecase.ErrFeeScheduleNotLoaded) {
		schedule, err = h.lifecycle.LoadFees(r.Context())
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeeScheduleResponse(schedule))
}

func (h *Handler) refreshFees(w http.ResponseWriter, r *http.Request) {
	h.session.Fees.Invalidate()
	schedule, err := h.lifecycle.LoadFees(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeeScheduleResponse(schedule))
}

// ============================================================
// Mint state
// ============================================================

func (h *Handler) getToken(w http.ResponseWriter, r *http.Request) {
	mint := strings.TrimSpace(chi.URLParam(r, "mint"))
	if mint == "" {
		badRequest(w, "mint is required")
		return
	}

	ms, err := h.mintState.ReadMintState(r.Context(), mint)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mintStateResponse{
		Mint:            mint,
		Supply:          ms.Supply,
		Decimals:        ms.Decimals,
		MintAuthority:   ms.Authority.MintAuthority,
		FreezeAuthority: ms.Authority.FreezeAuthority,
		UpdateAuthority: ms.Authority.UpdateAuthority,
		MetadataExists:  ms.MetadataExists,
		MetadataMutable: ms.Authority.MetadataMutable,
		Name:            ms.Name,
		Symbol:          ms.Symbol,
		URI:             ms.URI,
	})
}

// ============================================================
// Vanity search
// ============================================================

func (h *Handler) startVanity(w http.ResponseWriter, r *http.Request) {
	var body vanityStartBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	_, err := h.lifecycle.StartVanitySearch(vanity.Constraint{
		PrefixEnabled: body.PrefixEnabled,
		Prefix:        body.Prefix,
		SuffixEnabled: body.SuffixEnabled,
		Suffix:        body.Suffix,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": string(vanity.StatusRunning)})
}

func (h *Handler) vanityStatus(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.lifecycle.PollVanity()
	if !ok {
		notFound(w)
		return
	}
	resp := vanityStatusResponse{
		Status:   string(snap.Status),
		Attempts: snap.Attempts,
	}
	if snap.Status == vanity.StatusFound && snap.KeyPair != nil {
		resp.Address = snap.KeyPair.PublicKey.ToBase58()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) cancelVanity(w http.ResponseWriter, r *http.Request) {
	h.lifecycle.CancelVanity()
	writeJSON(w, http.StatusOK, map[string]string{"status": string(vanity.StatusCancelled)})
}

// ============================================================
// Operations
// ============================================================

func (h *Handler) runOperation(w http.ResponseWriter, r *http.Request) {
	kind, err := fee.ParseOperationKind(chi.URLParam(r, "kind"))
	if err != nil {
		badRequest(w, "unknown operation kind")
		return
	}

	var body operationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	res, err := h.lifecycle.Run(r.Context(), body.toRequest(kind), parsePriority(body.Priority))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissionResponse{
		Outcome:   string(res.Outcome),
		Signature: res.Signature,
		Reason:    res.Reason,
		Mint:      res.Mint,
	})
}

// ============================================================
// Fee admin (owner wallet only)
// ============================================================

func (h *Handler) initFees(w http.ResponseWriter, r *http.Request) {
	h.runFeeTable(w, r, func(ctx context.Context, amounts [fee.NumOperationKinds]uint64) (string, error) {
		return h.feeAdmin.InitializeFees(ctx, amounts)
	})
}

func (h *Handler) updateFees(w http.ResponseWriter, r *http.Request) {
	h.runFeeTable(w, r, func(ctx context.Context, amounts [fee.NumOperationKinds]uint64) (string, error) {
		return h.feeAdmin.UpdateFees(ctx, amounts)
	})
}

func (h *Handler) runFeeTable(w http.ResponseWriter, r *http.Request, call func(context.Context, [fee.NumOperationKinds]uint64) (string, error)) {
	if h.feeAdmin == nil {
		notFound(w)
		return
	}
	var body feeTableBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	var amounts [fee.NumOperationKinds]uint64
	for name, amt := range body.Fees {
		k, err := fee.ParseOperationKind(name)
		if err != nil {
			badRequest(w, "unknown fee kind: "+name)
			return
		}
		amounts[k] = amt
	}

	sig, err := call(r.Context(), amounts)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.session.Fees.Invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"signature": sig})
}

func (h *Handler) withdrawFees(w http.ResponseWriter, r *http.Request) {
	if h.feeAdmin == nil {
		notFound(w)
		return
	}
	var body withdrawBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if body.Amount == 0 {
		badRequest(w, "amount must be positive")
		return
	}
	sig, err := h.feeAdmin.WithdrawFees(r.Context(), body.Amount, body.Receiver)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"signature": sig})
}

// ============================================================
// Error mapping
// ============================================================

// writeError maps the error taxonomy to distinct statuses and stable codes
// so every refusal renders its own message client-side.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var invalidErr *plan.InvalidRequestError
	if errors.As(err, &invalidErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  invalidErr.Detail,
			"detail": invalidErr.Context,
		})
		return
	}

	var denied *usecase.DeniedError
	if errors.As(err, &denied) {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": string(denied.Reason),
			"slot":  denied.Slot.String(),
		})
		return
	}

	switch {
	case errors.Is(err, usecase.ErrWorkflowBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "submission_in_flight"})
	case errors.Is(err, usecase.ErrAccountNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "account_not_found"})
	case errors.Is(err, usecase.ErrFeeConfigUnavailable), errors.Is(err, usecase.ErrFeeScheduleNotLoaded):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "fee_config_unavailable"})
	case errors.Is(err, vanity.ErrConstraintTooLong), errors.Is(err, vanity.ErrConstraintEmpty):
		badRequest(w, err.Error())
	case errors.Is(err, usecase.ErrNoVanityResult):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "vanity_not_ready"})
	case errors.Is(err, infrasolana.ErrNotConfigOwner):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not_config_owner"})
	default:
		internalError(w, err.Error())
	}
}

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": strings.TrimSpace(msg)})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
}

func internalError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": strings.TrimSpace(msg)})
}
