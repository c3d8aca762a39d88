// Package handler exposes the wholesale module over HTTP. Public routes cover
// application and price resolution; admin routes manage approval and tiers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sellarte/internal/wholesale"
	"sellarte/internal/wholesale/service"
	id "sellarte/pkg/domain"
	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/httputil"
	adminmw "sellarte/pkg/platform/middleware/admin"
)

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the public routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/wholesale/apply", h.handleApply)
	r.Get("/wholesale/price", h.handlePrice)
}

// RegisterAdmin mounts the back-office routes. Callers wrap these with the
// admin middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/wholesale/accounts", h.handleList)
	r.Post("/admin/wholesale/accounts/{id}/approve", h.handleApprove)
	r.Post("/admin/wholesale/accounts/{id}/reject", h.handleReject)
	r.Put("/admin/wholesale/accounts/{id}/tier", h.handleSetTier)
}

type applyRequest struct {
	Email   string `json:"email"`
	Company string `json:"company"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid JSON body"))
		return
	}

	account, err := h.svc.Apply(r.Context(), req.Email, req.Company)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, account)
}

func (h *Handler) handlePrice(w http.ResponseWriter, r *http.Request) {
	retail, err := strconv.ParseInt(r.URL.Query().Get("retail"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "retail must be an integer"))
		return
	}

	pricing, err := h.svc.PriceFor(r.Context(), r.URL.Query().Get("email"), retail)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pricing)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

type tierRequest struct {
	Tier string `json:"tier"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var req tierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid JSON body"))
		return
	}

	account, err := h.svc.Approve(r.Context(), accountID, wholesale.Tier(req.Tier), adminmw.EmailFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	account, err := h.svc.Reject(r.Context(), accountID, adminmw.EmailFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) handleSetTier(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var req tierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid JSON body"))
		return
	}

	account, err := h.svc.SetTier(r.Context(), accountID, wholesale.Tier(req.Tier), adminmw.EmailFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) accountID(w http.ResponseWriter, r *http.Request) (id.AccountID, bool) {
	accountID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return accountID, false
	}
	return accountID, true
}
