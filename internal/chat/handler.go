package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/httputil"
	"sellarte/pkg/platform/middleware/device"
)

var chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sellarte_chat_requests_total",
	Help: "Chat requests by device class and whether the reply was grounded.",
}, []string{"device", "grounded"})

type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.With(device.Classify).Post("/chat", h.handleChat)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid JSON body"))
		return
	}

	reply, err := h.svc.Respond(r.Context(), req.Message)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "chat response failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	chatRequests.WithLabelValues(string(device.FromContext(r.Context())), label(reply.Grounded)).Inc()
	httputil.WriteJSON(w, http.StatusOK, reply)
}

func label(grounded bool) string {
	if grounded {
		return "true"
	}
	return "false"
}
