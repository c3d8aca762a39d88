package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/httputil"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// LoginHandler exchanges an allow-listed email plus the shared admin password
// for a session token. The hash is bcrypt, configured once per deployment.
func LoginHandler(sessions *Sessions, passwordHash string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid JSON body"))
			return
		}

		if passwordHash == "" ||
			bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
			logger.WarnContext(r.Context(), "admin login rejected", "email", req.Email)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		token, err := sessions.Issue(req.Email)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, loginResponse{Token: token})
	}
}
