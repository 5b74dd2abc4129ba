package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ardanpr/expense-report-portal/internal/transport"
	"github.com/ardanpr/expense-report-portal/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (TokenResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "username", dto.Username)

		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		// one message for every credential failure
		h.WriteError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Verify reports whether the presented token is valid. Gated by the same
// middleware as the other admin routes, so reaching it means it is.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Token valid",
		"user":    claims.Subject,
	})
}

// AuthMiddleware gates admin routes behind bearer-token verification. Every
// rejection is a uniform 401; no downstream handler runs on failure.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "path", r.URL.Path)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}
