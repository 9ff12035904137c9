package controller

import (
	"context"
	"crypto/subtle"
	"net/http"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/TradeTrust/api-storage/internal/infrastructure/observability"
)

// SessionIssuer issues session tokens bound to a user.
type SessionIssuer interface {
	Create(ctx context.Context, user string) (string, error)
}

// SessionController handles session issuance.
type SessionController struct {
	sessions  SessionIssuer
	accessKey string
	metrics   *observability.Metrics
}

// NewSessionController creates a new SessionController.
func NewSessionController(sessions SessionIssuer, accessKey string, metrics *observability.Metrics) *SessionController {
	return &SessionController{
		sessions:  sessions,
		accessKey: accessKey,
		metrics:   metrics,
	}
}

// Create handles POST /auth/sessions. It exchanges the configured access
// key for an opaque session token.
func (h *SessionController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AccessKey), []byte(h.accessKey)) != 1 {
		h.metrics.SessionFailures.Inc()
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	token, err := h.sessions.Create(r.Context(), req.User)
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.SessionsIssued.Inc()
	writeJSON(w, http.StatusCreated, SessionResponse{Token: token})
}
