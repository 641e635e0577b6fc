package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pfinal/passport/internal/application/token"
	domerrors "github.com/pfinal/passport/internal/domain/errors"
	"github.com/pfinal/passport/internal/infrastructure/http/middleware"
)

// AuthHandler serves token issuance, verification and revocation.
type AuthHandler struct {
	tokens   *token.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(tokens *token.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

type issueRequest struct {
	Account  string `json:"account" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type openIDRequest struct {
	Platform string `json:"platform" validate:"required,max=32"`
	AppID    string `json:"appid" validate:"required,max=64"`
	OpenID   string `json:"openid" validate:"required,max=128"`
}

type verifyRequest struct {
	Token               string `json:"token" validate:"required"`
	CheckPasswordChange bool   `json:"check_password_change"`
}

type logoutRequest struct {
	Token string `json:"token" validate:"required"`
}

type tokenResponse struct {
	UserID   string `json:"user_id"`
	Token    string `json:"token"`
	ExpireAt int64  `json:"expire_at"`
}

// IssueToken handles POST /auth/token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	req.Account = SanitizeAccount(req.Account)
	req.Password = SanitizePassword(req.Password)
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "account and password are required")
		return
	}

	issued, err := h.tokens.IssueByAccount(r.Context(), req.Account, req.Password)
	if err != nil {
		middleware.RecordTokenOp("issue", false)
		h.writeTokenErr(w, err)
		return
	}
	middleware.RecordTokenOp("issue", true)
	writeJSON(w, http.StatusCreated, tokenResponse{UserID: issued.UserID, Token: issued.Value, ExpireAt: issued.ExpiresAt})
}

// IssueTokenByOpenID handles POST /auth/token/openid.
func (h *AuthHandler) IssueTokenByOpenID(w http.ResponseWriter, r *http.Request) {
	var req openIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "platform, appid and openid are required")
		return
	}

	issued, err := h.tokens.IssueByOpenID(r.Context(), req.Platform, req.AppID, req.OpenID)
	if err != nil {
		middleware.RecordTokenOp("issue_openid", false)
		h.writeTokenErr(w, err)
		return
	}
	middleware.RecordTokenOp("issue_openid", true)
	writeJSON(w, http.StatusCreated, tokenResponse{UserID: issued.UserID, Token: issued.Value, ExpireAt: issued.ExpiresAt})
}

// VerifyToken handles POST /auth/verify.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	req.Token = TruncateToken(req.Token)
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "token is required")
		return
	}

	verified, err := h.tokens.Verify(r.Context(), req.Token, req.CheckPasswordChange)
	if err != nil {
		middleware.RecordTokenOp("verify", false)
		h.writeTokenErr(w, err)
		return
	}
	middleware.RecordTokenOp("verify", true)
	writeJSON(w, http.StatusOK, tokenResponse{UserID: verified.UserID, Token: verified.Value, ExpireAt: verified.ExpiresAt})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	req.Token = TruncateToken(req.Token)
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "token is required")
		return
	}

	revoked, err := h.tokens.Revoke(r.Context(), req.Token)
	if err != nil {
		h.log.Error().Err(err).Msg("revoke token")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "could not revoke token")
		return
	}
	middleware.RecordTokenOp("revoke", revoked)
	writeJSON(w, http.StatusOK, map[string]bool{"revoked": revoked})
}

func (h *AuthHandler) writeTokenErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domerrors.ErrInvalidAccount):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidAccount, "account does not exist")
	case errors.Is(err, domerrors.ErrInvalidPassword):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidPassword, "account and password do not match")
	case errors.Is(err, domerrors.ErrInvalidOpenID):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidOpenID, "openid does not map to a user")
	case errors.Is(err, domerrors.ErrInvalidToken):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidToken, "invalid or expired token")
	default:
		h.log.Error().Err(err).Msg("token operation failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
