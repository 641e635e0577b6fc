package handlers

import (
	"net/http"
	"time"

	"github.com/pfinal/passport/internal/application/ports"
	"github.com/pfinal/passport/internal/infrastructure/http/middleware"
)

// UsersHandler serves the authenticated user's own record.
type UsersHandler struct {
	users ports.UserRepository
}

func NewUsersHandler(users ports.UserRepository) *UsersHandler {
	return &UsersHandler{users: users}
}

type userResponse struct {
	ID        string    `json:"id"`
	Mobile    string    `json:"mobile,omitempty"`
	Email     string    `json:"email,omitempty"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Me handles GET /users/me. Requires the auth middleware.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
		return
	}
	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	if user == nil {
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{
		ID:        user.ID,
		Mobile:    user.Mobile,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}
