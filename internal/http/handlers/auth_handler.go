// README: Auth handlers: token issuing and the current-user view.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetops/internal/auth"
	"fleetops/internal/modules/user"
	"fleetops/internal/types"
)

type AuthHandler struct {
	users  *user.Service
	tokens *auth.TokenService
}

func NewAuthHandler(users *user.Service, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type userResponse struct {
	ID       types.ID `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		writeError(c, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	token, expiresAt, err := h.tokens.Issue(u.ID, u.Roles)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	v, ok := c.Get("user")
	if !ok {
		writeError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	u := v.(*user.User)
	writeJSON(c, http.StatusOK, userResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Roles:    u.Roles,
	})
}
