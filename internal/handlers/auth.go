package handlers

import (
	"context"
	"net/http"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type AuthService interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in models.LoginInput) (*services.LoginResult, error)
	Me(ctx context.Context, caller uuid.UUID) (*models.Profile, error)
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registered struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newRegistered(u *models.User) registered {
	return registered{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, newRegistered(user))
}

// Login answers a malformed body with the same message as a bad credential.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Logout has nothing to revoke. The route only confirms the token was valid.
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := caller(c); !ok {
		return
	}
	respond(c, http.StatusOK, deleted{Success: true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	profile, err := h.auth.Me(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}
