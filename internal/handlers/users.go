package handlers

import (
	"context"
	"net/http"

	"taskboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type UserManager interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)
	List(ctx context.Context, caller uuid.UUID) ([]models.Profile, error)
	Get(ctx context.Context, caller, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, caller, id uuid.UUID, in models.UpdateUserInput) (*models.Profile, error)
	Delete(ctx context.Context, caller, id uuid.UUID) error
}

type UserHandler struct {
	users UserManager
}

func NewUserHandler(users UserManager) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	profiles, err := h.users.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"items": profiles})
}

// Create is the unauthenticated twin of AuthHandler.Register.
func (h *UserHandler) Create(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := h.users.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, newRegistered(user))
}

func (h *UserHandler) Get(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	profile, err := h.users.Get(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}

func (h *UserHandler) Update(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input models.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidInput)
		return
	}

	profile, err := h.users.Update(c.Request.Context(), owner, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}

func (h *UserHandler) Delete(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, deleted{Success: true})
}
