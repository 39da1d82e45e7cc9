package handlers

import (
	"log"
	"net/http"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const (
	msgInvalidInput = "Invalid input"
	msgInvalidID    = "Invalid id"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type deleted struct {
	Success bool `json:"success"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Error: message})
}

// respondError maps err onto a status code. Server side failures are logged
// and answered without their detail.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[handlers] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	fail(c, status, apperrors.PublicMessage(err))
}

func caller(c *gin.Context) (uuid.UUID, bool) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	return owner, ok
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil || id == uuid.Nil {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
