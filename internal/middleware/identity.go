package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const ownerIDKey = "owner_id"

// Authenticator resolves an Authorization header to a user id.
type Authenticator interface {
	Authenticate(header string) (uuid.UUID, bool)
}

// RequireIdentity rejects requests without a valid bearer token and stores
// the caller's id for OwnerID.
func RequireIdentity(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := auth.Authenticate(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized",
			})
			return
		}

		c.Set(ownerIDKey, owner)
		c.Next()
	}
}

// OwnerID returns the id stored by RequireIdentity.
func OwnerID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ownerIDKey)
	if !exists {
		return uuid.Nil, false
	}
	owner, ok := value.(uuid.UUID)
	return owner, ok && owner != uuid.Nil
}
