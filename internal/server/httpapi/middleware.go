package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feepo/feepo/internal/server/auth"
	"github.com/feepo/feepo/internal/server/models"
)

// identityKey is the gin context key the auth gate stores the resolved
// user under.
const identityKey = "identity"

// requireAuth verifies the bearer token from the Authorization header
// and resolves its subject to a user record. Every failure, including a
// store error during resolution, ends the request with 401. The reason
// is logged server-side and never echoed to the client.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, err := auth.StripTokenScheme(c.GetHeader("Authorization"))
		if err != nil {
			s.logger.Warn(ctx, "rejected request without bearer token", "path", c.FullPath())
			abortUnauthorized(c)
			return
		}

		userID, err := auth.GetUserIDFromToken(raw, s.publicKey)
		if err != nil {
			s.logger.Warn(ctx, "rejected invalid token", "path", c.FullPath(), "error", err)
			abortUnauthorized(c)
			return
		}

		user, err := s.users.Resolve(ctx, userID)
		if err != nil {
			s.logger.Error(ctx, "token subject resolution failed", "path", c.FullPath(), "error", err)
			abortUnauthorized(c)
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// identityFrom returns the user the auth gate attached to the request.
func identityFrom(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
}
