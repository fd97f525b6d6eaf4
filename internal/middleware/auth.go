package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/abdularham/clinic-api/pkg/auth"
	"github.com/abdularham/clinic-api/pkg/errors"
)

// Context keys set by the access guard for downstream handlers.
const (
	ContextPrincipalID = "principal_id"
	ContextRole        = "principal_role"
)

// AccessGuard verifies role tokens. A missing token is answered with a
// normal 200 failure body; a present but unverifiable token gets 401.
// The guard does NOT check that the account behind the token still
// exists; services re-check liveness on every operation.
type AccessGuard struct {
	tokens auth.TokenService
	logger zerolog.Logger
}

func NewAccessGuard(tokens auth.TokenService, logger zerolog.Logger) *AccessGuard {
	return &AccessGuard{
		tokens: tokens,
		logger: logger.With().Str("component", "access_guard").Logger(),
	}
}

func failureBody(e *errors.Error) gin.H {
	return gin.H{
		"message": e.Message,
		"success": false,
	}
}

// Require returns the middleware protecting one role's route group. The
// token travels in the role's own header slot (e.g. doctor-token).
func (g *AccessGuard) Require(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(role.HeaderSlot())
		if token == "" {
			c.AbortWithStatusJSON(http.StatusOK, failureBody(errors.MissingToken()))
			return
		}

		claims, err := g.tokens.Verify(token, role)
		if err != nil {
			g.logger.Debug().Err(err).Str("role", string(role)).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, failureBody(errors.InvalidToken(err)))
			return
		}

		c.Set(ContextPrincipalID, claims.PrincipalID)
		c.Set(ContextRole, string(claims.Role))
		c.Next()
	}
}

// PrincipalID reads the authenticated principal id the guard stored.
func PrincipalID(c *gin.Context) int64 {
	id, _ := c.Get(ContextPrincipalID)
	v, _ := id.(int64)
	return v
}
