package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

const (
	actorKey  = "auth.actor"
	claimsKey = "auth.claims"
)

// Middleware rejects requests without a valid bearer token and stores the
// resolved actor in the gin context.
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Set(actorKey, claims.Actor())
		c.Next()
	}
}

// RequireRole aborts with 403 unless the actor holds one of the roles.
// Admins pass unconditionally.
func RequireRole(roles ...workflow.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFromContext(c)
		if !actor.Authorized(roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// ActorFromContext returns the actor stored by Middleware. The zero actor
// is returned on unauthenticated requests.
func ActorFromContext(c *gin.Context) workflow.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(workflow.Actor); ok {
			return actor
		}
	}
	return workflow.Actor{}
}

// ClaimsFromContext returns the token claims stored by Middleware.
func ClaimsFromContext(c *gin.Context) *Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}
