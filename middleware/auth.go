package middleware

import (
	"net/http"

	"skb-backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

// TokenVerifier is satisfied by *auth.TokenManager.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
}

func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects the request with 401 when the token cookie is missing
// or does not verify. It never turns a verification failure into a 500.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := a.Authenticated(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"valid":   false,
				"error":   "Authentication required",
			})
			return
		}

		c.Set("role", claims.Role)
		c.Set("claims", claims)
		c.Next()
	}
}

// Authenticated reports whether the request carries a valid session token.
func (a *AuthMiddleware) Authenticated(c *gin.Context) (*auth.Claims, bool) {
	token, err := c.Cookie(TokenCookie)
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Helper function to get role from context
func GetRole(c *gin.Context) string {
	if role, exists := c.Get("role"); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}
