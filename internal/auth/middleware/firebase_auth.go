package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	authctx "github.com/atelier-interiors/cms-backend/internal/auth"
	"github.com/atelier-interiors/cms-backend/internal/logging"
)

// AdminClaim is the custom claim an editor account must carry.
const AdminClaim = "admin"

// TokenVerifier is the part of *auth.Client the guard needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAdmin validates Firebase ID tokens and admits accounts carrying
// the admin custom claim.
func FirebaseAdmin(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			return
		}

		decoded, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			logging.New(c.Request.Context()).Warnf("auth.firebase", "verify error=%v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		if isAdmin, _ := decoded.Claims[AdminClaim].(bool); !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "admin access required"})
			return
		}

		c.Set(authctx.CtxFirebaseUID, decoded.UID)
		if email, ok := decoded.Claims["email"].(string); ok {
			c.Set("email", email)
		}
		authctx.GrantAdmin(c, "firebase")
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
