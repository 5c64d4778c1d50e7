package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxAdminMethod = "admin_auth"
)

// UserFirebaseUID extracts the Firebase UID set by the firebase guard.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// GrantAdmin marks the request as made by an editor. method records which
// guard admitted it.
func GrantAdmin(c *gin.Context, method string) {
	c.Set(CtxAdminMethod, method)
	c.Request = c.Request.WithContext(domain.WithRole(c.Request.Context(), domain.RoleAdmin))
}
