package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/atelier-interiors/cms-backend/internal/api/http"
	"github.com/atelier-interiors/cms-backend/internal/api/http/middleware"
	authmw "github.com/atelier-interiors/cms-backend/internal/auth/middleware"
	contenthttp "github.com/atelier-interiors/cms-backend/internal/content/http"
	inquiryhttp "github.com/atelier-interiors/cms-backend/internal/inquiry/http"
	"github.com/atelier-interiors/cms-backend/internal/metrics"
	realtimehttp "github.com/atelier-interiors/cms-backend/internal/realtime/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string

	Store httpapi.Pinger
	Redis *redis.Client

	Content *contenthttp.Handler
	Inquiry *inquiryhttp.Handler
	Live    *realtimehttp.Handler

	// AdminGuard admits editors to /api/v1/admin.
	AdminGuard   gin.HandlerFunc
	InquiryLimit *middleware.IPRateLimiter
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowAllOrigins:  len(dep.AllowedOrigins) == 0,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", authmw.HeaderAdminKey, middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store, dep.Redis)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")

	var limit gin.HandlerFunc
	if dep.InquiryLimit != nil {
		limit = dep.InquiryLimit.Middleware()
	}
	dep.Content.RegisterPublic(api)
	dep.Inquiry.RegisterPublic(api, limit)
	dep.Live.Register(api)

	admin := api.Group("/admin")
	admin.Use(dep.AdminGuard)
	dep.Content.RegisterAdmin(admin)
	dep.Inquiry.RegisterAdmin(admin)
	dep.Live.Register(admin)

	return r
}
