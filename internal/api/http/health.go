package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Store     string    `json:"store"`
	Redis     string    `json:"redis,omitempty"`
}

// Pinger is satisfied by every content store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	serviceName string
	version     string
	store       Pinger
	redis       *redis.Client
}

// NewHealthHandler builds the liveness handler. rdb may be nil when Redis is not
// configured.
func NewHealthHandler(serviceName, version string, store Pinger, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		store:       store,
		redis:       rdb,
	}
}

// HealthCheck reports degraded rather than failing when Redis is down, since
// the site keeps serving without it.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Store:     "up",
	}
	code := http.StatusOK

	if err := h.store.Ping(pingCtx); err != nil {
		resp.Store = "down"
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		if err := h.redis.Ping(pingCtx).Err(); err != nil {
			resp.Redis = "down"
			if code == http.StatusOK {
				resp.Status = "degraded"
			}
		} else {
			resp.Redis = "up"
		}
	}

	c.JSON(code, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
