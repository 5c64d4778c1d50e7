package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/logging"
	"github.com/atelier-interiors/cms-backend/internal/metrics"
	"github.com/atelier-interiors/cms-backend/internal/realtime/bus"
	"github.com/atelier-interiors/cms-backend/internal/realtime/livesync"
)

const refreshBuffer = 16

// Handler streams debounced refresh hints to browsers. Every connection owns
// its own livesync.Agent.
type Handler struct {
	subscriber bus.Subscriber
	debounce   time.Duration
	keepAlive  time.Duration
	clock      livesync.Clock
}

func New(subscriber bus.Subscriber, debounce, keepAlive time.Duration) *Handler {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	return &Handler{subscriber: subscriber, debounce: debounce, keepAlive: keepAlive, clock: livesync.SystemClock}
}

// Register attaches the stream under rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/live", h.stream)
}

// watched resolves the tables a session listens to. Visitors never see
// inquiry traffic.
func watched(ctx context.Context, raw string) map[domain.Table]bool {
	admin := domain.RoleFrom(ctx) == domain.RoleAdmin
	all := map[domain.Table]bool{}
	for _, t := range domain.WatchedTables {
		if t == domain.TableInquiries && !admin {
			continue
		}
		all[t] = true
	}
	if strings.TrimSpace(raw) == "" {
		return all
	}
	out := map[domain.Table]bool{}
	for _, name := range strings.Split(raw, ",") {
		t := domain.Table(strings.TrimSpace(name))
		if all[t] {
			out[t] = true
		}
	}
	return out
}

func writeEvent(c *gin.Context, flusher http.Flusher, event string, payload any) {
	data, _ := json.Marshal(payload)
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(data))
	flusher.Flush()
}

func (h *Handler) stream(c *gin.Context) {
	ctx := c.Request.Context()
	tables := watched(ctx, c.Query("tables"))
	if len(tables) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "no watchable tables requested"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	filter := make([]domain.Table, 0, len(tables))
	for t := range tables {
		filter = append(filter, t)
	}
	refreshes := make(chan []domain.Table, refreshBuffer)
	agent := livesync.New(h.subscriber, func(_ context.Context, changed []domain.Table) {
		select {
		case refreshes <- changed:
		default:
		}
	}, livesync.WithDelay(h.debounce), livesync.WithClock(h.clock), livesync.WithTables(filter...))
	defer agent.Close()

	state := agent.Start(ctx)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	live := state == livesync.Connected
	writeEvent(c, flusher, "status", gin.H{"live": live})
	if !live {
		return
	}

	metrics.LiveSessions.Inc()
	defer metrics.LiveSessions.Dec()
	logging.New(ctx).Infof("live.stream", "tables=%d", len(tables))

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case changed := <-refreshes:
			writeEvent(c, flusher, "refresh", gin.H{"tables": changed})
		case <-ticker.C:
			if agent.State() == livesync.Disconnected {
				writeEvent(c, flusher, "status", gin.H{"live": false})
				return
			}
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
