package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/logging"
	"github.com/atelier-interiors/cms-backend/internal/site/pages"
)

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	return n
}

func (h *Handler) listProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": h.query.GetProjects(c.Request.Context())})
}

func (h *Handler) featuredProjects(c *gin.Context) {
	items := h.query.GetFeaturedProjects(c.Request.Context(), queryInt(c, "limit"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) projectsByCategory(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Param("category")))
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": h.query.GetProjectsByCategory(c.Request.Context(), category)})
}

func (h *Handler) getProject(c *gin.Context) {
	p := h.query.GetProjectBySlug(c.Request.Context(), strings.ToLower(c.Param("slug")))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) relatedProjects(c *gin.Context) {
	ctx := c.Request.Context()
	p := h.query.GetProjectBySlug(ctx, strings.ToLower(c.Param("slug")))
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "projects": []domain.Project{}})
		return
	}
	items := h.query.GetRelatedProjects(ctx, p.Slug, p.RoomType, p.Style, queryInt(c, "limit"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) listServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "services": h.query.GetServices(c.Request.Context())})
}

func (h *Handler) listTestimonials(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("featured") == "true" {
		c.JSON(http.StatusOK, gin.H{"ok": true, "testimonials": h.query.GetFeaturedTestimonials(ctx)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "testimonials": h.query.GetTestimonials(ctx)})
}

func (h *Handler) listProcessSteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "steps": h.query.GetProcessSteps(c.Request.Context())})
}

func (h *Handler) listVideos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "videos": h.query.GetVideos(c.Request.Context())})
}

func (h *Handler) videosByCategory(c *gin.Context) {
	category := strings.TrimSpace(c.Param("category"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "videos": h.query.GetVideosByCategory(c.Request.Context(), category)})
}

func (h *Handler) allContent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "content": h.query.GetAllSiteContent(c.Request.Context())})
}

func (h *Handler) getContent(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if !domain.ValidSectionKey(key) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid section key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "section": h.query.GetSiteContent(c.Request.Context(), key)})
}

// page serves a cached page bundle as raw JSON.
func (h *Handler) page(c *gin.Context) {
	body, err := h.pages.Render(c.Request.Context(), c.Param("page"))
	if err != nil {
		if errors.Is(err, pages.ErrUnknownPage) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "page not found"})
			return
		}
		logging.New(c.Request.Context()).Error("content.page", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to render page"})
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
