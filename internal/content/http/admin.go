package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atelier-interiors/cms-backend/internal/blob"
	"github.com/atelier-interiors/cms-backend/internal/content/actions"
	"github.com/atelier-interiors/cms-backend/internal/logging"
)

const maxDocumentBytes = 1 << 20

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": what + " not found"})
}

// Projects

func (h *Handler) adminListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": h.query.GetProjects(c.Request.Context())})
}

func (h *Handler) adminGetProject(c *gin.Context) {
	p := h.query.GetProjectByID(c.Request.Context(), c.Param("id"))
	if p == nil {
		notFound(c, "project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) createProject(c *gin.Context) {
	values, err := h.readForm(c, "projects", "cover_image", galleryField)
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.CreateProject(c.Request.Context(), values), true)
}

func (h *Handler) updateProject(c *gin.Context) {
	values, err := h.readForm(c, "projects", "cover_image", galleryField)
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateProject(c.Request.Context(), c.Param("id"), values), false)
}

func (h *Handler) deleteProject(c *gin.Context) {
	writeResult(c, h.actions.DeleteProject(c.Request.Context(), c.Param("id")), false)
}

// Services

func (h *Handler) adminGetService(c *gin.Context) {
	s := h.query.GetServiceByID(c.Request.Context(), c.Param("id"))
	if s == nil {
		notFound(c, "service")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": s})
}

func (h *Handler) createService(c *gin.Context) {
	values, err := h.readForm(c, "services", "image")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.CreateService(c.Request.Context(), values), true)
}

func (h *Handler) updateService(c *gin.Context) {
	values, err := h.readForm(c, "services", "image")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateService(c.Request.Context(), c.Param("id"), values), false)
}

func (h *Handler) deleteService(c *gin.Context) {
	writeResult(c, h.actions.DeleteService(c.Request.Context(), c.Param("id")), false)
}

// Testimonials

func (h *Handler) adminGetTestimonial(c *gin.Context) {
	t := h.query.GetTestimonialByID(c.Request.Context(), c.Param("id"))
	if t == nil {
		notFound(c, "testimonial")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "testimonial": t})
}

func (h *Handler) createTestimonial(c *gin.Context) {
	values, err := h.readForm(c, "testimonials", "image")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.CreateTestimonial(c.Request.Context(), values), true)
}

func (h *Handler) updateTestimonial(c *gin.Context) {
	values, err := h.readForm(c, "testimonials", "image")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateTestimonial(c.Request.Context(), c.Param("id"), values), false)
}

func (h *Handler) deleteTestimonial(c *gin.Context) {
	writeResult(c, h.actions.DeleteTestimonial(c.Request.Context(), c.Param("id")), false)
}

// Process steps

func (h *Handler) adminGetProcessStep(c *gin.Context) {
	s := h.query.GetProcessStepByID(c.Request.Context(), c.Param("id"))
	if s == nil {
		notFound(c, "process step")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "step": s})
}

func (h *Handler) createProcessStep(c *gin.Context) {
	values, err := h.readForm(c, "process-steps")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.CreateProcessStep(c.Request.Context(), values), true)
}

func (h *Handler) updateProcessStep(c *gin.Context) {
	values, err := h.readForm(c, "process-steps")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateProcessStep(c.Request.Context(), c.Param("id"), values), false)
}

func (h *Handler) deleteProcessStep(c *gin.Context) {
	writeResult(c, h.actions.DeleteProcessStep(c.Request.Context(), c.Param("id")), false)
}

// Videos

func (h *Handler) adminGetVideo(c *gin.Context) {
	v := h.query.GetVideoByID(c.Request.Context(), c.Param("id"))
	if v == nil {
		notFound(c, "video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "video": v})
}

func (h *Handler) createVideo(c *gin.Context) {
	values, err := h.readForm(c, "videos", "thumbnail")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.CreateVideo(c.Request.Context(), values), true)
}

func (h *Handler) updateVideo(c *gin.Context) {
	values, err := h.readForm(c, "videos", "thumbnail")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateVideo(c.Request.Context(), c.Param("id"), values), false)
}

func (h *Handler) deleteVideo(c *gin.Context) {
	writeResult(c, h.actions.DeleteVideo(c.Request.Context(), c.Param("id")), false)
}

// Site content

// putContent replaces a whole section with the JSON object in the body.
func (h *Handler) putContent(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	doc, err := actions.ParseDocument(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	writeResult(c, h.actions.UpdateSiteContent(c.Request.Context(), strings.TrimSpace(c.Param("key")), doc), false)
}

func (h *Handler) updateHero(c *gin.Context) {
	values, err := h.readForm(c, "content", "background_image")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateHeroContent(c.Request.Context(), values), false)
}

func (h *Handler) updateAbout(c *gin.Context) {
	values, err := h.readForm(c, "content", "image")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateAboutContent(c.Request.Context(), values), false)
}

func (h *Handler) updateContact(c *gin.Context) {
	values, err := h.readForm(c, "content")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateContactInfo(c.Request.Context(), values), false)
}

func (h *Handler) updateFooter(c *gin.Context) {
	values, err := h.readForm(c, "content")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateFooterContent(c.Request.Context(), values), false)
}

func (h *Handler) updateStats(c *gin.Context) {
	values, err := h.readForm(c, "content")
	if formFailed(c, err) {
		return
	}
	writeResult(c, h.actions.UpdateStatsContent(c.Request.Context(), values), false)
}

// Uploads

var uploadFolders = map[string]bool{
	"projects":     true,
	"services":     true,
	"testimonials": true,
	"videos":       true,
	"content":      true,
	"uploads":      true,
}

func (h *Handler) upload(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "uploads are not configured"})
		return
	}
	folder := strings.TrimSpace(c.DefaultPostForm("folder", "uploads"))
	if !uploadFolders[folder] {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown folder"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unreadable file"})
		return
	}
	defer f.Close()

	obj, err := h.uploader.Upload(c.Request.Context(), folder, f)
	switch {
	case errors.Is(err, blob.ErrTooLarge), errors.Is(err, blob.ErrUnsupportedType):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
		return
	case err != nil:
		logging.New(c.Request.Context()).Error("content.upload", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to store upload"})
		return
	}
	logging.New(c.Request.Context()).Infof("content.upload", "key=%s size=%d", obj.Key, obj.Size)
	c.JSON(http.StatusCreated, gin.H{"ok": true, "file": obj})
}
