package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atelier-interiors/cms-backend/internal/content/actions"
	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/inquiry/service"
	"github.com/atelier-interiors/cms-backend/internal/logging"
)

// readValues accepts either a form post or a flat JSON object.
func readValues(c *gin.Context) (url.Values, error) {
	if c.ContentType() == "application/json" {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, err
		}
		values := url.Values{}
		for k, v := range body {
			values.Set(k, v)
		}
		return values, nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}

func (h *Handler) submit(c *gin.Context) {
	values, err := readValues(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res := h.service.Submit(c.Request.Context(), values)
	body := gin.H{"ok": res.Success}
	switch res.Code {
	case actions.CodeOK:
		body["id"] = res.ID
		if res.ChatURL != "" {
			body["chat_url"] = res.ChatURL
		}
		c.JSON(http.StatusCreated, body)
	case actions.CodeInvalid:
		body["error"] = res.Error
		body["details"] = res.Details
		c.JSON(http.StatusUnprocessableEntity, body)
	case actions.CodeForbidden:
		body["error"] = res.Error
		c.JSON(http.StatusForbidden, body)
	default:
		body["error"] = res.Error
		c.JSON(http.StatusInternalServerError, body)
	}
}

func (h *Handler) list(c *gin.Context) {
	var f domain.InquiryFilter
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st, err := domain.ParseInquiryStatus(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		f.Status = st
	}
	f.Source = domain.InquirySource(strings.TrimSpace(c.Query("source")))
	f.Search = strings.TrimSpace(c.Query("q"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	c.JSON(http.StatusOK, gin.H{"ok": true, "inquiries": h.query.GetInquiries(c.Request.Context(), f)})
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": h.query.GetInquiryStats(c.Request.Context())})
}

func (h *Handler) get(c *gin.Context) {
	q := h.query.GetInquiryByID(c.Request.Context(), c.Param("id"))
	if q == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "inquiry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "inquiry": q})
}

type statusReq struct {
	Status string `json:"status" form:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	q, err := h.service.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, "inquiry.status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "inquiry": q})
}

type notesReq struct {
	Notes string `json:"notes" form:"notes"`
}

func (h *Handler) updateNotes(c *gin.Context) {
	var req notesReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	q, err := h.service.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		h.fail(c, "inquiry.notes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "inquiry": q})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "inquiry.delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// fail maps lifecycle errors onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "inquiry not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, service.ErrNotesTooLong):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrStaleStatus):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to save changes"})
	}
}
