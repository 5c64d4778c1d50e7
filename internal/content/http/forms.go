package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atelier-interiors/cms-backend/internal/blob"
	"github.com/atelier-interiors/cms-backend/internal/content/actions"
)

const maxFormMemory = 32 << 20

// fieldError is an upload problem attributable to one form field.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.field + ": " + e.err.Error() }

const galleryField = "images"

// readForm parses a urlencoded or multipart admin form. Files posted under
// any of imageFields are stored and replaced by their public URL. Files under
// the gallery field are appended to the list instead.
func (h *Handler) readForm(c *gin.Context, folder string, imageFields ...string) (url.Values, error) {
	r := c.Request
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}

	values := url.Values{}
	for k, v := range r.PostForm {
		values[k] = append([]string(nil), v...)
	}
	if r.MultipartForm == nil || h.uploader == nil {
		return values, nil
	}

	ctx := r.Context()
	for _, field := range imageFields {
		files := r.MultipartForm.File[field]
		if field == galleryField {
			for _, file := range files {
				link, err := h.uploader.Resolve(ctx, folder, file, "")
				if err != nil {
					return nil, &fieldError{field: field, err: err}
				}
				values.Add(field, link)
			}
			continue
		}
		if len(files) == 0 {
			continue
		}
		link, err := h.uploader.Resolve(ctx, folder, files[0], values.Get(field))
		if err != nil {
			return nil, &fieldError{field: field, err: err}
		}
		values.Set(field, link)
	}
	return values, nil
}

// formFailed reports a readForm error and reports whether one occurred.
func formFailed(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	var fe *fieldError
	if errors.As(err, &fe) {
		if errors.Is(fe.err, blob.ErrTooLarge) || errors.Is(fe.err, blob.ErrUnsupportedType) || errors.Is(fe.err, blob.ErrInvalidURL) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"ok":      false,
				"error":   "validation failed",
				"details": map[string]string{fe.field: fe.err.Error()},
			})
			return true
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to store upload"})
		return true
	}
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid form"})
	return true
}

func statusFor(code actions.Code, created bool) int {
	switch code {
	case actions.CodeOK:
		if created {
			return http.StatusCreated
		}
		return http.StatusOK
	case actions.CodeInvalid:
		return http.StatusUnprocessableEntity
	case actions.CodeNotFound:
		return http.StatusNotFound
	case actions.CodeForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeResult renders an action result in the usual ok/error envelope.
func writeResult(c *gin.Context, res actions.Result, created bool) {
	body := gin.H{"ok": res.Success}
	if res.ID != "" {
		body["id"] = res.ID
	}
	if res.Error != "" {
		body["error"] = res.Error
	}
	if len(res.Details) > 0 {
		body["details"] = res.Details
	}
	c.JSON(statusFor(res.Code, created), body)
}
