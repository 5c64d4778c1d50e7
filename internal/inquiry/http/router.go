package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the submission route. limit throttles submissions
// per client and may be nil.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	handlers := []gin.HandlerFunc{h.submit}
	if limit != nil {
		handlers = append([]gin.HandlerFunc{limit}, handlers...)
	}
	rg.POST("/inquiries", handlers...)
}

// RegisterAdmin attaches the inquiry inbox routes.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/inquiries", h.list)
	rg.GET("/inquiries/stats", h.stats)
	rg.GET("/inquiries/:id", h.get)
	rg.PATCH("/inquiries/:id/status", h.updateStatus)
	rg.PATCH("/inquiries/:id/notes", h.updateNotes)
	rg.DELETE("/inquiries/:id", h.delete)
}
