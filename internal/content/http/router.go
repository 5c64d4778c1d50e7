package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the read-only site routes.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/projects", h.listProjects)
	rg.GET("/projects/featured", h.featuredProjects)
	rg.GET("/projects/category/:category", h.projectsByCategory)
	rg.GET("/projects/:slug", h.getProject)
	rg.GET("/projects/:slug/related", h.relatedProjects)

	rg.GET("/services", h.listServices)
	rg.GET("/testimonials", h.listTestimonials)
	rg.GET("/process-steps", h.listProcessSteps)
	rg.GET("/videos", h.listVideos)
	rg.GET("/videos/category/:category", h.videosByCategory)

	rg.GET("/content", h.allContent)
	rg.GET("/content/:key", h.getContent)
	rg.GET("/pages/*page", h.page)
}

// RegisterAdmin attaches the editor routes. The group must already carry an
// admin guard.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/projects", h.adminListProjects)
	rg.GET("/projects/:id", h.adminGetProject)
	rg.POST("/projects", h.createProject)
	rg.PUT("/projects/:id", h.updateProject)
	rg.DELETE("/projects/:id", h.deleteProject)

	rg.GET("/services/:id", h.adminGetService)
	rg.POST("/services", h.createService)
	rg.PUT("/services/:id", h.updateService)
	rg.DELETE("/services/:id", h.deleteService)

	rg.GET("/testimonials/:id", h.adminGetTestimonial)
	rg.POST("/testimonials", h.createTestimonial)
	rg.PUT("/testimonials/:id", h.updateTestimonial)
	rg.DELETE("/testimonials/:id", h.deleteTestimonial)

	rg.GET("/process-steps/:id", h.adminGetProcessStep)
	rg.POST("/process-steps", h.createProcessStep)
	rg.PUT("/process-steps/:id", h.updateProcessStep)
	rg.DELETE("/process-steps/:id", h.deleteProcessStep)

	rg.GET("/videos/:id", h.adminGetVideo)
	rg.POST("/videos", h.createVideo)
	rg.PUT("/videos/:id", h.updateVideo)
	rg.DELETE("/videos/:id", h.deleteVideo)

	rg.PUT("/content/:key", h.putContent)
	rg.POST("/content/hero", h.updateHero)
	rg.POST("/content/about", h.updateAbout)
	rg.POST("/content/contact", h.updateContact)
	rg.POST("/content/footer", h.updateFooter)
	rg.POST("/content/stats", h.updateStats)

	rg.POST("/uploads", h.upload)
}
