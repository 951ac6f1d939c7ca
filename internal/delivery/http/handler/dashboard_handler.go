package handler

import (
	"net/http"

	"library-nexus/internal/usecase/dashboard"
	"library-nexus/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *dashboard.Service
}

func NewDashboardHandler(service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/public/stats", h.PublicStats)
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dash := router.Group("/dashboard")
	{
		dash.GET("/stats", h.GetStats)
		dash.GET("/subject-distribution", h.SubjectDistribution)
	}
}

func (h *DashboardHandler) PublicStats(c *gin.Context) {
	stats, err := h.service.PublicStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Library stats retrieved", stats)
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Dashboard stats retrieved", stats)
}

func (h *DashboardHandler) SubjectDistribution(c *gin.Context) {
	dist, err := h.service.SubjectDistribution(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subject distribution retrieved", dist)
}
