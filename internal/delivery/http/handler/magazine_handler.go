package handler

import (
	"net/http"

	"library-nexus/internal/usecase/magazine"
	"library-nexus/pkg/utils"

	"github.com/gin-gonic/gin"
)

type MagazineHandler struct {
	service *magazine.Service
}

func NewMagazineHandler(service *magazine.Service) *MagazineHandler {
	return &MagazineHandler{service: service}
}

// RegisterPublicRoutes wires the anonymous catalog view.
func (h *MagazineHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/public/magazines", h.ListPublicMagazines)
	router.GET("/public/magazines/:magazine_id/cover", h.ServeCover)
}

// RegisterStaffRoutes wires magazine management for librarians and admins.
func (h *MagazineHandler) RegisterStaffRoutes(router *gin.RouterGroup) {
	router.POST("/vendors", h.CreateVendor)
	router.GET("/vendors", h.ListVendors)

	mags := router.Group("/magazines")
	{
		mags.POST("", h.CreateMagazine)
		mags.GET("", h.ListMagazines)
		mags.GET("/filters/languages", h.Languages)
		mags.GET("/filters/frequencies", h.Frequencies)
		mags.GET("/filters/categories", h.Categories)
		mags.PUT("/:magazine_id", h.UpdateMagazine)
		mags.POST("/:magazine_id/cover", h.UploadCover)
		mags.POST("/issues", h.LogIssue)
		mags.GET("/:magazine_id/issues", h.ListIssues)
	}
}

func (h *MagazineHandler) CreateVendor(c *gin.Context) {
	var req magazine.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateVendor(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Vendor created successfully", resp)
}

func (h *MagazineHandler) ListVendors(c *gin.Context) {
	resp, err := h.service.ListVendors(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vendors retrieved", resp)
}

func (h *MagazineHandler) CreateMagazine(c *gin.Context) {
	var req magazine.CreateMagazineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateMagazine(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Magazine created successfully", resp)
}

func (h *MagazineHandler) ListMagazines(c *gin.Context) {
	resp, err := h.service.ListMagazines(c.Request.Context(), h.listRequest(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Magazines retrieved", resp)
}

// ListPublicMagazines serves the reader-facing catalog: active titles with
// their latest received issue.
func (h *MagazineHandler) ListPublicMagazines(c *gin.Context) {
	req := h.listRequest(c)
	req.ActiveOnly = true

	resp, err := h.service.ListMagazinesWithLatestIssue(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Magazines retrieved", resp)
}

func (h *MagazineHandler) UpdateMagazine(c *gin.Context) {
	magazineID, ok := parseUUIDParam(c, "magazine_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid magazine id")
		return
	}

	var req magazine.UpdateMagazineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateMagazine(c.Request.Context(), magazineID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Magazine updated successfully", resp)
}

func (h *MagazineHandler) UploadCover(c *gin.Context) {
	magazineID, ok := parseUUIDParam(c, "magazine_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid magazine id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Cover image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	defer file.Close()

	resp, err := h.service.UploadCover(c.Request.Context(), magazineID, fileHeader.Filename, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cover image uploaded successfully", resp)
}

func (h *MagazineHandler) ServeCover(c *gin.Context) {
	magazineID, ok := parseUUIDParam(c, "magazine_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid magazine id")
		return
	}

	path, mediaType, err := h.service.CoverFile(c.Request.Context(), magazineID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Type", mediaType)
	c.File(path)
}

func (h *MagazineHandler) LogIssue(c *gin.Context) {
	var req magazine.LogIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.LogIssue(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Magazine issue logged successfully", resp)
}

func (h *MagazineHandler) ListIssues(c *gin.Context) {
	magazineID, ok := parseUUIDParam(c, "magazine_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid magazine id")
		return
	}

	resp, err := h.service.ListIssues(c.Request.Context(), magazineID, queryInt(c, "limit", 0))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Magazine issues retrieved", resp)
}

func (h *MagazineHandler) Languages(c *gin.Context) {
	values, err := h.service.Languages(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Languages retrieved", values)
}

func (h *MagazineHandler) Frequencies(c *gin.Context) {
	values, err := h.service.Frequencies(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Frequencies retrieved", values)
}

func (h *MagazineHandler) Categories(c *gin.Context) {
	values, err := h.service.Categories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Categories retrieved", values)
}

func (h *MagazineHandler) listRequest(c *gin.Context) *magazine.ListMagazinesRequest {
	return &magazine.ListMagazinesRequest{
		Search:     c.Query("search"),
		Language:   c.Query("language"),
		Frequency:  c.Query("frequency"),
		Category:   c.Query("category"),
		ActiveOnly: c.Query("active") == "true",
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 0),
	}
}
