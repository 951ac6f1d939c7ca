package handler

import (
	"net/http"
	"strconv"

	"library-nexus/internal/usecase/digital"
	"library-nexus/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DigitalHandler struct {
	service *digital.Service
}

func NewDigitalHandler(service *digital.Service) *DigitalHandler {
	return &DigitalHandler{service: service}
}

// RegisterPublicRoutes wires the reading endpoints. They run under optional
// auth: anonymous readers are served, signed-in ones are identified for
// download counting.
func (h *DigitalHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	dl := router.Group("/digital-library")
	{
		dl.GET("", h.List)
		dl.GET("/filters/categories", h.Categories)
		dl.GET("/filters/subjects", h.Subjects)
		dl.GET("/filters/languages", h.Languages)
		dl.GET("/:digital_book_id", h.Get)
		dl.GET("/:digital_book_id/view", h.View)
		dl.GET("/:digital_book_id/download", h.Download)
	}
}

// RegisterStaffRoutes wires upload and metadata edits.
func (h *DigitalHandler) RegisterStaffRoutes(router *gin.RouterGroup) {
	dl := router.Group("/digital-library")
	{
		dl.POST("", h.Upload)
		dl.PUT("/:digital_book_id", h.Update)
		dl.POST("/links", h.CreateLink)
		dl.DELETE("/links/:link_id", h.DeleteLink)
		dl.GET("/stats", h.Stats)
	}
}

// RegisterAdminRoutes wires destructive operations.
func (h *DigitalHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	dl := router.Group("/digital-library")
	{
		dl.DELETE("/:digital_book_id", h.Delete)
	}
}

// Upload accepts a multipart form: the file plus metadata fields.
func (h *DigitalHandler) Upload(c *gin.Context) {
	uploaderID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "File is required")
		return
	}

	req := &digital.UploadRequest{
		Title:       c.PostForm("title"),
		Author:      c.PostForm("author"),
		Publisher:   optionalForm(c, "publisher"),
		ISBN:        optionalForm(c, "isbn"),
		Subject:     optionalForm(c, "subject"),
		Description: optionalForm(c, "description"),
		Language:    c.PostForm("language"),
		Category:    optionalForm(c, "category"),
		Tags:        optionalForm(c, "tags"),
	}
	if raw := c.PostForm("publication_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid publication year")
			return
		}
		req.PublicationYear = &year
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	resp, err := h.service.Upload(c.Request.Context(), uploaderID, req, fileHeader.Filename, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Digital book uploaded successfully", resp)
}

func (h *DigitalHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "digital_book_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid digital book id")
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Digital book retrieved", resp)
}

func (h *DigitalHandler) List(c *gin.Context) {
	req := &digital.ListRequest{
		Search:   c.Query("search"),
		Subject:  c.Query("subject"),
		Category: c.Query("category"),
		Language: c.Query("language"),
		Format:   c.Query("file_format"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	}

	resp, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Digital books retrieved", resp)
}

func (h *DigitalHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "digital_book_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid digital book id")
		return
	}

	var req digital.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Digital book updated successfully", resp)
}

func (h *DigitalHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "digital_book_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid digital book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Digital book deleted successfully", nil)
}

// View streams the file inline for the in-browser reader.
func (h *DigitalHandler) View(c *gin.Context) {
	id, ok := parseUUIDParam(c, "digital_book_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid digital book id")
		return
	}

	content, err := h.service.View(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename="+content.FileName)
	c.Header("Content-Type", content.MediaType)
	c.File(content.Path)
}

// Download serves the file as an attachment. Repeat requests from the same
// caller within the dedup window count once.
func (h *DigitalHandler) Download(c *gin.Context) {
	id, ok := parseUUIDParam(c, "digital_book_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid digital book id")
		return
	}

	callerKey := c.ClientIP()
	if userID, ok := currentUserID(c); ok {
		callerKey = userID.String()
	}

	content, err := h.service.Download(c.Request.Context(), id, callerKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+content.FileName)
	c.Header("Content-Type", content.MediaType)
	c.File(content.Path)
}

func (h *DigitalHandler) Stats(c *gin.Context) {
	resp, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Digital library stats retrieved", resp)
}

func (h *DigitalHandler) Categories(c *gin.Context) {
	values, err := h.service.Categories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Categories retrieved", values)
}

func (h *DigitalHandler) Subjects(c *gin.Context) {
	values, err := h.service.Subjects(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subjects retrieved", values)
}

func (h *DigitalHandler) Languages(c *gin.Context) {
	values, err := h.service.Languages(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Languages retrieved", values)
}

func (h *DigitalHandler) CreateLink(c *gin.Context) {
	var req digital.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateLink(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Link created successfully", resp)
}

func (h *DigitalHandler) DeleteLink(c *gin.Context) {
	linkID, ok := parseUUIDParam(c, "link_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid link id")
		return
	}

	if err := h.service.DeleteLink(c.Request.Context(), linkID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Link deleted successfully", nil)
}

func optionalForm(c *gin.Context, name string) *string {
	if v, ok := c.GetPostForm(name); ok && v != "" {
		return &v
	}
	return nil
}
