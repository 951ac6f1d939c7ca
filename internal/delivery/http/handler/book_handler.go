package handler

import (
	"net/http"

	"library-nexus/internal/usecase/book"
	"library-nexus/pkg/utils"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	service *book.Service
}

func NewBookHandler(service *book.Service) *BookHandler {
	return &BookHandler{service: service}
}

// RegisterPublicRoutes wires read-only catalog access for anonymous readers.
func (h *BookHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	books := router.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/:book_id", h.GetBook)
		books.GET("/acc/:acc_no", h.GetBookByAccNo)
		books.GET("/filters/subjects", h.Subjects)
		books.GET("/filters/languages", h.Languages)
	}
}

// RegisterStaffRoutes wires catalog additions for librarians and admins.
func (h *BookHandler) RegisterStaffRoutes(router *gin.RouterGroup) {
	books := router.Group("/books")
	{
		books.POST("", h.CreateBook)
	}
}

// RegisterAdminRoutes wires record corrections and removals, which stay
// admin-only.
func (h *BookHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	books := router.Group("/books")
	{
		books.PUT("/:book_id", h.UpdateBook)
		books.DELETE("/:book_id", h.DeleteBook)
	}
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	var req book.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateBook(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Book created successfully", resp)
}

func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, ok := parseUUIDParam(c, "book_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid book id")
		return
	}

	resp, err := h.service.GetBook(c.Request.Context(), bookID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Book retrieved", resp)
}

// GetBookByAccNo looks a book up by the accession number printed on its
// spine label.
func (h *BookHandler) GetBookByAccNo(c *gin.Context) {
	accNo := c.Param("acc_no")
	if accNo == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid accession number")
		return
	}

	resp, err := h.service.GetBookByAccNo(c.Request.Context(), accNo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Book retrieved", resp)
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	req := &book.ListBooksRequest{
		Search:   c.Query("search"),
		Subject:  c.Query("subject"),
		Language: c.Query("language"),
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	}

	resp, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Books retrieved", resp)
}

func (h *BookHandler) UpdateBook(c *gin.Context) {
	bookID, ok := parseUUIDParam(c, "book_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid book id")
		return
	}

	var req book.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateBook(c.Request.Context(), bookID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Book updated successfully", resp)
}

func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID, ok := parseUUIDParam(c, "book_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid book id")
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), bookID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Book deleted successfully", nil)
}

func (h *BookHandler) Subjects(c *gin.Context) {
	subjects, err := h.service.Subjects(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subjects retrieved", subjects)
}

func (h *BookHandler) Languages(c *gin.Context) {
	languages, err := h.service.Languages(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Languages retrieved", languages)
}
