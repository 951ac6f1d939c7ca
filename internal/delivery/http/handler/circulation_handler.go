package handler

import (
	"net/http"

	"library-nexus/internal/usecase/circulation"
	"library-nexus/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CirculationHandler struct {
	service *circulation.Service
}

func NewCirculationHandler(service *circulation.Service) *CirculationHandler {
	return &CirculationHandler{service: service}
}

// RegisterStaffRoutes wires the circulation desk operations.
func (h *CirculationHandler) RegisterStaffRoutes(router *gin.RouterGroup) {
	circ := router.Group("/circulation")
	{
		circ.POST("/issue", h.Issue)
		circ.POST("/retrieve/:loan_id", h.Retrieve)
		circ.POST("/extend/:loan_id", h.Extend)
		circ.POST("/update-overdue", h.SweepOverdue)
		circ.GET("/loans", h.ListLoans)
		circ.GET("/loans/extendable", h.ExtendableLoans)
		circ.GET("/loans/:loan_id", h.GetLoan)
	}
}

func (h *CirculationHandler) Issue(c *gin.Context) {
	var req circulation.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Issue(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Book issued successfully", resp)
}

func (h *CirculationHandler) Retrieve(c *gin.Context) {
	loanID, ok := parseUUIDParam(c, "loan_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid loan id")
		return
	}

	var req circulation.RetrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Retrieve(c.Request.Context(), loanID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Book retrieved successfully", resp)
}

func (h *CirculationHandler) Extend(c *gin.Context) {
	loanID, ok := parseUUIDParam(c, "loan_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid loan id")
		return
	}

	resp, err := h.service.Extend(c.Request.Context(), loanID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Loan extended successfully", resp)
}

func (h *CirculationHandler) SweepOverdue(c *gin.Context) {
	changed, err := h.service.SweepOverdue(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Overdue status updated", gin.H{"updated": changed})
}

func (h *CirculationHandler) GetLoan(c *gin.Context) {
	loanID, ok := parseUUIDParam(c, "loan_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid loan id")
		return
	}

	resp, err := h.service.GetLoan(c.Request.Context(), loanID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Loan retrieved", resp)
}

func (h *CirculationHandler) ExtendableLoans(c *gin.Context) {
	resp, err := h.service.ListExtendable(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Extendable loans retrieved", resp)
}

func (h *CirculationHandler) ListLoans(c *gin.Context) {
	req := &circulation.ListLoansRequest{
		Status:     c.Query("status"),
		ActiveOnly: c.Query("active") == "true",
		Search:     c.Query("search"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 0),
	}

	if raw := c.Query("book_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid book id")
			return
		}
		req.BookID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
			return
		}
		req.UserID = &id
	}

	resp, err := h.service.ListLoans(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Loans retrieved", resp)
}
