package handler

import (
	"net/http"

	"library-nexus/internal/usecase/user"
	"library-nexus/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPublicRoutes wires the endpoints that need no authentication.
func (h *UserHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/reset-password-with-token", h.ResetPasswordWithToken)
		auth.GET("/check-password-strength", h.CheckPasswordStrength)
	}
}

// RegisterProfileRoutes wires endpoints for any authenticated user.
func (h *UserHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/me", h.GetProfile)
		auth.POST("/change-password", h.ChangePassword)
	}
}

// RegisterAdminRoutes wires the user management endpoints.
func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", h.GetAllUsers)
		users.PUT("/:user_id", h.UpdateUser)
		users.DELETE("/:user_id", h.DeleteUser)
		users.POST("/:user_id/set-password", h.AdminSetPassword)
	}

	reset := router.Group("/auth/admin")
	{
		reset.POST("/generate-reset-token", h.GenerateResetToken)
		reset.GET("/pending-reset-tokens", h.ListPendingTokens)
		reset.DELETE("/revoke-reset-token/:token_id", h.RevokeResetToken)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User created successfully", resp)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved", resp)
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	resp, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Users retrieved", resp)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	targetID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateUser(c.Request.Context(), actorID, targetID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated successfully", resp)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	targetID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), actorID, targetID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	strength, err := h.service.ChangePassword(c.Request.Context(), userID, &req, clientIP(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password changed successfully", strength)
}

func (h *UserHandler) AdminSetPassword(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	targetID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req user.AdminSetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.AdminSetPassword(c.Request.Context(), adminID, targetID, &req, clientIP(c)); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password updated successfully", nil)
}

func (h *UserHandler) GenerateResetToken(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req user.GenerateResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.GenerateResetToken(c.Request.Context(), adminID, &req, clientIP(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Reset token generated", resp)
}

func (h *UserHandler) ResetPasswordWithToken(c *gin.Context) {
	var req user.ResetWithTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ResetPasswordWithToken(c.Request.Context(), &req, clientIP(c)); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password has been reset successfully. You can now login with your new password.", nil)
}

func (h *UserHandler) ListPendingTokens(c *gin.Context) {
	resp, err := h.service.ListPendingTokens(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Pending tokens retrieved", resp)
}

func (h *UserHandler) RevokeResetToken(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	tokenID, ok := parseUUIDParam(c, "token_id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid token id")
		return
	}

	if err := h.service.RevokeToken(c.Request.Context(), adminID, tokenID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reset token has been revoked", nil)
}

func (h *UserHandler) CheckPasswordStrength(c *gin.Context) {
	password := c.Query("password")
	strength := h.service.CheckStrength(password)

	utils.SuccessResponse(c, http.StatusOK, "Password strength evaluated", gin.H{
		"strength": utils.StrengthLabel(strength.Score),
		"score":    strength.Score,
		"feedback": strength.Feedback,
	})
}
