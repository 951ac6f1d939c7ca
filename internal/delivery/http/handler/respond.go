package handler

import (
	"errors"
	"net/http"

	domainBook "library-nexus/internal/domain/book"
	domainCirc "library-nexus/internal/domain/circulation"
	domainDigital "library-nexus/internal/domain/digital"
	domainMagazine "library-nexus/internal/domain/magazine"
	domainUser "library-nexus/internal/domain/user"
	"library-nexus/internal/logger"
	"library-nexus/internal/middleware"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondWithError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged with the request id.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domainUser.ErrUserNotFound),
		errors.Is(err, appErrors.ErrUserNotFound),
		errors.Is(err, domainBook.ErrBookNotFound),
		errors.Is(err, domainCirc.ErrLoanNotFound),
		errors.Is(err, domainDigital.ErrBookNotFound),
		errors.Is(err, domainDigital.ErrLinkNotFound),
		errors.Is(err, domainDigital.ErrFileMissing),
		errors.Is(err, domainMagazine.ErrVendorNotFound),
		errors.Is(err, domainMagazine.ErrMagazineNotFound),
		errors.Is(err, domainMagazine.ErrIssueNotFound),
		errors.Is(err, domainMagazine.ErrCoverNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())

	// Duplicates and invalid transitions answer 400 with the reason, the
	// same shape as every other rejected request.
	case errors.Is(err, domainUser.ErrUserAlreadyExists),
		errors.Is(err, appErrors.ErrUserAlreadyExists),
		errors.Is(err, domainBook.ErrBookAlreadyExists),
		errors.Is(err, domainCirc.ErrBookAlreadyIssued),
		errors.Is(err, domainCirc.ErrLoanAlreadyClosed),
		errors.Is(err, domainCirc.ErrExtensionLimit),
		errors.Is(err, domainBook.ErrBookIssued),
		errors.Is(err, domainUser.ErrUserHasActiveLoans),
		errors.Is(err, domainDigital.ErrLinkExists),
		errors.Is(err, domainMagazine.ErrVendorAlreadyExists):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, utils.ErrInvalidToken),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, appErrors.ErrUserInactive),
		errors.Is(err, domainUser.ErrUserInactive),
		errors.Is(err, appErrors.ErrInsufficientPermissions):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())

	case errors.Is(err, domainUser.ErrResetTokenInvalid),
		errors.Is(err, domainUser.ErrResetTokenExpired),
		errors.Is(err, domainUser.ErrResetTokenUsed),
		errors.Is(err, appErrors.ErrWeakPassword),
		errors.Is(err, appErrors.ErrPasswordReused),
		errors.Is(err, domainDigital.ErrInvalidFormat):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())

	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case "SELF_DELETE", "SELF_DEACTIVATE", "SELF_DEMOTE":
				utils.ErrorResponse(c, http.StatusForbidden, appErr.Message)
			case "USER_INACTIVE":
				utils.ErrorResponse(c, http.StatusForbidden, appErr.Message)
			default:
				utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			}
			return
		}

		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
