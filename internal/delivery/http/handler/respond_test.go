package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainBook "library-nexus/internal/domain/book"
	domainCirc "library-nexus/internal/domain/circulation"
	domainUser "library-nexus/internal/domain/user"
	appErrors "library-nexus/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"book not found", domainBook.ErrBookNotFound, http.StatusNotFound},
		{"loan not found", domainCirc.ErrLoanNotFound, http.StatusNotFound},
		{"book already issued", domainCirc.ErrBookAlreadyIssued, http.StatusBadRequest},
		{"loan already closed", domainCirc.ErrLoanAlreadyClosed, http.StatusBadRequest},
		{"extension limit", domainCirc.ErrExtensionLimit, http.StatusBadRequest},
		{"duplicate username", domainUser.ErrUserAlreadyExists, http.StatusBadRequest},
		{"invalid credentials", appErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"insufficient permissions", appErrors.ErrInsufficientPermissions, http.StatusForbidden},
		{"reset token expired", domainUser.ErrResetTokenExpired, http.StatusBadRequest},
		{"unrecognized error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req, err := http.NewRequest(http.MethodGet, "/catalog", nil)
			require.NoError(t, err)
			c.Request = req

			respondWithError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
