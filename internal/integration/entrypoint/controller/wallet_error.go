package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/middleware"
)

// requireUserEmail returns the authenticated user's email, writing a 401 when the
// token carried none.
func requireUserEmail(ctx *gin.Context) (string, bool) {
	email, ok := middleware.GetUserEmailFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Token carries no email",
			Code:  string(domainerror.ErrCodeInvalidToken),
		})
		return "", false
	}
	return email, true
}

// parseDateRange reads the required start_date and end_date query parameters,
// writing a 400 when either is missing or malformed.
func parseDateRange(ctx *gin.Context) (time.Time, time.Time, bool) {
	start, startErr := parseOptionalDate(ctx.Query("start_date"))
	end, endErr := parseOptionalDate(ctx.Query("end_date"))
	if startErr != nil || endErr != nil || start == nil || end == nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "start_date and end_date are required in YYYY-MM-DD format",
			Code:  string(domainerror.ErrCodeInvalidReportRange),
		})
		return time.Time{}, time.Time{}, false
	}
	return *start, *end, true
}

// requireUser returns the authenticated user ID, writing a 401 when it is absent.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses a UUID path parameter, writing a 400 when it is malformed.
func parseIDParam(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + label + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalDate parses a YYYY-MM-DD value. Empty input yields nil.
func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// handleWalletError writes the response for wallet access errors raised by any use
// case scoped to a wallet. It reports whether err was one.
func handleWalletError(ctx *gin.Context, err error) bool {
	var walletErr *domainerror.WalletError
	if !errors.As(err, &walletErr) {
		return false
	}
	ctx.JSON(getStatusCodeForWalletError(walletErr.Code), dto.ErrorResponse{
		Error: walletErr.Message,
		Code:  string(walletErr.Code),
	})
	return true
}

// getStatusCodeForWalletError maps wallet error codes to HTTP status codes.
func getStatusCodeForWalletError(code domainerror.WalletErrorCode) int {
	switch code {
	case domainerror.ErrCodeWalletNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedWallet:
		return http.StatusForbidden
	case domainerror.ErrCodeMaxWalletsReached,
		domainerror.ErrCodeBalanceMismatch,
		domainerror.ErrCodeWalletHasEntries:
		return http.StatusConflict
	case domainerror.ErrCodeWalletNameRequired,
		domainerror.ErrCodeWalletNameTooLong,
		domainerror.ErrCodeInvalidCurrency:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func internalError(ctx *gin.Context) {
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
