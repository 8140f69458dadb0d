package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/application/usecase/share"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// ShareController handles wallet sharing and invitation endpoints.
type ShareController struct {
	inviteUseCase          *share.InviteToWalletUseCase
	listSharesUseCase      *share.ListSharesUseCase
	removeAccessUseCase    *share.RemoveAccessUseCase
	listInvitationsUseCase *share.ListInvitationsUseCase
	respondUseCase         *share.RespondToInvitationUseCase
}

// NewShareController creates a new share controller instance.
func NewShareController(
	inviteUseCase *share.InviteToWalletUseCase,
	listSharesUseCase *share.ListSharesUseCase,
	removeAccessUseCase *share.RemoveAccessUseCase,
	listInvitationsUseCase *share.ListInvitationsUseCase,
	respondUseCase *share.RespondToInvitationUseCase,
) *ShareController {
	return &ShareController{
		inviteUseCase:          inviteUseCase,
		listSharesUseCase:      listSharesUseCase,
		removeAccessUseCase:    removeAccessUseCase,
		listInvitationsUseCase: listInvitationsUseCase,
		respondUseCase:         respondUseCase,
	}
}

// Invite handles POST /wallets/:id/shares requests.
func (c *ShareController) Invite(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	email, ok := requireUserEmail(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	var req dto.InviteToWalletRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeInvalidShareEmail),
			Details: err.Error(),
		})
		return
	}

	output, err := c.inviteUseCase.Execute(ctx.Request.Context(), share.InviteToWalletInput{
		WalletID:     walletID,
		InviterID:    userID,
		InviterEmail: email,
		Email:        req.Email,
		Permission:   entity.SharePermission(req.Permission),
	})
	if err != nil {
		c.handleShareError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToShareResponse(output.Share))
}

// List handles GET /wallets/:id/shares requests.
func (c *ShareController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	shares, err := c.listSharesUseCase.Execute(ctx.Request.Context(), share.ListSharesInput{
		WalletID: walletID,
		UserID:   userID,
	})
	if err != nil {
		c.handleShareError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToShareListResponse(shares))
}

// Remove handles DELETE /wallets/:id/shares/:shareId requests.
func (c *ShareController) Remove(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}
	shareID, ok := parseIDParam(ctx, "shareId", "share")
	if !ok {
		return
	}

	if err := c.removeAccessUseCase.Execute(ctx.Request.Context(), share.RemoveAccessInput{
		WalletID: walletID,
		ShareID:  shareID,
		UserID:   userID,
	}); err != nil {
		c.handleShareError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListInvitations handles GET /invitations requests.
func (c *ShareController) ListInvitations(ctx *gin.Context) {
	email, ok := requireUserEmail(ctx)
	if !ok {
		return
	}

	output, err := c.listInvitationsUseCase.Execute(ctx.Request.Context(), share.ListInvitationsInput{Email: email})
	if err != nil {
		internalError(ctx)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvitationListResponse(output.Invitations))
}

// Respond handles POST /invitations/:id/respond requests. A declined invitation is
// removed and answered with 204.
func (c *ShareController) Respond(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	email, ok := requireUserEmail(ctx)
	if !ok {
		return
	}
	shareID, ok := parseIDParam(ctx, "id", "invitation")
	if !ok {
		return
	}

	var req dto.RespondToInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	output, err := c.respondUseCase.Execute(ctx.Request.Context(), share.RespondToInvitationInput{
		ShareID: shareID,
		UserID:  userID,
		Email:   email,
		Accept:  *req.Accept,
	})
	if err != nil {
		c.handleShareError(ctx, err)
		return
	}

	if output.Share == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToShareResponse(output.Share))
}

func (c *ShareController) handleShareError(ctx *gin.Context, err error) {
	if handleWalletError(ctx, err) {
		return
	}

	var shareErr *domainerror.ShareError
	if errors.As(err, &shareErr) {
		ctx.JSON(getStatusCodeForShareError(shareErr.Code), dto.ErrorResponse{
			Error: shareErr.Message,
			Code:  string(shareErr.Code),
		})
		return
	}

	internalError(ctx)
}

// getStatusCodeForShareError maps share error codes to HTTP status codes.
func getStatusCodeForShareError(code domainerror.ShareErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidShareEmail,
		domainerror.ErrCodeInvalidSharePermission,
		domainerror.ErrCodeCannotShareWithSelf:
		return http.StatusBadRequest
	case domainerror.ErrCodeWalletAlreadyShared:
		return http.StatusConflict
	case domainerror.ErrCodeInvitationNotFound,
		domainerror.ErrCodeShareNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
