package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/application/usecase/wallet"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// WalletController handles wallet endpoints.
type WalletController struct {
	createUseCase *wallet.CreateWalletUseCase
	listUseCase   *wallet.ListWalletsUseCase
	getUseCase    *wallet.GetWalletUseCase
	updateUseCase *wallet.UpdateWalletUseCase
	deleteUseCase *wallet.DeleteWalletUseCase
	verifyUseCase *wallet.VerifyBalanceUseCase
}

// NewWalletController creates a new wallet controller instance.
func NewWalletController(
	createUseCase *wallet.CreateWalletUseCase,
	listUseCase *wallet.ListWalletsUseCase,
	getUseCase *wallet.GetWalletUseCase,
	updateUseCase *wallet.UpdateWalletUseCase,
	deleteUseCase *wallet.DeleteWalletUseCase,
	verifyUseCase *wallet.VerifyBalanceUseCase,
) *WalletController {
	return &WalletController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		verifyUseCase: verifyUseCase,
	}
}

// Create handles POST /wallets requests.
func (c *WalletController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateWalletRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeWalletNameRequired),
			Details: err.Error(),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), wallet.CreateWalletInput{
		UserID:      userID,
		Name:        req.Name,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToWalletResponse(output.Wallet, userID))
}

// List handles GET /wallets requests.
func (c *WalletController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), wallet.ListWalletsInput{UserID: userID})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve wallets",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToWalletListResponse(output.Wallets, userID))
}

// Get handles GET /wallets/:id requests.
func (c *WalletController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	w, err := c.getUseCase.Execute(ctx.Request.Context(), wallet.GetWalletInput{
		UserID:   userID,
		WalletID: walletID,
	})
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToWalletResponse(w, userID))
}

// Update handles PATCH /wallets/:id requests.
func (c *WalletController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	var req dto.UpdateWalletRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	w, err := c.updateUseCase.Execute(ctx.Request.Context(), wallet.UpdateWalletInput{
		UserID:      userID,
		WalletID:    walletID,
		Name:        req.Name,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToWalletResponse(w, userID))
}

// Delete handles DELETE /wallets/:id requests.
func (c *WalletController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), wallet.DeleteWalletInput{
		UserID:   userID,
		WalletID: walletID,
	}); err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// VerifyBalance handles GET /wallets/:id/balance-check requests.
// A wallet whose cached balance drifted from its ledger is reported with 409.
func (c *WalletController) VerifyBalance(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	check, err := c.verifyUseCase.Execute(ctx.Request.Context(), wallet.VerifyBalanceInput{
		UserID:   userID,
		WalletID: walletID,
	})
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	response := dto.ToBalanceCheckResponse(check)
	if !check.Consistent() {
		response.Code = string(domainerror.ErrCodeBalanceMismatch)
		ctx.JSON(http.StatusConflict, response)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

func (c *WalletController) handleError(ctx *gin.Context, err error) {
	if handleWalletError(ctx, err) {
		return
	}
	internalError(ctx)
}
