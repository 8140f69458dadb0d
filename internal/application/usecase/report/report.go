// Package report contains wallet report use cases. Reports aggregate live ledger
// entries over an inclusive range of days and are available to anyone who can view
// the wallet.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// Period identifies the wallet and the days a report covers. Both dates are required
// and inclusive.
type Period struct {
	UserID    uuid.UUID
	WalletID  uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// authorize validates the period, checks the user can view the wallet and builds the
// storage filter for it.
func authorize(ctx context.Context, walletRepo adapter.WalletRepository, period Period) (adapter.ReportFilter, error) {
	if period.StartDate.IsZero() || period.EndDate.IsZero() {
		return adapter.ReportFilter{}, domainerror.NewReportError(
			domainerror.ErrCodeInvalidReportRange,
			"start_date and end_date are required",
			domainerror.ErrInvalidReportRange,
		)
	}

	from := valueobject.StartOfDay(period.StartDate)
	to := valueobject.StartOfDay(period.EndDate)
	if to.Before(from) {
		return adapter.ReportFilter{}, domainerror.NewReportError(
			domainerror.ErrCodeInvalidReportRange,
			"end_date must not be before start_date",
			domainerror.ErrInvalidReportRange,
		)
	}

	if _, err := access.RequireWallet(ctx, walletRepo, period.WalletID, period.UserID, entity.SharePermissionView); err != nil {
		return adapter.ReportFilter{}, err
	}

	return adapter.ReportFilter{
		WalletID: period.WalletID,
		From:     from,
		Until:    to.AddDate(0, 0, 1),
	}, nil
}

// categoryIndex maps the wallet's categories by ID.
func categoryIndex(ctx context.Context, categoryRepo adapter.CategoryRepository, walletID uuid.UUID) (map[uuid.UUID]*entity.Category, error) {
	categories, err := categoryRepo.FindByWallet(ctx, walletID, nil)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]*entity.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index, nil
}
