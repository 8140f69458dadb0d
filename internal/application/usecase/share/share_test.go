package share

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/persistence"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

const ownerEmail = "owner@example.com"

type fixture struct {
	walletRepo adapter.WalletRepository
	shareRepo  adapter.WalletShareRepository
	owner      uuid.UUID
	wallet     *entity.Wallet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	f := &fixture{
		walletRepo: persistence.NewWalletRepository(db),
		shareRepo:  persistence.NewWalletShareRepository(db),
		owner:      uuid.New(),
	}
	f.wallet = entity.NewWallet(f.owner, "Household", "USD", "")
	require.NoError(t, f.walletRepo.CreateWithCategories(context.Background(), f.wallet, nil))
	return f
}

func (f *fixture) invite(t *testing.T, email string, permission entity.SharePermission) *entity.WalletShare {
	t.Helper()
	out, err := NewInviteToWalletUseCase(f.walletRepo, f.shareRepo).Execute(context.Background(), InviteToWalletInput{
		WalletID:     f.wallet.ID,
		InviterID:    f.owner,
		InviterEmail: ownerEmail,
		Email:        email,
		Permission:   permission,
	})
	require.NoError(t, err)
	return out.Share
}

func shareCode(t *testing.T, err error) domainerror.ShareErrorCode {
	t.Helper()
	var shareErr *domainerror.ShareError
	require.ErrorAs(t, err, &shareErr)
	return shareErr.Code
}

func TestInviteToWalletUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to view and normalizes the email", func(t *testing.T) {
		f := newFixture(t)

		share := f.invite(t, "  Friend@Example.COM ", "")

		assert.Equal(t, "friend@example.com", share.Email)
		assert.Equal(t, entity.SharePermissionView, share.Permission)
		assert.True(t, share.IsPending())
		assert.Nil(t, share.UserID)
		assert.Equal(t, f.owner, share.InvitedBy)
	})

	t.Run("same email twice", func(t *testing.T) {
		f := newFixture(t)
		f.invite(t, "friend@example.com", entity.SharePermissionView)

		_, err := NewInviteToWalletUseCase(f.walletRepo, f.shareRepo).Execute(ctx, InviteToWalletInput{
			WalletID: f.wallet.ID, InviterID: f.owner, InviterEmail: ownerEmail,
			Email: "FRIEND@example.com", Permission: entity.SharePermissionEdit,
		})
		assert.Equal(t, domainerror.ErrCodeWalletAlreadyShared, shareCode(t, err))
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newFixture(t)

		_, err := NewInviteToWalletUseCase(f.walletRepo, f.shareRepo).Execute(ctx, InviteToWalletInput{
			WalletID: f.wallet.ID, InviterID: uuid.New(), InviterEmail: "other@example.com",
			Email: "friend@example.com",
		})
		assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet))
	})

	invalid := []struct {
		name  string
		input InviteToWalletInput
		code  domainerror.ShareErrorCode
	}{
		{"bad email", InviteToWalletInput{Email: "not-an-email"}, domainerror.ErrCodeInvalidShareEmail},
		{"bad permission", InviteToWalletInput{Email: "friend@example.com", Permission: "ADMIN"}, domainerror.ErrCodeInvalidSharePermission},
		{"self", InviteToWalletInput{Email: "Owner@Example.com"}, domainerror.ErrCodeCannotShareWithSelf},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.input.WalletID = f.wallet.ID
			tt.input.InviterID = f.owner
			tt.input.InviterEmail = ownerEmail

			_, err := NewInviteToWalletUseCase(f.walletRepo, f.shareRepo).Execute(ctx, tt.input)
			assert.Equal(t, tt.code, shareCode(t, err))
		})
	}
}

func TestRespondToInvitationUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("accepting grants the invited permission", func(t *testing.T) {
		f := newFixture(t)
		share := f.invite(t, "friend@example.com", entity.SharePermissionEdit)
		friend := uuid.New()

		invitations, err := NewListInvitationsUseCase(f.walletRepo, f.shareRepo).Execute(ctx, ListInvitationsInput{Email: "Friend@example.com"})
		require.NoError(t, err)
		require.Len(t, invitations.Invitations, 1)
		assert.Equal(t, "Household", invitations.Invitations[0].Wallet.Name)

		_, err = access.RequireWallet(ctx, f.walletRepo, f.wallet.ID, friend, entity.SharePermissionView)
		assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet), "pending share grants nothing")

		out, err := NewRespondToInvitationUseCase(f.shareRepo).Execute(ctx, RespondToInvitationInput{
			ShareID: share.ID, UserID: friend, Email: "friend@example.com", Accept: true,
		})
		require.NoError(t, err)
		require.NotNil(t, out.Share)
		assert.Equal(t, entity.ShareStatusAccepted, out.Share.Status)
		require.NotNil(t, out.Share.UserID)
		assert.Equal(t, friend, *out.Share.UserID)

		_, err = access.RequireWallet(ctx, f.walletRepo, f.wallet.ID, friend, entity.SharePermissionEdit)
		assert.NoError(t, err)

		shared, err := f.walletRepo.FindShared(ctx, friend)
		require.NoError(t, err)
		require.Len(t, shared, 1)
		assert.Equal(t, f.wallet.ID, shared[0].ID)

		invitations, err = NewListInvitationsUseCase(f.walletRepo, f.shareRepo).Execute(ctx, ListInvitationsInput{Email: "friend@example.com"})
		require.NoError(t, err)
		assert.Empty(t, invitations.Invitations)

		_, err = NewRespondToInvitationUseCase(f.shareRepo).Execute(ctx, RespondToInvitationInput{
			ShareID: share.ID, UserID: friend, Email: "friend@example.com", Accept: true,
		})
		assert.Equal(t, domainerror.ErrCodeInvitationNotFound, shareCode(t, err), "already answered")
	})

	t.Run("viewer cannot edit", func(t *testing.T) {
		f := newFixture(t)
		share := f.invite(t, "viewer@example.com", entity.SharePermissionView)
		viewer := uuid.New()

		_, err := NewRespondToInvitationUseCase(f.shareRepo).Execute(ctx, RespondToInvitationInput{
			ShareID: share.ID, UserID: viewer, Email: "viewer@example.com", Accept: true,
		})
		require.NoError(t, err)

		_, err = access.RequireWallet(ctx, f.walletRepo, f.wallet.ID, viewer, entity.SharePermissionView)
		assert.NoError(t, err)
		_, err = access.RequireWallet(ctx, f.walletRepo, f.wallet.ID, viewer, entity.SharePermissionEdit)
		assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet))
	})

	t.Run("declining removes the invitation", func(t *testing.T) {
		f := newFixture(t)
		share := f.invite(t, "friend@example.com", "")

		out, err := NewRespondToInvitationUseCase(f.shareRepo).Execute(ctx, RespondToInvitationInput{
			ShareID: share.ID, UserID: uuid.New(), Email: "friend@example.com", Accept: false,
		})
		require.NoError(t, err)
		assert.Nil(t, out.Share)

		_, err = f.shareRepo.FindByID(ctx, share.ID)
		assert.True(t, errors.Is(err, domainerror.ErrShareNotFound))

		// The owner can invite again after a decline.
		f.invite(t, "friend@example.com", "")
	})

	t.Run("addressed to someone else", func(t *testing.T) {
		f := newFixture(t)
		share := f.invite(t, "friend@example.com", "")

		_, err := NewRespondToInvitationUseCase(f.shareRepo).Execute(ctx, RespondToInvitationInput{
			ShareID: share.ID, UserID: uuid.New(), Email: "intruder@example.com", Accept: true,
		})
		assert.Equal(t, domainerror.ErrCodeInvitationNotFound, shareCode(t, err))
	})

	t.Run("unknown invitation", func(t *testing.T) {
		f := newFixture(t)

		_, err := NewRespondToInvitationUseCase(f.shareRepo).Execute(ctx, RespondToInvitationInput{
			ShareID: uuid.New(), UserID: uuid.New(), Email: "friend@example.com", Accept: true,
		})
		assert.True(t, errors.Is(err, domainerror.ErrInvitationNotFound))
	})
}

func TestRemoveAccessUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes an accepted share", func(t *testing.T) {
		f := newFixture(t)
		share := f.invite(t, "friend@example.com", entity.SharePermissionEdit)
		friend := uuid.New()
		_, err := NewRespondToInvitationUseCase(f.shareRepo).Execute(ctx, RespondToInvitationInput{
			ShareID: share.ID, UserID: friend, Email: "friend@example.com", Accept: true,
		})
		require.NoError(t, err)

		shares, err := NewListSharesUseCase(f.walletRepo, f.shareRepo).Execute(ctx, ListSharesInput{WalletID: f.wallet.ID, UserID: f.owner})
		require.NoError(t, err)
		require.Len(t, shares, 1)

		err = NewRemoveAccessUseCase(f.walletRepo, f.shareRepo).Execute(ctx, RemoveAccessInput{
			WalletID: f.wallet.ID, ShareID: share.ID, UserID: f.owner,
		})
		require.NoError(t, err)

		_, err = access.RequireWallet(ctx, f.walletRepo, f.wallet.ID, friend, entity.SharePermissionView)
		assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet))
	})

	t.Run("editors cannot manage shares", func(t *testing.T) {
		f := newFixture(t)
		share := f.invite(t, "friend@example.com", entity.SharePermissionEdit)
		friend := uuid.New()
		_, err := NewRespondToInvitationUseCase(f.shareRepo).Execute(ctx, RespondToInvitationInput{
			ShareID: share.ID, UserID: friend, Email: "friend@example.com", Accept: true,
		})
		require.NoError(t, err)

		_, err = NewListSharesUseCase(f.walletRepo, f.shareRepo).Execute(ctx, ListSharesInput{WalletID: f.wallet.ID, UserID: friend})
		assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet))

		err = NewRemoveAccessUseCase(f.walletRepo, f.shareRepo).Execute(ctx, RemoveAccessInput{
			WalletID: f.wallet.ID, ShareID: share.ID, UserID: friend,
		})
		assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet))
	})

	t.Run("share of another wallet", func(t *testing.T) {
		f := newFixture(t)
		other := entity.NewWallet(f.owner, "Other", "USD", "")
		require.NoError(t, f.walletRepo.CreateWithCategories(ctx, other, nil))
		share := f.invite(t, "friend@example.com", "")

		err := NewRemoveAccessUseCase(f.walletRepo, f.shareRepo).Execute(ctx, RemoveAccessInput{
			WalletID: other.ID, ShareID: share.ID, UserID: f.owner,
		})
		assert.Equal(t, domainerror.ErrCodeShareNotFound, shareCode(t, err))

		_, err = f.shareRepo.FindByID(ctx, share.ID)
		assert.NoError(t, err)
	})
}
