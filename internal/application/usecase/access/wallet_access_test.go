package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

type walletRepoStub struct {
	wallet      *entity.Wallet
	err         error
	permissions map[uuid.UUID]entity.SharePermission
	shareErr    error
}

func (s *walletRepoStub) CreateWithCategories(context.Context, *entity.Wallet, []*entity.Category) error {
	return nil
}

func (s *walletRepoStub) FindByID(context.Context, uuid.UUID) (*entity.Wallet, error) {
	return s.wallet, s.err
}

func (s *walletRepoStub) FindByUser(context.Context, uuid.UUID) ([]*entity.Wallet, error) {
	return nil, nil
}

func (s *walletRepoStub) FindShared(context.Context, uuid.UUID) ([]*entity.Wallet, error) {
	return nil, nil
}

func (s *walletRepoStub) FindSharePermission(_ context.Context, _ uuid.UUID, userID uuid.UUID) (entity.SharePermission, error) {
	return s.permissions[userID], s.shareErr
}

func (s *walletRepoStub) CountByUser(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *walletRepoStub) Update(context.Context, *entity.Wallet) error { return nil }

func (s *walletRepoStub) Delete(context.Context, uuid.UUID) error { return nil }

func TestRequireOwnedWallet(t *testing.T) {
	owner := uuid.New()
	wallet := entity.NewWallet(owner, "Main", "", "")

	t.Run("owner", func(t *testing.T) {
		got, err := RequireOwnedWallet(context.Background(), &walletRepoStub{wallet: wallet}, wallet.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, wallet.ID, got.ID)
	})

	t.Run("other user", func(t *testing.T) {
		_, err := RequireOwnedWallet(context.Background(), &walletRepoStub{wallet: wallet}, wallet.ID, uuid.New())

		var walletErr *domainerror.WalletError
		require.ErrorAs(t, err, &walletErr)
		assert.Equal(t, domainerror.ErrCodeNotAuthorizedWallet, walletErr.Code)
	})

	t.Run("editor is still not the owner", func(t *testing.T) {
		editor := uuid.New()
		repo := &walletRepoStub{wallet: wallet, permissions: map[uuid.UUID]entity.SharePermission{editor: entity.SharePermissionEdit}}

		_, err := RequireOwnedWallet(context.Background(), repo, wallet.ID, editor)
		assert.ErrorIs(t, err, domainerror.ErrNotAuthorizedToAccessWallet)
	})

	t.Run("missing wallet", func(t *testing.T) {
		_, err := RequireOwnedWallet(context.Background(), &walletRepoStub{err: domainerror.ErrWalletNotFound}, uuid.New(), owner)
		assert.ErrorIs(t, err, domainerror.ErrWalletNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		_, err := RequireOwnedWallet(context.Background(), &walletRepoStub{err: boom}, uuid.New(), owner)
		assert.ErrorIs(t, err, boom)
	})
}

func TestRequireWallet(t *testing.T) {
	owner := uuid.New()
	viewer := uuid.New()
	editor := uuid.New()
	wallet := entity.NewWallet(owner, "Main", "", "")
	repo := &walletRepoStub{
		wallet: wallet,
		permissions: map[uuid.UUID]entity.SharePermission{
			viewer: entity.SharePermissionView,
			editor: entity.SharePermissionEdit,
		},
	}

	tests := []struct {
		name     string
		userID   uuid.UUID
		required entity.SharePermission
		allowed  bool
	}{
		{"owner edits", owner, entity.SharePermissionEdit, true},
		{"viewer reads", viewer, entity.SharePermissionView, true},
		{"viewer cannot edit", viewer, entity.SharePermissionEdit, false},
		{"editor reads", editor, entity.SharePermissionView, true},
		{"editor edits", editor, entity.SharePermissionEdit, true},
		{"stranger reads", uuid.New(), entity.SharePermissionView, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireWallet(context.Background(), repo, wallet.ID, tt.userID, tt.required)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, wallet.ID, got.ID)
				return
			}

			var walletErr *domainerror.WalletError
			require.ErrorAs(t, err, &walletErr)
			assert.Equal(t, domainerror.ErrCodeNotAuthorizedWallet, walletErr.Code)
		})
	}

	t.Run("share lookup failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		_, err := RequireWallet(context.Background(), &walletRepoStub{wallet: wallet, shareErr: boom}, wallet.ID, viewer, entity.SharePermissionView)
		assert.ErrorIs(t, err, boom)
	})
}
