package services

import (
	"context"
	"errors"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
)

// userService handles user lookup and admin user management.
type userService struct {
	store repository.UserStore
	audit AuditServicer
}

// NewUserService creates a new UserServicer.
func NewUserService(store repository.UserStore, audit AuditServicer) UserServicer {
	return &userService{store: store, audit: audit}
}

// EnsureUser returns the user for wallet, creating it on first contact.
func (s *userService) EnsureUser(ctx context.Context, wallet string) (*models.User, error) {
	if wallet == "" {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.store.EnsureUser(ctx, wallet)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// ListUsers returns a page of users.
func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()
	users, total, err := s.store.ListUsers(ctx, filter, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	resp := pagination.NewPageResponse(users, page.Page, page.PageSize, total)
	return &resp, nil
}

// SetFrozen freezes or unfreezes a user.
func (s *userService) SetFrozen(ctx context.Context, actor Actor, userID string, frozen bool) (*models.User, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateUser(ctx, userID, map[string]interface{}{"is_frozen": frozen}); err != nil {
		return nil, s.mapErr(err)
	}

	action := "unfreeze_user"
	if frozen {
		action = "freeze_user"
	}
	s.audit.Log(ctx, actor, action, "user", userID, map[string]interface{}{"frozen": frozen})

	return s.getUser(ctx, userID)
}

// SetKYCStatus changes a user's KYC state.
func (s *userService) SetKYCStatus(ctx context.Context, actor Actor, userID string, status models.KYCStatus) (*models.User, error) {
	if !status.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid kyc status")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := user.KYCStatus

	if err := s.store.UpdateUser(ctx, userID, map[string]interface{}{"kyc_status": status}); err != nil {
		return nil, s.mapErr(err)
	}

	s.audit.Log(ctx, actor, "update_kyc", "user", userID, map[string]interface{}{
		"old_status": previous,
		"new_status": status,
	})

	return s.getUser(ctx, userID)
}

func (s *userService) getUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return user, nil
}

func (s *userService) mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
