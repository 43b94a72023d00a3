package services

import (
	"context"
	"errors"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/validator"
)

// adminService resolves wallets to console operators.
type adminService struct {
	store repository.AdminStore
}

// NewAdminService creates a new AdminServicer.
func NewAdminService(store repository.AdminStore) AdminServicer {
	return &adminService{store: store}
}

// ResolveAdmin returns the active admin for wallet. Checksummed and
// lower-case forms of the same address resolve to the same admin.
func (s *adminService) ResolveAdmin(ctx context.Context, wallet string) (*models.Admin, error) {
	if wallet == "" {
		return nil, apperrors.ErrUnauthorized
	}
	wallet, ok := validator.NormalizeWallet(wallet)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	admin, err := s.store.GetAdminByWallet(ctx, wallet)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrNotAdmin
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return admin, nil
}

// Authorize resolves wallet and checks that its role ranks at least required.
func (s *adminService) Authorize(ctx context.Context, wallet string, required models.AdminRole) (*models.Admin, error) {
	admin, err := s.ResolveAdmin(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if !models.HasPermission(admin.Role, required) {
		return nil, apperrors.ErrInsufficientRole
	}
	return admin, nil
}

// Verify reports whether wallet is an active admin. A non-admin is a
// normal answer, not an error.
func (s *adminService) Verify(ctx context.Context, wallet string) (*AdminVerification, error) {
	if wallet == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet is required")
	}
	normalized, ok := validator.NormalizeWallet(wallet)
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet must be a 0x-prefixed 20-byte hex address")
	}

	admin, err := s.store.GetAdminByWallet(ctx, normalized)
	if errors.Is(err, repository.ErrNotFound) {
		return &AdminVerification{IsAdmin: false}, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &AdminVerification{
		IsAdmin: true,
		Admin:   &VerifiedAdmin{ID: admin.ID, Role: admin.Role, Name: admin.Name},
	}, nil
}

// ListLogs returns a page of the audit log.
func (s *adminService) ListLogs(ctx context.Context, filter repository.AdminLogFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AdminLog], error) {
	page.Defaults()
	logs, total, err := s.store.ListAdminLogs(ctx, filter, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	resp := pagination.NewPageResponse(logs, page.Page, page.PageSize, total)
	return &resp, nil
}
