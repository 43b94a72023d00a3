package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rwaconsole/internal/config"
	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/logger"
	"rwaconsole/internal/middleware"
	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/services"
	"rwaconsole/internal/validator"
)

const (
	testWallet  = "0x1111111111111111111111111111111111111111"
	adminWallet = "0x2222222222222222222222222222222222222222"
	superWallet = "0x3333333333333333333333333333333333333333"
)

// --- mock admin service ---

type mockAdminService struct {
	roles      map[string]models.AdminRole
	verifyFn   func(ctx context.Context, wallet string) (*services.AdminVerification, error)
	listLogsFn func(ctx context.Context, filter repository.AdminLogFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AdminLog], error)
}

func newMockAdminService() *mockAdminService {
	return &mockAdminService{roles: map[string]models.AdminRole{
		adminWallet: models.AdminRoleAdmin,
		superWallet: models.AdminRoleSuperAdmin,
	}}
}

func (m *mockAdminService) ResolveAdmin(_ context.Context, wallet string) (*models.Admin, error) {
	role, ok := m.roles[wallet]
	if !ok {
		return nil, apperrors.ErrNotAdmin
	}
	return &models.Admin{Base: models.Base{ID: "admin-" + wallet[2:6]}, WalletAddress: wallet, Role: role, IsActive: true}, nil
}

func (m *mockAdminService) Authorize(ctx context.Context, wallet string, required models.AdminRole) (*models.Admin, error) {
	admin, err := m.ResolveAdmin(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if !models.HasPermission(admin.Role, required) {
		return nil, apperrors.ErrInsufficientRole
	}
	return admin, nil
}

func (m *mockAdminService) Verify(ctx context.Context, wallet string) (*services.AdminVerification, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, wallet)
	}
	return &services.AdminVerification{}, nil
}

func (m *mockAdminService) ListLogs(ctx context.Context, filter repository.AdminLogFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AdminLog], error) {
	if m.listLogsFn != nil {
		return m.listLogsFn(ctx, filter, page)
	}
	resp := pagination.NewPageResponse([]models.AdminLog{}, 1, 20, 0)
	return &resp, nil
}

var _ services.AdminServicer = (*mockAdminService)(nil)

// --- mock user service ---

type mockUserService struct {
	listUsersFn    func(ctx context.Context, filter repository.UserFilter, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	setFrozenFn    func(ctx context.Context, actor services.Actor, userID string, frozen bool) (*models.User, error)
	setKYCStatusFn func(ctx context.Context, actor services.Actor, userID string, status models.KYCStatus) (*models.User, error)
}

func (m *mockUserService) EnsureUser(_ context.Context, wallet string) (*models.User, error) {
	return &models.User{WalletAddress: wallet}, nil
}

func (m *mockUserService) ListUsers(ctx context.Context, filter repository.UserFilter, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx, filter, page)
	}
	resp := pagination.NewPageResponse([]models.User{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockUserService) SetFrozen(ctx context.Context, actor services.Actor, userID string, frozen bool) (*models.User, error) {
	if m.setFrozenFn != nil {
		return m.setFrozenFn(ctx, actor, userID, frozen)
	}
	return nil, nil
}

func (m *mockUserService) SetKYCStatus(ctx context.Context, actor services.Actor, userID string, status models.KYCStatus) (*models.User, error) {
	if m.setKYCStatusFn != nil {
		return m.setKYCStatusFn(ctx, actor, userID, status)
	}
	return nil, nil
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- mock stats service ---

type mockStatsService struct {
	stats *services.DashboardStats
	err   error
}

func (m *mockStatsService) GetDashboardStats(context.Context) (*services.DashboardStats, error) {
	return m.stats, m.err
}

var _ services.StatsServicer = (*mockStatsService)(nil)

// --- mock asset service ---

type mockAssetService struct {
	listAssetsFn     func(ctx context.Context, filter repository.AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	getAdminAssetFn  func(ctx context.Context, id string) (*services.AdminAssetDetail, error)
	getAssetDetailFn func(ctx context.Context, id, wallet string) (*services.AssetDetail, error)
	createAssetFn    func(ctx context.Context, actor services.Actor, input services.CreateAssetInput) (*models.Asset, error)
	updateAssetFn    func(ctx context.Context, actor services.Actor, id string, updates map[string]interface{}) (*models.Asset, error)
	deleteAssetFn    func(ctx context.Context, actor services.Actor, id string) error
}

func (m *mockAssetService) ListAssets(ctx context.Context, filter repository.AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	if m.listAssetsFn != nil {
		return m.listAssetsFn(ctx, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Asset{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAssetService) GetAdminAsset(ctx context.Context, id string) (*services.AdminAssetDetail, error) {
	if m.getAdminAssetFn != nil {
		return m.getAdminAssetFn(ctx, id)
	}
	return nil, apperrors.ErrAssetNotFound
}

func (m *mockAssetService) GetAssetDetail(ctx context.Context, id, wallet string) (*services.AssetDetail, error) {
	if m.getAssetDetailFn != nil {
		return m.getAssetDetailFn(ctx, id, wallet)
	}
	return nil, apperrors.ErrAssetNotFound
}

func (m *mockAssetService) CreateAsset(ctx context.Context, actor services.Actor, input services.CreateAssetInput) (*models.Asset, error) {
	if m.createAssetFn != nil {
		return m.createAssetFn(ctx, actor, input)
	}
	return nil, nil
}

func (m *mockAssetService) UpdateAsset(ctx context.Context, actor services.Actor, id string, updates map[string]interface{}) (*models.Asset, error) {
	if m.updateAssetFn != nil {
		return m.updateAssetFn(ctx, actor, id, updates)
	}
	return nil, nil
}

func (m *mockAssetService) DeleteAsset(ctx context.Context, actor services.Actor, id string) error {
	if m.deleteAssetFn != nil {
		return m.deleteAssetFn(ctx, actor, id)
	}
	return nil
}

var _ services.AssetServicer = (*mockAssetService)(nil)

// --- mock balance service ---

type mockBalanceService struct {
	getBalanceFn  func(ctx context.Context, wallet string) (*services.BalanceSummary, error)
	rechargeFn    func(ctx context.Context, wallet string, amount decimal.Decimal) (*services.BalanceChange, error)
	applyChangeFn func(ctx context.Context, wallet string, txType models.BalanceTransactionType, amount decimal.Decimal, note string) (*services.BalanceChange, error)
}

func (m *mockBalanceService) GetBalance(ctx context.Context, wallet string) (*services.BalanceSummary, error) {
	if m.getBalanceFn != nil {
		return m.getBalanceFn(ctx, wallet)
	}
	return &services.BalanceSummary{WalletAddress: wallet}, nil
}

func (m *mockBalanceService) Recharge(ctx context.Context, wallet string, amount decimal.Decimal) (*services.BalanceChange, error) {
	if m.rechargeFn != nil {
		return m.rechargeFn(ctx, wallet, amount)
	}
	return nil, nil
}

func (m *mockBalanceService) ApplyChange(ctx context.Context, wallet string, txType models.BalanceTransactionType, amount decimal.Decimal, note string) (*services.BalanceChange, error) {
	if m.applyChangeFn != nil {
		return m.applyChangeFn(ctx, wallet, txType, amount, note)
	}
	return nil, nil
}

var _ services.BalanceServicer = (*mockBalanceService)(nil)

// --- mock sync service ---

type mockSyncService struct {
	syncWalletFn    func(ctx context.Context, wallet string) (*services.SyncResult, error)
	getSyncStatusFn func(ctx context.Context, wallet string) ([]services.HoldingSyncStatus, error)
	syncAllFn       func(ctx context.Context) (*services.SyncAllResult, error)
}

func (m *mockSyncService) SyncWallet(ctx context.Context, wallet string) (*services.SyncResult, error) {
	if m.syncWalletFn != nil {
		return m.syncWalletFn(ctx, wallet)
	}
	return &services.SyncResult{Success: true, Updates: []services.HoldingUpdate{}}, nil
}

func (m *mockSyncService) GetSyncStatus(ctx context.Context, wallet string) ([]services.HoldingSyncStatus, error) {
	if m.getSyncStatusFn != nil {
		return m.getSyncStatusFn(ctx, wallet)
	}
	return []services.HoldingSyncStatus{}, nil
}

func (m *mockSyncService) SyncAll(ctx context.Context) (*services.SyncAllResult, error) {
	if m.syncAllFn != nil {
		return m.syncAllFn(ctx)
	}
	return &services.SyncAllResult{}, nil
}

var _ services.SyncServicer = (*mockSyncService)(nil)

// --- mock transaction service ---

type mockTransactionService struct {
	createFn       func(ctx context.Context, wallet string, input services.CreateTransactionInput) (*models.Transaction, error)
	updateFn       func(ctx context.Context, wallet, id string, input services.UpdateTransactionInput) (*models.Transaction, error)
	updateByHashFn func(ctx context.Context, wallet, hash string, input services.UpdateTransactionInput) (*models.Transaction, error)
	listFn         func(ctx context.Context, wallet string, filter repository.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	getFn          func(ctx context.Context, wallet, id string) (*models.Transaction, error)
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, wallet string, input services.CreateTransactionInput) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(ctx, wallet, input)
	}
	return nil, nil
}

func (m *mockTransactionService) UpdateTransaction(ctx context.Context, wallet, id string, input services.UpdateTransactionInput) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, wallet, id, input)
	}
	return nil, nil
}

func (m *mockTransactionService) UpdateTransactionByHash(ctx context.Context, wallet, hash string, input services.UpdateTransactionInput) (*models.Transaction, error) {
	if m.updateByHashFn != nil {
		return m.updateByHashFn(ctx, wallet, hash, input)
	}
	return nil, nil
}

func (m *mockTransactionService) ListTransactions(ctx context.Context, wallet string, filter repository.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.listFn != nil {
		return m.listFn(ctx, wallet, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransaction(ctx context.Context, wallet, id string) (*models.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(ctx, wallet, id)
	}
	return nil, apperrors.ErrTransactionNotFound
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

// --- mock auth service ---

type mockAuthService struct {
	createSessionFn func(ctx context.Context, address, message, signature string) (*services.Session, error)
}

func (m *mockAuthService) CreateSession(ctx context.Context, address, message, signature string) (*services.Session, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, address, message, signature)
	}
	return nil, apperrors.ErrInvalidSignature
}

func (m *mockAuthService) ParseSession(string) (string, error) {
	return "", apperrors.ErrInvalidSession
}

var _ services.AuthServicer = (*mockAuthService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// walletGroup returns a route group that requires X-Wallet-Address.
func walletGroup(r *gin.Engine) *gin.RouterGroup {
	return r.Group("", middleware.WalletAuth(config.WalletAuthHeader, nil))
}

// adminGroup returns a route group restricted to admins ranked at least minRole.
func adminGroup(r *gin.Engine, admins *mockAdminService, minRole models.AdminRole) *gin.RouterGroup {
	return r.Group("", middleware.WalletAuth(config.WalletAuthHeader, nil), middleware.RequireAdmin(admins, minRole))
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	return doWalletRequest(r, method, path, "", body)
}

func doWalletRequest(r *gin.Engine, method, path, wallet, body string) *httptest.ResponseRecorder {
	req := newRequest(method, path, body)
	if wallet != "" {
		req.Header.Set(middleware.WalletHeader, wallet)
	}
	return serve(r, req)
}

func newRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
