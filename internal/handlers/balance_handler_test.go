package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/models"
	"rwaconsole/internal/services"
)

func setupBalanceRouter(svc *mockBalanceService) *gin.Engine {
	handler := NewBalanceHandler(svc)
	r := gin.New()
	auth := walletGroup(r)
	auth.GET("/balance", handler.GetBalance)
	auth.POST("/balance", handler.ApplyChange)
	auth.POST("/balance/recharge", handler.Recharge)
	return r
}

func TestBalanceHandler_GetBalance(t *testing.T) {
	t.Run("returns the caller balance", func(t *testing.T) {
		svc := &mockBalanceService{
			getBalanceFn: func(_ context.Context, wallet string) (*services.BalanceSummary, error) {
				return &services.BalanceSummary{WalletAddress: wallet, RWABalance: decimal.NewFromInt(250)}, nil
			},
		}
		r := setupBalanceRouter(svc)

		rec := doWalletRequest(r, "GET", "/balance", testWallet, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := parseJSON(t, rec)
		if body["walletAddress"] != testWallet || body["rwaBalance"] != "250" {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("returns 401 without wallet", func(t *testing.T) {
		r := setupBalanceRouter(&mockBalanceService{})

		rec := doRequest(r, "GET", "/balance", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}

func TestBalanceHandler_Recharge(t *testing.T) {
	t.Run("credits the amount", func(t *testing.T) {
		svc := &mockBalanceService{
			rechargeFn: func(_ context.Context, _ string, amount decimal.Decimal) (*services.BalanceChange, error) {
				return &services.BalanceChange{
					Balance: &models.Balance{RWABalance: amount},
					Transaction: &models.BalanceTransaction{
						Type:         models.BalanceTxRecharge,
						Amount:       amount,
						BalanceAfter: amount,
					},
				}, nil
			},
		}
		r := setupBalanceRouter(svc)

		rec := doWalletRequest(r, "POST", "/balance/recharge", testWallet, `{"amount":100.5}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		balance := parseJSON(t, rec)["balance"].(map[string]interface{})
		if balance["rwa_balance"] != "100.5" {
			t.Errorf("expected 100.5, got %v", balance["rwa_balance"])
		}
	})

	t.Run("returns 400 without amount", func(t *testing.T) {
		r := setupBalanceRouter(&mockBalanceService{})

		rec := doWalletRequest(r, "POST", "/balance/recharge", testWallet, `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 403 for frozen user", func(t *testing.T) {
		svc := &mockBalanceService{
			rechargeFn: func(context.Context, string, decimal.Decimal) (*services.BalanceChange, error) {
				return nil, apperrors.ErrUserFrozen
			},
		}
		r := setupBalanceRouter(svc)

		rec := doWalletRequest(r, "POST", "/balance/recharge", testWallet, `{"amount":"10"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "USER_FROZEN")
	})
}

func TestBalanceHandler_ApplyChange(t *testing.T) {
	t.Run("passes type and note", func(t *testing.T) {
		svc := &mockBalanceService{
			applyChangeFn: func(_ context.Context, _ string, txType models.BalanceTransactionType, amount decimal.Decimal, note string) (*services.BalanceChange, error) {
				if txType != models.BalanceTxInvest || note != "T-Bill" {
					t.Errorf("unexpected change %s %q", txType, note)
				}
				return &services.BalanceChange{
					Balance:     &models.Balance{RWABalance: decimal.NewFromInt(90)},
					Transaction: &models.BalanceTransaction{Type: txType, Amount: amount},
				}, nil
			},
		}
		r := setupBalanceRouter(svc)

		rec := doWalletRequest(r, "POST", "/balance", testWallet, `{"type":"invest","amount":"10","note":"T-Bill"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects recharge through the generic endpoint", func(t *testing.T) {
		r := setupBalanceRouter(&mockBalanceService{})

		rec := doWalletRequest(r, "POST", "/balance", testWallet, `{"type":"recharge","amount":"10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on insufficient balance", func(t *testing.T) {
		svc := &mockBalanceService{
			applyChangeFn: func(context.Context, string, models.BalanceTransactionType, decimal.Decimal, string) (*services.BalanceChange, error) {
				return nil, apperrors.ErrInsufficientBalance
			},
		}
		r := setupBalanceRouter(svc)

		rec := doWalletRequest(r, "POST", "/balance", testWallet, `{"type":"invest","amount":"1000"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_BALANCE")
	})
}
