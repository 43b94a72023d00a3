package services

import (
	"context"
	"math/big"
	"sync"

	"rwaconsole/internal/models"
	"rwaconsole/internal/repository"

	"gorm.io/gorm"
)

// fakeBalanceReader returns configured balances per token. Tokens listed in
// fail return an error.
type fakeBalanceReader struct {
	mu       sync.Mutex
	balances map[string]*big.Int
	fail     map[string]error
	calls    int
}

func (f *fakeBalanceReader) BalanceOf(_ context.Context, token, _ string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.fail[token]; ok {
		return nil, err
	}
	if b, ok := f.balances[token]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

// fakeTokenReader serves fixed token metadata and claimable amounts.
// decimals defaults to 18.
type fakeTokenReader struct {
	amount      *big.Int
	err         error
	decimals    *uint8
	decimalsErr error
	supply      *big.Int
	supplyErr   error
}

var _ TokenReader = (*fakeTokenReader)(nil)

func (f *fakeTokenReader) ClaimableYield(context.Context, string, string) (*big.Int, error) {
	return f.amount, f.err
}

func (f *fakeTokenReader) Decimals(context.Context, string) (uint8, error) {
	if f.decimalsErr != nil {
		return 0, f.decimalsErr
	}
	if f.decimals != nil {
		return *f.decimals, nil
	}
	return 18, nil
}

func (f *fakeTokenReader) TotalSupply(context.Context, string) (*big.Int, error) {
	return f.supply, f.supplyErr
}

// tokens returns n shares expressed in 18-decimal base units.
func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func newStore(db *gorm.DB) repository.Store {
	return repository.NewGormStore(db)
}

func countAdminLogs(db *gorm.DB, action string) int64 {
	var n int64
	db.Model(&models.AdminLog{}).Where("action = ?", action).Count(&n)
	return n
}
