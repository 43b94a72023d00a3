package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/testutil"
)

func TestUpdateAsset(t *testing.T) {
	ctx := context.Background()

	t.Run("ignores_unknown_keys", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)
		asset := testutil.CreateTestAsset(t, db)
		admin := testutil.CreateTestAdmin(t, db, models.AdminRoleAdmin)

		got, err := svc.UpdateAsset(ctx, Actor{AdminID: admin.ID, Role: admin.Role}, asset.ID, map[string]interface{}{
			"name": "Renamed",
			"aum":  999,
			"id":   "hijack",
		})
		testutil.AssertNoError(t, err)
		if got.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", got.Name)
		}
		if !got.AUM.Equal(asset.AUM) {
			t.Errorf("aum should be unchanged, got %s", got.AUM)
		}
		if got.ID != asset.ID {
			t.Errorf("id should be unchanged, got %s", got.ID)
		}
		if countAdminLogs(db, "update_asset") != 1 {
			t.Error("expected an update_asset log")
		}
	})

	t.Run("no_allowed_keys", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)
		asset := testutil.CreateTestAsset(t, db)

		_, err := svc.UpdateAsset(ctx, Actor{}, asset.ID, map[string]interface{}{"aum": 1})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		var n int64
		db.Model(&models.AdminLog{}).Count(&n)
		if n != 0 {
			t.Errorf("expected no admin log, got %d", n)
		}
	})

	t.Run("status_actions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)
		asset := testutil.CreateTestAsset(t, db)
		admin := testutil.CreateTestAdmin(t, db, models.AdminRoleAdmin)
		actor := Actor{AdminID: admin.ID, Role: admin.Role}

		got, err := svc.UpdateAsset(ctx, actor, asset.ID, map[string]interface{}{"status": "Paused"})
		testutil.AssertNoError(t, err)
		if got.Status != models.AssetStatusPaused {
			t.Errorf("expected Paused, got %s", got.Status)
		}
		_, err = svc.UpdateAsset(ctx, actor, asset.ID, map[string]interface{}{"status": "Active"})
		testutil.AssertNoError(t, err)

		if countAdminLogs(db, "pause_asset") != 1 || countAdminLogs(db, "activate_asset") != 1 {
			t.Error("expected pause_asset and activate_asset logs")
		}
	})

	t.Run("invalid_values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)
		asset := testutil.CreateTestAsset(t, db)

		tests := []struct {
			name    string
			updates map[string]interface{}
		}{
			{"unknown_status", map[string]interface{}{"status": "Closed"}},
			{"negative_price", map[string]interface{}{"price": -1.0}},
			{"score_out_of_range", map[string]interface{}{"risk_score": 101.0}},
			{"fractional_score", map[string]interface{}{"yield_confidence": 50.5}},
			{"bad_token_address", map[string]interface{}{"token_address": "0x123"}},
			{"bad_payout_date", map[string]interface{}{"next_payout_date": "tomorrow"}},
			{"empty_name", map[string]interface{}{"name": "  "}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.UpdateAsset(ctx, Actor{}, asset.ID, tt.updates)
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			})
		}
	})

	t.Run("clears_token_address", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)
		asset := testutil.CreateTestOnChainAsset(t, db)

		got, err := svc.UpdateAsset(ctx, Actor{}, asset.ID, map[string]interface{}{"token_address": nil})
		testutil.AssertNoError(t, err)
		if got.IsOnChain() {
			t.Error("expected token address cleared")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)

		_, err := svc.UpdateAsset(ctx, Actor{}, "missing", map[string]interface{}{"name": "x"})
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})
}

func TestDeleteAsset(t *testing.T) {
	ctx := context.Background()

	t.Run("has_holdings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db)
		testutil.CreateTestHolding(t, db, user.ID, asset.ID, decimal.NewFromInt(1))
		admin := testutil.CreateTestAdmin(t, db, models.AdminRoleSuperAdmin)

		err := svc.DeleteAsset(ctx, Actor{AdminID: admin.ID, Role: admin.Role}, asset.ID)
		testutil.AssertAppError(t, err, "ASSET_HAS_HOLDINGS")
		if countAdminLogs(db, "delete_asset") != 0 {
			t.Error("expected no delete_asset log")
		}
	})

	t.Run("requires_super_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)
		asset := testutil.CreateTestAsset(t, db)

		err := svc.DeleteAsset(ctx, Actor{Role: models.AdminRoleAdmin}, asset.ID)
		testutil.AssertAppError(t, err, "INSUFFICIENT_ROLE")
	})

	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)
		asset := testutil.CreateTestAsset(t, db)
		admin := testutil.CreateTestAdmin(t, db, models.AdminRoleSuperAdmin)

		err := svc.DeleteAsset(ctx, Actor{AdminID: admin.ID, Role: admin.Role}, asset.ID)
		testutil.AssertNoError(t, err)

		if _, err := store.GetAsset(ctx, asset.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected asset deleted, got %v", err)
		}
		if countAdminLogs(db, "delete_asset") != 1 {
			t.Error("expected a delete_asset log")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)

		err := svc.DeleteAsset(ctx, Actor{Role: models.AdminRoleSuperAdmin}, "missing")
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})
}

func TestCreateAsset(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := newStore(db)
	svc := NewAssetService(store, NewAuditService(store), nil, nil)
	admin := testutil.CreateTestAdmin(t, db, models.AdminRoleAdmin)
	actor := Actor{AdminID: admin.ID, Role: admin.Role}

	token := "0xAbCdEf0000000000000000000000000000000001"
	asset, err := svc.CreateAsset(ctx, actor, CreateAssetInput{
		Name:         "T-Bill 2027",
		Type:         models.AssetTypeTreasury,
		APY:          4.8,
		Price:        decimal.NewFromInt(1),
		TokenAddress: &token,
	})
	testutil.AssertNoError(t, err)
	if asset.Status != models.AssetStatusActive {
		t.Errorf("expected default Active status, got %s", asset.Status)
	}
	if *asset.TokenAddress != "0xabcdef0000000000000000000000000000000001" {
		t.Errorf("expected lower-cased token address, got %s", *asset.TokenAddress)
	}
	if countAdminLogs(db, "create_asset") != 1 {
		t.Error("expected a create_asset log")
	}

	_, err = svc.CreateAsset(ctx, actor, CreateAssetInput{Name: "Bad", Type: "bond"})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestGetAssetDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), nil, nil)
		asset := testutil.CreateTestAsset(t, db)

		detail, err := svc.GetAssetDetail(ctx, asset.ID, "")
		testutil.AssertNoError(t, err)
		if detail.Position != nil {
			t.Error("expected no position without a wallet")
		}
	})

	t.Run("with_position_and_yield", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), &fakeTokenReader{amount: tokens(3)}, nil)

		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db)
		distributor := testutil.NewWallet()
		db.Model(asset).Update("distributor_address", distributor)
		testutil.CreateTestHolding(t, db, user.ID, asset.ID, decimal.NewFromInt(4))
		testutil.CreateTestTransaction(t, db, user.ID, asset.ID, models.TransactionTypeInvest)

		detail, err := svc.GetAssetDetail(ctx, asset.ID, user.WalletAddress)
		testutil.AssertNoError(t, err)
		if detail.Position == nil {
			t.Fatal("expected a position")
		}
		if !detail.Position.Value.Equal(decimal.NewFromInt(40)) {
			t.Errorf("expected value 40, got %s", detail.Position.Value)
		}
		if detail.Position.ClaimableYield == nil || !detail.Position.ClaimableYield.Equal(decimal.NewFromInt(3)) {
			t.Errorf("expected claimable yield 3, got %v", detail.Position.ClaimableYield)
		}
		if len(detail.Transactions) != 1 {
			t.Errorf("expected 1 recent transaction, got %d", len(detail.Transactions))
		}
	})

	t.Run("yield_read_fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		svc := NewAssetService(store, NewAuditService(store), &fakeTokenReader{err: errors.New("reverted")}, nil)

		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db)
		db.Model(asset).Update("distributor_address", testutil.NewWallet())

		detail, err := svc.GetAssetDetail(ctx, asset.ID, user.WalletAddress)
		testutil.AssertNoError(t, err)
		if detail.Position == nil || detail.Position.ClaimableYield != nil {
			t.Errorf("expected position without claimable yield, got %+v", detail.Position)
		}
	})
}

func TestListAssets_StatusFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := newStore(db)
	svc := NewAssetService(store, NewAuditService(store), nil, nil)

	testutil.CreateTestAsset(t, db)
	paused := testutil.CreateTestAsset(t, db)
	db.Model(paused).Update("status", models.AssetStatusPaused)

	resp, err := svc.ListAssets(context.Background(), repository.AssetFilter{
		Statuses: []models.AssetStatus{models.AssetStatusActive, models.AssetStatusMaturing},
	}, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if resp.TotalItems != 1 {
		t.Errorf("expected 1 listed asset, got %d", resp.TotalItems)
	}
}

func TestGetAdminAsset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := newStore(db)
	svc := NewAssetService(store, NewAuditService(store), nil, nil)

	asset := testutil.CreateTestAsset(t, db)
	for i := 0; i < 2; i++ {
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestHolding(t, db, user.ID, asset.ID, decimal.NewFromInt(1))
	}

	detail, err := svc.GetAdminAsset(context.Background(), asset.ID)
	testutil.AssertNoError(t, err)
	if detail.HolderCount != 2 {
		t.Errorf("expected 2 holders, got %d", detail.HolderCount)
	}
}

func TestAssetTokenDecimals(t *testing.T) {
	ctx := context.Background()
	six := uint8(6)
	token := "0x00000000000000000000000000000000000000aa"

	tests := []struct {
		name    string
		reader  *fakeTokenReader
		errCode string
	}{
		{"eighteen_decimals", &fakeTokenReader{}, ""},
		{"six_decimals", &fakeTokenReader{decimals: &six}, "INVALID_INPUT"},
		{"read_fails", &fakeTokenReader{decimalsErr: errors.New("no code at address")}, "CHAIN_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			store := newStore(db)
			svc := NewAssetService(store, NewAuditService(store), tt.reader, nil)

			tok := token
			_, err := svc.CreateAsset(ctx, Actor{}, CreateAssetInput{
				Name:         "Warehouse Notes",
				Type:         models.AssetTypePrivateCredit,
				TokenAddress: &tok,
			})

			existing := testutil.CreateTestAsset(t, db)
			_, updErr := svc.UpdateAsset(ctx, Actor{}, existing.ID, map[string]interface{}{"token_address": token})

			var created int64
			db.Model(&models.Asset{}).Where("name = ?", "Warehouse Notes").Count(&created)
			reloaded, _ := store.GetAsset(ctx, existing.ID)

			if tt.errCode == "" {
				testutil.AssertNoError(t, err)
				testutil.AssertNoError(t, updErr)
				if created != 1 || !reloaded.IsOnChain() {
					t.Errorf("expected token asset to be written")
				}
				return
			}
			testutil.AssertAppError(t, err, tt.errCode)
			testutil.AssertAppError(t, updErr, tt.errCode)
			if created != 0 || reloaded.IsOnChain() {
				t.Errorf("expected no write when the token is rejected")
			}
		})
	}

	t.Run("clearing_token_skips_check", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := newStore(db)
		reader := &fakeTokenReader{decimalsErr: errors.New("rpc down")}
		svc := NewAssetService(store, NewAuditService(store), reader, nil)
		asset := testutil.CreateTestOnChainAsset(t, db)

		_, err := svc.UpdateAsset(ctx, Actor{}, asset.ID, map[string]interface{}{"token_address": nil})
		testutil.AssertNoError(t, err)
	})
}

func TestGetAdminAsset_TotalSupply(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := newStore(db)

	onChain := testutil.CreateTestOnChainAsset(t, db)
	offChain := testutil.CreateTestAsset(t, db)

	svc := NewAssetService(store, NewAuditService(store), &fakeTokenReader{supply: tokens(1500)}, nil)
	detail, err := svc.GetAdminAsset(ctx, onChain.ID)
	testutil.AssertNoError(t, err)
	if detail.TotalSupply == nil {
		t.Fatal("expected total supply for an on-chain asset")
	}
	testutil.AssertDecimal(t, *detail.TotalSupply, "1500", "total supply")

	detail, err = svc.GetAdminAsset(ctx, offChain.ID)
	testutil.AssertNoError(t, err)
	if detail.TotalSupply != nil {
		t.Errorf("expected no supply for an off-chain asset, got %s", detail.TotalSupply)
	}

	failing := NewAssetService(store, NewAuditService(store), &fakeTokenReader{supplyErr: errors.New("reverted")}, nil)
	detail, err = failing.GetAdminAsset(ctx, onChain.ID)
	testutil.AssertNoError(t, err)
	if detail.TotalSupply != nil {
		t.Errorf("expected failed supply read to be omitted")
	}
}
