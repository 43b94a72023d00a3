// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"rwaconsole/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("wallet_address", validateWalletAddress)
		_ = v.RegisterValidation("tx_hash", validateTxHash)
		_ = v.RegisterValidation("kyc_status", validateKYCStatus)
		_ = v.RegisterValidation("asset_type", validateAssetType)
		_ = v.RegisterValidation("asset_status", validateAssetStatus)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("transaction_status", validateTransactionStatus)
		_ = v.RegisterValidation("balance_tx_type", validateBalanceTxType)
	}
}

// NormalizeWallet lower-cases a hex wallet address. It returns false if s is
// not a 20-byte hex address.
func NormalizeWallet(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return "", false
	}
	return strings.ToLower(s), true
}

// IsTxHash reports whether s looks like a 32-byte 0x-prefixed hash.
func IsTxHash(s string) bool {
	if len(s) != 66 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

func validateWalletAddress(fl validator.FieldLevel) bool {
	_, ok := NormalizeWallet(fl.Field().String())
	return ok
}

func validateTxHash(fl validator.FieldLevel) bool {
	return IsTxHash(fl.Field().String())
}

func validateKYCStatus(fl validator.FieldLevel) bool {
	return models.KYCStatus(fl.Field().String()).IsValid()
}

func validateAssetType(fl validator.FieldLevel) bool {
	return models.AssetType(fl.Field().String()).IsValid()
}

func validateAssetStatus(fl validator.FieldLevel) bool {
	return models.AssetStatus(fl.Field().String()).IsValid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).IsValid()
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	return models.TransactionStatus(fl.Field().String()).IsValid()
}

// validateBalanceTxType accepts the movements a wallet may request directly.
// Recharges have their own endpoint.
func validateBalanceTxType(fl validator.FieldLevel) bool {
	switch models.BalanceTransactionType(fl.Field().String()) {
	case models.BalanceTxInvest, models.BalanceTxRedeem, models.BalanceTxYield:
		return true
	}
	return false
}
