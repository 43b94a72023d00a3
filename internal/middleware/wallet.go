package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"rwaconsole/internal/config"
	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/validator"
)

// WalletHeader carries the caller's wallet address in header mode.
const WalletHeader = "X-Wallet-Address"

const walletKey = "walletAddress"

// SessionParser validates a session token and returns its wallet.
type SessionParser interface {
	ParseSession(token string) (string, error)
}

// WalletAuth requires a caller wallet. In header mode the X-Wallet-Address
// header is trusted; in session mode a Bearer session token is required and
// the header is ignored.
func WalletAuth(mode string, sessions SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		wallet, err := resolveWallet(c, mode, sessions)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if wallet == "" {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}
		c.Set(walletKey, wallet)
		c.Next()
	}
}

// OptionalWallet sets the caller wallet when one is presented. A missing or
// malformed credential leaves the request anonymous.
func OptionalWallet(mode string, sessions SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if wallet, err := resolveWallet(c, mode, sessions); err == nil && wallet != "" {
			c.Set(walletKey, wallet)
		}
		c.Next()
	}
}

// GetWallet returns the wallet set by WalletAuth or OptionalWallet.
func GetWallet(c *gin.Context) (string, bool) {
	v, ok := c.Get(walletKey)
	if !ok {
		return "", false
	}
	wallet, ok := v.(string)
	return wallet, ok && wallet != ""
}

func resolveWallet(c *gin.Context, mode string, sessions SessionParser) (string, error) {
	if mode == config.WalletAuthSession {
		header := c.GetHeader("Authorization")
		if header == "" {
			return "", nil
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || sessions == nil {
			return "", apperrors.ErrInvalidSession
		}
		return sessions.ParseSession(parts[1])
	}

	raw := c.GetHeader(WalletHeader)
	if raw == "" {
		return "", nil
	}
	wallet, ok := validator.NormalizeWallet(raw)
	if !ok {
		return "", apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid wallet address")
	}
	return wallet, nil
}
