// Package errors provides custom error types for the RWA console API.
// Service-layer errors use AppError so responses stay consistent and never
// leak database or RPC details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized     = &AppError{Code: "UNAUTHORIZED", Message: "Wallet address required", StatusCode: http.StatusUnauthorized}
	ErrInvalidSession   = &AppError{Code: "INVALID_SESSION", Message: "Invalid or expired session", StatusCode: http.StatusUnauthorized}
	ErrInvalidSignature = &AppError{Code: "INVALID_SIGNATURE", Message: "Signature does not match wallet", StatusCode: http.StatusUnauthorized}
	ErrForbidden        = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrNotAdmin         = &AppError{Code: "NOT_ADMIN", Message: "Wallet is not an active admin", StatusCode: http.StatusForbidden}
	ErrInsufficientRole = &AppError{Code: "INSUFFICIENT_ROLE", Message: "Admin role does not permit this action", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrUserFrozen   = &AppError{Code: "USER_FROZEN", Message: "Account is frozen", StatusCode: http.StatusForbidden}
)

// Asset errors.
var (
	ErrAssetNotFound    = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrAssetHasHoldings = &AppError{Code: "ASSET_HAS_HOLDINGS", Message: "Asset has active holdings and cannot be deleted", StatusCode: http.StatusConflict}
	ErrEmptyUpdate      = &AppError{Code: "INVALID_INPUT", Message: "No valid fields to update", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound      = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType   = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrInvalidStatusTransition  = &AppError{Code: "INVALID_STATUS_TRANSITION", Message: "Transaction status cannot change from a final state", StatusCode: http.StatusConflict}
	ErrDuplicateTransactionHash = &AppError{Code: "DUPLICATE_TX_HASH", Message: "A transaction with this hash already exists", StatusCode: http.StatusConflict}
)

// Balance errors.
var (
	ErrInsufficientBalance = &AppError{Code: "INSUFFICIENT_BALANCE", Message: "Insufficient platform balance", StatusCode: http.StatusBadRequest}
)

// Configuration errors.
var (
	ErrChainUnavailable = &AppError{Code: "CHAIN_UNAVAILABLE", Message: "Chain reader is not configured", StatusCode: http.StatusServiceUnavailable}
)
