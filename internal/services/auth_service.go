package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/logger"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/validator"
)

const (
	sessionIssuer = "rwaconsole-api"
	// signInMaxAge bounds how old the Issued At line of a sign-in message may be.
	signInMaxAge = 5 * time.Minute
	// signInClockSkew tolerates clients whose clock runs slightly ahead.
	signInClockSkew = time.Minute
)

// SessionClaims are the claims of a wallet session token.
type SessionClaims struct {
	Wallet string `json:"wallet"`
	jwt.RegisteredClaims
}

// authService issues wallet sessions from signed sign-in messages.
type authService struct {
	users  repository.UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService creates a new AuthServicer.
func NewAuthService(users repository.UserStore, secret string, ttl time.Duration) AuthServicer {
	return &authService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// CreateSession verifies an EIP-191 personal_sign signature over message and
// returns a session token for the signing wallet.
func (s *authService) CreateSession(ctx context.Context, address, message, signature string) (*Session, error) {
	wallet, ok := validator.NormalizeWallet(address)
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid wallet address")
	}
	if err := s.checkMessage(message, wallet); err != nil {
		return nil, err
	}

	signer, err := recoverSigner(message, signature)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidSignature, err)
	}
	if signer != wallet {
		return nil, apperrors.ErrInvalidSignature
	}

	if _, err := s.users.EnsureUser(ctx, wallet); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &SessionClaims{
		Wallet: wallet,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
			Subject:   wallet,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("wallet session created", "wallet", wallet)
	return &Session{Token: token, WalletAddress: wallet, ExpiresAt: expiresAt.UTC()}, nil
}

// ParseSession validates a session token and returns its wallet.
func (s *authService) ParseSession(token string) (string, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", apperrors.ErrInvalidSession
	}
	wallet, ok := validator.NormalizeWallet(claims.Subject)
	if !ok {
		return "", apperrors.ErrInvalidSession
	}
	return wallet, nil
}

// checkMessage requires the sign-in text to name wallet and to have been
// issued recently.
func (s *authService) checkMessage(message, wallet string) error {
	var (
		named    bool
		issuedAt time.Time
	)
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Wallet:"):
			got, ok := validator.NormalizeWallet(strings.TrimPrefix(line, "Wallet:"))
			named = ok && got == wallet
		case strings.HasPrefix(line, "Issued At:"):
			t, err := time.Parse(time.RFC3339, strings.TrimSpace(strings.TrimPrefix(line, "Issued At:")))
			if err != nil {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "Issued At must be RFC 3339")
			}
			issuedAt = t
		}
	}

	if !named {
		return apperrors.WithMessage(apperrors.ErrInvalidSignature, "sign-in message does not name this wallet")
	}
	if issuedAt.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "sign-in message has no Issued At line")
	}
	now := s.now()
	if now.Sub(issuedAt) > signInMaxAge || issuedAt.Sub(now) > signInClockSkew {
		return apperrors.WithMessage(apperrors.ErrInvalidSignature, "sign-in message has expired")
	}
	return nil
}

// recoverSigner returns the lower-case address that produced an EIP-191
// signature over message.
func recoverSigner(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("signature must be %d bytes", crypto.SignatureLength)
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", err)
	}
	return strings.ToLower(crypto.PubkeyToAddress(*pub).Hex()), nil
}
