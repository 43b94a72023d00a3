package services

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"rwaconsole/internal/testutil"
)

func signInMessage(wallet string, issued time.Time) string {
	return fmt.Sprintf("Sign in to RWA Console\nWallet: %s\nIssued At: %s", wallet, issued.UTC().Format(time.RFC3339))
}

func personalSign(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig)
}

func newKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key, strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("valid_signature", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuthService(newStore(db), "test-secret", time.Hour)
		key, wallet := newKey(t)
		msg := signInMessage(wallet, time.Now())

		session, err := svc.CreateSession(ctx, wallet, msg, personalSign(t, key, msg))
		testutil.AssertNoError(t, err)
		if session.WalletAddress != wallet {
			t.Errorf("expected %s, got %s", wallet, session.WalletAddress)
		}

		got, err := svc.ParseSession(session.Token)
		testutil.AssertNoError(t, err)
		if got != wallet {
			t.Errorf("expected session wallet %s, got %s", wallet, got)
		}
	})

	t.Run("signed_by_another_key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuthService(newStore(db), "test-secret", time.Hour)
		_, wallet := newKey(t)
		otherKey, _ := newKey(t)
		msg := signInMessage(wallet, time.Now())

		_, err := svc.CreateSession(ctx, wallet, msg, personalSign(t, otherKey, msg))
		testutil.AssertAppError(t, err, "INVALID_SIGNATURE")
	})

	t.Run("stale_message", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuthService(newStore(db), "test-secret", time.Hour)
		key, wallet := newKey(t)
		msg := signInMessage(wallet, time.Now().Add(-10*time.Minute))

		_, err := svc.CreateSession(ctx, wallet, msg, personalSign(t, key, msg))
		testutil.AssertAppError(t, err, "INVALID_SIGNATURE")
	})

	t.Run("message_names_other_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuthService(newStore(db), "test-secret", time.Hour)
		key, wallet := newKey(t)
		msg := signInMessage(testutil.NewWallet(), time.Now())

		_, err := svc.CreateSession(ctx, wallet, msg, personalSign(t, key, msg))
		testutil.AssertAppError(t, err, "INVALID_SIGNATURE")
	})
}

func TestParseSession_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	issuer := NewAuthService(newStore(db), "secret-a", time.Hour)
	other := NewAuthService(newStore(db), "secret-b", time.Hour)
	key, wallet := newKey(t)
	msg := signInMessage(wallet, time.Now())

	session, err := issuer.CreateSession(context.Background(), wallet, msg, personalSign(t, key, msg))
	testutil.AssertNoError(t, err)

	_, err = other.ParseSession(session.Token)
	testutil.AssertAppError(t, err, "INVALID_SESSION")

	_, err = issuer.ParseSession("not-a-token")
	testutil.AssertAppError(t, err, "INVALID_SESSION")
}
