package auth

import (
	"testing"
	"time"

	"github.com/angelmondragon/storefront-core/pkg/config"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "storefront"}
}

func TestMintAndParseAccessToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), time.Hour, AccessTokenPayload{UserID: userID})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(config.JWTConfig{Secret: cfg.Secret, Issuer: "other"}, time.Now(), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected wrong issuer to be rejected")
	}
}
