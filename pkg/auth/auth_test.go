package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken("user-1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected user-1, got %q", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected alice, got %q", claims.Username)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected alice@example.com, got %q", claims.Email)
	}
}

func TestRefreshTokenCarriesOnlyUserID(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateRefreshToken("user-2")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-2" {
		t.Errorf("expected user-2, got %q", claims.UserID)
	}
	if claims.Username != "" || claims.Email != "" {
		t.Errorf("refresh token should not carry username/email, got %q/%q", claims.Username, claims.Email)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken("user-3", "bob", "bob@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := manager.GenerateToken("user-4", "carol", "carol@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("expected validation to fail for an expired token")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	if _, err := manager.ValidateToken("not-a-token"); err == nil {
		t.Error("expected validation to fail for a malformed token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Error("hash must not equal the plain password")
	}
	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("expected non-matching password to fail")
	}
}
