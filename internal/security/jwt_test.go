package security_test

import (
	"testing"
	"time"

	"github.com/Rrens/honeypot/internal/security"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	token, err := manager.GenerateToken("analyst", []string{security.ScopeSessionsRead})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if token == "" {
		t.Error("token is empty")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.Operator != "analyst" {
		t.Errorf("operator mismatch: got %v, want analyst", claims.Operator)
	}

	if !claims.HasScope(security.ScopeSessionsRead) {
		t.Error("expected sessions:read scope")
	}

	if claims.HasScope(security.ScopeSessionsWrite) {
		t.Error("unexpected sessions:write scope")
	}

	if manager.TTL() != 15*time.Minute {
		t.Errorf("ttl mismatch: got %v", manager.TTL())
	}

	if lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time); lifetime != manager.TTL() {
		t.Errorf("token lifetime %v does not match ttl %v", lifetime, manager.TTL())
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	if _, err := manager.ValidateToken("invalid-token"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	issuer := security.NewJWTManager("secret-one-secret-one-secret-one", 15*time.Minute)
	verifier := security.NewJWTManager("secret-two-secret-two-secret-two", 15*time.Minute)

	token, err := issuer.GenerateToken("analyst", nil)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestJWTManager_Expired(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", -time.Minute)

	token, err := manager.GenerateToken("analyst", nil)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestJWTManager_NoSecret(t *testing.T) {
	manager := security.NewJWTManager("", time.Hour)

	if _, err := manager.GenerateToken("analyst", nil); err == nil {
		t.Error("expected error without secret")
	}
	if _, err := manager.ValidateToken("x"); err == nil {
		t.Error("expected error without secret")
	}
}

func TestAPIKeyChecker(t *testing.T) {
	checker := security.NewAPIKeyChecker("s3cret")

	if !checker.Enabled() {
		t.Fatal("checker should be enabled")
	}
	if !checker.Valid("s3cret") {
		t.Error("expected matching key to be valid")
	}
	for _, key := range []string{"", "s3cre", "s3cret!", "S3CRET"} {
		if checker.Valid(key) {
			t.Errorf("expected %q to be rejected", key)
		}
	}

	if security.NewAPIKeyChecker("").Enabled() {
		t.Error("empty key should disable the checker")
	}
}
