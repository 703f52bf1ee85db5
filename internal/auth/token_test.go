package auth

import (
	"testing"
	"time"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", 24*time.Hour)

	token, err := m.Issue("user-1", "taro@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "taro@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "taro@example.com")
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected expiry in claims")
	}

	// 有効期限は発行時点から約24時間後であること
	wantExpiry := time.Now().Add(24 * time.Hour)
	if diff := claims.ExpiresAt.Time.Sub(wantExpiry); diff > time.Minute || diff < -time.Minute {
		t.Errorf("expiry = %v, want within 1m of %v", claims.ExpiresAt.Time, wantExpiry)
	}
}

func TestTokenManager_Verify_ExpiredToken(t *testing.T) {
	// 負のTTLで発行し、強制的に期限切れにする
	m := NewTokenManager("test-secret", -time.Hour)

	token, err := m.Issue("user-1", "taro@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestTokenManager_Verify_SecretMismatch(t *testing.T) {
	issuer := NewTokenManager("secret-a", 24*time.Hour)
	verifier := NewTokenManager("secret-b", 24*time.Hour)

	token, err := issuer.Issue("user-1", "taro@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected error for secret mismatch, got nil")
	}
}

func TestTokenManager_Verify_MalformedToken(t *testing.T) {
	m := NewTokenManager("test-secret", 24*time.Hour)

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := m.Verify(token); err == nil {
			t.Errorf("expected error for malformed token %q, got nil", token)
		}
	}
}

// 同一プロセス内で発行と検証が同じ鍵を共有していれば、別インスタンスでも検証できる
func TestTokenManager_Verify_SameSecretDifferentInstance(t *testing.T) {
	issuer := NewTokenManager("shared-secret", 24*time.Hour)
	verifier := NewTokenManager("shared-secret", 24*time.Hour)

	token, err := issuer.Issue("user-1", "taro@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
}
