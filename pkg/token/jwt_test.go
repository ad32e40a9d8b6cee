package token

import (
	"errors"
	"testing"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 1, 1)

	access, err := m.GenerateToken(7, "alice", "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := m.VerifyTokenOfType(access, TypeAccess)
	if err != nil {
		t.Fatalf("VerifyTokenOfType() error = %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.RoleCode != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	refresh, err := m.GenerateRefreshToken(7, "alice", "admin")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	if _, err := m.VerifyTokenOfType(refresh, TypeAccess); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("refresh token accepted as access token, err = %v", err)
	}
}

func TestJWTManager_RejectsForeignSecret(t *testing.T) {
	a := NewJWTManager("a", 1, 1)
	b := NewJWTManager("b", 1, 1)
	tok, err := a.GenerateToken(1, "bob", "")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := b.VerifyToken(tok); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestJWTManager_TokensAreUnique(t *testing.T) {
	m := NewJWTManager("secret", 1, 1)
	first, err := m.GenerateRefreshToken(1, "alice", "")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	second, err := m.GenerateRefreshToken(1, "alice", "")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	if first == second {
		t.Fatal("tokens issued in the same second must differ")
	}
	if BlacklistKey(first) == BlacklistKey(second) {
		t.Fatal("blacklist keys must differ")
	}
}
