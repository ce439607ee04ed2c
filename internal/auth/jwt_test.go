package auth

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := &JWTConfig{
		Secret:   []byte("testsecret"),
		Issuer:   "wireboard",
		Audience: "wireboard-clients",
		TTL:      time.Hour,
	}

	token, err := GenerateToken(cfg, "session-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(cfg, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.SessionID != "session-1" {
		t.Fatalf("session id = %q", claims.SessionID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := &JWTConfig{Secret: []byte("right"), TTL: time.Hour}
	token, err := GenerateToken(cfg, "s")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	bad := &JWTConfig{Secret: []byte("wrong"), TTL: time.Hour}
	if _, err := ValidateToken(bad, token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := &JWTConfig{Secret: []byte("testsecret"), TTL: -time.Minute}
	token, err := GenerateToken(cfg, "s")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	cfg := &JWTConfig{Secret: []byte("testsecret"), Issuer: "someone-else", TTL: time.Hour}
	token, err := GenerateToken(cfg, "s")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	check := &JWTConfig{Secret: []byte("testsecret"), Issuer: "wireboard", TTL: time.Hour}
	if _, err := ValidateToken(check, token); err == nil || !strings.Contains(err.Error(), "issuer") {
		t.Fatalf("expected issuer failure, got %v", err)
	}
}

func TestTokenService(t *testing.T) {
	disabled := NewTokenService("", "", "", 0)
	if disabled.Enabled() {
		t.Fatal("empty secret must disable the service")
	}

	svc := NewTokenService("testsecret", "wireboard", "wireboard-clients", time.Hour)
	if !svc.Enabled() {
		t.Fatal("service with secret must be enabled")
	}

	token, err := svc.IssueGuest()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.SessionID == "" {
		t.Fatal("guest token must carry a session id")
	}
}
