package auth

import (
	"encoding/hex"
	"testing"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := MakeToken("w-1", "dara", "dara@salon.test", "secret")
	if err != nil {
		t.Fatalf("make token: %v", err)
	}

	claims, err := ParseToken(tok, "secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.WorkerID != "w-1" || claims.Username != "dara" || claims.Email != "dara@salon.test" {
		t.Errorf("claims mismatch: %+v", claims)
	}
	if claims.ExpiresAt == nil {
		t.Error("expiry not set")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	tok, err := MakeToken("w-1", "dara", "dara@salon.test", "secret")
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	if _, err := ParseToken(tok, "other-secret"); err == nil {
		t.Error("token accepted with wrong secret")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.jwt", "secret"); err == nil {
		t.Error("garbage accepted")
	}
}

func TestOpaqueToken(t *testing.T) {
	a, err := OpaqueToken()
	if err != nil {
		t.Fatalf("opaque token: %v", err)
	}
	b, err := OpaqueToken()
	if err != nil {
		t.Fatalf("opaque token: %v", err)
	}

	// 32 bytes hex encoded = 64 chars
	if len(a) != 64 {
		t.Errorf("token length %d, want 64", len(a))
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Errorf("token not hex: %v", err)
	}
	if a == b {
		t.Error("two tokens identical")
	}
}
