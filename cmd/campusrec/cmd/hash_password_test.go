package cmd

import (
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
)

func TestHashPassword_ProducesVerifiablePHCString(t *testing.T) {
	hash, err := argon2id.CreateHash("my-secret", argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("CreateHash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected a PHC string, got %q", hash)
	}

	match, err := argon2id.ComparePasswordAndHash("my-secret", hash)
	if err != nil || !match {
		t.Errorf("expected the hash to verify: match=%v err=%v", match, err)
	}
	match, _ = argon2id.ComparePasswordAndHash("wrong", hash)
	if match {
		t.Error("expected a wrong password to fail verification")
	}
}
