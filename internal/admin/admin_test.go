package admin

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestVerifyAdminToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("render-ops-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !VerifyAdminToken(string(hash), "render-ops-token") {
		t.Error("correct token rejected")
	}
	if VerifyAdminToken(string(hash), "wrong-token") {
		t.Error("wrong token accepted")
	}
	if VerifyAdminToken("not-a-bcrypt-hash", "render-ops-token") {
		t.Error("garbage hash accepted")
	}
}
