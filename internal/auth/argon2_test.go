package auth

import (
	"strings"
	"testing"
)

func TestHashKey_Format(t *testing.T) {
	hash, err := HashKey("lm_live_7a9b3c_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b")
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("expected PHC argon2id format, got %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Errorf("expected 6 PHC sections, got %d", len(parts))
	}
}

func TestVerifyKey_Match(t *testing.T) {
	key := "lm_live_7a9b3c_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b"

	hash, err := HashKey(key)
	if err != nil {
		t.Fatal(err)
	}

	match, err := VerifyKey(key, hash)
	if err != nil {
		t.Fatalf("VerifyKey failed: %v", err)
	}
	if !match {
		t.Error("expected key to match its own hash")
	}
}

func TestVerifyKey_Mismatch(t *testing.T) {
	hash, err := HashKey("correct-key")
	if err != nil {
		t.Fatal(err)
	}

	match, err := VerifyKey("wrong-key", hash)
	if err != nil {
		t.Fatalf("VerifyKey failed: %v", err)
	}
	if match {
		t.Error("expected mismatch for wrong key")
	}
}

func TestVerifyKey_InvalidHash(t *testing.T) {
	cases := []string{
		"",
		"plainhash",
		"$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
	}

	for _, c := range cases {
		if _, err := VerifyKey("key", c); err == nil {
			t.Errorf("expected error for hash %q", c)
		}
	}
}

func TestQuickHash_Deterministic(t *testing.T) {
	a := QuickHash("some-key")
	b := QuickHash("some-key")
	if a != b {
		t.Error("expected QuickHash to be deterministic")
	}

	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a))
	}

	if QuickHash("other-key") == a {
		t.Error("expected different inputs to produce different hashes")
	}
}

func TestHashKey_UniqueSalt(t *testing.T) {
	h1, err := HashKey("same-key")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashKey("same-key")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("expected distinct hashes due to random salt")
	}
}
