package auth

import (
	"strings"
	"testing"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey(EnvLive)
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}

	if !strings.HasPrefix(key.Plaintext, "lm_live_") {
		t.Errorf("expected lm_live_ prefix, got %s", key.Plaintext)
	}

	if len(key.Prefix) != KeyPrefixLen {
		t.Errorf("expected prefix length %d, got %d", KeyPrefixLen, len(key.Prefix))
	}

	if !ValidateKeyFormat(key.Plaintext) {
		t.Errorf("generated key does not match key format: %s", key.Plaintext)
	}

	if key.Hash == "" || key.Hash == key.Plaintext {
		t.Error("expected hash to be set and distinct from plaintext")
	}
}

func TestGenerateAPIKey_TestEnv(t *testing.T) {
	key, err := GenerateAPIKey(EnvTest)
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}
	if !strings.HasPrefix(key.Plaintext, "lm_test_") {
		t.Errorf("expected lm_test_ prefix, got %s", key.Plaintext)
	}
}

func TestGenerateAPIKey_InvalidEnvDefaultsToLive(t *testing.T) {
	key, err := GenerateAPIKey("staging")
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}
	if !strings.HasPrefix(key.Plaintext, "lm_live_") {
		t.Errorf("expected fallback to live env, got %s", key.Plaintext)
	}
}

func TestGenerateAPIKey_Unique(t *testing.T) {
	a, err := GenerateAPIKey(EnvLive)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateAPIKey(EnvLive)
	if err != nil {
		t.Fatal(err)
	}
	if a.Plaintext == b.Plaintext {
		t.Error("expected distinct keys on consecutive calls")
	}
}

func TestParseAPIKey(t *testing.T) {
	key, err := GenerateAPIKey(EnvLive)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseAPIKey(key.Plaintext)
	if err != nil {
		t.Fatalf("ParseAPIKey failed: %v", err)
	}

	if parsed.Env != EnvLive {
		t.Errorf("expected env live, got %s", parsed.Env)
	}
	if parsed.Prefix != key.Prefix {
		t.Errorf("expected prefix %s, got %s", key.Prefix, parsed.Prefix)
	}
	if len(parsed.Secret) != KeySecretLen {
		t.Errorf("expected secret length %d, got %d", KeySecretLen, len(parsed.Secret))
	}
}

func TestParseAPIKey_Invalid(t *testing.T) {
	cases := []string{
		"",
		"not-a-key",
		"lm_live_short_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b",
		"pk_live_7a9b3c_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", // wrong product prefix
		"lm_prod_7a9b3c_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b",
		"lm_live_7a9b3c_TOOSHORT",
	}

	for _, c := range cases {
		if _, err := ParseAPIKey(c); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}
