package security

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"
)

var roundTripPasswords = []string{
	"correct horse battery staple",
	"p@ssw0rd-密码",
}

func TestMd5SaltRoundTrip(t *testing.T) {
	h := NewMd5SaltHasher()
	for _, password := range roundTripPasswords {
		encoded, err := h.Hash(password)
		if err != nil {
			t.Fatalf("Hash(%q): %v", password, err)
		}
		if len(encoded) != md5DigestLen+md5SaltLen {
			t.Errorf("Hash(%q) length = %d, want %d", password, len(encoded), md5DigestLen+md5SaltLen)
		}
		if !h.Verify(password, encoded) {
			t.Errorf("Verify(%q) = false for its own hash", password)
		}
		if h.Verify(password+"x", encoded) {
			t.Errorf("Verify accepted wrong password for %q", password)
		}
	}
}

func TestMd5SaltVerifyLegacyHash(t *testing.T) {
	// A hash produced elsewhere with a known salt.
	password, salt := "secret", "abc123"
	sum := md5.Sum([]byte(password + salt))
	encoded := hex.EncodeToString(sum[:]) + salt

	h := NewMd5SaltHasher()
	if !h.Verify(password, encoded) {
		t.Error("Verify rejected a well-formed legacy hash")
	}
	if h.Verify("wrong", encoded) {
		t.Error("Verify accepted the wrong password")
	}
}

func TestMd5SaltVerifyEmptySalt(t *testing.T) {
	password := "secret"
	sum := md5.Sum([]byte(password))
	encoded := hex.EncodeToString(sum[:]) // digest only, no trailing salt

	h := NewMd5SaltHasher()
	if !h.Verify(password, encoded) {
		t.Error("Verify rejected an unsalted legacy hash")
	}
}

func TestMd5SaltVerifyMalformed(t *testing.T) {
	h := NewMd5SaltHasher()
	if h.Verify("secret", "too-short") {
		t.Error("Verify accepted a malformed hash")
	}
}

func TestMd5SaltHashVaries(t *testing.T) {
	h := NewMd5SaltHasher()
	a, err := h.Hash("secret")
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Hash("secret")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical; salt is not varying")
	}
}

func TestBcryptRoundTrip(t *testing.T) {
	h := NewBcryptHasher(4) // min cost keeps the test fast
	for _, password := range roundTripPasswords {
		encoded, err := h.Hash(password)
		if err != nil {
			t.Fatalf("Hash(%q): %v", password, err)
		}
		if !strings.HasPrefix(encoded, "$2") {
			t.Errorf("Hash(%q) = %q, want bcrypt format", password, encoded)
		}
		if !h.Verify(password, encoded) {
			t.Errorf("Verify(%q) = false for its own hash", password)
		}
		if h.Verify(password+"x", encoded) {
			t.Errorf("Verify accepted wrong password for %q", password)
		}
	}
}

func TestArgon2RoundTrip(t *testing.T) {
	params := Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	h := NewArgon2Hasher(params)
	for _, password := range roundTripPasswords {
		encoded, err := h.Hash(password)
		if err != nil {
			t.Fatalf("Hash(%q): %v", password, err)
		}
		if !strings.HasPrefix(encoded, "$argon2id$") {
			t.Errorf("Hash(%q) = %q, want argon2id format", password, encoded)
		}
		if !h.Verify(password, encoded) {
			t.Errorf("Verify(%q) = false for its own hash", password)
		}
		if h.Verify(password+"x", encoded) {
			t.Errorf("Verify accepted wrong password for %q", password)
		}
	}
	if h.Verify("secret", "$argon2id$v=19$garbage") {
		t.Error("Verify accepted a malformed hash")
	}
}

func TestNewHasher(t *testing.T) {
	for _, scheme := range []string{SchemeMd5Salt, SchemeBcrypt, SchemeArgon2id} {
		h, err := NewHasher(scheme, 0, DefaultArgon2Params())
		if err != nil {
			t.Errorf("NewHasher(%q): %v", scheme, err)
		}
		if h == nil {
			t.Errorf("NewHasher(%q) returned nil", scheme)
		}
	}
	if _, err := NewHasher("sha1", 0, DefaultArgon2Params()); err == nil {
		t.Error("NewHasher accepted an unknown scheme")
	}
}
