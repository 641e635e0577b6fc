package security

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	mrand "math/rand"
)

const (
	md5DigestLen = 32 // hex chars
	md5SaltLen   = 10
)

// Md5SaltHasher implements the legacy hex(md5(password+salt))+salt format.
// The digest is fast and the salt short, so this is weak against offline
// brute force; keep it only to verify hashes issued by older deployments
// and pick bcrypt or argon2id for anything new.
type Md5SaltHasher struct{}

func NewMd5SaltHasher() *Md5SaltHasher {
	return &Md5SaltHasher{}
}

func (h *Md5SaltHasher) Hash(password string) (string, error) {
	salt, err := newMd5Salt()
	if err != nil {
		return "", err
	}
	sum := md5.Sum([]byte(password + salt))
	return hex.EncodeToString(sum[:]) + salt, nil
}

func (h *Md5SaltHasher) Verify(password, encoded string) bool {
	if len(encoded) < md5DigestLen {
		return false
	}
	digest := encoded[:md5DigestLen]
	salt := encoded[md5DigestLen:]
	sum := md5.Sum([]byte(password + salt))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(digest)) == 1
}

// newMd5Salt slices md5SaltLen chars out of the digest of a random seed at a
// random offset, so salt content varies across calls.
func newMd5Salt() (string, error) {
	seed := make([]byte, 16)
	if _, err := rand.Read(seed); err != nil {
		return "", err
	}
	sum := md5.Sum(seed)
	digest := hex.EncodeToString(sum[:])
	off := mrand.Intn(md5SaltLen + 1)
	return digest[off : off+md5SaltLen], nil
}
