package security

import (
	"fmt"

	"github.com/pfinal/passport/internal/application/ports"
)

// Password hash scheme names accepted in configuration.
const (
	SchemeMd5Salt  = "md5salt"
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

// NewHasher returns the hasher for a configured scheme name.
func NewHasher(scheme string, bcryptCost int, argon2Params Argon2Params) (ports.PasswordHasher, error) {
	switch scheme {
	case SchemeMd5Salt:
		return NewMd5SaltHasher(), nil
	case SchemeBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	case SchemeArgon2id:
		return NewArgon2Hasher(argon2Params), nil
	default:
		return nil, fmt.Errorf("unknown password hash scheme %q", scheme)
	}
}
