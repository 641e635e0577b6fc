package auth

import (
	"strings"

	"github.com/google/uuid"
)

// NewGUID returns a 36-character upper-case 8-4-4-4-12 identifier backed by
// crypto/rand. Callers treat it as an opaque unique string only.
func NewGUID() string {
	return strings.ToUpper(uuid.NewString())
}
