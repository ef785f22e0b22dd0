package hash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

var ErrEmptySecret = errors.New("secret must not be empty")

// Hasher hashes and verifies member passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hashed. Malformed hashes yield false.
	Verify(hashed, plain string) bool
}

// New returns the hasher for algorithm. Verification accepts hashes produced
// by either supported algorithm so switching algorithms keeps existing
// accounts working.
func New(algorithm string) (Hasher, error) {
	switch algorithm {
	case "", AlgorithmArgon2id:
		return &hasherImpl{hashFn: hashArgon2id}, nil
	case AlgorithmBcrypt:
		return &hasherImpl{hashFn: hashBcrypt}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}
}

type hasherImpl struct {
	hashFn func(plain string) (string, error)
}

// Hash implements Hasher.
func (h *hasherImpl) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptySecret
	}
	return h.hashFn(plain)
}

// Verify implements Hasher.
func (h *hasherImpl) Verify(hashed, plain string) bool {
	if hashed == "" || plain == "" {
		return false
	}

	switch {
	case strings.HasPrefix(hashed, "$argon2id$"):
		ok, err := argon2id.ComparePasswordAndHash(plain, hashed)
		return err == nil && ok
	case strings.HasPrefix(hashed, "$2a$"), strings.HasPrefix(hashed, "$2b$"), strings.HasPrefix(hashed, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
	default:
		return false
	}
}

func hashArgon2id(plain string) (string, error) {
	hashed, err := argon2id.CreateHash(plain, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}

func hashBcrypt(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
