package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the fixed work factor for stored password hashes
const DefaultBcryptCost = 10

// Hasher is a one-way salted password hash
type Hasher interface {
	Hash(password string) (string, error)
	// Compare returns nil only when password matches hash
	Compare(hash, password string) error
}

// BcryptHasher implements Hasher with bcrypt
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a bcrypt hasher; a zero cost uses DefaultBcryptCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash returns the bcrypt digest of password
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks password against a bcrypt digest
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
