package config

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxBcryptCost bounds login latency; each step doubles the work.
const MaxBcryptCost = 14

// PasswordConfig hashes and checks account passwords with bcrypt.
type PasswordConfig struct {
	BcryptCost int
	// Pepper is a server-side secret mixed into every password. Changing it
	// invalidates all stored hashes.
	Pepper string

	decoyOnce sync.Once
	decoy     []byte
}

// Password builds the hashing settings from the auth section.
func (c AuthConfig) Password() (*PasswordConfig, error) {
	return NewPasswordConfig(c.BcryptCost, c.PasswordPepper)
}

// NewPasswordConfig accepts costs from bcrypt.MinCost to MaxBcryptCost.
func NewPasswordConfig(cost int, pepper string) (*PasswordConfig, error) {
	if cost < bcrypt.MinCost || cost > MaxBcryptCost {
		return nil, fmt.Errorf("bcrypt cost out of range: auth.bcrypt_cost is %d, want %d..%d",
			cost, bcrypt.MinCost, MaxBcryptCost)
	}
	return &PasswordConfig{BcryptCost: cost, Pepper: pepper}, nil
}

// secret is what bcrypt sees. With a pepper the password is reduced to a
// 44-byte HMAC, which also keeps long passwords under bcrypt's 72-byte limit.
func (c *PasswordConfig) secret(pw string) []byte {
	if c.Pepper == "" {
		return []byte(pw)
	}
	mac := hmac.New(sha256.New, []byte(c.Pepper))
	mac.Write([]byte(pw))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

// HashPassword returns a salted bcrypt hash of pw.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.secret(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.secret(pw)) == nil
}

// RejectPassword spends the same bcrypt work as VerifyPassword against a
// random hash and always returns false. Logins for unknown accounts call it so
// they take as long as a wrong password.
func (c *PasswordConfig) RejectPassword(pw string) bool {
	c.decoyOnce.Do(func() {
		random := make([]byte, 32)
		_, _ = rand.Read(random)
		c.decoy, _ = bcrypt.GenerateFromPassword([]byte(base64.StdEncoding.EncodeToString(random)), c.BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(c.decoy, c.secret(pw))
	return false
}
