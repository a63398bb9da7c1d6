// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"starmobiles/config"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/service"
)

// DefaultMinPasswordLength matches the storefront sign-up form.
const DefaultMinPasswordLength = 6

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// Cost and strength policy come from configuration when present.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	policy := config.PasswordStrengthConfig{MinLength: DefaultMinPasswordLength}
	if cfg.PasswordStrength != nil {
		policy = *cfg.PasswordStrength
		if policy.MinLength == 0 {
			policy.MinLength = DefaultMinPasswordLength
		}
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// NewBcryptHasherWithCost returns a hasher with the default policy and an explicit cost.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return &bcryptHasher{
		cost:   cost,
		policy: config.PasswordStrengthConfig{MinLength: DefaultMinPasswordLength},
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks the password against the configured policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	var problems []string

	length := utf8.RuneCountInString(password)
	if length < h.policy.MinLength {
		problems = append(problems, fmt.Sprintf("must be at least %d characters long", h.policy.MinLength))
	}
	if h.policy.MaxLength > 0 && length > h.policy.MaxLength {
		problems = append(problems, fmt.Sprintf("must be at most %d characters long", h.policy.MaxLength))
	}
	if h.policy.RequireUppercase && !h.hasUppercase(password) {
		problems = append(problems, "must contain at least one uppercase letter")
	}
	if h.policy.RequireLowercase && !h.hasLowercase(password) {
		problems = append(problems, "must contain at least one lowercase letter")
	}
	if h.policy.RequireNumbers && !h.hasNumbers(password) {
		problems = append(problems, "must contain at least one number")
	}
	if h.policy.RequireSpecial && !h.hasSpecialChars(password) {
		problems = append(problems, "must contain at least one special character")
	}

	if len(problems) == 0 {
		return nil
	}

	return domainerrors.ErrPasswordStrength.WithDetails("password " + strings.Join(problems, ", "))
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}
