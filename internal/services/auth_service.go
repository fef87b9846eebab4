package services

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the rest of the stored hashes were
// produced with; changing it only affects newly hashed passwords.
const bcryptCost = 10

type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(password, hash string) error
}

type authService struct{}

func NewAuthService() AuthService {
	return &authService{}
}

func (s *authService) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword returns nil iff password re-hashes to hash. A malformed
// stored hash is reported the same way as a mismatch.
func (s *authService) CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
