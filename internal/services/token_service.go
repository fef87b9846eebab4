package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

type emailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and validates the signed tokens used by both the
// email-verification and password-reset links. Tokens carry only the email;
// they are not single-use and stay valid until expiry.
type TokenService interface {
	Issue(email string) (string, error)
	Validate(token string) (string, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secretKey string, ttl time.Duration) TokenService {
	return &tokenService{secret: []byte(secretKey), ttl: ttl}
}

func (s *tokenService) Issue(email string) (string, error) {
	now := time.Now()
	claims := &emailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate returns the embedded email, or one of ErrTokenExpired,
// ErrTokenSignature, ErrTokenMalformed.
func (s *tokenService) Validate(tokenStr string) (string, error) {
	claims := &emailClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// accept HMAC only
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		default:
			return "", ErrTokenMalformed
		}
	}
	if !token.Valid || claims.Email == "" {
		return "", ErrTokenMalformed
	}
	return claims.Email, nil
}
