package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"mailauth/internal/models"
	"mailauth/internal/repositories"
)

var (
	ErrEmailUnreachable = errors.New("email domain cannot receive mail")
	ErrAccountExists    = errors.New("account already exists")
	ErrAccountNotFound  = errors.New("account not found")
	ErrNotVerified      = errors.New("account not verified")
	ErrWrongPassword    = errors.New("password incorrect")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrMailDelivery     = errors.New("mail delivery failed")
)

// AccountService is the signup → verify → login → reset workflow. All
// business rules live here; handlers only translate its errors to HTTP.
type AccountService interface {
	Signup(ctx context.Context, username, email, password string) error
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, username, password string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ValidateResetToken(token string) error
}

type accountService struct {
	repo      repositories.AccountRepository
	auth      AuthService
	tokens    TokenService
	emails    EmailService
	mailCheck MailCheckService
	baseURL   string
}

func NewAccountService(
	repo repositories.AccountRepository,
	auth AuthService,
	tokens TokenService,
	emails EmailService,
	mailCheck MailCheckService,
	baseURL string,
) AccountService {
	return &accountService{
		repo:      repo,
		auth:      auth,
		tokens:    tokens,
		emails:    emails,
		mailCheck: mailCheck,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Signup persists the account first and sends the verification mail after.
// A mail failure keeps the (unverified) account so a later reset-request can
// re-send a link; the caller still gets an error. The existence check is
// advisory only: the store's unique constraints settle concurrent signups.
func (s *accountService) Signup(ctx context.Context, username, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("username, email and password are required")
	}

	if !s.mailCheck.IsReachable(ctx, email) {
		log.Printf("[auth][signup] unreachable email domain for %q", email)
		return ErrEmailUnreachable
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("signup lookup failed: %w", err)
	}
	if existing != nil {
		return ErrAccountExists
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("signup hash failed: %w", err)
	}
	token, err := s.tokens.Issue(email)
	if err != nil {
		return fmt.Errorf("signup token failed: %w", err)
	}

	account := &models.Account{
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		IsVerified:        false,
		VerificationToken: token,
	}
	if err := s.repo.Create(account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateAccount) {
			return ErrAccountExists
		}
		return fmt.Errorf("signup create failed: %w", err)
	}

	if err := s.emails.SendVerificationEmail(email, s.link("/api/auth/verify-email", token)); err != nil {
		log.Printf("[auth][signup] verification mail to %s failed: %v", email, err)
		return ErrMailDelivery
	}
	return nil
}

// VerifyEmail is idempotent: a second call with the same valid token just
// re-sets the flag.
func (s *accountService) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.tokens.Validate(token)
	if err != nil {
		log.Printf("[auth][verify] token rejected: %v", err)
		return ErrInvalidToken
	}
	account, err := s.repo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("verify lookup failed: %w", err)
	}
	if account == nil {
		return ErrInvalidToken
	}
	if err := s.repo.UpdateVerified(account.ID, true); err != nil {
		return fmt.Errorf("verify update failed: %w", err)
	}
	return nil
}

func (s *accountService) Login(ctx context.Context, username, password string) error {
	account, err := s.repo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return fmt.Errorf("login lookup failed: %w", err)
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if !account.IsVerified {
		return ErrNotVerified
	}
	if err := s.auth.CheckPassword(password, account.PasswordHash); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// RequestPasswordReset reissues a token so the link gets a fresh validity
// window. An unknown email is not an error: the response must not reveal
// whether the address is registered.
func (s *accountService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	account, err := s.repo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("reset lookup failed: %w", err)
	}
	if account == nil {
		log.Printf("[auth][reset-request] no account for %q", email)
		return nil
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return fmt.Errorf("reset token failed: %w", err)
	}
	if err := s.repo.UpdateVerificationToken(account.ID, token); err != nil {
		return fmt.Errorf("reset token store failed: %w", err)
	}

	if err := s.emails.SendPasswordResetEmail(email, s.link("/api/auth/reset-page", token)); err != nil {
		log.Printf("[auth][reset-request] mail to %s failed: %v", email, err)
		return ErrMailDelivery
	}
	return nil
}

func (s *accountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("password is required")
	}
	email, err := s.tokens.Validate(token)
	if err != nil {
		log.Printf("[auth][reset] token rejected: %v", err)
		return ErrInvalidToken
	}
	account, err := s.repo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("reset lookup failed: %w", err)
	}
	if account == nil {
		return ErrInvalidToken
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("reset hash failed: %w", err)
	}
	if err := s.repo.UpdatePassword(account.ID, hash); err != nil {
		return fmt.Errorf("reset update failed: %w", err)
	}
	return nil
}

func (s *accountService) ValidateResetToken(token string) error {
	if _, err := s.tokens.Validate(token); err != nil {
		return ErrInvalidToken
	}
	return nil
}

func (s *accountService) link(path, token string) string {
	return s.baseURL + path + "?token=" + url.QueryEscape(token)
}
