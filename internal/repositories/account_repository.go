package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"mailauth/internal/models"
)

// ErrDuplicateAccount is returned by Create when the email or username is
// already taken. The unique constraints on the accounts table are the real
// guard: two concurrent signups can both pass the existence check, and the
// later INSERT must fail here.
var ErrDuplicateAccount = errors.New("account already exists")

type AccountRepository interface {
	Create(account *models.Account) error
	GetByEmail(email string) (*models.Account, error)
	GetByUsername(username string) (*models.Account, error)
	UpdateVerified(id int, verified bool) error
	UpdatePassword(id int, passwordHash string) error
	UpdateVerificationToken(id int, token string) error
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

func (r *accountRepository) Create(account *models.Account) error {
	const q = `
		INSERT INTO accounts (username, email, password_hash, is_verified, verification_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.IsVerified,
		account.VerificationToken,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByEmail(email string) (*models.Account, error) {
	return r.getBy(`email = $1`, email)
}

func (r *accountRepository) GetByUsername(username string) (*models.Account, error) {
	return r.getBy(`username = $1`, username)
}

// getBy returns (nil, nil) on a miss: an absent account is a normal workflow
// outcome, not an error.
func (r *accountRepository) getBy(where string, arg interface{}) (*models.Account, error) {
	q := `
		SELECT id, username, email, password_hash, is_verified,
		       COALESCE(verification_token, ''), created_at
		FROM accounts
		WHERE ` + where
	a := &models.Account{}
	err := r.DB.QueryRow(q, arg).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.IsVerified,
		&a.VerificationToken, &a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) UpdateVerified(id int, verified bool) error {
	_, err := r.DB.Exec(`UPDATE accounts SET is_verified=$1 WHERE id=$2`, verified, id)
	return err
}

func (r *accountRepository) UpdatePassword(id int, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE accounts SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	return err
}

func (r *accountRepository) UpdateVerificationToken(id int, token string) error {
	_, err := r.DB.Exec(`UPDATE accounts SET verification_token=$1 WHERE id=$2`, token, id)
	return err
}
