package repositories

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailauth/internal/models"
)

func newMockRepo(t *testing.T) (AccountRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewAccountRepository(db), mock, db
}

func accountColumns() []string {
	return []string{"id", "username", "email", "password_hash", "is_verified", "verification_token", "created_at"}
}

func TestCreateReturnsIDAndTimestamp(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs("alice", "a@x.com", "hash", false, "tok").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

	a := &models.Account{Username: "alice", Email: "a@x.com", PasswordHash: "hash", VerificationToken: "tok"}
	require.NoError(t, repo.Create(a))
	assert.Equal(t, 7, a.ID)
	assert.Equal(t, now, a.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUniqueViolation(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_email_key"})

	err := repo.Create(&models.Account{Username: "alice", Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateAccount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailMiss(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts")).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	a, err := repo.GetByEmail("ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(7, "alice", "a@x.com", "hash", true, "tok", now))

	a, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 7, a.ID)
	assert.Equal(t, "a@x.com", a.Email)
	assert.True(t, a.IsVerified)
	assert.Equal(t, "tok", a.VerificationToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVerified(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET is_verified=$1 WHERE id=$2")).
		WithArgs(true, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateVerified(7, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET password_hash=$1 WHERE id=$2")).
		WithArgs("newhash", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(7, "newhash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
