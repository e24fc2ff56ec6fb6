package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/meridianapps/contacts-api/internal/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrContactNotFound = errors.New("contact not found")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	All() ([]*model.User, error)
	Update(user *model.User) error
	SetAvatarURL(id, avatarURL string) error
	SetVerificationToken(id, token string) error
	RedeemVerificationToken(token string) (*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user, relying on the UNIQUE constraint on email to
// reject duplicates. This is a single atomic statement, so concurrent
// signups for the same address cannot both succeed.
func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, email, password_hash, subscription, verify, verification_token, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query, user.ID, user.Email, user.PasswordHash, user.Subscription,
		user.Verify, user.VerificationToken, user.AvatarURL, user.CreatedAt)
	if err != nil {
		// Unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) All() ([]*model.User, error) {
	users := []*model.User{}
	query := `SELECT * FROM users ORDER BY created_at`

	err := r.db.Select(&users, query)
	return users, err
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users SET email = $1, password_hash = $2, subscription = $3, verify = $4,
		verification_token = $5, avatar_url = $6 WHERE id = $7`

	_, err := r.db.Exec(query, user.Email, user.PasswordHash, user.Subscription,
		user.Verify, user.VerificationToken, user.AvatarURL, user.ID)
	return err
}

func (r *userRepository) SetAvatarURL(id, avatarURL string) error {
	query := `UPDATE users SET avatar_url = $1 WHERE id = $2`

	result, err := r.db.Exec(query, avatarURL, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) SetVerificationToken(id, token string) error {
	query := `UPDATE users SET verification_token = $1 WHERE id = $2`

	_, err := r.db.Exec(query, token, id)
	return err
}

// RedeemVerificationToken flips the user to verified and clears the token in
// one atomic UPDATE. Only the first redemption can match; a second attempt
// with the same value (or an already-verified account) gets ErrUserNotFound.
func (r *userRepository) RedeemVerificationToken(token string) (*model.User, error) {
	user := &model.User{}
	query := `
		UPDATE users
		SET verify = TRUE, verification_token = NULL
		WHERE verification_token = $1
		RETURNING *
	`

	err := r.db.Get(user, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}
