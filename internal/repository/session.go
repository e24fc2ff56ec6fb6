package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/meridianapps/contacts-api/internal/model"
)

type SessionRepository interface {
	Add(token *model.SessionToken) error
	ClearByUser(userID string) error
	CountByUser(userID string) (int, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Add(token *model.SessionToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `INSERT INTO session_tokens (id, user_id, token, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, token.ID, token.UserID, token.Token, token.CreatedAt)
	return err
}

// ClearByUser removes every recorded token for the user. Logout calls this;
// deleting zero rows is not an error, so repeated logouts are idempotent.
func (r *sessionRepository) ClearByUser(userID string) error {
	query := `DELETE FROM session_tokens WHERE user_id = $1`

	_, err := r.db.Exec(query, userID)
	return err
}

func (r *sessionRepository) CountByUser(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM session_tokens WHERE user_id = $1`

	err := r.db.Get(&count, query, userID)
	return count, err
}
