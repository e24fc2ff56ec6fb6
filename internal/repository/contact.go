package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/meridianapps/contacts-api/internal/model"
)

type ContactRepository interface {
	Create(contact *model.Contact) error
	ByID(id string) (*model.Contact, error)
	All() ([]*model.Contact, error)
	Update(contact *model.Contact) error
	UpdateFavorite(id string, favorite bool) (*model.Contact, error)
	Delete(id string) error
}

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(contact *model.Contact) error {
	query := `INSERT INTO contacts (id, name, email, phone, age, favorite, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query, contact.ID, contact.Name, contact.Email, contact.Phone,
		contact.Age, contact.Favorite, contact.CreatedAt)
	return err
}

func (r *contactRepository) ByID(id string) (*model.Contact, error) {
	contact := &model.Contact{}
	query := `SELECT * FROM contacts WHERE id = $1`

	err := r.db.Get(contact, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrContactNotFound
	}

	return contact, err
}

func (r *contactRepository) All() ([]*model.Contact, error) {
	contacts := []*model.Contact{}
	query := `SELECT * FROM contacts ORDER BY created_at`

	err := r.db.Select(&contacts, query)
	return contacts, err
}

func (r *contactRepository) Update(contact *model.Contact) error {
	query := `UPDATE contacts SET name = $1, email = $2, phone = $3, age = $4 WHERE id = $5`

	result, err := r.db.Exec(query, contact.Name, contact.Email, contact.Phone, contact.Age, contact.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrContactNotFound
	}

	return nil
}

func (r *contactRepository) UpdateFavorite(id string, favorite bool) (*model.Contact, error) {
	contact := &model.Contact{}
	query := `UPDATE contacts SET favorite = $1 WHERE id = $2 RETURNING *`

	err := r.db.Get(contact, query, favorite, id)
	if err == sql.ErrNoRows {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}

	return contact, nil
}

func (r *contactRepository) Delete(id string) error {
	query := `DELETE FROM contacts WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrContactNotFound
	}

	return nil
}
