package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meridianapps/contacts-api/internal/model"
	"github.com/meridianapps/contacts-api/internal/repository"
)

// ContactService is plain CRUD over the contacts collection. Contacts carry
// no ownership link to users; the collection is global.
type ContactService struct {
	contactRepository repository.ContactRepository
}

func NewContactService(contactRepository repository.ContactRepository) *ContactService {
	return &ContactService{contactRepository: contactRepository}
}

func (s *ContactService) All() ([]*model.Contact, error) {
	return s.contactRepository.All()
}

func (s *ContactService) ByID(id string) (*model.Contact, error) {
	return s.contactRepository.ByID(id)
}

func (s *ContactService) Create(name, email, phone string, age int, favorite bool) (*model.Contact, error) {
	contact := &model.Contact{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Age:       age,
		Favorite:  favorite,
		CreatedAt: time.Now(),
	}

	err := s.contactRepository.Create(contact)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return contact, nil
}

// Update replaces the name, email, phone and age fields; favorite is only
// touched through UpdateFavorite.
func (s *ContactService) Update(id, name, email, phone string, age int) (*model.Contact, error) {
	contact, err := s.contactRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	contact.Name = name
	contact.Email = email
	contact.Phone = phone
	contact.Age = age

	err = s.contactRepository.Update(contact)
	if err != nil {
		return nil, err
	}

	return contact, nil
}

func (s *ContactService) UpdateFavorite(id string, favorite bool) (*model.Contact, error) {
	return s.contactRepository.UpdateFavorite(id, favorite)
}

func (s *ContactService) Delete(id string) error {
	return s.contactRepository.Delete(id)
}
