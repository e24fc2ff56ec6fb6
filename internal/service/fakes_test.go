package service

import (
	"sync"

	"github.com/meridianapps/contacts-api/internal/model"
	"github.com/meridianapps/contacts-api/internal/repository"
)

// memUserRepo is an in-memory UserRepository for tests. It mirrors the SQL
// implementation's contracts: unique email on Create, atomic single-use
// redemption of verification tokens.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by ID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) ByID(id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) ByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) All() ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memUserRepo) Update(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) SetAvatarURL(id, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.AvatarURL = &avatarURL
	return nil
}

func (r *memUserRepo) SetVerificationToken(id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.VerificationToken = &token
	return nil
}

func (r *memUserRepo) RedeemVerificationToken(token string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			u.Verify = true
			u.VerificationToken = nil
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type memSessionRepo struct {
	mu     sync.Mutex
	tokens map[string][]string // userID -> tokens
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{tokens: make(map[string][]string)}
}

func (r *memSessionRepo) Add(token *model.SessionToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.UserID] = append(r.tokens[token.UserID], token.Token)
	return nil
}

func (r *memSessionRepo) ClearByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}

func (r *memSessionRepo) CountByUser(userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens[userID]), nil
}

// fakeSender records dispatched verification emails and optionally fails.
type fakeSender struct {
	mu   sync.Mutex
	sent []string // tokens in dispatch order
	err  error
}

func (s *fakeSender) SendVerificationEmail(email, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, token)
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type memContactRepo struct {
	mu       sync.Mutex
	contacts map[string]*model.Contact
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{contacts: make(map[string]*model.Contact)}
}

func (r *memContactRepo) Create(contact *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *contact
	r.contacts[contact.ID] = &clone
	return nil
}

func (r *memContactRepo) ByID(id string) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *memContactRepo) All() ([]*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memContactRepo) Update(contact *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[contact.ID]
	if !ok {
		return repository.ErrContactNotFound
	}
	c.Name = contact.Name
	c.Email = contact.Email
	c.Phone = contact.Phone
	c.Age = contact.Age
	return nil
}

func (r *memContactRepo) UpdateFavorite(id string, favorite bool) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	c.Favorite = favorite
	clone := *c
	return &clone, nil
}

func (r *memContactRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[id]; !ok {
		return repository.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}
