package handler

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/meridianapps/contacts-api/internal/middleware"
	"github.com/meridianapps/contacts-api/internal/model"
	"github.com/meridianapps/contacts-api/internal/repository"
	"github.com/meridianapps/contacts-api/internal/service"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
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
	tokens map[string][]string
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

type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (s *memStorage) Save(path string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *memStorage) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *memStorage) URL(path string) string { return path }

type noopSender struct{}

func (noopSender) SendVerificationEmail(string, string) error { return nil }

// testEnv wires the real handlers and services over in-memory stores and
// mounts them on a mux with the production route patterns.
type testEnv struct {
	mux      *http.ServeMux
	users    *memUserRepo
	sessions *memSessionRepo
	contacts *memContactRepo
	storage  *memStorage
	auth     *service.AuthService
}

func newTestEnv() *testEnv {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	contacts := newMemContactRepo()
	store := newMemStorage()

	authService := service.NewAuthService(users, sessions, noopSender{}, "test-secret", 24*time.Hour)
	userService := service.NewUserService(users)
	avatarService := service.NewAvatarService(users, store, 250, 60)
	contactService := service.NewContactService(contacts)

	user := NewUserHandler(authService, userService, avatarService)
	contact := NewContactHandler(contactService)

	requireAuth := middleware.RequireAuth(authService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", user.List)
	mux.HandleFunc("POST /users/signup", user.Signup)
	mux.HandleFunc("POST /users/login", user.Login)
	mux.HandleFunc("GET /users/current", requireAuth(user.Current))
	mux.HandleFunc("GET /users/logout", requireAuth(user.Logout))
	mux.HandleFunc("PATCH /users/avatar", requireAuth(user.UploadAvatar))
	mux.HandleFunc("GET /users/verify/{verificationToken}", user.VerifyEmail)
	mux.HandleFunc("POST /users/verify", user.ResendVerification)
	mux.HandleFunc("GET /contacts", contact.List)
	mux.HandleFunc("GET /contacts/{contactId}", contact.GetByID)
	mux.HandleFunc("POST /contacts", contact.Create)
	mux.HandleFunc("PUT /contacts/{contactId}", requireAuth(contact.Update))
	mux.HandleFunc("PATCH /contacts/{contactId}/favorite", requireAuth(contact.UpdateFavorite))
	mux.HandleFunc("DELETE /contacts/{contactId}", contact.Delete)

	return &testEnv{
		mux:      mux,
		users:    users,
		sessions: sessions,
		contacts: contacts,
		storage:  store,
		auth:     authService,
	}
}
