package routes

import (
	"net/http"
	"path/filepath"

	"github.com/meridianapps/contacts-api/internal/app"
	"github.com/meridianapps/contacts-api/internal/handler"
	"github.com/meridianapps/contacts-api/internal/middleware"
	"github.com/meridianapps/contacts-api/internal/storage"
)

func SetupRoutes(a *app.App) http.Handler {
	user := handler.NewUserHandler(a.AuthService, a.UserService, a.AvatarService)
	contact := handler.NewContactHandler(a.ContactService)

	requireAuth := middleware.RequireAuth(a.AuthService)

	mux := http.NewServeMux()

	// Avatars are served straight off the public directory when the local
	// storage backend is active; S3 URLs point at the bucket instead.
	local, ok := a.Storage.(*storage.LocalStorage)
	if ok {
		avatarDir := filepath.Join(local.Dir(), "avatars")
		mux.Handle("GET /avatars/", http.StripPrefix("/avatars/", http.FileServer(http.Dir(avatarDir))))
	}

	// Users
	mux.HandleFunc("GET /users", user.List)
	mux.HandleFunc("POST /users/signup", user.Signup)
	mux.HandleFunc("POST /users/login", user.Login)
	mux.HandleFunc("GET /users/current", requireAuth(user.Current))
	mux.HandleFunc("GET /users/logout", requireAuth(user.Logout))
	mux.HandleFunc("PATCH /users/avatar", requireAuth(user.UploadAvatar))
	mux.HandleFunc("GET /users/verify/{verificationToken}", user.VerifyEmail)
	mux.HandleFunc("POST /users/verify", user.ResendVerification)

	// Contacts. Only update and favorite-toggle are guarded; list, get,
	// create and delete are open, matching the upstream route wiring.
	mux.HandleFunc("GET /contacts", contact.List)
	mux.HandleFunc("GET /contacts/{contactId}", contact.GetByID)
	mux.HandleFunc("POST /contacts", contact.Create)
	mux.HandleFunc("PUT /contacts/{contactId}", requireAuth(contact.Update))
	mux.HandleFunc("PATCH /contacts/{contactId}/favorite", requireAuth(contact.UpdateFavorite))
	mux.HandleFunc("DELETE /contacts/{contactId}", contact.Delete)

	return middleware.Chain(
		mux,
		middleware.RequestLogging,
	)
}
