package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/meridianapps/contacts-api/internal/ctxkeys"
	"github.com/meridianapps/contacts-api/internal/repository"
	"github.com/meridianapps/contacts-api/internal/service"
	"github.com/meridianapps/contacts-api/internal/validation"
)

type UserHandler struct {
	authService   *service.AuthService
	userService   *service.UserService
	avatarService *service.AvatarService
}

func NewUserHandler(authService *service.AuthService, userService *service.UserService, avatarService *service.AvatarService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		userService:   userService,
		avatarService: avatarService,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.All()
	if err != nil {
		slog.Error("failed to list users", "error", err)
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondData(w, http.StatusOK, users)
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Signup(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(w, http.StatusBadRequest, "Missing required fields email or password")
		case errors.Is(err, service.ErrEmailInUse):
			respondError(w, http.StatusConflict, "Email in use")
		default:
			slog.Error("signup failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondData(w, http.StatusCreated, map[string]any{
		"email": user.Email,
		"token": token,
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(w, http.StatusBadRequest, "Missing required fields email or password")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Email or password is wrong")
		default:
			slog.Error("login failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"email":        user.Email,
		"token":        token,
		"subscription": user.Subscription,
	})
}

func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	respondData(w, http.StatusOK, map[string]any{
		"email":        user.Email,
		"subscription": user.Subscription,
		"id":           user.ID,
	})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.Logout(user.ID)
	if err != nil {
		slog.Error("logout failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := r.ParseMultipartForm(8 << 20)
	if err != nil {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}
	// Multipart parsing may spill large uploads to temp files; remove them
	// even when a later step fails.
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	avatarURL, err := h.avatarService.Upload(user.ID, file)
	if err != nil {
		slog.Error("avatar upload failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"avatarURL": avatarURL,
	})
}

func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("verificationToken")

	_, err := h.authService.VerifyEmail(token)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondMessage(w, http.StatusOK, "Verification successful")
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

func (h *UserHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.authService.ResendVerification(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(w, http.StatusBadRequest, "missing required field email")
		case errors.Is(err, repository.ErrUserNotFound):
			respondError(w, http.StatusBadRequest, "User does not exist")
		case errors.Is(err, service.ErrAlreadyVerified):
			respondError(w, http.StatusBadRequest, "Verification has already been passed")
		default:
			slog.Error("resend verification failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondMessage(w, http.StatusOK, "Verification email sent")
}
