package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/meridianapps/contacts-api/internal/model"
	"github.com/meridianapps/contacts-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields      = errors.New("missing required fields email or password")
	ErrEmailInUse         = errors.New("email in use")
	ErrInvalidCredentials = errors.New("email or password is wrong")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAlreadyVerified    = errors.New("verification has already been passed")
)

// VerificationSender dispatches a one-time verification token to an address.
type VerificationSender interface {
	SendVerificationEmail(email, token string) error
}

type AuthService struct {
	userRepository    repository.UserRepository
	sessionRepository repository.SessionRepository
	emailSender       VerificationSender
	jwtSecret         string
	jwtExpiry         time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	sessionRepository repository.SessionRepository,
	emailSender VerificationSender,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		emailSender:       emailSender,
		jwtSecret:         jwtSecret,
		jwtExpiry:         jwtExpiry,
	}
}

// Signup creates an unverified account and returns it together with a session
// token. Uniqueness is enforced by the store's insert, not a prior existence
// check, so concurrent signups for the same email cannot both succeed. The
// verification email is best-effort: a dispatch failure is logged and does
// not roll back the created user. Note that the returned token is
// login-capable before the email is verified; that matches the upstream
// behavior and is deliberate.
func (s *AuthService) Signup(email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := s.GenerateVerificationToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate verification token: %w", err)
	}

	user := &model.User{
		ID:                uuid.New().String(),
		Email:             email,
		PasswordHash:      hash,
		Subscription:      model.SubscriptionStarter,
		Verify:            false,
		VerificationToken: &verificationToken,
		CreatedAt:         time.Now(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	err = s.emailSender.SendVerificationEmail(user.Email, verificationToken)
	if err != nil {
		slog.Error("failed to send verification email", "error", err, "email", user.Email)
	}

	token, err := s.issueSession(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user signed up", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login checks the credentials and issues a fresh session token. An unknown
// email and a wrong password return the same error so callers cannot tell
// which field was at fault.
func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Logout clears the user's recorded session tokens. It is advisory only:
// already-issued JWTs verify by signature and expiry, so they stay valid
// until they expire naturally. Idempotent.
func (s *AuthService) Logout(userID string) error {
	err := s.sessionRepository.ClearByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	slog.Info("user logged out", "user_id", userID)
	return nil
}

// VerifyEmail redeems a verification token. Redemption is exactly single-use:
// the store clears the token atomically while flipping the verified flag, so
// a second attempt with the same value fails with ErrUserNotFound. That miss
// is also the "already verified" signal.
func (s *AuthService) VerifyEmail(token string) (*model.User, error) {
	user, err := s.userRepository.RedeemVerificationToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to redeem verification token: %w", err)
	}

	slog.Info("email verified", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// ResendVerification mints a fresh verification token for an unverified
// account and re-dispatches the email. Sending is best-effort; only the
// token mint has to succeed.
func (s *AuthService) ResendVerification(email string) error {
	if email == "" {
		return ErrMissingFields
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.Verify {
		return ErrAlreadyVerified
	}

	verificationToken, err := s.GenerateVerificationToken()
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	err = s.userRepository.SetVerificationToken(user.ID, verificationToken)
	if err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	err = s.emailSender.SendVerificationEmail(user.Email, verificationToken)
	if err != nil {
		slog.Error("failed to send verification email", "error", err, "email", user.Email)
	}

	return nil
}

// ResolveBearer verifies a bearer token and resolves its email claim to a
// stored user. Every failure collapses to ErrInvalidToken so a stale token
// for a deleted account is indistinguishable from a forged one.
func (s *AuthService) ResolveBearer(tokenString string) (*model.User, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateVerificationToken returns an opaque one-time token.
func (s *AuthService) GenerateVerificationToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"email": user.Email,
		"exp":   time.Now().Add(s.jwtExpiry).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// issueSession signs a JWT for the user and records it in the session list.
func (s *AuthService) issueSession(user *model.User) (string, error) {
	token, err := s.GenerateJWT(user)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	err = s.sessionRepository.Add(&model.SessionToken{
		UserID: user.ID,
		Token:  token,
	})
	if err != nil {
		return "", fmt.Errorf("failed to record session: %w", err)
	}

	return token, nil
}
