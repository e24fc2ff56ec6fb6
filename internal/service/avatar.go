package service

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/meridianapps/contacts-api/internal/repository"
	"github.com/meridianapps/contacts-api/internal/storage"
)

// AvatarService ingests uploaded images and persists the normalized result.
// Normalization is policy, not an accident: every avatar is resized to a
// fixed square, converted to greyscale and re-encoded as JPEG at reduced
// quality to cap the storage footprint.
type AvatarService struct {
	userRepository repository.UserRepository
	storage        storage.Storage
	size           int
	quality        int
}

func NewAvatarService(userRepository repository.UserRepository, store storage.Storage, size, quality int) *AvatarService {
	return &AvatarService{
		userRepository: userRepository,
		storage:        store,
		size:           size,
		quality:        quality,
	}
}

// Upload normalizes the image, stores it under a key derived from the user's
// identity and the upload time, and updates the user's avatar reference. The
// persisted and returned value is the backend's public reference for the
// object: the relative path for local storage, the bucket URL for S3.
func (s *AvatarService) Upload(userID string, file io.Reader) (string, error) {
	normalized, err := s.Normalize(file)
	if err != nil {
		return "", fmt.Errorf("failed to process image: %w", err)
	}

	avatarPath := fmt.Sprintf("avatars/%s-%d.jpg", userID, time.Now().UnixNano())

	err = s.storage.Save(avatarPath, normalized)
	if err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	avatarURL := s.storage.URL(avatarPath)

	err = s.userRepository.SetAvatarURL(userID, avatarURL)
	if err != nil {
		// Keep the store consistent with the user record.
		delErr := s.storage.Delete(avatarPath)
		if delErr != nil {
			slog.Error("failed to delete orphaned avatar", "error", delErr, "path", avatarPath)
		}
		return "", fmt.Errorf("failed to update avatar reference: %w", err)
	}

	slog.Info("avatar updated", "user_id", userID, "url", avatarURL)
	return avatarURL, nil
}

// Normalize decodes the image and applies the avatar policy: fixed square
// resize, greyscale, JPEG at reduced quality.
func (s *AvatarService) Normalize(file io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = imaging.Resize(img, s.size, s.size, imaging.Lanczos)
	img = imaging.Grayscale(img)

	var buf bytes.Buffer
	err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(s.quality))
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &buf, nil
}
