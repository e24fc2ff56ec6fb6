package service

import (
	"github.com/meridianapps/contacts-api/internal/model"
	"github.com/meridianapps/contacts-api/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) All() ([]*model.User, error) {
	return s.userRepository.All()
}
