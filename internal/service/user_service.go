package service

import (
	"github.com/google/uuid"
	"github.com/kredio/kredio-backend/internal/domain"
)

// UserService handles user provisioning from Auth0 identities
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateOrGetUser provisions a user on first login and returns the
// existing record on subsequent ones
func (s *UserService) CreateOrGetUser(auth0ID, email string, name *string) (*domain.User, error) {
	return s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name)
}

// GetUserByAuth0ID retrieves a user by Auth0 subject
func (s *UserService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetUserIDByAuth0ID resolves an Auth0 subject to the internal user ID.
// Satisfies both the auth middleware's and the websocket validator's
// lookup interfaces.
func (s *UserService) GetUserIDByAuth0ID(auth0ID string) (uuid.UUID, error) {
	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
