package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendly/service-booking/internal/domain"
	userDomain "github.com/lendly/service-booking/internal/domain/user"
)

// CreateUserRequest holds the data needed to register a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest holds a partial user update. Absent fields stay unchanged.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// UserService is the application service for user accounts.
type UserService struct {
	users  userDomain.Repository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users userDomain.Repository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// CreateUser registers a new user. Emails are unique; a duplicate fails with
// a conflict.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	usr, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidInput, err.Error())
	}
	if err := s.users.Save(ctx, usr); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", usr.ID().String()))

	result := toUserDTO(usr)
	return &result, nil
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(usr)
	return &result, nil
}

// ListUsers retrieves all registered users.
func (s *UserService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]UserDTO, len(users))
	for i, usr := range users {
		dtos[i] = toUserDTO(usr)
	}
	return dtos, nil
}

// UpdateUser applies a partial update to a user profile.
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := usr.Update(req.Name, req.Email); err != nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidInput, err.Error())
	}
	if err := s.users.Update(ctx, usr); err != nil {
		return nil, err
	}

	result := toUserDTO(usr)
	return &result, nil
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

func toUserDTO(usr *userDomain.User) UserDTO {
	return UserDTO{ID: usr.ID(), Name: usr.Name(), Email: usr.Email()}
}
