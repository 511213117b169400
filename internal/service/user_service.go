package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"usermgmt/internal/entities"
	"usermgmt/internal/models"
	"usermgmt/internal/repository"
)

// DefaultHashCost is the bcrypt work factor applied to new passwords
const DefaultHashCost = 10

// bcrypt only reads the first 72 bytes of a password
const maxHashedPasswordBytes = 72

// UserService defines the interface for user business logic
type UserService interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*entities.User, error)
	ListUsers(ctx context.Context) ([]*entities.User, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	UpdateUser(ctx context.Context, id string, update entities.UserUpdate) error
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
	hashCost int
}

// NewUserService creates a new user service. A hashCost of zero selects DefaultHashCost.
func NewUserService(userRepo repository.UserRepository, hashCost int) UserService {
	if hashCost == 0 {
		hashCost = DefaultHashCost
	}
	return &userService{
		userRepo: userRepo,
		validate: newValidator(),
		hashCost: hashCost,
	}
}

// CreateUser validates the input, hashes the password and stores the user.
// Invalid input yields *ValidationError listing every bad field; a store
// failure yields *PersistenceError.
func (s *userService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*entities.User, error) {
	violations, err := validateStruct(s.validate, req)
	if err != nil {
		return nil, fmt.Errorf("failed to validate user: %w", err)
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Insert(ctx, &entities.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
	})
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}

	return user, nil
}

// hashPassword returns a bcrypt hash; every call draws a fresh salt.
// Input past 72 bytes is dropped instead of rejected.
func (s *userService) hashPassword(password string) (string, error) {
	secret := []byte(password)
	if len(secret) > maxHashedPasswordBytes {
		secret = secret[:maxHashedPasswordBytes]
	}
	hashed, err := bcrypt.GenerateFromPassword(secret, s.hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *userService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdateUser merges the set fields verbatim. Nothing is validated and a
// supplied password is stored as given, without hashing.
func (s *userService) UpdateUser(ctx context.Context, id string, update entities.UserUpdate) error {
	return s.userRepo.UpdateByID(ctx, id, update)
}

// DeleteUser removes the user; an unknown id is not an error
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	return s.userRepo.DeleteByID(ctx, id)
}
