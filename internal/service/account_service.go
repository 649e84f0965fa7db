package service

import (
	"context"
	"errors"
	"strings"

	"yatube/internal/database"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Signup failures, each tied to one form field.
var (
	ErrUsernameInvalid  = models.NewValidationError("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	ErrUsernameReserved = models.NewValidationError("This username is not available.")
	ErrUsernameTaken    = models.NewValidationError("A user with that username already exists.")
	ErrPasswordTooShort = models.NewValidationError("This password is too short. It must contain at least 8 characters.")
)

type AccountService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

func NewAccountService(userRepo repository.UserRepository, bcryptCost int) *AccountService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{userRepo: userRepo, bcryptCost: bcryptCost}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	if !validation.IsValidUsername(username) {
		return nil, ErrUsernameInvalid
	}
	if validation.IsReservedUsername(username) {
		return nil, ErrUsernameReserved
	}
	if len(in.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  username,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Please enter a correct username and password. Note that both fields may be case-sensitive.")

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

// GetUser loads the account behind a session.
func (s *AccountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User", id)
	}
	return user, nil
}
