package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pos-service/internal/auth"
	"pos-service/internal/logger"
	"pos-service/internal/models"
	"pos-service/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// AuthService registers accounts and exchanges credentials for signed
// session tokens.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	mylog  *logger.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, mylog *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mylog:  mylog,
	}
}

// Register creates a new account. The password is stored only as a bcrypt
// hash; the returned user never carries it.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || role == "" {
		return nil, fmt.Errorf("%w: username, password and role required", repository.ErrInvalidInput)
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
		Role:     role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check races against concurrent registration; the unique
		// constraint is the authority.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		s.mylog.Error("", "register_failed", fmt.Sprintf("Failed to register %s", username), err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.mylog.Info("", "user_registered", fmt.Sprintf("User %s registered as %s", username, role))
	user.Password = ""
	return user, nil
}

// Login verifies username, password and role together and issues a session
// token. Every failure mode collapses into the same credentials error.
func (s *AuthService) Login(ctx context.Context, username, password, role string) (*models.User, string, error) {
	if username == "" || password == "" || role == "" {
		return nil, "", fmt.Errorf("%w: username, password and role required", repository.ErrInvalidInput)
	}

	user, err := s.users.GetByUsernameAndRole(ctx, username, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.UserID, user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.mylog.Info("", "user_logged_in", fmt.Sprintf("User %s logged in as %s", username, role))
	user.Password = ""
	return user, token, nil
}
