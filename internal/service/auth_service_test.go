package service

import (
	"context"
	"testing"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/models"
	"pos-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(users repository.UserRepository) *AuthService {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(users, tokens, testLog)
}

func TestRegister_HashesPassword(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := newAuthService(mockUsers)

	var storedHash string
	mockUsers.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(nil).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*models.User)
			user.UserID = 1
			storedHash = user.Password
		})

	user, err := svc.Register(context.Background(), "alice", "pw123456", models.RoleCashier)

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleCashier, user.Role)
	assert.Empty(t, user.Password)

	assert.NotEqual(t, "pw123456", storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("pw123456")))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := newAuthService(mockUsers)

	mockUsers.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)

	_, err := svc.Register(context.Background(), "alice", "pw123456", models.RoleCashier)

	assert.ErrorIs(t, err, ErrUsernameTaken)
	mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateLostPrecheckRace(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := newAuthService(mockUsers)

	mockUsers.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Register(context.Background(), "alice", "pw123456", models.RoleCashier)

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newAuthService(new(MockUserRepository))

	_, err := svc.Register(context.Background(), "", "pw123456", models.RoleCashier)
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = svc.Register(context.Background(), "alice", "", models.RoleCashier)
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = svc.Register(context.Background(), "alice", "pw123456", "")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestLogin_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	svc := NewAuthService(mockUsers, tokens, testLog)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)

	mockUsers.On("GetByUsernameAndRole", mock.Anything, "alice", models.RoleCashier).
		Return(&models.User{UserID: 1, Username: "alice", Password: string(hash), Role: models.RoleCashier}, nil)

	user, token, err := svc.Login(context.Background(), "alice", "pw123456", models.RoleCashier)

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.Password)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleCashier, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := newAuthService(mockUsers)

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	mockUsers.On("GetByUsernameAndRole", mock.Anything, "alice", models.RoleCashier).
		Return(&models.User{UserID: 1, Username: "alice", Password: string(hash), Role: models.RoleCashier}, nil)

	_, _, err := svc.Login(context.Background(), "alice", "wrong", models.RoleCashier)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongRole(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := newAuthService(mockUsers)

	// Registered as Cashier; claiming Admin finds no row.
	mockUsers.On("GetByUsernameAndRole", mock.Anything, "alice", models.RoleAdmin).
		Return(nil, repository.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "alice", "pw123456", models.RoleAdmin)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
