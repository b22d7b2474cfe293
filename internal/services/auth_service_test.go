package services_test

import (
	"testing"

	"galleri/internal/models"
	"galleri/internal/repositories"
	"galleri/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "secret")

	userRepo.On("GetByUsername", "anna").Return(nil, repositories.ErrUserNotFound).Once()
	userRepo.On("GetByEmail", "anna@example.com").Return(nil, repositories.ErrUserNotFound).Once()
	userRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Password != "hunter2secret" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("hunter2secret")) == nil
	})).Return(nil).Once()

	err := service.Register(&models.User{
		Username: "anna",
		Email:    "anna@example.com",
		Password: "hunter2secret",
	})

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestAuthService_RegisterTakenUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "secret")

	userRepo.On("GetByUsername", "anna").Return(&models.User{Username: "anna"}, nil).Once()

	err := service.Register(&models.User{Username: "anna", Email: "x@y.se", Password: "hunter2secret"})

	assert.ErrorIs(t, err, services.ErrUserTaken)
}

func TestAuthService_LoginAndValidateToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2secret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{ID: "u-1", Username: "anna", Password: string(hashed)}
	userRepo.On("GetByUsername", "anna").Return(user, nil)

	token, err := service.Login("anna", "hunter2secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "anna", claims["username"])
	assert.Equal(t, "u-1", claims["user_id"])

	_, err = service.Login("anna", "wrong-password")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = service.ValidateToken("not-a-token")
	assert.Error(t, err)
}
