package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"exhibae/internal/shared/config"
	"exhibae/internal/users"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateUser(ctx context.Context, user *users.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockRepository) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *mockRepository) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *mockRepository) UpdateUserPassword(ctx context.Context, userID, hashedPassword string) error {
	args := m.Called(ctx, userID, hashedPassword)
	return args.Error(0)
}

func (m *mockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestRegister_Success(t *testing.T) {
	repo := new(mockRepository)
	repo.On("EmailExists", mock.Anything, "brand@example.com").Return(false, nil)
	repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*users.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*users.User)
			user.ID = uuid.New()
		}).Return(nil)

	svc := NewService(repo, testConfig())
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FullName: "Bella Brand",
		Email:    "brand@example.com",
		Password: "password123",
		Role:     "brand",
	})

	assert.NoError(t, err)
	assert.Equal(t, "BRAND", resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// password must never be stored in the clear
	user := repo.Calls[1].Arguments.Get(1).(*users.User)
	assert.NotEqual(t, "password123", user.Password)
}

func TestRegister_UnknownRoleDefaultsToShopper(t *testing.T) {
	repo := new(mockRepository)
	repo.On("EmailExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, testConfig())
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FullName: "Sam Shopper",
		Email:    "sam@example.com",
		Password: "password123",
		Role:     "superadmin",
	})

	assert.NoError(t, err)
	assert.Equal(t, string(users.RoleShopper), resp.User.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(mockRepository)
	repo.On("EmailExists", mock.Anything, "taken@example.com").Return(true, nil)

	svc := NewService(repo, testConfig())
	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	user := &users.User{
		ID:       uuid.New(),
		Email:    "brand@example.com",
		Password: "",
		Role:     users.RoleBrand,
	}

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(mockRepository)
		u := *user
		u.Password = hashPassword(t, "password123")
		repo.On("GetUserByEmail", mock.Anything, u.Email).Return(&u, nil)

		svc := NewService(repo, testConfig())
		resp, err := svc.Login(context.Background(), &LoginRequest{Email: u.Email, Password: "password123"})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(mockRepository)
		u := *user
		u.Password = hashPassword(t, "password123")
		repo.On("GetUserByEmail", mock.Anything, u.Email).Return(&u, nil)

		svc := NewService(repo, testConfig())
		_, err := svc.Login(context.Background(), &LoginRequest{Email: u.Email, Password: "nope"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email reads like wrong password", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrUserNotFound)

		svc := NewService(repo, testConfig())
		_, err := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "password123"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	user := &users.User{ID: uuid.New(), Email: "brand@example.com", Role: users.RoleBrand}

	t.Run("refresh token rotates the pair", func(t *testing.T) {
		repo := new(mockRepository)
		u := *user
		u.Password = hashPassword(t, "password123")
		repo.On("GetUserByEmail", mock.Anything, u.Email).Return(&u, nil)
		repo.On("GetUserByID", mock.Anything, u.ID.String()).Return(&u, nil)

		svc := NewService(repo, testConfig())
		login, err := svc.Login(context.Background(), &LoginRequest{Email: u.Email, Password: "password123"})
		assert.NoError(t, err)

		pair, err := svc.RefreshToken(context.Background(), login.RefreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		repo := new(mockRepository)
		u := *user
		u.Password = hashPassword(t, "password123")
		repo.On("GetUserByEmail", mock.Anything, u.Email).Return(&u, nil)

		svc := NewService(repo, testConfig())
		login, err := svc.Login(context.Background(), &LoginRequest{Email: u.Email, Password: "password123"})
		assert.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), login.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewService(new(mockRepository), testConfig())
		_, err := svc.RefreshToken(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateToken_ClaimsRoundTrip(t *testing.T) {
	repo := new(mockRepository)
	user := &users.User{
		ID:       uuid.New(),
		Email:    "organiser@example.com",
		Password: hashPassword(t, "password123"),
		Role:     users.RoleOrganiser,
	}
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := NewService(repo, testConfig())
	login, err := svc.Login(context.Background(), &LoginRequest{Email: user.Email, Password: "password123"})
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(login.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, string(users.RoleOrganiser), claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestChangePassword(t *testing.T) {
	repo := new(mockRepository)
	user := &users.User{
		ID:       uuid.New(),
		Password: hashPassword(t, "oldpassword"),
	}
	repo.On("GetUserByID", mock.Anything, user.ID.String()).Return(user, nil)
	repo.On("UpdateUserPassword", mock.Anything, user.ID.String(), mock.AnythingOfType("string")).Return(nil)

	svc := NewService(repo, testConfig())

	err := svc.ChangePassword(context.Background(), user.ID.String(), &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), user.ID.String(), &ChangePasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword",
	})
	assert.NoError(t, err)
}
