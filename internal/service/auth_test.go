package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/repository"
	"github.com/iliyamo/parkspace/internal/utils"
)

func newAuth(users *MockUserRepo) AuthService {
	return NewAuthService(users, bcrypt.MinCost, zap.NewNop())
}

func TestRegister_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing role", RegisterInput{Email: "a@b.c", Password: "password1", FullName: "A"}, "fullName, email, password, and role are required"},
		{"missing password", RegisterInput{Email: "a@b.c", FullName: "A", Role: model.RoleConsumer}, "fullName, email, password, and role are required"},
		{"admin role", RegisterInput{Email: "a@b.c", Password: "password1", FullName: "A", Role: model.RoleAdmin}, "Only consumer or provider registrations are allowed"},
		{"short password", RegisterInput{Email: "a@b.c", Password: "short", FullName: "A", Role: model.RoleConsumer}, "Password must be at least 8 characters long"},
		{"short multibyte password", RegisterInput{Email: "a@b.c", Password: "éééé", FullName: "A", Role: model.RoleConsumer}, "Password must be at least 8 characters long"},
		{"blank name", RegisterInput{Email: "a@b.c", Password: "password1", FullName: "   ", Role: model.RoleConsumer}, "fullName cannot be empty"},
		{"blank email", RegisterInput{Email: "  ", Password: "password1", FullName: "A", Role: model.RoleConsumer}, "email cannot be empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(MockUserRepo)
			_, err := newAuth(users).Register(t.Context(), tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tc.msg, PublicMessage(err))
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			users.AssertNotCalled(t, "CreateProvider", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_ConsumerNormalizesAndHashes(t *testing.T) {
	users := new(MockUserRepo)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "jane@example.com" && u.FullName == "Jane Doe" && u.Role == model.RoleConsumer
	})).Return(nil)

	u, err := newAuth(users).Register(t.Context(), RegisterInput{
		Email: "  Jane@Example.COM ", Password: "password1", FullName: " Jane Doe ", Role: model.RoleConsumer,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "password1", u.PasswordHash)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "password1"))
	users.AssertNotCalled(t, "CreateProvider", mock.Anything, mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestRegister_ProviderOpensPendingProfile(t *testing.T) {
	users := new(MockUserRepo)
	users.On("CreateProvider", mock.Anything,
		mock.MatchedBy(func(u *model.User) bool { return u.Role == model.RoleProvider }),
		mock.MatchedBy(func(p *model.ProviderProfile) bool {
			return p.Status == model.ProviderPending && p.BusinessName == "Pat Lot" &&
				p.ContactName == "Pat Lot" && p.Phone == "0400 000 000"
		}),
	).Return(nil)

	u, err := newAuth(users).Register(t.Context(), RegisterInput{
		Email: "pat@example.com", Password: "password1", FullName: "Pat Lot", Role: model.RoleProvider, Phone: " 0400 000 000 ",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleProvider, u.Role)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestRegister_ProviderWriteFailure(t *testing.T) {
	users := new(MockUserRepo)
	users.On("CreateProvider", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("insert provider profile: disk full"))

	u, err := newAuth(users).Register(t.Context(), RegisterInput{
		Email: "pat@example.com", Password: "password1", FullName: "Pat", Role: model.RoleProvider,
	})
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, "Internal server error", PublicMessage(err))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepo)
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailExists)

	_, err := newAuth(users).Register(t.Context(), RegisterInput{
		Email: "dup@example.com", Password: "password1", FullName: "Dup", Role: model.RoleConsumer,
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "A user with this email already exists", PublicMessage(err))
}

func TestRegister_StorageErrorIsHidden(t *testing.T) {
	users := new(MockUserRepo)
	users.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := newAuth(users).Register(t.Context(), RegisterInput{
		Email: "x@example.com", Password: "password1", FullName: "X", Role: model.RoleConsumer,
	})
	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, "Internal server error", PublicMessage(err))
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: "u1", Email: "jane@example.com", PasswordHash: hash, Role: model.RoleConsumer}

	users := new(MockUserRepo)
	users.On("GetByEmail", mock.Anything, "jane@example.com").Return(stored, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)
	svc := newAuth(users)

	u, err := svc.Login(t.Context(), " JANE@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = svc.Login(t.Context(), "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, "Invalid email or password", PublicMessage(err))

	// unknown email is indistinguishable from a bad password
	_, err = svc.Login(t.Context(), "ghost@example.com", "password1")
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, "Invalid email or password", PublicMessage(err))

	_, err = svc.Login(t.Context(), "", "password1")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "email and password are required", PublicMessage(err))
}

func TestFindByID_MissingIsNil(t *testing.T) {
	users := new(MockUserRepo)
	users.On("GetByID", mock.Anything, "gone").Return(nil, repository.ErrUserNotFound)

	u, err := newAuth(users).FindByID(t.Context(), "gone")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("creates when missing", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", mock.Anything, "root@example.com").Return(nil, repository.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleAdmin && u.FullName == "Administrator"
		})).Return(nil)

		u, created, err := newAuth(users).EnsureAdmin(t.Context(), "Root@example.com", "password1", "")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, model.RoleAdmin, u.Role)
	})

	t.Run("keeps existing admin", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", mock.Anything, "root@example.com").
			Return(&model.User{ID: "a1", Role: model.RoleAdmin}, nil)

		u, created, err := newAuth(users).EnsureAdmin(t.Context(), "root@example.com", "password1", "Root")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "a1", u.ID)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", mock.Anything, "root@example.com").Return(nil, repository.ErrUserNotFound)

		_, _, err := newAuth(users).EnsureAdmin(t.Context(), "root@example.com", "ñññññ", "Root")
		assert.ErrorIs(t, err, ErrValidation)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("refuses to promote a consumer", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", mock.Anything, "root@example.com").
			Return(&model.User{ID: "c1", Role: model.RoleConsumer}, nil)

		_, _, err := newAuth(users).EnsureAdmin(t.Context(), "root@example.com", "password1", "Root")
		assert.ErrorIs(t, err, ErrConflict)
	})
}
