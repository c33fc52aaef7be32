package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/repository"
	"github.com/iliyamo/parkspace/internal/utils"
)

const invalidCredentials = "Invalid email or password"

type RegisterInput struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	FullName string     `json:"fullName"`
	Role     model.Role `json:"role"`
	Phone    string     `json:"phone"`
}

// AuthService is the credential store.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	// FindByID and FindByEmail return (nil, nil) when no user matches.
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// EnsureAdmin creates the admin account unless it already exists.
	EnsureAdmin(ctx context.Context, email, password, fullName string) (*model.User, bool, error)
}

type authService struct {
	users UserRepo
	cost  int
	log   *zap.Logger
	now   func() time.Time

	dummyOnce sync.Once
	dummy     string
}

func NewAuthService(users UserRepo, bcryptCost int, log *zap.Logger) AuthService {
	return &authService{users: users, cost: bcryptCost, log: log, now: time.Now}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.FullName == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, validation("fullName, email, password, and role are required")
	}
	if in.Role != model.RoleConsumer && in.Role != model.RoleProvider {
		return nil, validation("Only consumer or provider registrations are allowed")
	}
	if utf8.RuneCountInString(in.Password) < utils.MinPasswordLength {
		return nil, validation("Password must be at least 8 characters long")
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, validation("fullName cannot be empty")
	}
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, validation("email cannot be empty")
	}

	hash, err := utils.HashPassword(in.Password, s.cost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return nil, validation("Password must be at most 72 bytes")
	}
	if err != nil {
		return nil, storage("hash password", err)
	}

	now := s.now().UTC()
	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if u.Role != model.RoleProvider {
		err = s.users.Create(ctx, u)
	} else {
		var p *model.ProviderProfile
		p, err = newPendingProfile("", ProfileFields{
			BusinessName: fullName,
			ContactName:  fullName,
			Phone:        in.Phone,
		}, now)
		if err != nil {
			return nil, err
		}
		err = s.users.CreateProvider(ctx, u, p)
	}
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, conflict("A user with this email already exists")
		}
		if u.Role == model.RoleProvider {
			s.log.Warn("provider registration rolled back", zap.String("email", email), zap.Error(err))
		}
		return nil, storage("create user", err)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, validation("email and password are required")
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, validation("email cannot be empty")
	}

	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// spend the same bcrypt time as a real mismatch
		utils.VerifyPassword(s.dummyHash(), password)
		return nil, authFailed(invalidCredentials)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, authFailed(invalidCredentials)
	}
	return u, nil
}

func (s *authService) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage("find user", err)
	}
	return u, nil
}

func (s *authService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage("find user", err)
	}
	return u, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, email, password, fullName string) (*model.User, bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, false, validation("admin email and password are required")
	}
	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.Role != model.RoleAdmin {
			return nil, false, conflict("A non-admin user with this email already exists")
		}
		return existing, false, nil
	}
	if utf8.RuneCountInString(password) < utils.MinPasswordLength {
		return nil, false, validation("Password must be at least 8 characters long")
	}
	if strings.TrimSpace(fullName) == "" {
		fullName = "Administrator"
	}
	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return nil, false, storage("hash password", err)
	}
	now := s.now().UTC()
	u := &model.User{Email: email, PasswordHash: hash, FullName: strings.TrimSpace(fullName), Role: model.RoleAdmin, CreatedAt: now, UpdatedAt: now}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, false, conflict("A user with this email already exists")
		}
		return nil, false, storage("create admin", err)
	}
	return u, true, nil
}

func (s *authService) dummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummy, _ = utils.HashPassword("parkspace-dummy-password", s.cost)
	})
	return s.dummy
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
