package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/queue"
	"github.com/iliyamo/parkspace/internal/repository"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil && u.ID == "" {
		u.ID = "user-1"
	}
	return args.Error(0)
}

func (m *MockUserRepo) CreateProvider(ctx context.Context, u *model.User, p *model.ProviderProfile) error {
	args := m.Called(ctx, u, p)
	if args.Error(0) == nil && u.ID == "" {
		u.ID = "user-1"
		p.UserID = u.ID
	}
	return args.Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type MockProfileRepo struct{ mock.Mock }

func (m *MockProfileRepo) Create(ctx context.Context, p *model.ProviderProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.ProviderProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*model.ProviderProfile)
	return p, args.Error(1)
}

func (m *MockProfileRepo) ListByStatus(ctx context.Context, status model.ProviderStatus) ([]model.ProviderProfile, error) {
	args := m.Called(ctx, status)
	l, _ := args.Get(0).([]model.ProviderProfile)
	return l, args.Error(1)
}

func (m *MockProfileRepo) UpdateStatus(ctx context.Context, userID string, status model.ProviderStatus, notes *string, at time.Time) error {
	return m.Called(ctx, userID, status, notes, at).Error(0)
}

type MockSpaceRepo struct{ mock.Mock }

func (m *MockSpaceRepo) Create(ctx context.Context, s *model.Space) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil && s.ID == "" {
		s.ID = "space-1"
	}
	return args.Error(0)
}

func (m *MockSpaceRepo) GetByID(ctx context.Context, id string) (*model.Space, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Space)
	return s, args.Error(1)
}

func (m *MockSpaceRepo) GetByIDAndProvider(ctx context.Context, id, providerID string) (*model.Space, error) {
	args := m.Called(ctx, id, providerID)
	s, _ := args.Get(0).(*model.Space)
	return s, args.Error(1)
}

func (m *MockSpaceRepo) GetPublicByID(ctx context.Context, id string) (*model.Space, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Space)
	return s, args.Error(1)
}

func (m *MockSpaceRepo) ListByProvider(ctx context.Context, providerID string) ([]model.Space, error) {
	args := m.Called(ctx, providerID)
	l, _ := args.Get(0).([]model.Space)
	return l, args.Error(1)
}

func (m *MockSpaceRepo) ListByStatus(ctx context.Context, status model.SpaceStatus) ([]model.Space, error) {
	args := m.Called(ctx, status)
	l, _ := args.Get(0).([]model.Space)
	return l, args.Error(1)
}

func (m *MockSpaceRepo) ListPublic(ctx context.Context, limit int) ([]model.Space, error) {
	args := m.Called(ctx, limit)
	l, _ := args.Get(0).([]model.Space)
	return l, args.Error(1)
}

func (m *MockSpaceRepo) UpdateContent(ctx context.Context, s *model.Space) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSpaceRepo) SetActive(ctx context.Context, id, providerID string, active bool, at time.Time) error {
	return m.Called(ctx, id, providerID, active, at).Error(0)
}

func (m *MockSpaceRepo) ApplyModeration(ctx context.Context, id string, mod repository.Moderation) error {
	return m.Called(ctx, id, mod).Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishModeration(ctx context.Context, ev queue.ModerationEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type MockInvalidator struct{ mock.Mock }

func (m *MockInvalidator) Purge(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
