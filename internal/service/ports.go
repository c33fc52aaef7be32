// Package service implements the marketplace rules: the credential store,
// the provider profile lifecycle and the space listing lifecycle.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/queue"
	"github.com/iliyamo/parkspace/internal/repository"
)

type UserRepo interface {
	Create(ctx context.Context, u *model.User) error
	// CreateProvider writes the user and its profile atomically.
	CreateProvider(ctx context.Context, u *model.User, p *model.ProviderProfile) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type ProfileRepo interface {
	Create(ctx context.Context, p *model.ProviderProfile) error
	GetByUserID(ctx context.Context, userID string) (*model.ProviderProfile, error)
	ListByStatus(ctx context.Context, status model.ProviderStatus) ([]model.ProviderProfile, error)
	UpdateStatus(ctx context.Context, userID string, status model.ProviderStatus, notes *string, at time.Time) error
}

type SpaceRepo interface {
	Create(ctx context.Context, s *model.Space) error
	GetByID(ctx context.Context, id string) (*model.Space, error)
	GetByIDAndProvider(ctx context.Context, id, providerID string) (*model.Space, error)
	GetPublicByID(ctx context.Context, id string) (*model.Space, error)
	ListByProvider(ctx context.Context, providerID string) ([]model.Space, error)
	ListByStatus(ctx context.Context, status model.SpaceStatus) ([]model.Space, error)
	ListPublic(ctx context.Context, limit int) ([]model.Space, error)
	UpdateContent(ctx context.Context, s *model.Space) error
	SetActive(ctx context.Context, id, providerID string, active bool, at time.Time) error
	ApplyModeration(ctx context.Context, id string, m repository.Moderation) error
}

// EventPublisher receives every moderation decision.
type EventPublisher interface {
	PublishModeration(ctx context.Context, ev queue.ModerationEvent) error
}

// CatalogInvalidator drops cached public catalog responses.
type CatalogInvalidator interface {
	Purge(ctx context.Context) error
}

type noopInvalidator struct{}

func (noopInvalidator) Purge(context.Context) error { return nil }
