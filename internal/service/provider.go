package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/queue"
	"github.com/iliyamo/parkspace/internal/repository"
)

// ProfileFields are the optional details captured when a profile is opened.
type ProfileFields struct {
	BusinessName     string
	ContactName      string
	Phone            string
	Address          string
	City             string
	State            string
	ZipCode          string
	BusinessType     string
	TaxID            string
	BankAccountLast4 string
	PayoutMethod     string
}

// ProfileReview pairs a profile with its owner; User is nil when the owner
// record no longer exists.
type ProfileReview struct {
	Profile model.ProviderProfile
	User    *model.User
}

// ProfileCreator opens a pending profile for an existing provider account.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, userID string, f ProfileFields) (*model.ProviderProfile, error)
}

type ProviderService interface {
	ProfileCreator
	GetProfile(ctx context.Context, userID string) (*model.ProviderProfile, error)
	ListByStatus(ctx context.Context, status model.ProviderStatus) ([]ProfileReview, error)
	Transition(ctx context.Context, adminID, userID string, target model.ProviderStatus, notes *string) error
}

type providerService struct {
	profiles ProfileRepo
	users    UserRepo
	events   EventPublisher
	log      *zap.Logger
	now      func() time.Time
}

func NewProviderService(profiles ProfileRepo, users UserRepo, events EventPublisher, log *zap.Logger) ProviderService {
	return &providerService{profiles: profiles, users: users, events: events, log: log, now: time.Now}
}

func (s *providerService) CreateProfile(ctx context.Context, userID string, f ProfileFields) (*model.ProviderProfile, error) {
	p, err := newPendingProfile(userID, f, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProfileExists) {
			return nil, conflict("A provider profile already exists for this user")
		}
		return nil, storage("create provider profile", err)
	}
	return p, nil
}

// newPendingProfile normalizes f into a profile awaiting review.
func newPendingProfile(userID string, f ProfileFields, now time.Time) (*model.ProviderProfile, error) {
	bt := strings.ToLower(strings.TrimSpace(f.BusinessType))
	if bt != "" && bt != "individual" && bt != "company" {
		return nil, validation("Business type must be individual or company")
	}
	return &model.ProviderProfile{
		UserID:           userID,
		BusinessName:     strings.TrimSpace(f.BusinessName),
		ContactName:      strings.TrimSpace(f.ContactName),
		Phone:            strings.TrimSpace(f.Phone),
		Address:          strings.TrimSpace(f.Address),
		City:             strings.TrimSpace(f.City),
		State:            strings.TrimSpace(f.State),
		ZipCode:          strings.TrimSpace(f.ZipCode),
		BusinessType:     bt,
		TaxID:            strings.TrimSpace(f.TaxID),
		BankAccountLast4: strings.TrimSpace(f.BankAccountLast4),
		PayoutMethod:     strings.TrimSpace(f.PayoutMethod),
		Status:           model.ProviderPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (s *providerService) GetProfile(ctx context.Context, userID string) (*model.ProviderProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, notFound("Provider profile not found")
	}
	if err != nil {
		return nil, storage("get provider profile", err)
	}
	return p, nil
}

func (s *providerService) ListByStatus(ctx context.Context, status model.ProviderStatus) ([]ProfileReview, error) {
	profiles, err := s.profiles.ListByStatus(ctx, status)
	if err != nil {
		return nil, storage("list provider profiles", err)
	}
	out := make([]ProfileReview, 0, len(profiles))
	for _, p := range profiles {
		u, err := lookupUser(ctx, s.users, p.UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, ProfileReview{Profile: p, User: u})
	}
	return out, nil
}

func (s *providerService) Transition(ctx context.Context, adminID, userID string, target model.ProviderStatus, notes *string) error {
	if target != model.ProviderApproved && target != model.ProviderRejected {
		return validation("Invalid status")
	}
	notes = trimNotes(notes)
	at := s.now().UTC()
	if err := s.profiles.UpdateStatus(ctx, userID, target, notes, at); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return notFound("Provider profile not found")
		}
		return storage("update provider status", err)
	}

	ev := queue.ModerationEvent{
		Entity:    queue.EntityProvider,
		EntityID:  userID,
		Status:    string(target),
		AdminID:   adminID,
		Notes:     notes,
		DecidedAt: at,
	}
	if err := s.events.PublishModeration(ctx, ev); err != nil {
		s.log.Warn("publish provider moderation event failed", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

// lookupUser returns nil for a missing user instead of an error.
func lookupUser(ctx context.Context, users UserRepo, id string) (*model.User, error) {
	u, err := users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage("get user", err)
	}
	return u, nil
}

func trimNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	n := strings.TrimSpace(*notes)
	if n == "" {
		return nil
	}
	return &n
}
