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

const (
	PublicListLimit = 50
	DefaultCurrency = "AUD"

	msgSpaceNotFound  = "Space not found"
	msgMustBeApproved = "Space must be approved before changing activation"
)

// SpaceInput is the provider-editable content of a listing. Nil fields are
// left unchanged on update. Status and IsActive are accepted so clients can
// send whole documents, but Create and Update never apply them.
type SpaceInput struct {
	Title              *string                    `json:"title" validate:"omitempty,max=200"`
	Description        *string                    `json:"description" validate:"omitempty,max=5000"`
	Address            *string                    `json:"address" validate:"omitempty,max=300"`
	City               *string                    `json:"city" validate:"omitempty,max=120"`
	State              *string                    `json:"state" validate:"omitempty,max=120"`
	ZipCode            *string                    `json:"zipCode" validate:"omitempty,max=20"`
	Latitude           *float64                   `json:"latitude"`
	Longitude          *float64                   `json:"longitude"`
	HourlyRate         *float64                   `json:"hourlyRate"`
	DailyRate          *float64                   `json:"dailyRate"`
	Currency           *string                    `json:"currency" validate:"omitempty,len=3,alpha"`
	Capacity           *int                       `json:"capacity"`
	Amenities          []string                   `json:"amenities" validate:"max=50,dive,max=100"`
	Images             []string                   `json:"images" validate:"max=20,dive,url"`
	AvailabilityType   *model.AvailabilityType    `json:"availabilityType"`
	CustomAvailability []model.AvailabilityWindow `json:"customAvailability" validate:"max=50"`

	Status   *model.SpaceStatus `json:"status"`
	IsActive *bool              `json:"isActive"`
}

// AdminDecision is an approve/reject action on a space.
type AdminDecision struct {
	Status   model.SpaceStatus
	Notes    *string
	IsActive *bool
}

// SpaceReview is a space with its provider's account and profile, either of
// which may be nil when the record is gone.
type SpaceReview struct {
	Space    model.Space
	Provider *model.User
	Profile  *model.ProviderProfile
}

// ProviderSummary counts a provider's listings for the dashboard.
type ProviderSummary struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Active   int `json:"active"`
}

type SpaceService interface {
	Create(ctx context.Context, providerID string, in SpaceInput) (*model.Space, error)
	Get(ctx context.Context, id, providerID string) (*model.Space, error)
	Update(ctx context.Context, id, providerID string, in SpaceInput) (*model.Space, error)
	SetActivation(ctx context.Context, id, providerID string, active bool) (*model.Space, error)
	ListByProvider(ctx context.Context, providerID string) ([]model.Space, error)
	Summary(ctx context.Context, providerID string) (*ProviderSummary, error)

	AdminTransition(ctx context.Context, id, adminID string, d AdminDecision) (*model.Space, error)
	AdminGet(ctx context.Context, id string) (*SpaceReview, error)
	ListByStatus(ctx context.Context, status model.SpaceStatus) ([]SpaceReview, error)

	ListPublic(ctx context.Context) ([]model.Space, error)
	GetPublicByID(ctx context.Context, id string) (*model.Space, error)
}

type spaceService struct {
	spaces   SpaceRepo
	users    UserRepo
	profiles ProfileRepo
	events   EventPublisher
	catalog  CatalogInvalidator
	log      *zap.Logger
	now      func() time.Time
}

// NewSpaceService wires the lifecycle. catalog may be nil when no response
// cache is in use.
func NewSpaceService(spaces SpaceRepo, users UserRepo, profiles ProfileRepo, events EventPublisher, catalog CatalogInvalidator, log *zap.Logger) SpaceService {
	if catalog == nil {
		catalog = noopInvalidator{}
	}
	return &spaceService{spaces: spaces, users: users, profiles: profiles, events: events, catalog: catalog, log: log, now: time.Now}
}

func (s *spaceService) Create(ctx context.Context, providerID string, in SpaceInput) (*model.Space, error) {
	var title string
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if title == "" || in.HourlyRate == nil || *in.HourlyRate <= 0 {
		return nil, validation("Title and hourly rate are required")
	}

	now := s.now().UTC()
	sp := &model.Space{
		ProviderID:         providerID,
		Title:              title,
		HourlyRate:         *in.HourlyRate,
		Currency:           DefaultCurrency,
		Amenities:          model.StringList{},
		Images:             model.StringList{},
		AvailabilityType:   model.Availability247,
		CustomAvailability: model.AvailabilityWindows{},
		// moderation fields are never taken from the caller
		Status:     model.SpacePending,
		IsActive:   false,
		ApprovedBy: nil,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := applyContent(sp, in); err != nil {
		return nil, err
	}
	if err := s.spaces.Create(ctx, sp); err != nil {
		return nil, storage("create space", err)
	}
	return sp, nil
}

func (s *spaceService) Get(ctx context.Context, id, providerID string) (*model.Space, error) {
	sp, err := s.spaces.GetByIDAndProvider(ctx, id, providerID)
	if errors.Is(err, repository.ErrSpaceNotFound) {
		return nil, notFound(msgSpaceNotFound)
	}
	if err != nil {
		return nil, storage("get space", err)
	}
	return sp, nil
}

func (s *spaceService) Update(ctx context.Context, id, providerID string, in SpaceInput) (*model.Space, error) {
	existing, err := s.Get(ctx, id, providerID)
	if err != nil {
		return nil, err
	}
	next := *existing
	if err := applyContent(&next, in); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.spaces.UpdateContent(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrSpaceNotFound) {
			return nil, notFound(msgSpaceNotFound)
		}
		return nil, storage("update space", err)
	}
	if next.Visible() {
		s.purgeCatalog(ctx)
	}
	return &next, nil
}

func (s *spaceService) SetActivation(ctx context.Context, id, providerID string, active bool) (*model.Space, error) {
	sp, err := s.Get(ctx, id, providerID)
	if err != nil {
		return nil, err
	}
	if sp.Status != model.SpaceApproved {
		return nil, validation(msgMustBeApproved)
	}
	at := s.now().UTC()
	if err := s.spaces.SetActive(ctx, id, providerID, active, at); err != nil {
		if errors.Is(err, repository.ErrSpaceNotFound) {
			// an admin rejected it between the read and the write
			return nil, validation(msgMustBeApproved)
		}
		return nil, storage("set space activation", err)
	}
	sp.IsActive = active
	sp.UpdatedAt = at
	s.purgeCatalog(ctx)
	return sp, nil
}

func (s *spaceService) ListByProvider(ctx context.Context, providerID string) ([]model.Space, error) {
	list, err := s.spaces.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, storage("list provider spaces", err)
	}
	return list, nil
}

func (s *spaceService) Summary(ctx context.Context, providerID string) (*ProviderSummary, error) {
	list, err := s.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	sum := &ProviderSummary{Total: len(list)}
	for _, sp := range list {
		switch sp.Status {
		case model.SpacePending:
			sum.Pending++
		case model.SpaceApproved:
			sum.Approved++
		case model.SpaceRejected:
			sum.Rejected++
		}
		if sp.Visible() {
			sum.Active++
		}
	}
	return sum, nil
}

func (s *spaceService) AdminTransition(ctx context.Context, id, adminID string, d AdminDecision) (*model.Space, error) {
	if d.Status != model.SpaceApproved && d.Status != model.SpaceRejected {
		return nil, validation("Invalid status")
	}
	sp, err := s.spaces.GetByID(ctx, id)
	if errors.Is(err, repository.ErrSpaceNotFound) {
		return nil, notFound(msgSpaceNotFound)
	}
	if err != nil {
		return nil, storage("get space", err)
	}

	at := s.now().UTC()
	m := repository.Moderation{
		Status:            d.Status,
		VerificationNotes: trimNotes(d.Notes),
		UpdatedAt:         at,
	}
	if d.Status == model.SpaceApproved {
		m.IsActive = d.IsActive // nil keeps the stored flag
		m.ApprovedAt = &at
		m.ApprovedBy = &adminID
	} else {
		inactive := false
		m.IsActive = &inactive
	}

	if err := s.spaces.ApplyModeration(ctx, id, m); err != nil {
		if errors.Is(err, repository.ErrSpaceNotFound) {
			return nil, notFound(msgSpaceNotFound)
		}
		return nil, storage("moderate space", err)
	}

	sp.Status = m.Status
	sp.VerificationNotes = m.VerificationNotes
	if m.IsActive != nil {
		sp.IsActive = *m.IsActive
	}
	sp.ApprovedAt = m.ApprovedAt
	sp.ApprovedBy = m.ApprovedBy
	sp.UpdatedAt = at

	active := sp.IsActive
	ev := queue.ModerationEvent{
		Entity:    queue.EntitySpace,
		EntityID:  id,
		Status:    string(d.Status),
		AdminID:   adminID,
		Notes:     m.VerificationNotes,
		IsActive:  &active,
		DecidedAt: at,
	}
	if err := s.events.PublishModeration(ctx, ev); err != nil {
		s.log.Warn("publish space moderation event failed", zap.String("space_id", id), zap.Error(err))
	}
	s.purgeCatalog(ctx)
	return sp, nil
}

func (s *spaceService) AdminGet(ctx context.Context, id string) (*SpaceReview, error) {
	sp, err := s.spaces.GetByID(ctx, id)
	if errors.Is(err, repository.ErrSpaceNotFound) {
		return nil, notFound(msgSpaceNotFound)
	}
	if err != nil {
		return nil, storage("get space", err)
	}
	return s.review(ctx, *sp)
}

func (s *spaceService) ListByStatus(ctx context.Context, status model.SpaceStatus) ([]SpaceReview, error) {
	list, err := s.spaces.ListByStatus(ctx, status)
	if err != nil {
		return nil, storage("list spaces", err)
	}
	out := make([]SpaceReview, 0, len(list))
	for _, sp := range list {
		r, err := s.review(ctx, sp)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *spaceService) review(ctx context.Context, sp model.Space) (*SpaceReview, error) {
	u, err := lookupUser(ctx, s.users, sp.ProviderID)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByUserID(ctx, sp.ProviderID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		p, err = nil, nil
	}
	if err != nil {
		return nil, storage("get provider profile", err)
	}
	return &SpaceReview{Space: sp, Provider: u, Profile: p}, nil
}

func (s *spaceService) ListPublic(ctx context.Context) ([]model.Space, error) {
	list, err := s.spaces.ListPublic(ctx, PublicListLimit)
	if err != nil {
		return nil, storage("list public spaces", err)
	}
	return list, nil
}

func (s *spaceService) GetPublicByID(ctx context.Context, id string) (*model.Space, error) {
	sp, err := s.spaces.GetPublicByID(ctx, id)
	if errors.Is(err, repository.ErrSpaceNotFound) {
		return nil, notFound(msgSpaceNotFound)
	}
	if err != nil {
		return nil, storage("get public space", err)
	}
	return sp, nil
}

func (s *spaceService) purgeCatalog(ctx context.Context) {
	if err := s.catalog.Purge(ctx); err != nil {
		s.log.Warn("purge catalog cache failed", zap.Error(err))
	}
}
