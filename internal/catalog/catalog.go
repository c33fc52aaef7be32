// Package catalog is the guest-facing view of space listings. It only ever
// sees spaces that are approved and active, and never exposes moderation
// fields.
package catalog

import (
	"context"
	"time"

	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/service"
)

// ErrNotVisible is returned for listings a guest may not see.
var ErrNotVisible error = &service.Error{Kind: service.ErrNotFound, Message: "Space not found"}

// PublicSpace is a catalog list entry.
type PublicSpace struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	ZipCode       string    `json:"zipCode"`
	HourlyRate    float64   `json:"hourlyRate"`
	DailyRate     *float64  `json:"dailyRate"`
	Currency      string    `json:"currency"`
	Amenities     []string  `json:"amenities"`
	RatingAverage float64   `json:"ratingAverage"`
	RatingCount   int       `json:"ratingCount"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PublicSpaceDetail adds the booking-relevant fields shown on a single listing.
type PublicSpaceDetail struct {
	ID                 string                     `json:"id"`
	Title              string                     `json:"title"`
	Description        string                     `json:"description"`
	Address            string                     `json:"address"`
	City               string                     `json:"city"`
	State              string                     `json:"state"`
	ZipCode            string                     `json:"zipCode"`
	Coordinates        *model.GeoPoint            `json:"coordinates,omitempty"`
	HourlyRate         float64                    `json:"hourlyRate"`
	DailyRate          *float64                   `json:"dailyRate"`
	Currency           string                     `json:"currency"`
	Capacity           *int                       `json:"capacity"`
	Amenities          []string                   `json:"amenities"`
	AvailabilityType   model.AvailabilityType     `json:"availabilityType"`
	CustomAvailability []model.AvailabilityWindow `json:"customAvailability"`
	Images             []string                   `json:"images"`
	RatingAverage      float64                    `json:"ratingAverage"`
	RatingCount        int                        `json:"ratingCount"`
	CreatedAt          time.Time                  `json:"createdAt"`
	UpdatedAt          time.Time                  `json:"updatedAt"`
}

func Project(s model.Space) PublicSpace {
	return PublicSpace{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		Address:       s.Address,
		City:          s.City,
		State:         s.State,
		ZipCode:       s.ZipCode,
		HourlyRate:    s.HourlyRate,
		DailyRate:     s.DailyRate,
		Currency:      s.Currency,
		Amenities:     nonNil(s.Amenities),
		RatingAverage: s.RatingAverage,
		RatingCount:   s.RatingCount,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
	}
}

func ProjectDetail(s model.Space) PublicSpaceDetail {
	windows := []model.AvailabilityWindow(s.CustomAvailability)
	if windows == nil {
		windows = []model.AvailabilityWindow{}
	}
	return PublicSpaceDetail{
		ID:                 s.ID,
		Title:              s.Title,
		Description:        s.Description,
		Address:            s.Address,
		City:               s.City,
		State:              s.State,
		ZipCode:            s.ZipCode,
		Coordinates:        s.Coordinates,
		HourlyRate:         s.HourlyRate,
		DailyRate:          s.DailyRate,
		Currency:           s.Currency,
		Capacity:           s.Capacity,
		Amenities:          nonNil(s.Amenities),
		AvailabilityType:   s.AvailabilityType,
		CustomAvailability: windows,
		Images:             nonNil(s.Images),
		RatingAverage:      s.RatingAverage,
		RatingCount:        s.RatingCount,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func nonNil(l model.StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

// Source is the public half of the space lifecycle.
type Source interface {
	ListPublic(ctx context.Context) ([]model.Space, error)
	GetPublicByID(ctx context.Context, id string) (*model.Space, error)
}

type Service struct {
	src Source
}

func NewService(src Source) *Service { return &Service{src: src} }

// List returns the newest visible listings. Rows that are not visible are
// dropped even if the source returned them.
func (s *Service) List(ctx context.Context) ([]PublicSpace, error) {
	spaces, err := s.src.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PublicSpace, 0, len(spaces))
	for i := range spaces {
		if !spaces[i].Visible() {
			continue
		}
		out = append(out, Project(spaces[i]))
	}
	return out, nil
}

// Get returns ErrNotVisible for anything a guest may not see.
func (s *Service) Get(ctx context.Context, id string) (*PublicSpaceDetail, error) {
	sp, err := s.src.GetPublicByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sp.Visible() {
		return nil, ErrNotVisible
	}
	d := ProjectDetail(*sp)
	return &d, nil
}
