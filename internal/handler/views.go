package handler

import (
	"time"

	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/service"
)

type userView struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func toUser(u *model.User, withCreated bool) userView {
	v := userView{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
	if withCreated {
		t := u.CreatedAt
		v.CreatedAt = &t
	}
	return v
}

// ownerView is the provider account shown to admins.
type ownerView struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func toOwner(u *model.User) *ownerView {
	if u == nil {
		return nil
	}
	return &ownerView{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

type profileView struct {
	ID                string               `json:"id"`
	UserID            string               `json:"userId"`
	BusinessName      string               `json:"businessName"`
	ContactName       string               `json:"contactName"`
	Phone             string               `json:"phone"`
	Address           string               `json:"address"`
	City              string               `json:"city"`
	State             string               `json:"state"`
	ZipCode           string               `json:"zipCode"`
	TaxID             string               `json:"taxId"`
	BankAccountLast4  string               `json:"bankAccountLast4"`
	BusinessType      string               `json:"businessType"`
	Status            model.ProviderStatus `json:"status"`
	VerificationNotes *string              `json:"verificationNotes"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

func toProfile(p *model.ProviderProfile) profileView {
	return profileView{
		ID:                p.ID,
		UserID:            p.UserID,
		BusinessName:      p.BusinessName,
		ContactName:       p.ContactName,
		Phone:             p.Phone,
		Address:           p.Address,
		City:              p.City,
		State:             p.State,
		ZipCode:           p.ZipCode,
		TaxID:             p.TaxID,
		BankAccountLast4:  p.BankAccountLast4,
		BusinessType:      p.BusinessType,
		Status:            p.Status,
		VerificationNotes: p.VerificationNotes,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// profileContact is the slice of a profile shown next to a pending space.
type profileContact struct {
	BusinessName string `json:"businessName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

func toContact(p *model.ProviderProfile) *profileContact {
	if p == nil {
		return nil
	}
	return &profileContact{
		BusinessName: p.BusinessName,
		Phone:        p.Phone,
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		ZipCode:      p.ZipCode,
	}
}

type spaceSummary struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	City       string            `json:"city"`
	State      string            `json:"state"`
	HourlyRate float64           `json:"hourlyRate"`
	DailyRate  *float64          `json:"dailyRate"`
	Currency   string            `json:"currency"`
	Status     model.SpaceStatus `json:"status"`
	IsActive   bool              `json:"isActive"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Images     []string          `json:"images"`
}

func toSummary(s *model.Space) spaceSummary {
	return spaceSummary{
		ID:         s.ID,
		Title:      s.Title,
		City:       s.City,
		State:      s.State,
		HourlyRate: s.HourlyRate,
		DailyRate:  s.DailyRate,
		Currency:   s.Currency,
		Status:     s.Status,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		Images:     orEmpty(s.Images),
	}
}

// spaceDetails is the owner's full view of a listing.
type spaceDetails struct {
	ID                 string                     `json:"id"`
	Title              string                     `json:"title"`
	Description        string                     `json:"description"`
	Address            string                     `json:"address"`
	City               string                     `json:"city"`
	State              string                     `json:"state"`
	ZipCode            string                     `json:"zipCode"`
	Coordinates        *model.GeoPoint            `json:"coordinates"`
	HourlyRate         float64                    `json:"hourlyRate"`
	DailyRate          *float64                   `json:"dailyRate"`
	Currency           string                     `json:"currency"`
	Capacity           *int                       `json:"capacity"`
	Amenities          []string                   `json:"amenities"`
	AvailabilityType   model.AvailabilityType     `json:"availabilityType"`
	CustomAvailability []model.AvailabilityWindow `json:"customAvailability"`
	Images             []string                   `json:"images"`
	IsActive           bool                       `json:"isActive"`
	Status             model.SpaceStatus          `json:"status"`
	VerificationNotes  *string                    `json:"verificationNotes"`
	CreatedAt          time.Time                  `json:"createdAt"`
	UpdatedAt          time.Time                  `json:"updatedAt"`
}

func toDetails(s *model.Space) spaceDetails {
	windows := []model.AvailabilityWindow(s.CustomAvailability)
	if windows == nil {
		windows = []model.AvailabilityWindow{}
	}
	return spaceDetails{
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
		Amenities:          orEmpty(s.Amenities),
		AvailabilityType:   s.AvailabilityType,
		CustomAvailability: windows,
		Images:             orEmpty(s.Images),
		IsActive:           s.IsActive,
		Status:             s.Status,
		VerificationNotes:  s.VerificationNotes,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// moderationSpace is what an admin reviews.
type moderationSpace struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Address           string            `json:"address"`
	City              string            `json:"city"`
	State             string            `json:"state"`
	ZipCode           string            `json:"zipCode"`
	HourlyRate        float64           `json:"hourlyRate"`
	DailyRate         *float64          `json:"dailyRate"`
	Currency          string            `json:"currency"`
	Amenities         []string          `json:"amenities"`
	Images            []string          `json:"images"`
	Status            model.SpaceStatus `json:"status"`
	IsActive          bool              `json:"isActive"`
	VerificationNotes *string           `json:"verificationNotes"`
	ApprovedAt        *time.Time        `json:"approvedAt"`
	ApprovedBy        *string           `json:"approvedBy"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type spaceReviewView struct {
	Space    moderationSpace `json:"space"`
	Provider *ownerView      `json:"provider"`
	Profile  *profileContact `json:"profile"`
}

func toReview(r service.SpaceReview) spaceReviewView {
	s := r.Space
	return spaceReviewView{
		Space: moderationSpace{
			ID:                s.ID,
			Title:             s.Title,
			Description:       s.Description,
			Address:           s.Address,
			City:              s.City,
			State:             s.State,
			ZipCode:           s.ZipCode,
			HourlyRate:        s.HourlyRate,
			DailyRate:         s.DailyRate,
			Currency:          s.Currency,
			Amenities:         orEmpty(s.Amenities),
			Images:            orEmpty(s.Images),
			Status:            s.Status,
			IsActive:          s.IsActive,
			VerificationNotes: s.VerificationNotes,
			ApprovedAt:        s.ApprovedAt,
			ApprovedBy:        s.ApprovedBy,
			CreatedAt:         s.CreatedAt,
			UpdatedAt:         s.UpdatedAt,
		},
		Provider: toOwner(r.Provider),
		Profile:  toContact(r.Profile),
	}
}

func orEmpty(l model.StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}
