package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type SpaceStatus string

const (
	SpacePending  SpaceStatus = "pending"
	SpaceApproved SpaceStatus = "approved"
	SpaceRejected SpaceStatus = "rejected"
	SpaceArchived SpaceStatus = "archived" // reserved, nothing transitions into it
)

type AvailabilityType string

const (
	Availability247           AvailabilityType = "24_7"
	AvailabilityBusinessHours AvailabilityType = "business_hours"
	AvailabilityCustom        AvailabilityType = "custom"
)

// Valid reports whether t is a known availability type.
func (t AvailabilityType) Valid() bool {
	switch t {
	case Availability247, AvailabilityBusinessHours, AvailabilityCustom:
		return true
	}
	return false
}

// Space mirrors the 'spaces' table. List-valued columns hold JSON text.
type Space struct {
	ID                 string              `db:"id"`
	ProviderID         string              `db:"provider_id"`
	Title              string              `db:"title"`
	Description        string              `db:"description"`
	Address            string              `db:"address"`
	City               string              `db:"city"`
	State              string              `db:"state"`
	ZipCode            string              `db:"zip_code"`
	Coordinates        *GeoPoint           `db:"coordinates"`
	HourlyRate         float64             `db:"hourly_rate"`
	DailyRate          *float64            `db:"daily_rate"`
	Currency           string              `db:"currency"`
	Capacity           *int                `db:"capacity"`
	Amenities          StringList          `db:"amenities"`
	Images             StringList          `db:"images"`
	AvailabilityType   AvailabilityType    `db:"availability_type"`
	CustomAvailability AvailabilityWindows `db:"custom_availability"`
	IsActive           bool                `db:"is_active"`
	Status             SpaceStatus         `db:"status"`
	VerificationNotes  *string             `db:"verification_notes"`
	ApprovedAt         *time.Time          `db:"approved_at"`
	ApprovedBy         *string             `db:"approved_by"`
	RatingAverage      float64             `db:"rating_average"`
	RatingCount        int                 `db:"rating_count"`
	CreatedAt          time.Time           `db:"created_at"`
	UpdatedAt          time.Time           `db:"updated_at"`
}

// Visible is the public-catalog rule.
func (s *Space) Visible() bool {
	return s.Status == SpaceApproved && s.IsActive
}

// GeoPoint is a GeoJSON Point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewGeoPoint builds a Point from latitude and longitude, swapping into GeoJSON axis order.
func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p *GeoPoint) Latitude() float64  { return p.Coordinates[1] }
func (p *GeoPoint) Longitude() float64 { return p.Coordinates[0] }

func (p GeoPoint) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *GeoPoint) Scan(src any) error { return scanJSON(src, p) }

// AvailabilityWindow is one custom opening window, times as HH:MM.
type AvailabilityWindow struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type AvailabilityWindows []AvailabilityWindow

func (w AvailabilityWindows) Value() (driver.Value, error) {
	if w == nil {
		w = AvailabilityWindows{}
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (w *AvailabilityWindows) Scan(src any) error { return scanJSON(src, w) }

// StringList stores an ordered list of strings as a JSON array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error { return scanJSON(src, l) }

func scanJSON(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("model: cannot scan %T into %T", src, dst)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
