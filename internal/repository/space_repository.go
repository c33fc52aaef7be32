package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/parkspace/internal/model"
)

const spaceColumns = `id, provider_id, title, description, address, city, state, zip_code,
	coordinates, hourly_rate, daily_rate, currency, capacity, amenities, images,
	availability_type, custom_availability, is_active, status, verification_notes,
	approved_at, approved_by, rating_average, rating_count, created_at, updated_at`

// publicFilter is the only predicate guests ever see rows through.
const publicFilter = "status = 'approved' AND is_active = ?"

type SpaceRepo struct{ DB *sqlx.DB }

func NewSpaceRepo(db *sqlx.DB) *SpaceRepo { return &SpaceRepo{DB: db} }

// Moderation is the set of fields an admin decision writes together.
// A nil IsActive keeps the stored flag.
type Moderation struct {
	Status            model.SpaceStatus
	VerificationNotes *string
	IsActive          *bool
	ApprovedAt        *time.Time
	ApprovedBy        *string
	UpdatedAt         time.Time
}

func (r *SpaceRepo) Create(ctx context.Context, s *model.Space) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.DB.NamedExecContext(ctx,
		`INSERT INTO spaces (`+spaceColumns+`)
		 VALUES (:id, :provider_id, :title, :description, :address, :city, :state, :zip_code,
		 	:coordinates, :hourly_rate, :daily_rate, :currency, :capacity, :amenities, :images,
		 	:availability_type, :custom_availability, :is_active, :status, :verification_notes,
		 	:approved_at, :approved_by, :rating_average, :rating_count, :created_at, :updated_at)`, s)
	if err != nil {
		return fmt.Errorf("insert space: %w", err)
	}
	return nil
}

func (r *SpaceRepo) GetByID(ctx context.Context, id string) (*model.Space, error) {
	return r.getOne(ctx, "SELECT "+spaceColumns+" FROM spaces WHERE id = ? LIMIT 1", id)
}

// GetByIDAndProvider returns ErrSpaceNotFound both when the space does not
// exist and when another provider owns it.
func (r *SpaceRepo) GetByIDAndProvider(ctx context.Context, id, providerID string) (*model.Space, error) {
	return r.getOne(ctx, "SELECT "+spaceColumns+" FROM spaces WHERE id = ? AND provider_id = ? LIMIT 1", id, providerID)
}

func (r *SpaceRepo) GetPublicByID(ctx context.Context, id string) (*model.Space, error) {
	return r.getOne(ctx, "SELECT "+spaceColumns+" FROM spaces WHERE id = ? AND "+publicFilter+" LIMIT 1", id, true)
}

func (r *SpaceRepo) getOne(ctx context.Context, query string, args ...any) (*model.Space, error) {
	var s model.Space
	err := r.DB.GetContext(ctx, &s, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get space: %w", err)
	}
	return &s, nil
}

// ListByProvider returns the provider's spaces, newest first.
func (r *SpaceRepo) ListByProvider(ctx context.Context, providerID string) ([]model.Space, error) {
	return r.list(ctx, "SELECT "+spaceColumns+" FROM spaces WHERE provider_id = ? ORDER BY created_at DESC", providerID)
}

// ListByStatus returns spaces in a moderation status, oldest first.
func (r *SpaceRepo) ListByStatus(ctx context.Context, status model.SpaceStatus) ([]model.Space, error) {
	return r.list(ctx, "SELECT "+spaceColumns+" FROM spaces WHERE status = ? ORDER BY created_at ASC", status)
}

// ListPublic returns at most limit approved and active spaces, newest first.
func (r *SpaceRepo) ListPublic(ctx context.Context, limit int) ([]model.Space, error) {
	return r.list(ctx, "SELECT "+spaceColumns+" FROM spaces WHERE "+publicFilter+" ORDER BY created_at DESC LIMIT ?", true, limit)
}

func (r *SpaceRepo) list(ctx context.Context, query string, args ...any) ([]model.Space, error) {
	out := []model.Space{}
	if err := r.DB.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	return out, nil
}

// UpdateContent writes the provider-editable fields of s. Moderation columns
// (status, is_active, approval stamps, notes) are never touched here.
func (r *SpaceRepo) UpdateContent(ctx context.Context, s *model.Space) error {
	res, err := r.DB.NamedExecContext(ctx,
		`UPDATE spaces SET
			title = :title, description = :description, address = :address, city = :city,
			state = :state, zip_code = :zip_code, coordinates = :coordinates,
			hourly_rate = :hourly_rate, daily_rate = :daily_rate, currency = :currency,
			capacity = :capacity, amenities = :amenities, images = :images,
			availability_type = :availability_type, custom_availability = :custom_availability,
			updated_at = :updated_at
		 WHERE id = :id AND provider_id = :provider_id`, s)
	if err != nil {
		return fmt.Errorf("update space: %w", err)
	}
	return expectRow(res)
}

// SetActive flips is_active only while the space is approved. Zero matched
// rows means the space is missing, not owned, or no longer approved.
func (r *SpaceRepo) SetActive(ctx context.Context, id, providerID string, active bool, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE spaces SET is_active = ?, updated_at = ?
		  WHERE id = ? AND provider_id = ? AND status = 'approved'`,
		active, at, id, providerID)
	if err != nil {
		return fmt.Errorf("set space activation: %w", err)
	}
	return expectRow(res)
}

// ApplyModeration records an admin decision in a single statement.
func (r *SpaceRepo) ApplyModeration(ctx context.Context, id string, m Moderation) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE spaces SET
			status = ?, verification_notes = ?, is_active = COALESCE(?, is_active),
			approved_at = ?, approved_by = ?, updated_at = ?
		  WHERE id = ?`,
		m.Status, m.VerificationNotes, m.IsActive, m.ApprovedAt, m.ApprovedBy, m.UpdatedAt, id)
	if err != nil {
		return fmt.Errorf("moderate space: %w", err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrSpaceNotFound
	}
	return nil
}
