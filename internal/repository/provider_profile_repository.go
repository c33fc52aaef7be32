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

const profileColumns = `id, user_id, business_name, contact_name, phone, address, city, state,
	zip_code, business_type, tax_id, bank_account_last4, payout_method, status,
	verification_notes, created_at, updated_at`

type ProviderProfileRepo struct{ DB *sqlx.DB }

func NewProviderProfileRepo(db *sqlx.DB) *ProviderProfileRepo {
	return &ProviderProfileRepo{DB: db}
}

// Create inserts p. A second profile for the same user fails with ErrProfileExists.
func (r *ProviderProfileRepo) Create(ctx context.Context, p *model.ProviderProfile) error {
	return insertProfile(ctx, r.DB, p)
}

func insertProfile(ctx context.Context, ext sqlx.ExtContext, p *model.ProviderProfile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := sqlx.NamedExecContext(ctx, ext,
		`INSERT INTO provider_profiles (`+profileColumns+`)
		 VALUES (:id, :user_id, :business_name, :contact_name, :phone, :address, :city, :state,
		 	:zip_code, :business_type, :tax_id, :bank_account_last4, :payout_method, :status,
		 	:verification_notes, :created_at, :updated_at)`, p)
	if err != nil {
		if isDuplicate(err) {
			return ErrProfileExists
		}
		return fmt.Errorf("insert provider profile: %w", err)
	}
	return nil
}

func (r *ProviderProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.ProviderProfile, error) {
	var p model.ProviderProfile
	err := r.DB.GetContext(ctx, &p,
		"SELECT "+profileColumns+" FROM provider_profiles WHERE user_id = ? LIMIT 1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get provider profile: %w", err)
	}
	return &p, nil
}

// ListByStatus returns profiles in the given status, oldest first so the
// moderation queue is worked in arrival order.
func (r *ProviderProfileRepo) ListByStatus(ctx context.Context, status model.ProviderStatus) ([]model.ProviderProfile, error) {
	out := []model.ProviderProfile{}
	err := r.DB.SelectContext(ctx, &out,
		"SELECT "+profileColumns+" FROM provider_profiles WHERE status = ? ORDER BY created_at ASC", status)
	if err != nil {
		return nil, fmt.Errorf("list provider profiles: %w", err)
	}
	return out, nil
}

// UpdateStatus sets the moderation status in one statement. A nil notes
// keeps whatever notes were recorded before.
func (r *ProviderProfileRepo) UpdateStatus(ctx context.Context, userID string, status model.ProviderStatus, notes *string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE provider_profiles
		    SET status = ?, verification_notes = COALESCE(?, verification_notes), updated_at = ?
		  WHERE user_id = ?`,
		status, notes, at, userID)
	if err != nil {
		return fmt.Errorf("update provider status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
