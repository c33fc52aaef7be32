package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/parkspace/internal/model"
)

const userColumns = "id, email, password_hash, full_name, role, created_at, updated_at"

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts u, assigning an ID when empty. Emails are stored lower-cased.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	return insertUser(ctx, r.DB, u)
}

// CreateProvider inserts a provider account together with its profile. Either
// both rows are written or neither is.
func (r *UserRepo) CreateProvider(ctx context.Context, u *model.User, p *model.ProviderProfile) (err error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin provider insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("commit provider insert: %w", err)
		}
	}()

	if err = insertUser(ctx, tx, u); err != nil {
		return err
	}
	p.UserID = u.ID
	return insertProfile(ctx, tx, p)
}

func insertUser(ctx context.Context, ext sqlx.ExtContext, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := sqlx.NamedExecContext(ctx, ext,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (:id, :email, :password_hash, :full_name, :role, :created_at, :updated_at)`, u)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
