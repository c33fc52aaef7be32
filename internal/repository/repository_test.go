package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/testutil"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newSpace(providerID, title string, status model.SpaceStatus, active bool, created time.Time) *model.Space {
	return &model.Space{
		ProviderID:       providerID,
		Title:            title,
		HourlyRate:       5,
		Currency:         "AUD",
		AvailabilityType: model.Availability247,
		Status:           status,
		IsActive:         active,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

func seedSpace(t *testing.T, db *sqlx.DB, s *model.Space) *model.Space {
	t.Helper()
	require.NoError(t, NewSpaceRepo(db).Create(context.Background(), s))
	return s
}

func TestUserRepo_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(testutil.NewDB(t))

	u := &model.User{Email: "  Alice@Example.com ", PasswordHash: "h", FullName: "Alice", Role: model.RoleConsumer, CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	got, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, model.RoleConsumer, got.Role)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FullName)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	dup := &model.User{Email: "alice@EXAMPLE.com", PasswordHash: "h", FullName: "Other", Role: model.RoleProvider, CreatedAt: base, UpdatedAt: base}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrEmailExists)
}

func TestUserRepo_CreateProviderIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	users := NewUserRepo(db)
	profiles := NewProviderProfileRepo(db)

	require.NoError(t, profiles.Create(ctx, &model.ProviderProfile{
		ID: "taken", UserID: "someone-else", Status: model.ProviderPending, CreatedAt: base, UpdatedAt: base,
	}))

	newProvider := func() (*model.User, *model.ProviderProfile) {
		u := &model.User{Email: "pat@example.com", PasswordHash: "h", FullName: "Pat", Role: model.RoleProvider, CreatedAt: base, UpdatedAt: base}
		p := &model.ProviderProfile{BusinessName: "Pat", Status: model.ProviderPending, CreatedAt: base, UpdatedAt: base}
		return u, p
	}

	// the profile insert fails, so the user insert is rolled back
	u, p := newProvider()
	p.ID = "taken"
	assert.ErrorIs(t, users.CreateProvider(ctx, u, p), ErrProfileExists)
	_, err := users.GetByEmail(ctx, "pat@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// a retry with the same email goes through
	u, p = newProvider()
	require.NoError(t, users.CreateProvider(ctx, u, p))
	assert.Equal(t, u.ID, p.UserID)

	got, err := profiles.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProviderPending, got.Status)

	// an email clash aborts before the profile is written
	u, p = newProvider()
	assert.ErrorIs(t, users.CreateProvider(ctx, u, p), ErrEmailExists)
	_, err = profiles.GetByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProviderProfileRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewProviderProfileRepo(testutil.NewDB(t))

	first := &model.ProviderProfile{UserID: "u1", ContactName: "P One", Status: model.ProviderPending, CreatedAt: base.Add(time.Minute), UpdatedAt: base}
	second := &model.ProviderProfile{UserID: "u2", ContactName: "P Two", Status: model.ProviderPending, CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.ErrorIs(t, repo.Create(ctx, &model.ProviderProfile{UserID: "u1", Status: model.ProviderPending, CreatedAt: base, UpdatedAt: base}), ErrProfileExists)

	pending, err := repo.ListByStatus(ctx, model.ProviderPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "u2", pending[0].UserID, "oldest first")

	notes := "documents verified"
	require.NoError(t, repo.UpdateStatus(ctx, "u1", model.ProviderApproved, &notes, base.Add(time.Hour)))
	got, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.ProviderApproved, got.Status)
	require.NotNil(t, got.VerificationNotes)
	assert.Equal(t, notes, *got.VerificationNotes)

	// nil notes keep the previous value
	require.NoError(t, repo.UpdateStatus(ctx, "u1", model.ProviderRejected, nil, base.Add(2*time.Hour)))
	got, err = repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.ProviderRejected, got.Status)
	require.NotNil(t, got.VerificationNotes)
	assert.Equal(t, notes, *got.VerificationNotes)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "nobody", model.ProviderApproved, nil, base), ErrProfileNotFound)
	_, err = repo.GetByUserID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSpaceRepo_PublicVisibility(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSpaceRepo(db)

	statuses := []model.SpaceStatus{model.SpacePending, model.SpaceApproved, model.SpaceRejected, model.SpaceArchived}
	var visible string
	i := 0
	for _, st := range statuses {
		for _, active := range []bool{false, true} {
			s := seedSpace(t, db, newSpace("p1", fmt.Sprintf("%s-%v", st, active), st, active, base.Add(time.Duration(i)*time.Minute)))
			if st == model.SpaceApproved && active {
				visible = s.ID
			}
			i++
		}
	}

	list, err := repo.ListPublic(ctx, 50)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, visible, list[0].ID)

	all, err := repo.ListByProvider(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, all, 8)
	for _, s := range all {
		_, err := repo.GetPublicByID(ctx, s.ID)
		if s.ID == visible {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, ErrSpaceNotFound, s.Title)
		}
	}
}

func TestSpaceRepo_ListPublicOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSpaceRepo(db)

	for i := 0; i < 3; i++ {
		seedSpace(t, db, newSpace("p1", fmt.Sprintf("lot-%d", i), model.SpaceApproved, true, base.Add(time.Duration(i)*time.Hour)))
	}

	list, err := repo.ListPublic(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "lot-2", list[0].Title)
	assert.Equal(t, "lot-1", list[1].Title)
}

func TestSpaceRepo_JSONColumnsRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSpaceRepo(db)

	daily := 30.0
	capacity := 4
	s := newSpace("p1", "Lot J", model.SpacePending, false, base)
	s.Coordinates = model.NewGeoPoint(-33.86, 151.21)
	s.DailyRate = &daily
	s.Capacity = &capacity
	s.Amenities = model.StringList{"covered", "ev_charging"}
	s.Images = model.StringList{"https://img/1.jpg"}
	s.AvailabilityType = model.AvailabilityCustom
	s.CustomAvailability = model.AvailabilityWindows{{Day: "mon", StartTime: "08:00", EndTime: "18:00"}}
	seedSpace(t, db, s)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Coordinates)
	assert.Equal(t, [2]float64{151.21, -33.86}, got.Coordinates.Coordinates)
	assert.Equal(t, "Point", got.Coordinates.Type)
	assert.Equal(t, model.StringList{"covered", "ev_charging"}, got.Amenities)
	assert.Equal(t, s.CustomAvailability, got.CustomAvailability)
	require.NotNil(t, got.DailyRate)
	assert.Equal(t, 30.0, *got.DailyRate)
	require.NotNil(t, got.Capacity)
	assert.Equal(t, 4, *got.Capacity)
	assert.Nil(t, got.ApprovedAt)
	assert.Nil(t, got.ApprovedBy)
}

func TestSpaceRepo_OwnershipScopedWrites(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSpaceRepo(db)
	s := seedSpace(t, db, newSpace("owner", "Lot O", model.SpaceApproved, false, base))

	_, err := repo.GetByIDAndProvider(ctx, s.ID, "intruder")
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	assert.ErrorIs(t, repo.SetActive(ctx, s.ID, "intruder", true, base), ErrSpaceNotFound)

	edit := *s
	edit.ProviderID = "intruder"
	edit.Title = "hijacked"
	assert.ErrorIs(t, repo.UpdateContent(ctx, &edit), ErrSpaceNotFound)

	require.NoError(t, repo.SetActive(ctx, s.ID, "owner", true, base.Add(time.Minute)))
	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, "Lot O", got.Title)
}

func TestSpaceRepo_SetActiveRequiresApproved(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSpaceRepo(db)
	s := seedSpace(t, db, newSpace("owner", "Lot P", model.SpacePending, false, base))

	assert.ErrorIs(t, repo.SetActive(ctx, s.ID, "owner", true, base), ErrSpaceNotFound)
	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestSpaceRepo_ApplyModeration(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSpaceRepo(db)
	s := seedSpace(t, db, newSpace("owner", "Lot M", model.SpacePending, false, base))

	admin := "admin-1"
	approvedAt := base.Add(time.Hour)
	active := true
	require.NoError(t, repo.ApplyModeration(ctx, s.ID, Moderation{
		Status: model.SpaceApproved, IsActive: &active, ApprovedAt: &approvedAt, ApprovedBy: &admin, UpdatedAt: approvedAt,
	}))
	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SpaceApproved, got.Status)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.ApprovedAt)
	assert.True(t, approvedAt.Equal(*got.ApprovedAt))
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, admin, *got.ApprovedBy)

	// nil IsActive keeps the stored flag
	require.NoError(t, repo.ApplyModeration(ctx, s.ID, Moderation{
		Status: model.SpaceApproved, ApprovedAt: &approvedAt, ApprovedBy: &admin, UpdatedAt: approvedAt,
	}))
	got, err = repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	inactive := false
	notes := "blurry photos"
	require.NoError(t, repo.ApplyModeration(ctx, s.ID, Moderation{
		Status: model.SpaceRejected, IsActive: &inactive, VerificationNotes: &notes, UpdatedAt: base.Add(2 * time.Hour),
	}))
	got, err = repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SpaceRejected, got.Status)
	assert.False(t, got.IsActive)
	assert.Nil(t, got.ApprovedAt)
	assert.Nil(t, got.ApprovedBy)
	require.NotNil(t, got.VerificationNotes)
	assert.Equal(t, notes, *got.VerificationNotes)

	assert.ErrorIs(t, repo.ApplyModeration(ctx, "missing", Moderation{Status: model.SpaceRejected, UpdatedAt: base}), ErrSpaceNotFound)
}
