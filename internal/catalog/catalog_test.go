package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/service"
)

type stubSource struct {
	list []model.Space
	one  *model.Space
	err  error
}

func (s stubSource) ListPublic(context.Context) ([]model.Space, error) { return s.list, s.err }

func (s stubSource) GetPublicByID(context.Context, string) (*model.Space, error) {
	return s.one, s.err
}

func TestList_OnlyVisible(t *testing.T) {
	var spaces []model.Space
	for _, st := range []model.SpaceStatus{model.SpacePending, model.SpaceApproved, model.SpaceRejected, model.SpaceArchived} {
		for _, active := range []bool{false, true} {
			spaces = append(spaces, model.Space{ID: string(st) + "-" + map[bool]string{true: "on", false: "off"}[active], Status: st, IsActive: active})
		}
	}

	out, err := NewService(stubSource{list: spaces}).List(t.Context())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "approved-on", out[0].ID)
	assert.True(t, out[0].IsActive)
}

func TestGet_HiddenIsNotFound(t *testing.T) {
	src := stubSource{one: &model.Space{ID: "s1", Status: model.SpaceApproved, IsActive: false}}
	_, err := NewService(src).Get(t.Context(), "s1")
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "Space not found", service.PublicMessage(err))
}

func TestGet_PassesSourceError(t *testing.T) {
	_, err := NewService(stubSource{err: assert.AnError}).Get(t.Context(), "s1")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestProjectDetail_DropsModerationFields(t *testing.T) {
	notes := "internal"
	by := "admin-1"
	at := time.Now()
	sp := model.Space{
		ID: "s1", Title: "Lot", Status: model.SpaceApproved, IsActive: true,
		VerificationNotes: &notes, ApprovedBy: &by, ApprovedAt: &at,
		Coordinates: model.NewGeoPoint(-33.8, 151.2),
	}

	b, err := json.Marshal(ProjectDetail(sp))
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))

	for _, k := range []string{"verificationNotes", "approvedBy", "approvedAt", "status", "providerId"} {
		assert.NotContains(t, fields, k)
	}
	assert.Equal(t, []any{}, fields["amenities"])
	assert.Equal(t, []any{}, fields["customAvailability"])
	assert.Nil(t, fields["dailyRate"])
	assert.Contains(t, fields, "coordinates")
}
