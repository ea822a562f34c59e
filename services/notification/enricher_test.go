package notification

import (
	"context"
	"testing"

	"notifyhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichIdentityForOtherTypes(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil)
	meta := map[string]any{"route": map[string]any{"from": "A", "to": "B"}}

	enriched, err := svc.Enrich(context.Background(), models.TypeGeneral, meta)
	require.NoError(t, err)
	assert.Equal(t, meta, enriched)

	// The result is a copy, never an alias of the caller's map.
	enriched["route"].(map[string]any)["from"] = "C"
	assert.Equal(t, "A", meta["route"].(map[string]any)["from"])
}

func TestEnrichMatchingOfferEmbedsProfile(t *testing.T) {
	t.Parallel()

	profiles := &fakeProfiles{profiles: map[int64]*models.PublicProfile{
		42: {
			UserID:    42,
			Name:      "Dana",
			Rating:    4.8,
			AvatarURL: "https://cdn.example.com/42.png",
			Vehicle:   models.Vehicle{Type: "sedan", Color: "blue", Plate: "XYZ-123"},
		},
	}}
	svc := newTestService(nil, nil, profiles, nil)

	meta := map[string]any{
		"action": map[string]any{"suggested_user_id": float64(42)},
	}

	enriched, err := svc.Enrich(context.Background(), models.TypeCarpoolMatching, meta)
	require.NoError(t, err)

	action, ok := enriched["action"].(map[string]any)
	require.True(t, ok)
	suggested, ok := action["suggested_user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Dana", suggested["name"])
	assert.Equal(t, 4.8, suggested["rating"])

	vehicle, ok := suggested["vehicle"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sedan", vehicle["type"])

	// Original metadata stays untouched.
	original := meta["action"].(map[string]any)
	_, present := original["suggested_user"]
	assert.False(t, present)
}

func TestEnrichMatchingOfferCounterpartMissing(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, &fakeProfiles{profiles: map[int64]*models.PublicProfile{}}, nil)

	meta := map[string]any{
		"action": map[string]any{"suggested_user_id": float64(99)},
	}

	_, err := svc.Enrich(context.Background(), models.TypeCarpoolMatching, meta)
	require.Error(t, err)

	refErr, ok := err.(ReferenceNotFoundError)
	require.True(t, ok)
	assert.Equal(t, int64(99), refErr.UserID)
}

func TestEnrichMatchingOfferMalformedMetadata(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil)

	tests := []struct {
		name string
		meta map[string]any
	}{
		{name: "no action object", meta: map[string]any{}},
		{name: "no suggested_user_id", meta: map[string]any{"action": map[string]any{}}},
		{name: "non-numeric id", meta: map[string]any{"action": map[string]any{"suggested_user_id": "42"}}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Enrich(context.Background(), models.TypeCarpoolMatching, tc.meta)
			require.Error(t, err)
			assert.IsType(t, ValidationError{}, err)
		})
	}
}

func TestEnrichNilMetadata(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil)

	enriched, err := svc.Enrich(context.Background(), models.TypeGeneral, nil)
	require.NoError(t, err)
	assert.NotNil(t, enriched)
	assert.Empty(t, enriched)
}
