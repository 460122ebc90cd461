package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumark_backend/internals/features/attendance/qr/model"
	"edumark_backend/internals/features/attendance/qr/repository"
)

func TestRangeChecker(t *testing.T) {
	nan := math.NaN()
	lat := 10.0

	tests := []struct {
		name string
		loc  *LocationReading
		ok   bool
	}{
		{"upper bounds inclusive", NewLocation(90, 180), true},
		{"lower bounds inclusive", NewLocation(-90, -180), true},
		{"origin", NewLocation(0, 0), true},
		{"lat just over", NewLocation(90.0001, 0), false},
		{"lng just under", NewLocation(0, -180.0001), false},
		{"nil location", nil, false},
		{"missing lng", &LocationReading{Lat: &lat}, false},
		{"nan", &LocationReading{Lat: &nan, Lng: &lat}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RangeChecker{}.Check(context.Background(), "c1", tt.loc)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrLocationRejected))
		})
	}
}

func TestHaversineMeters(t *testing.T) {
	assert.InDelta(t, 0, HaversineMeters(40.7128, -74.006, 40.7128, -74.006), 1e-9)
	// one degree of latitude is roughly 111.2 km
	assert.InDelta(t, 111195, HaversineMeters(0, 0, 1, 0), 100)
}

func TestRadiusChecker(t *testing.T) {
	radius := 25.0
	dir := repository.NewMemoryClassroomDirectory(
		model.ClassroomModel{ClassroomClassID: "room-a", ClassroomLatitude: 40.7128, ClassroomLongitude: -74.006},
		model.ClassroomModel{ClassroomClassID: "room-b", ClassroomLatitude: 40.7128, ClassroomLongitude: -74.006, ClassroomRadiusMeters: &radius},
	)
	rc := RadiusChecker{Classrooms: dir, DefaultRadius: 10}
	ctx := context.Background()

	// ~11 m north of the classroom
	near := NewLocation(40.7129, -74.006)

	assert.NoError(t, rc.Check(ctx, "room-a", NewLocation(40.7128, -74.006)))
	assert.ErrorIs(t, rc.Check(ctx, "room-a", near), ErrLocationRejected)
	assert.NoError(t, rc.Check(ctx, "room-b", near), "classroom radius overrides the default")
	assert.ErrorIs(t, rc.Check(ctx, "unknown-room", near), ErrLocationRejected)
	assert.ErrorIs(t, rc.Check(ctx, "room-a", nil), ErrLocationRejected)
}
