package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"edumark_backend/internals/features/attendance/qr/repository"
)

const earthRadiusMeters = 6371008.8

// LocationReading is a claimed position. Nil fields mean the client omitted them.
type LocationReading struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func NewLocation(lat, lng float64) *LocationReading {
	return &LocationReading{Lat: &lat, Lng: &lng}
}

// InRange reports whether both coordinates are present, finite and inside
// [-90, 90] x [-180, 180], bounds included.
func (l *LocationReading) InRange() bool {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return false
	}
	lat, lng := *l.Lat, *l.Lng
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// HaversineMeters is the great-circle distance between two coordinates.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

// LocationChecker decides whether a reading counts as "in the classroom".
type LocationChecker interface {
	Check(ctx context.Context, classID string, loc *LocationReading) error
}

// RangeChecker accepts any syntactically valid coordinate on the globe.
type RangeChecker struct{}

func (RangeChecker) Check(_ context.Context, _ string, loc *LocationReading) error {
	if loc == nil {
		return withCause(ErrLocationRejected, errors.New("location missing"))
	}
	if !loc.InRange() {
		return withCause(ErrLocationRejected, errors.New("coordinates out of range"))
	}
	return nil
}

// RadiusChecker requires the reading to fall within the classroom's radius.
type RadiusChecker struct {
	Classrooms    repository.ClassroomDirectory
	DefaultRadius float64
}

func (r RadiusChecker) Check(ctx context.Context, classID string, loc *LocationReading) error {
	if err := (RangeChecker{}).Check(ctx, classID, loc); err != nil {
		return err
	}
	if r.Classrooms == nil {
		return withCause(ErrLocationRejected, errors.New("no classroom directory configured"))
	}

	room, err := r.Classrooms.FindByClassID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return withCause(ErrLocationRejected, fmt.Errorf("classroom %q not registered", classID))
		}
		return internalError("Failed to validate QR code", fmt.Errorf("load classroom: %w", err))
	}

	radius := r.DefaultRadius
	if room.ClassroomRadiusMeters != nil && *room.ClassroomRadiusMeters > 0 {
		radius = *room.ClassroomRadiusMeters
	}
	dist := HaversineMeters(*loc.Lat, *loc.Lng, room.ClassroomLatitude, room.ClassroomLongitude)
	if dist > radius {
		return withCause(ErrLocationRejected, fmt.Errorf("%.1fm from classroom, radius %.1fm", dist, radius))
	}
	return nil
}
