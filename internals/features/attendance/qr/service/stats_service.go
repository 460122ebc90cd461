package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"edumark_backend/internals/features/attendance/qr/repository"
)

const (
	DefaultClassCapacity = 48

	// demo figures when no ledger is recording claims
	mockPresentMin  = 35
	mockPresentSpan = 10
)

type AttendanceStats struct {
	TotalStudents        int
	PresentStudents      int
	AbsentStudents       int
	AttendancePercentage int
	LastUpdated          time.Time
}

// StatsService summarizes a session. Ledger and Classrooms are optional.
type StatsService struct {
	Ledger          repository.ClaimLedger
	Classrooms      repository.ClassroomDirectory
	DefaultCapacity int
	// Rand returns a value in [0, n); defaults to math/rand/v2.
	Rand func(n int) int
	Now  Clock
}

func (s *StatsService) Stats(ctx context.Context, sessionID, classID string) (*AttendanceStats, error) {
	total, err := s.capacity(ctx, classID)
	if err != nil {
		return nil, err
	}

	var present int
	if s.Ledger != nil && sessionID != "" {
		n, err := s.Ledger.CountBySession(ctx, sessionID)
		if err != nil {
			return nil, internalError("Failed to load attendance stats", fmt.Errorf("count claims: %w", err))
		}
		present = int(n)
	} else {
		rnd := s.Rand
		if rnd == nil {
			rnd = rand.IntN
		}
		present = mockPresentMin + rnd(mockPresentSpan)
		if present > total {
			present = total
		}
	}

	absent := total - present
	if absent < 0 {
		absent = 0
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(present) / float64(total) * 100))
	}

	now := s.Now
	if now == nil {
		now = SystemClock
	}

	return &AttendanceStats{
		TotalStudents:        total,
		PresentStudents:      present,
		AbsentStudents:       absent,
		AttendancePercentage: pct,
		LastUpdated:          now(),
	}, nil
}

func (s *StatsService) capacity(ctx context.Context, classID string) (int, error) {
	def := s.DefaultCapacity
	if def <= 0 {
		def = DefaultClassCapacity
	}
	if s.Classrooms == nil || classID == "" {
		return def, nil
	}
	room, err := s.Classrooms.FindByClassID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return def, nil
		}
		return 0, internalError("Failed to load attendance stats", fmt.Errorf("load classroom: %w", err))
	}
	if room.ClassroomCapacity != nil && *room.ClassroomCapacity > 0 {
		return *room.ClassroomCapacity, nil
	}
	return def, nil
}
