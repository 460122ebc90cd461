package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edumark_backend/internals/features/attendance/qr/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.ClassroomModel{}, &model.IssuedQRModel{}, &model.AttendanceClaimModel{}))
	return db
}

type stores struct {
	issuance IssuanceStore
	ledger   ClaimLedger
	rooms    ClassroomDirectory
	putRoom  func(model.ClassroomModel)
}

func backends(t *testing.T) map[string]func(t *testing.T) stores {
	return map[string]func(t *testing.T) stores{
		"memory": func(t *testing.T) stores {
			rooms := NewMemoryClassroomDirectory()
			return stores{NewMemoryIssuanceStore(), NewMemoryClaimLedger(), rooms, rooms.Put}
		},
		"gorm": func(t *testing.T) stores {
			db := newTestDB(t)
			return stores{
				NewGormIssuanceStore(db),
				NewGormClaimLedger(db),
				NewGormClassroomDirectory(db),
				func(r model.ClassroomModel) { require.NoError(t, db.Create(&r).Error) },
			}
		},
	}
}

func claim(session, student string, at time.Time) *model.AttendanceClaimModel {
	return &model.AttendanceClaimModel{
		AttendanceClaimID:         uuid.New(),
		AttendanceClaimSessionID:  session,
		AttendanceClaimClassID:    "c1",
		AttendanceClaimStudentID:  student,
		AttendanceClaimStatus:     model.ClaimPresent,
		AttendanceClaimAcceptedAt: at.UTC(),
	}
}

func TestIssuanceStore(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t).issuance
			base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

			for i, nonce := range []string{"old", "fresh"} {
				issued := base.Add(time.Duration(i) * time.Hour)
				require.NoError(t, s.Save(ctx, &model.IssuedQRModel{
					IssuedQRNonce:     nonce,
					IssuedQRSessionID: "s1",
					IssuedQRClassID:   "c1",
					IssuedQRIssuedAt:  issued,
					IssuedQRExpiresAt: issued.Add(30 * time.Second),
				}))
			}

			rec, err := s.FindByNonce(ctx, "fresh")
			require.NoError(t, err)
			assert.Equal(t, "s1", rec.IssuedQRSessionID)
			assert.True(t, rec.IssuedQRIssuedAt.Equal(base.Add(time.Hour)))

			_, err = s.FindByNonce(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			n, err := s.DeleteExpiredBefore(ctx, base.Add(30*time.Minute))
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)

			_, err = s.FindByNonce(ctx, "old")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.FindByNonce(ctx, "fresh")
			assert.NoError(t, err)
		})
	}
}

func TestClaimLedgerInsertIfAbsent(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			l := open(t).ledger
			now := time.Now()

			ok, err := l.InsertIfAbsent(ctx, claim("s1", "u1", now))
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = l.InsertIfAbsent(ctx, claim("s1", "u1", now.Add(time.Second)))
			require.NoError(t, err)
			assert.False(t, ok, "second claim for the same session and student")

			ok, err = l.InsertIfAbsent(ctx, claim("s2", "u1", now))
			require.NoError(t, err)
			assert.True(t, ok, "another session is independent")

			n, err := l.CountBySession(ctx, "s1")
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)
		})
	}
}

func TestClaimLedgerListBySession(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			l := open(t).ledger
			base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

			for i, student := range []string{"u3", "u1", "u2", "u4", "u5"} {
				_, err := l.InsertIfAbsent(ctx, claim("s1", student, base.Add(time.Duration(i)*time.Second)))
				require.NoError(t, err)
			}
			_, err := l.InsertIfAbsent(ctx, claim("s9", "u1", base))
			require.NoError(t, err)

			rows, total, err := l.ListBySession(ctx, "s1", 0, 2)
			require.NoError(t, err)
			assert.EqualValues(t, 5, total)
			require.Len(t, rows, 2)
			assert.Equal(t, "u3", rows[0].AttendanceClaimStudentID)
			assert.Equal(t, "u1", rows[1].AttendanceClaimStudentID)

			rows, _, err = l.ListBySession(ctx, "s1", 4, 2)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "u5", rows[0].AttendanceClaimStudentID)

			rows, total, err = l.ListBySession(ctx, "nobody", 0, 10)
			require.NoError(t, err)
			assert.EqualValues(t, 0, total)
			assert.Empty(t, rows)
		})
	}
}

func TestClassroomDirectory(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			radius := 25.0
			s.putRoom(model.ClassroomModel{
				ClassroomClassID:      "MATH101",
				ClassroomName:         "Mathematics 101",
				ClassroomLatitude:     40.7128,
				ClassroomLongitude:    -74.006,
				ClassroomRadiusMeters: &radius,
			})

			room, err := s.rooms.FindByClassID(ctx, "MATH101")
			require.NoError(t, err)
			assert.InDelta(t, 40.7128, room.ClassroomLatitude, 1e-9)
			require.NotNil(t, room.ClassroomRadiusMeters)
			assert.Equal(t, 25.0, *room.ClassroomRadiusMeters)

			_, err = s.rooms.FindByClassID(ctx, "CS999")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestPageClaims(t *testing.T) {
	rows := []model.AttendanceClaimModel{{}, {}, {}}
	assert.Len(t, pageClaims(rows, 0, 0), 3)
	assert.Len(t, pageClaims(rows, -1, 2), 2)
	assert.Len(t, pageClaims(rows, 3, 2), 0)
	assert.Len(t, pageClaims(rows, 2, 10), 1)
}

func TestIssuanceGraceAndTTL(t *testing.T) {
	assert.Equal(t, DefaultIssuanceGrace, IssuanceGrace(0))
	assert.Equal(t, DefaultIssuanceGrace, IssuanceGrace(-time.Second))
	assert.Equal(t, DefaultIssuanceGrace+2*time.Minute, IssuanceGrace(2*time.Minute))

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	grace := IssuanceGrace(2 * time.Minute)
	assert.Equal(t, 30*time.Second+grace, issuanceTTL(now.Add(30*time.Second), now, grace))
	assert.Equal(t, grace-time.Minute, issuanceTTL(now.Add(-time.Minute), now, grace))
	assert.Equal(t, grace, issuanceTTL(now.Add(-time.Hour), now, grace))

	s := NewRedisIssuanceStore(nil, 0)
	assert.Equal(t, DefaultIssuanceGrace, s.grace)
}
