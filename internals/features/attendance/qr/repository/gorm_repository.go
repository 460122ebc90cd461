// internals/features/attendance/qr/repository/gorm_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"edumark_backend/internals/features/attendance/qr/model"
)

/* ====================== ISSUANCE ====================== */

type GormIssuanceStore struct {
	DB *gorm.DB
}

func NewGormIssuanceStore(db *gorm.DB) *GormIssuanceStore {
	return &GormIssuanceStore{DB: db}
}

func (s *GormIssuanceStore) Save(ctx context.Context, rec *model.IssuedQRModel) error {
	return s.DB.WithContext(ctx).Create(rec).Error
}

func (s *GormIssuanceStore) FindByNonce(ctx context.Context, nonce string) (*model.IssuedQRModel, error) {
	var rec model.IssuedQRModel
	if err := s.DB.WithContext(ctx).
		Where("issued_qr_nonce = ?", nonce).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *GormIssuanceStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("issued_qr_expires_at < ?", cutoff).
		Delete(&model.IssuedQRModel{})
	return res.RowsAffected, res.Error
}

/* ====================== CLAIMS ====================== */

type GormClaimLedger struct {
	DB *gorm.DB
}

func NewGormClaimLedger(db *gorm.DB) *GormClaimLedger {
	return &GormClaimLedger{DB: db}
}

// InsertIfAbsent leans on the (session, student) unique index: ON CONFLICT DO NOTHING
// affects zero rows when the claim already exists.
func (l *GormClaimLedger) InsertIfAbsent(ctx context.Context, claim *model.AttendanceClaimModel) (bool, error) {
	res := l.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(claim)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (l *GormClaimLedger) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var total int64
	err := l.DB.WithContext(ctx).
		Model(&model.AttendanceClaimModel{}).
		Where("attendance_claim_session_id = ?", sessionID).
		Count(&total).Error
	return total, err
}

func (l *GormClaimLedger) ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]model.AttendanceClaimModel, int64, error) {
	tx := l.DB.WithContext(ctx).
		Model(&model.AttendanceClaimModel{}).
		Where("attendance_claim_session_id = ?", sessionID).
		Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := tx.Order("attendance_claim_accepted_at ASC").Order("attendance_claim_student_id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	rows := make([]model.AttendanceClaimModel, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* ====================== CLASSROOMS ====================== */

type GormClassroomDirectory struct {
	DB *gorm.DB
}

func NewGormClassroomDirectory(db *gorm.DB) *GormClassroomDirectory {
	return &GormClassroomDirectory{DB: db}
}

func (d *GormClassroomDirectory) FindByClassID(ctx context.Context, classID string) (*model.ClassroomModel, error) {
	var room model.ClassroomModel
	if err := d.DB.WithContext(ctx).
		Where("classroom_class_id = ?", classID).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}
