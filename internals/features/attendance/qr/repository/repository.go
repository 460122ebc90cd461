// internals/features/attendance/qr/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"edumark_backend/internals/features/attendance/qr/model"
)

var ErrNotFound = errors.New("record not found")

// IssuanceStore keeps the authoritative issue time of every token, keyed by nonce.
type IssuanceStore interface {
	Save(ctx context.Context, rec *model.IssuedQRModel) error
	FindByNonce(ctx context.Context, nonce string) (*model.IssuedQRModel, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ClaimLedger records accepted claims. InsertIfAbsent is atomic per
// (session, student): it reports false, nil when a claim already exists.
type ClaimLedger interface {
	InsertIfAbsent(ctx context.Context, claim *model.AttendanceClaimModel) (bool, error)
	CountBySession(ctx context.Context, sessionID string) (int64, error)
	ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]model.AttendanceClaimModel, int64, error)
}

type ClassroomDirectory interface {
	FindByClassID(ctx context.Context, classID string) (*model.ClassroomModel, error)
}
