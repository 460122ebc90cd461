package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"edumark_backend/internals/features/attendance/qr/model"
)

/* ====================== ISSUANCE ====================== */

type MemoryIssuanceStore struct {
	mu   sync.RWMutex
	recs map[string]model.IssuedQRModel // nonce -> record
}

func NewMemoryIssuanceStore() *MemoryIssuanceStore {
	return &MemoryIssuanceStore{recs: make(map[string]model.IssuedQRModel)}
}

func (s *MemoryIssuanceStore) Save(_ context.Context, rec *model.IssuedQRModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	if cp.IssuedQRCreatedAt.IsZero() {
		cp.IssuedQRCreatedAt = time.Now().UTC()
	}
	s.recs[rec.IssuedQRNonce] = cp
	return nil
}

func (s *MemoryIssuanceStore) FindByNonce(_ context.Context, nonce string) (*model.IssuedQRModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[nonce]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryIssuanceStore) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for nonce, rec := range s.recs {
		if rec.IssuedQRExpiresAt.Before(cutoff) {
			delete(s.recs, nonce)
			n++
		}
	}
	return n, nil
}

/* ====================== CLAIMS ====================== */

type claimKey struct {
	sessionID string
	studentID string
}

type MemoryClaimLedger struct {
	mu     sync.Mutex
	claims map[claimKey]model.AttendanceClaimModel
}

func NewMemoryClaimLedger() *MemoryClaimLedger {
	return &MemoryClaimLedger{claims: make(map[claimKey]model.AttendanceClaimModel)}
}

func (l *MemoryClaimLedger) InsertIfAbsent(_ context.Context, claim *model.AttendanceClaimModel) (bool, error) {
	k := claimKey{claim.AttendanceClaimSessionID, claim.AttendanceClaimStudentID}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.claims[k]; exists {
		return false, nil
	}
	cp := *claim
	if cp.AttendanceClaimCreatedAt.IsZero() {
		cp.AttendanceClaimCreatedAt = time.Now().UTC()
	}
	l.claims[k] = cp
	return true, nil
}

func (l *MemoryClaimLedger) CountBySession(_ context.Context, sessionID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for k := range l.claims {
		if k.sessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (l *MemoryClaimLedger) ListBySession(_ context.Context, sessionID string, offset, limit int) ([]model.AttendanceClaimModel, int64, error) {
	l.mu.Lock()
	rows := make([]model.AttendanceClaimModel, 0)
	for k, c := range l.claims {
		if k.sessionID == sessionID {
			rows = append(rows, c)
		}
	}
	l.mu.Unlock()

	sortClaims(rows)
	return pageClaims(rows, offset, limit), int64(len(rows)), nil
}

func sortClaims(rows []model.AttendanceClaimModel) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AttendanceClaimAcceptedAt.Equal(rows[j].AttendanceClaimAcceptedAt) {
			return rows[i].AttendanceClaimStudentID < rows[j].AttendanceClaimStudentID
		}
		return rows[i].AttendanceClaimAcceptedAt.Before(rows[j].AttendanceClaimAcceptedAt)
	})
}

func pageClaims(rows []model.AttendanceClaimModel, offset, limit int) []model.AttendanceClaimModel {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []model.AttendanceClaimModel{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}

/* ====================== CLASSROOMS ====================== */

type MemoryClassroomDirectory struct {
	mu    sync.RWMutex
	rooms map[string]model.ClassroomModel
}

func NewMemoryClassroomDirectory(rooms ...model.ClassroomModel) *MemoryClassroomDirectory {
	d := &MemoryClassroomDirectory{rooms: make(map[string]model.ClassroomModel, len(rooms))}
	for _, r := range rooms {
		d.rooms[r.ClassroomClassID] = r
	}
	return d
}

func (d *MemoryClassroomDirectory) Put(room model.ClassroomModel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms[room.ClassroomClassID] = room
}

func (d *MemoryClassroomDirectory) FindByClassID(_ context.Context, classID string) (*model.ClassroomModel, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[classID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}
