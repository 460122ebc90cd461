package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"edumark_backend/internals/features/attendance/qr/model"
	"edumark_backend/internals/features/attendance/qr/repository"
)

type ValidateInput struct {
	QRData    string
	StudentID string
	Location  *LocationReading
}

// Acceptance acknowledges an accepted claim.
type Acceptance struct {
	SessionID  string
	ClassID    string
	StudentID  string
	AcceptedAt time.Time
	// ClaimID is set only when a ledger recorded the claim.
	ClaimID *uuid.UUID
}

// Validator decides whether a scanned token plus location is an acceptable claim.
type Validator struct {
	policy   Policy
	signer   *Signer
	issuance repository.IssuanceStore
	ledger   repository.ClaimLedger
	location LocationChecker
	now      Clock
}

type ValidatorDeps struct {
	Signer   *Signer
	Issuance repository.IssuanceStore
	Ledger   repository.ClaimLedger
	Location LocationChecker
	Now      Clock
}

func NewValidator(policy Policy, deps ValidatorDeps) *Validator {
	if policy.Window <= 0 {
		policy.Window = DefaultWindow
	}
	v := &Validator{
		policy:   policy,
		signer:   deps.Signer,
		issuance: deps.Issuance,
		ledger:   deps.Ledger,
		location: deps.Location,
		now:      deps.Now,
	}
	if v.location == nil {
		v.location = RangeChecker{}
	}
	if v.now == nil {
		v.now = SystemClock
	}
	return v
}

// Validate runs decode, authenticity, expiry, location and (optionally) the
// at-most-once ledger, in that order. Every failure is an *AttendanceError.
func (v *Validator) Validate(ctx context.Context, in ValidateInput) (*Acceptance, error) {
	studentID := strings.TrimSpace(in.StudentID)
	if studentID == "" {
		return nil, withCause(ErrRequestFormat, fmt.Errorf("studentId: %w", errEmptyIdentifier))
	}

	tok, err := DecodeToken(in.QRData)
	if err != nil {
		return nil, err
	}

	if v.signer != nil {
		if err := v.signer.Verify(tok); err != nil {
			return nil, withCause(ErrUnknownToken, err)
		}
	}

	issuedAt := tok.IssuedAt()
	if v.policy.TrackIssuance && v.issuance != nil {
		rec, err := v.issuance.FindByNonce(ctx, tok.Nonce)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, withCause(ErrUnknownToken, errors.New("nonce was never issued"))
			}
			return nil, internalError("Failed to validate QR code", fmt.Errorf("lookup issuance: %w", err))
		}
		if rec.IssuedQRSessionID != tok.SessionID || rec.IssuedQRClassID != tok.ClassID {
			return nil, withCause(ErrUnknownToken, errors.New("token fields do not match issuance"))
		}
		issuedAt = rec.IssuedQRIssuedAt
	}

	now := v.now()
	age := time.Duration(now.UnixMilli()-issuedAt.UnixMilli()) * time.Millisecond
	if v.policy.expired(age) {
		return nil, withCause(ErrExpiredToken, fmt.Errorf("age %s exceeds window %s", age, v.policy.Window))
	}

	if err := v.location.Check(ctx, tok.ClassID, in.Location); err != nil {
		return nil, err
	}

	acc := &Acceptance{
		SessionID:  tok.SessionID,
		ClassID:    tok.ClassID,
		StudentID:  studentID,
		AcceptedAt: now,
	}

	if v.policy.SingleClaim && v.ledger != nil {
		claim := &model.AttendanceClaimModel{
			AttendanceClaimID:         uuid.New(),
			AttendanceClaimSessionID:  tok.SessionID,
			AttendanceClaimClassID:    tok.ClassID,
			AttendanceClaimStudentID:  studentID,
			AttendanceClaimNonce:      tok.Nonce,
			AttendanceClaimStatus:     model.ClaimPresent,
			AttendanceClaimLocation:   locationJSON(in.Location),
			AttendanceClaimAcceptedAt: now.UTC(),
		}
		inserted, err := v.ledger.InsertIfAbsent(ctx, claim)
		if err != nil {
			log.Printf("[ERROR] record claim session=%s student=%s: %v", tok.SessionID, studentID, err)
			return nil, internalError("Failed to validate QR code", err)
		}
		if !inserted {
			return nil, withCause(ErrDuplicateClaim, fmt.Errorf("session=%s student=%s", tok.SessionID, studentID))
		}
		acc.ClaimID = &claim.AttendanceClaimID
	}

	return acc, nil
}

func locationJSON(loc *LocationReading) datatypes.JSON {
	if loc == nil {
		return nil
	}
	b, err := json.Marshal(loc)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
