package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"edumark_backend/internals/features/attendance/qr/model"
	"edumark_backend/internals/features/attendance/qr/repository"
)

type IssueInput struct {
	SessionID string
	ClassID   string
	TeacherID string
}

type IssuedToken struct {
	Token     AttendanceToken
	QRData    string
	ExpiresAt time.Time
}

// Issuer produces fresh attendance tokens.
type Issuer struct {
	policy Policy
	signer *Signer
	store  repository.IssuanceStore
	now    Clock
}

// NewIssuer wires an issuer. signer and store may be nil; store is only
// consulted when the policy tracks issuance.
func NewIssuer(policy Policy, signer *Signer, store repository.IssuanceStore, now Clock) *Issuer {
	if now == nil {
		now = SystemClock
	}
	if policy.Window <= 0 {
		policy.Window = DefaultWindow
	}
	return &Issuer{policy: policy, signer: signer, store: store, now: now}
}

func (i *Issuer) Issue(ctx context.Context, in IssueInput) (*IssuedToken, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	classID := strings.TrimSpace(in.ClassID)
	if sessionID == "" || classID == "" {
		return nil, withCause(ErrRequestFormat, fmt.Errorf("sessionId/classId: %w", errEmptyIdentifier))
	}
	if i.policy.RejectDelimiterInIDs &&
		(strings.Contains(sessionID, Delimiter) || strings.Contains(classID, Delimiter)) {
		return nil, withCause(ErrRequestFormat, fmt.Errorf("identifiers must not contain %q", Delimiter))
	}

	now := i.now()
	random, err := randomHex(nonceRandomBytes)
	if err != nil {
		return nil, internalError("Failed to generate QR code", err)
	}

	tok := AttendanceToken{
		SessionID:      sessionID,
		ClassID:        classID,
		IssuedAtMillis: now.UnixMilli(),
		Nonce:          random,
	}
	if i.signer != nil {
		tok.Nonce = i.signer.Sign(tok.SessionID, tok.ClassID, tok.IssuedAtMillis, random)
	}
	expiresAt := tok.IssuedAt().Add(i.policy.Window)

	if i.policy.TrackIssuance && i.store != nil {
		rec := &model.IssuedQRModel{
			IssuedQRNonce:     tok.Nonce,
			IssuedQRSessionID: tok.SessionID,
			IssuedQRClassID:   tok.ClassID,
			IssuedQRTeacherID: strptr(strings.TrimSpace(in.TeacherID)),
			IssuedQRIssuedAt:  tok.IssuedAt().UTC(),
			IssuedQRExpiresAt: expiresAt.UTC(),
		}
		if err := i.store.Save(ctx, rec); err != nil {
			log.Printf("[ERROR] save issued QR session=%s: %v", tok.SessionID, err)
			return nil, internalError("Failed to generate QR code", err)
		}
	}

	return &IssuedToken{
		Token:     tok,
		QRData:    tok.Encode(),
		ExpiresAt: expiresAt,
	}, nil
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
