package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumark_backend/internals/features/attendance/qr/repository"
)

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

var classroom = NewLocation(40.0, -74.0)

func TestIssueAndValidateEndToEnd(t *testing.T) {
	ctx := context.Background()
	issuer := NewIssuer(DemoPolicy(), nil, nil, nil)
	v := NewValidator(DemoPolicy(), ValidatorDeps{})

	issued, err := issuer.Issue(ctx, IssueInput{SessionID: "s1", ClassID: "c1", TeacherID: "teacher-1"})
	require.NoError(t, err)
	assert.Regexp(t, `^s1-c1-\d+-[0-9a-f]{16}$`, issued.QRData)
	assert.Equal(t, issued.Token.IssuedAt().Add(30*time.Second), issued.ExpiresAt)

	acc, err := v.Validate(ctx, ValidateInput{QRData: issued.QRData, StudentID: "u1", Location: classroom})
	require.NoError(t, err)
	assert.Equal(t, "s1", acc.SessionID)
	assert.Equal(t, "c1", acc.ClassID)
	assert.Equal(t, "u1", acc.StudentID)
	assert.Nil(t, acc.ClaimID)
}

func TestIssueRejectsEmptyIdentifiers(t *testing.T) {
	issuer := NewIssuer(DemoPolicy(), nil, nil, nil)
	_, err := issuer.Issue(context.Background(), IssueInput{SessionID: " ", ClassID: "c1"})
	assert.ErrorIs(t, err, ErrRequestFormat)
}

func TestValidateExpiryBoundary(t *testing.T) {
	issuedAt := time.UnixMilli(1700000000000)
	raw := AttendanceToken{SessionID: "s1", ClassID: "c1", IssuedAtMillis: issuedAt.UnixMilli(), Nonce: "n"}.Encode()

	tests := []struct {
		name    string
		age     time.Duration
		expired bool
	}{
		{"fresh", 0, false},
		{"just inside", 29999 * time.Millisecond, false},
		{"exactly at window", 30000 * time.Millisecond, false},
		{"just outside", 30001 * time.Millisecond, true},
		{"long gone", time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(DemoPolicy(), ValidatorDeps{Now: fixedClock(issuedAt.Add(tt.age))})
			_, err := v.Validate(context.Background(), ValidateInput{QRData: raw, StudentID: "u1", Location: classroom})
			if tt.expired {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrExpiredToken)

				var ae *AttendanceError
				require.True(t, errors.As(err, &ae))
				assert.Equal(t, "QR code has expired", ae.Message)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateClockSkew(t *testing.T) {
	issuedAt := time.UnixMilli(1700000000000)
	raw := AttendanceToken{SessionID: "s1", ClassID: "c1", IssuedAtMillis: issuedAt.UnixMilli(), Nonce: "n"}.Encode()
	p := DemoPolicy()
	p.ClockSkew = 2 * time.Second

	ok := NewValidator(p, ValidatorDeps{Now: fixedClock(issuedAt.Add(32 * time.Second))})
	_, err := ok.Validate(context.Background(), ValidateInput{QRData: raw, StudentID: "u1", Location: classroom})
	assert.NoError(t, err)

	late := NewValidator(p, ValidatorDeps{Now: fixedClock(issuedAt.Add(32*time.Second + time.Millisecond))})
	_, err = late.Validate(context.Background(), ValidateInput{QRData: raw, StudentID: "u1", Location: classroom})
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateOrderOfChecks(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)
	v := NewValidator(DemoPolicy(), ValidatorDeps{Now: fixedClock(now)})

	stale := AttendanceToken{SessionID: "s1", ClassID: "c1", IssuedAtMillis: now.Add(-time.Minute).UnixMilli(), Nonce: "n"}.Encode()

	_, err := v.Validate(ctx, ValidateInput{QRData: "onlyonepart", StudentID: "u1", Location: nil})
	assert.ErrorIs(t, err, ErrMalformedToken, "format is checked before location")

	_, err = v.Validate(ctx, ValidateInput{QRData: stale, StudentID: "u1", Location: nil})
	assert.ErrorIs(t, err, ErrExpiredToken, "expiry is checked before location")

	_, err = v.Validate(ctx, ValidateInput{QRData: stale, StudentID: "", Location: classroom})
	assert.ErrorIs(t, err, ErrRequestFormat)
}

func TestValidateLocationRejected(t *testing.T) {
	ctx := context.Background()
	issuer := NewIssuer(DemoPolicy(), nil, nil, nil)
	v := NewValidator(DemoPolicy(), ValidatorDeps{})

	issued, err := issuer.Issue(ctx, IssueInput{SessionID: "s1", ClassID: "c1"})
	require.NoError(t, err)

	for _, loc := range []*LocationReading{nil, NewLocation(91, 0), NewLocation(0, 181)} {
		_, err := v.Validate(ctx, ValidateInput{QRData: issued.QRData, StudentID: "u1", Location: loc})
		require.Error(t, err)
		var ae *AttendanceError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, KindLocationRejected, ae.Kind)
		assert.Equal(t, "You must be in the classroom to mark attendance", ae.Message)
	}
}

func TestDemoPolicyAllowsReplay(t *testing.T) {
	ctx := context.Background()
	issuer := NewIssuer(DemoPolicy(), nil, nil, nil)
	v := NewValidator(DemoPolicy(), ValidatorDeps{})

	issued, err := issuer.Issue(ctx, IssueInput{SessionID: "s1", ClassID: "c1"})
	require.NoError(t, err)

	for _, student := range []string{"u1", "u2", "u1"} {
		_, err := v.Validate(ctx, ValidateInput{QRData: issued.QRData, StudentID: student, Location: classroom})
		assert.NoError(t, err, "student %s", student)
	}
}

func newStrict(now Clock) (*Issuer, *Validator, *repository.MemoryClaimLedger) {
	p := StrictPolicy()
	signer := NewSigner("test-secret")
	issuance := repository.NewMemoryIssuanceStore()
	ledger := repository.NewMemoryClaimLedger()
	issuer := NewIssuer(p, signer, issuance, now)
	v := NewValidator(p, ValidatorDeps{Signer: signer, Issuance: issuance, Ledger: ledger, Now: now})
	return issuer, v, ledger
}

func TestStrictPolicySingleClaim(t *testing.T) {
	ctx := context.Background()
	issuer, v, ledger := newStrict(nil)

	issued, err := issuer.Issue(ctx, IssueInput{SessionID: "s1", ClassID: "c1", TeacherID: "1"})
	require.NoError(t, err)

	acc, err := v.Validate(ctx, ValidateInput{QRData: issued.QRData, StudentID: "u1", Location: classroom})
	require.NoError(t, err)
	require.NotNil(t, acc.ClaimID)

	_, err = v.Validate(ctx, ValidateInput{QRData: issued.QRData, StudentID: "u1", Location: classroom})
	require.Error(t, err)
	var ae *AttendanceError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, KindDuplicateClaim, ae.Kind)
	assert.Equal(t, 409, ae.Status)

	_, err = v.Validate(ctx, ValidateInput{QRData: issued.QRData, StudentID: "u2", Location: classroom})
	assert.NoError(t, err)

	n, err := ledger.CountBySession(ctx, "s1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestStrictPolicyUnknownTokens(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)
	issuer, v, _ := newStrict(fixedClock(now))

	issued, err := issuer.Issue(ctx, IssueInput{SessionID: "s1", ClassID: "c1"})
	require.NoError(t, err)

	forged := AttendanceToken{SessionID: "s1", ClassID: "c1", IssuedAtMillis: now.UnixMilli(), Nonce: "deadbeefdeadbeef"}.Encode()
	_, err = v.Validate(ctx, ValidateInput{QRData: forged, StudentID: "u1", Location: classroom})
	assert.ErrorIs(t, err, ErrUnknownToken)

	moved := issued.Token
	moved.ClassID = "c2"
	_, err = v.Validate(ctx, ValidateInput{QRData: moved.Encode(), StudentID: "u1", Location: classroom})
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestTrackedIssuanceTimeIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	issuedAt := time.UnixMilli(1700000000000)
	p := DemoPolicy()
	p.TrackIssuance = true
	store := repository.NewMemoryIssuanceStore()

	issued, err := NewIssuer(p, nil, store, fixedClock(issuedAt)).Issue(ctx, IssueInput{SessionID: "s1", ClassID: "c1"})
	require.NoError(t, err)

	later := issuedAt.Add(time.Minute)
	rewritten := issued.Token
	rewritten.IssuedAtMillis = later.UnixMilli()

	v := NewValidator(p, ValidatorDeps{Issuance: store, Now: fixedClock(later)})
	_, err = v.Validate(ctx, ValidateInput{QRData: rewritten.Encode(), StudentID: "u1", Location: classroom})
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestStrictIssuerRejectsDelimiterInIDs(t *testing.T) {
	issuer, _, _ := newStrict(nil)
	_, err := issuer.Issue(context.Background(), IssueInput{SessionID: "session-123", ClassID: "c1"})
	assert.ErrorIs(t, err, ErrRequestFormat)

	demo := NewIssuer(DemoPolicy(), nil, nil, nil)
	issued, err := demo.Issue(context.Background(), IssueInput{SessionID: "session-123", ClassID: "class-456"})
	require.NoError(t, err)
	assert.Contains(t, issued.QRData, "session%2D123-class%2D456-"+strconv.FormatInt(issued.Token.IssuedAtMillis, 10))
}

func TestDemoPolicyAcceptsHyphenatedIDs(t *testing.T) {
	ctx := context.Background()
	issuer := NewIssuer(DemoPolicy(), nil, nil, nil)
	v := NewValidator(DemoPolicy(), ValidatorDeps{})

	tests := []IssueInput{
		{SessionID: "session-1", ClassID: "c1"},
		{SessionID: "session-123", ClassID: "class-456"},
		{SessionID: "s1", ClassID: "room-2-b"},
	}
	for _, in := range tests {
		t.Run(in.SessionID+"_"+in.ClassID, func(t *testing.T) {
			issued, err := issuer.Issue(ctx, in)
			require.NoError(t, err)

			acc, err := v.Validate(ctx, ValidateInput{QRData: issued.QRData, StudentID: "u1", Location: classroom})
			require.NoError(t, err)
			assert.Equal(t, in.SessionID, acc.SessionID)
			assert.Equal(t, in.ClassID, acc.ClassID)
		})
	}
}

func TestSignedTokenWithHyphenatedIDs(t *testing.T) {
	ctx := context.Background()
	p := DemoPolicy()
	signer := NewSigner("hyphen-secret")
	issuer := NewIssuer(p, signer, nil, nil)
	v := NewValidator(p, ValidatorDeps{Signer: signer})

	issued, err := issuer.Issue(ctx, IssueInput{SessionID: "session-1", ClassID: "class-456"})
	require.NoError(t, err)

	acc, err := v.Validate(ctx, ValidateInput{QRData: issued.QRData, StudentID: "u1", Location: classroom})
	require.NoError(t, err)
	assert.Equal(t, "session-1", acc.SessionID)
	assert.Equal(t, "class-456", acc.ClassID)
}
