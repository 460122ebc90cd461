package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Delimiter joins the token fields on the wire.
const Delimiter = "-"

const minTokenParts = 4

// AttendanceToken is one issued, time-boxed invitation to mark attendance.
type AttendanceToken struct {
	SessionID      string
	ClassID        string
	IssuedAtMillis int64
	Nonce          string
}

// Ids may contain the delimiter ("session-123"); on the wire it is written as
// %2D, and a literal % as %25, so the first two segments always split cleanly.
var (
	idEscaper   = strings.NewReplacer("%", "%25", Delimiter, "%2D")
	idUnescaper = strings.NewReplacer("%2D", Delimiter, "%2d", Delimiter, "%25", "%")
)

// Encode renders "<sessionId>-<classId>-<issuedAtMillis>-<nonce>" with escaped ids.
func (t AttendanceToken) Encode() string {
	return strings.Join([]string{
		idEscaper.Replace(t.SessionID),
		idEscaper.Replace(t.ClassID),
		strconv.FormatInt(t.IssuedAtMillis, 10),
		t.Nonce,
	}, Delimiter)
}

func (t AttendanceToken) IssuedAt() time.Time {
	return time.UnixMilli(t.IssuedAtMillis)
}

// Age is measured in whole milliseconds, the unit the wire carries.
func (t AttendanceToken) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-t.IssuedAtMillis) * time.Millisecond
}

// DecodeToken splits an encoded token. At least four segments are required;
// anything past the third delimiter belongs to the nonce.
func DecodeToken(raw string) (AttendanceToken, error) {
	parts := strings.Split(strings.TrimSpace(raw), Delimiter)
	if len(parts) < minTokenParts {
		return AttendanceToken{}, withCause(ErrMalformedToken, fmt.Errorf("want at least %d segments, got %d", minTokenParts, len(parts)))
	}

	issuedAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return AttendanceToken{}, withCause(ErrMalformedToken, fmt.Errorf("timestamp segment %q: %w", parts[2], err))
	}

	return AttendanceToken{
		SessionID:      idUnescaper.Replace(parts[0]),
		ClassID:        idUnescaper.Replace(parts[1]),
		IssuedAtMillis: issuedAt,
		Nonce:          strings.Join(parts[3:], Delimiter),
	}, nil
}

// randomHex returns 2*n lowercase hex characters; hex never contains the delimiter.
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("nonce: read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

var errEmptyIdentifier = errors.New("identifier is empty")
