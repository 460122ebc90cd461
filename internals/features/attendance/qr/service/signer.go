package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

const (
	nonceRandomBytes = 8
	nonceMACBytes    = 12
	nonceSeparator   = "."
)

// Signer binds a nonce to its token fields with HMAC-SHA256 under a server-held secret.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	if strings.TrimSpace(secret) == "" {
		return nil
	}
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) mac(sessionID, classID string, issuedAt int64, random string) string {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(sessionID + "|" + classID + "|" + strconv.FormatInt(issuedAt, 10) + "|" + random))
	return hex.EncodeToString(m.Sum(nil)[:nonceMACBytes])
}

// Sign returns "<random>.<mac>".
func (s *Signer) Sign(sessionID, classID string, issuedAt int64, random string) string {
	return random + nonceSeparator + s.mac(sessionID, classID, issuedAt, random)
}

func (s *Signer) Verify(t AttendanceToken) error {
	random, mac, ok := strings.Cut(t.Nonce, nonceSeparator)
	if !ok || random == "" || mac == "" {
		return errors.New("nonce carries no signature")
	}
	want := s.mac(t.SessionID, t.ClassID, t.IssuedAtMillis, random)
	if !hmac.Equal([]byte(mac), []byte(want)) {
		return errors.New("signature mismatch")
	}
	return nil
}
