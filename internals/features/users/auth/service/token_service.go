// internals/features/users/auth/service/token_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	authModel "edumark_backend/internals/features/users/auth/model"
	authRepo "edumark_backend/internals/features/users/auth/repository"
)

// AccessClaims: sub = user id, sid = session id.
type AccessClaims struct {
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	StudentID string `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// Principal is what the auth middleware stores in Locals.
type Principal struct {
	UserID    string
	Role      string
	SessionID string
	StudentID string
}

func (s *AuthService) signAccessToken(sess *authModel.SessionModel, now time.Time) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	claims := AccessClaims{
		Role:      sess.Role,
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	if sess.StudentID != nil {
		claims.StudentID = *sess.StudentID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Authenticate verifies the JWT and requires its session to still exist.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	if len(s.Secret) == 0 {
		log.Println("[ERROR] JWT_SECRET is empty")
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
	}

	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or expired token")
	}
	if claims.Subject == "" || claims.SessionID == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid token claims")
	}

	sess, err := s.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, authRepo.ErrSessionNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Session ended")
		}
		log.Printf("[ERROR] load session sid=%s: %v", claims.SessionID, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if sess.UserID != claims.Subject {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Session mismatch")
	}

	p := &Principal{
		UserID:    sess.UserID,
		Role:      sess.Role,
		SessionID: sess.ID,
	}
	if sess.StudentID != nil {
		p.StudentID = *sess.StudentID
	}
	return p, nil
}
