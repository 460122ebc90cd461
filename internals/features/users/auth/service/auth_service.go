package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	authModel "edumark_backend/internals/features/users/auth/model"
	authRepo "edumark_backend/internals/features/users/auth/repository"
)

const accessTTLDefault = 12 * time.Hour

var (
	ErrInvalidCredentials = fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	ErrInvalidGoogleToken = fiber.NewError(fiber.StatusUnauthorized, "Invalid Google ID Token")
	ErrGoogleDisabled     = fiber.NewError(fiber.StatusServiceUnavailable, "Google sign-in is not configured")
	ErrUnauthorized       = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
)

// GoogleVerifier checks an ID token for the given audience and returns its email.
type GoogleVerifier func(idToken, clientID string) (email string, err error)

func VerifyGoogleIDToken(idToken, clientID string) (string, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{clientID}); err != nil {
		return "", err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", err
	}
	return claimSet.Email, nil
}

type AuthService struct {
	Users    authRepo.UserDirectory
	Sessions authRepo.SessionStore

	Secret         []byte
	TTL            time.Duration
	GoogleClientID string
	VerifyGoogle   GoogleVerifier
	Now            func() time.Time
}

type LoginMeta struct {
	UserAgent string
	IP        string
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Session     *authModel.SessionModel
	User        *authModel.UserModel
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return accessTTLDefault
}

// Login checks the shared demo password against the user's bcrypt hash.
func (s *AuthService) Login(ctx context.Context, email, password string, meta LoginMeta) (*LoginResult, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, authRepo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPasswordHash(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user, meta)
}

// LoginGoogle maps a verified Google account onto the directory by email.
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string, meta LoginMeta) (*LoginResult, error) {
	if strings.TrimSpace(s.GoogleClientID) == "" {
		return nil, ErrGoogleDisabled
	}
	verify := s.VerifyGoogle
	if verify == nil {
		verify = VerifyGoogleIDToken
	}
	email, err := verify(strings.TrimSpace(idToken), s.GoogleClientID)
	if err != nil {
		log.Printf("[ERROR] google id token: %v", err)
		return nil, ErrInvalidGoogleToken
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, authRepo.ErrUserNotFound) {
			return nil, fiber.NewError(fiber.StatusForbidden, "Google account is not registered")
		}
		return nil, err
	}
	return s.startSession(ctx, user, meta)
}

func (s *AuthService) startSession(ctx context.Context, user *authModel.UserModel, meta LoginMeta) (*LoginResult, error) {
	now := s.now().UTC()
	sess := &authModel.SessionModel{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		StudentID: user.StudentID,
		ExpiresAt: now.Add(s.ttl()),
		UserAgent: strptr(meta.UserAgent),
		IP:        strptr(meta.IP),
		CreatedAt: now,
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		log.Printf("[ERROR] create session user=%s: %v", user.ID, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create session")
	}

	token, err := s.signAccessToken(sess, now)
	if err != nil {
		_ = s.Sessions.Delete(ctx, sess.ID)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create access token")
	}

	log.Printf("[INFO] login user=%s role=%s sid=%s", user.ID, user.Role, sess.ID)
	return &LoginResult{AccessToken: token, ExpiresAt: sess.ExpiresAt, Session: sess, User: user}, nil
}

// Logout deletes the server-side session; the JWT stops working immediately.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrUnauthorized
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		log.Printf("[ERROR] delete session sid=%s: %v", sessionID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to logout")
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*authModel.UserModel, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, authRepo.ErrUserNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

func strptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
