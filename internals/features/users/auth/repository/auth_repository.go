// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"edumark_backend/internals/constants"
	authModel "edumark_backend/internals/features/users/auth/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

/* ====================== USER ====================== */

type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*authModel.UserModel, error)
	FindByID(ctx context.Context, id string) (*authModel.UserModel, error)
}

func strp(s string) *string { return &s }

// SampleUsers is the fixed demo roster.
func SampleUsers() []authModel.UserModel {
	return []authModel.UserModel{
		{ID: "1", Name: "Dr. Priya Sharma", Email: "teacher@edumark.com", Role: constants.RoleTeacher, Subject: strp("Computer Science")},
		{ID: "2", Name: "Arjun Patel", Email: "student@edumark.com", Role: constants.RoleStudent, StudentID: strp("CS2024001")},
		{ID: "3", Name: "Prof. Rajesh Kumar", Email: "teacher2@edumark.com", Role: constants.RoleTeacher, Subject: strp("Mathematics")},
		{ID: "4", Name: "Meera Singh", Email: "student2@edumark.com", Role: constants.RoleStudent, StudentID: strp("CS2024002")},
	}
}

type MemoryUserDirectory struct {
	mu      sync.RWMutex
	byEmail map[string]authModel.UserModel
	byID    map[string]authModel.UserModel
}

// NewMemoryUserDirectory hashes sharedPassword once and assigns it to every user.
func NewMemoryUserDirectory(users []authModel.UserModel, sharedPassword string, cost int) (*MemoryUserDirectory, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(sharedPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	d := &MemoryUserDirectory{
		byEmail: make(map[string]authModel.UserModel, len(users)),
		byID:    make(map[string]authModel.UserModel, len(users)),
	}
	for _, u := range users {
		u.PasswordHash = hash
		d.byEmail[normalizeEmail(u.Email)] = u
		d.byID[u.ID] = u
	}
	return d, nil
}

func (d *MemoryUserDirectory) FindByEmail(_ context.Context, email string) (*authModel.UserModel, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (d *MemoryUserDirectory) FindByID(_ context.Context, id string) (*authModel.UserModel, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
