package service

import (
	"golang.org/x/crypto/bcrypt"
)

func CheckPasswordHash(hash []byte, password string) error {
	if len(hash) == 0 {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}
