// Package auth проверяет пароль администратора.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptVerifier сверяет пароль с bcrypt-хешем из ADMIN_PASSWORD_HASH.
type BcryptVerifier struct {
	hash []byte
}

func NewBcryptVerifier(hash string) *BcryptVerifier {
	return &BcryptVerifier{hash: []byte(hash)}
}

// Verify возвращает false для пустого пароля и для некорректного хеша.
func (b *BcryptVerifier) Verify(plaintext string) bool {
	if plaintext == "" || len(b.hash) == 0 {
		return false
	}

	return bcrypt.CompareHashAndPassword(b.hash, []byte(plaintext)) == nil
}

// HashPassword возвращает bcrypt-хеш пароля со стоимостью по умолчанию.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
