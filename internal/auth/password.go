package auth

import "golang.org/x/crypto/bcrypt"

const minPasswordLen = 8

func ValidPassword(password string) bool {
	return len(password) >= minPasswordLen
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
