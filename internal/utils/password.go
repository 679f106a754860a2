package utils

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt work factor for stored passwords.
var HashCost = bcrypt.DefaultCost

// HashPassword hashes a given password using bcrypt. Each call uses a fresh salt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
