package users

import (
	"golang.org/x/crypto/bcrypt"
)

// User is a record the login dialog authenticates against. Attributes
// holds whatever the deployment wants scopes to expose (name, email,
// department and so on); the password hash is never part of it.
type User struct {
	Username     string            `json:"username"`
	PasswordHash string            `json:"-"` // never serialize
	Blocked      bool              `json:"blocked,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
