package auth

import "golang.org/x/crypto/bcrypt"

// Credentials is a login identity with a bcrypt-hashed password. Only the
// demo user is seeded today; nothing here assumes a single user.
type Credentials struct {
	UserID   string
	Username string
	hash     []byte
}

// NewCredentials hashes the plaintext password and returns the identity.
func NewCredentials(userID, username, password string) (Credentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{UserID: userID, Username: username, hash: hash}, nil
}

// Check reports whether the plaintext password matches the stored hash.
func (c Credentials) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
}
