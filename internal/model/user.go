// Package model defines domain entities for the application.
package model

// User is the public identity of a registered account.
// This is what gets persisted as the active session and returned to callers;
// it never carries credential material.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Identity is a registered account as stored in the identity directory.
// PasswordHash is an argon2id hash in PHC string format, never the raw
// password.
type Identity struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
}

// Public strips credential material, leaving the fields safe to persist as a
// session or return over the API.
func (i *Identity) Public() *User {
	return &User{
		ID:    i.ID,
		Email: i.Email,
		Name:  i.Name,
	}
}
