package models

// User is a registered account. PasswordHash is never the plaintext.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Contact      string `json:"contact"`
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Contact  string `form:"contact"`
}

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}
