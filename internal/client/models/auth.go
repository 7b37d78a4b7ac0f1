package models

// LoginRequest is the body of POST /login/. Either FirebaseToken or the
// Username/Password pair is set.
type LoginRequest struct {
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	FirebaseToken string `json:"firebase_token,omitempty"`
}

// LoginResponse carries the backend credential and a summary of the user.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// User builds the minimal user record known right after login.
func (r LoginResponse) User() User {
	return User{ID: r.UserID, Username: r.Username, Email: r.Email}
}

// RegisterRequest is the body of POST /register/.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password2"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number"`
	FirebaseToken   string `json:"firebase_token,omitempty"`
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
