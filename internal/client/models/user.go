package models

// User is the profile record returned by GET /profile/.
// Email is fixed at registration and ignored by profile updates.
type User struct {
	ID          int64  `json:"id,omitempty"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// FullName joins first and last name, skipping empty parts.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// ProfileUpdate is the body of PUT /profile/.
type ProfileUpdate struct {
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// ProfileUpdateFrom copies the mutable fields of u.
func ProfileUpdateFrom(u User) ProfileUpdate {
	return ProfileUpdate{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
	}
}

// Address belongs to the authenticated user.
type Address struct {
	ID        int64  `json:"id,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

// DefaultAddress returns the first address flagged as default.
func DefaultAddress(list []Address) (Address, bool) {
	for _, a := range list {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}
