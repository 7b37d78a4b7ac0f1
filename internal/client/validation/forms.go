package validation

import "github.com/dmitrijs2005/filedesk/internal/client/models"

// Login checks the login form.
func Login(email, password string) error {
	return New().
		Validate("email", email, Required("Email is required"), Email("Invalid email address")).
		Validate("password", password, Required("Password is required")).
		Err()
}

// Register checks the registration form.
func Register(r models.RegisterRequest) error {
	return New().
		Validate("username", r.Username, Required("Username is required"), MinLen(3, "Username must be at least 3 characters")).
		Validate("email", r.Email, Required("Email is required"), Email("Invalid email address")).
		Validate("password", r.Password, Required("Password is required"), MinLen(8, "Password must be at least 8 characters")).
		Validate("password2", r.PasswordConfirm, Required("Confirm password is required"), Equals(r.Password, "Passwords must match")).
		Validate("first_name", r.FirstName, Required("First name is required")).
		Validate("last_name", r.LastName, Required("Last name is required")).
		Err()
}

// Address checks the address form.
func Address(a models.Address) error {
	return New().
		Validate("street", a.Street, Required("Street is required")).
		Validate("city", a.City, Required("City is required")).
		Validate("state", a.State, Required("State is required")).
		Validate("zipcode", a.Zipcode, Required("Postal code is required")).
		Validate("country", a.Country, Required("Country is required")).
		Err()
}
