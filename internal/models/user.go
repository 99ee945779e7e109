package models

// Profile holds the optional descriptive fields of a user, mutable
// only by the owning user via the update-profile operation.
type Profile struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Phone string `json:"phone"`
	Photo string `json:"photo"`
}

// User represents a user in the system
type User struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"` // Not serialized
	IsAdmin      bool    `json:"isAdmin"`
	IsPublic     bool    `json:"isPublic"`
	Profile      Profile `json:"profile"`
}
