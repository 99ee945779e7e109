package service

import "errors"

var (
	// ErrUserNotFound covers both an unknown login email and a token
	// whose userId no longer resolves to a record.
	ErrUserNotFound = errors.New("User not found")

	// ErrInvalidPassword means the email resolved but the password
	// did not match.
	ErrInvalidPassword = errors.New("Invalid password")

	// ErrNotAdmin covers a missing caller record as well as an
	// existing non-admin one; the two are not distinguished.
	ErrNotAdmin = errors.New("Unauthorized")

	// ErrDuplicateUser maps the store's uniqueness violation on
	// username or email.
	ErrDuplicateUser = errors.New("username or email already exists")
)
