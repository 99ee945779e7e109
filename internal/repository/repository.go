package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/user-service/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrDuplicate is returned when an insert violates the username or
// email uniqueness constraint.
var ErrDuplicate = errors.New("username or email already taken")

const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, username, email, password_hash, is_admin, is_public,
		profile_name, profile_bio, profile_phone, profile_photo`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsAdmin, &user.IsPublic,
		&user.Profile.Name, &user.Profile.Bio, &user.Profile.Phone, &user.Profile.Photo)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user, assigning its id. Uniqueness of
// username and email is enforced by the table constraints.
func (r *Repository) CreateUser(user *models.User) error {
	user.ID = uuid.New().String()
	query := `
		INSERT INTO users (id, username, email, password_hash, is_admin, is_public)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(query, user.ID, user.Username, user.Email,
		user.PasswordHash, user.IsAdmin, user.IsPublic)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites the profile fields and visibility flag of
// the user with the given id.
func (r *Repository) UpdateProfile(id string, profile models.Profile, isPublic bool) error {
	query := `
		UPDATE users
		SET profile_name = $2, profile_bio = $3, profile_phone = $4,
		    profile_photo = $5, is_public = $6
		WHERE id = $1`
	res, err := r.db.Exec(query, id, profile.Name, profile.Bio, profile.Phone,
		profile.Photo, isPublic)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns all users, unfiltered.
func (r *Repository) ListUsers() ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	return r.listUsers(query)
}

// ListPublicUsers returns only users flagged as publicly visible.
func (r *Repository) ListPublicUsers() ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_public = TRUE ORDER BY username`
	return r.listUsers(query)
}

func (r *Repository) listUsers(query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CountUsers returns the total number of registered users.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
