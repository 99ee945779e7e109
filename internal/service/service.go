package service

import (
	"errors"
	"fmt"

	"github.com/Dan9191/user-service/internal/auth"
	"github.com/Dan9191/user-service/internal/config"
	"github.com/Dan9191/user-service/internal/models"
	"github.com/Dan9191/user-service/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the slice of the credential store the service needs.
type UserRepository interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id string) (*models.User, error)
	UpdateProfile(id string, profile models.Profile, isPublic bool) error
	ListUsers() ([]*models.User, error)
	ListPublicUsers() ([]*models.User, error)
}

// Mailer sends the post-registration welcome message. May be nil.
type Mailer interface {
	SendWelcomeEmail(to, username string) error
}

// Service handles business logic
type Service struct {
	repo   UserRepository
	mailer Mailer
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo UserRepository, mailer Mailer, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, mailer: mailer, log: log, config: cfg}
}

// Register creates a new user with hashed password. The isAdmin flag
// comes straight from the request body, matching the inherited contract.
func (s *Service) Register(username, email, password string, isAdmin bool) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsAdmin:      isAdmin,
		IsPublic:     true,
	}

	if err := s.repo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	if s.mailer != nil {
		// Best effort only, registration already succeeded.
		if err := s.mailer.SendWelcomeEmail(user.Email, user.Username); err != nil {
			s.log.Warnf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a bearer token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	tokenString, err := auth.IssueToken(user.ID, []byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// GetProfile returns the record of the authenticated user.
func (s *Service) GetProfile(userID string) (*models.User, error) {
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile overwrites the caller's profile fields and visibility
// flag, then returns the updated record. Only the caller's own record
// is ever touched.
func (s *Service) UpdateProfile(userID string, profile models.Profile, isPublic bool) (*models.User, error) {
	if err := s.repo.UpdateProfile(userID, profile, isPublic); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.log.Infof("Profile updated: %s", user.Email)
	return user, nil
}

// ListAllProfiles returns every user, unfiltered. The caller must
// resolve to an existing admin.
func (s *Service) ListAllProfiles(callerID string) ([]*models.User, error) {
	caller, err := s.repo.FindUserByID(callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAdmin
		}
		return nil, err
	}
	if !caller.IsAdmin {
		return nil, ErrNotAdmin
	}
	return s.repo.ListUsers()
}

// ListPublicProfiles returns the users visible without authentication.
func (s *Service) ListPublicProfiles() ([]*models.User, error) {
	return s.repo.ListPublicUsers()
}
