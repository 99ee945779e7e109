package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/user-service/internal/middleware"
	"github.com/Dan9191/user-service/internal/models"
	"github.com/Dan9191/user-service/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Phone    string `json:"phone"`
	Photo    string `json:"photo"`
	IsPublic bool   `json:"isPublic"`
}

// successResponse is the envelope every non-login success uses.
type successResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

type loginResponse struct {
	StatusCode int    `json:"status_code"`
	Msg        string `json:"msg"`
	Token      string `json:"token"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(w, "User registered successfully", user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		// Unknown email and bad password both collapse to 401.
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		StatusCode: http.StatusOK,
		Msg:        "Login successful!",
		Token:      token,
	})
}

// GetProfile returns the authenticated user's own record
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Bearer token is required")
		return
	}

	user, err := h.svc.GetProfile(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(w, "Fetch user profiles successfully", user)
}

// UpdateProfile overwrites the authenticated user's profile fields
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Bearer token is required")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	profile := models.Profile{
		Name:  req.Name,
		Bio:   req.Bio,
		Phone: req.Phone,
		Photo: req.Photo,
	}
	user, err := h.svc.UpdateProfile(userID, profile, req.IsPublic)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(w, "Profile updated successfully", user)
}

// AdminProfiles returns every user record; admin only.
// Denials keep the inherited 500 status of the original surface.
func (h *Handler) AdminProfiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Bearer token is required")
		return
	}

	users, err := h.svc.ListAllProfiles(userID)
	if err != nil {
		if !errors.Is(err, service.ErrNotAdmin) {
			h.log.Errorf("Failed to list profiles: %v", err)
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(w, "Fetch all user profiles successfully", users)
}

// PublicProfiles returns users flagged public; no auth required
func (h *Handler) PublicProfiles(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListPublicProfiles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		h.log.Errorf("Failed to list public profiles: %v", err)
		return
	}

	writeSuccess(w, "Fetch public user profiles successfully", users)
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, successResponse{
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
