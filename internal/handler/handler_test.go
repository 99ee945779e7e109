package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/user-service/internal/config"
	"github.com/Dan9191/user-service/internal/middleware"
	"github.com/Dan9191/user-service/internal/models"
	"github.com/Dan9191/user-service/internal/repository"
	"github.com/Dan9191/user-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	users []*models.User
	seq   int
}

func (m *memoryRepo) CreateUser(user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	user.ID = fmt.Sprintf("id-%d", m.seq)
	stored := *user
	m.users = append(m.users, &stored)
	return nil
}

func (m *memoryRepo) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryRepo) FindUserByID(id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryRepo) UpdateProfile(id string, profile models.Profile, isPublic bool) error {
	for _, u := range m.users {
		if u.ID == id {
			u.Profile = profile
			u.IsPublic = isPublic
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryRepo) ListUsers() ([]*models.User, error) {
	return m.users, nil
}

func (m *memoryRepo) ListPublicUsers() ([]*models.User, error) {
	public := []*models.User{}
	for _, u := range m.users {
		if u.IsPublic {
			public = append(public, u)
		}
	}
	return public, nil
}

// newTestRouter wires the same routes as cmd/api/main.go.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "test-secret"}

	svc := service.NewService(&memoryRepo{}, nil, log, cfg)
	h := NewHandler(svc, log)

	r := mux.NewRouter()
	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.HandleFunc("/register", h.Register).Methods("POST")
	userRouter.HandleFunc("/login", h.Login).Methods("POST")
	userRouter.HandleFunc("/public/profiles", h.PublicProfiles).Methods("GET")
	authRouter := userRouter.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/getProfile", h.GetProfile).Methods("GET")
	authRouter.HandleFunc("/updateProfile", h.UpdateProfile).Methods("PUT")
	authRouter.HandleFunc("/admin/profiles", h.AdminProfiles).Methods("GET")
	return r
}

func doJSON(t *testing.T, r *mux.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, r *mux.Router, username, email, password string, isAdmin bool) {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/user/register", "", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
		"isAdmin":  isAdmin,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func loginUser(t *testing.T, r *mux.Router, email, password string) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/user/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginGetProfileFlow(t *testing.T) {
	r := newTestRouter(t)

	// Register
	rec := doJSON(t, r, http.MethodPost, "/user/register", "", map[string]any{
		"username": "a",
		"email":    "a@x.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(200), body["status_code"])
	assert.Equal(t, "User registered successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "a", data["username"])
	// The hash never leaves the server.
	_, exposed := data["passwordHash"]
	assert.False(t, exposed)

	// Login
	rec = doJSON(t, r, http.MethodPost, "/user/login", "", map[string]any{
		"email":    "a@x.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "Login successful!", body["msg"])
	token := body["token"].(string)
	require.NotEmpty(t, token)

	// GetProfile with the token
	rec = doJSON(t, r, http.MethodGet, "/user/getProfile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "a", body["data"].(map[string]any)["username"])

	// GetProfile without a header
	rec = doJSON(t, r, http.MethodGet, "/user/getProfile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Bearer token is required"}`, rec.Body.String())
}

func TestRegister_DuplicateEmailIs500(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "a", "a@x.com", "pw", false)

	rec := doJSON(t, r, http.MethodPost, "/user/register", "", map[string]any{
		"username": "b",
		"email":    "a@x.com",
		"password": "pw",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["error"])
}

func TestLogin_BadCredentialsAre401(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "a", "a@x.com", "pw", false)

	rec := doJSON(t, r, http.MethodPost, "/user/login", "", map[string]any{
		"email":    "missing@x.com",
		"password": "pw",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/user/login", "", map[string]any{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid password"}`, rec.Body.String())
}

func TestUpdateProfile(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "a", "a@x.com", "pw", false)
	token := loginUser(t, r, "a@x.com", "pw")

	rec := doJSON(t, r, http.MethodPut, "/user/updateProfile", token, map[string]any{
		"name":     "Alice",
		"bio":      "hello",
		"phone":    "123",
		"photo":    "p.png",
		"isPublic": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Profile updated successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["isPublic"])
	assert.Equal(t, "Alice", data["profile"].(map[string]any)["name"])

	// Hidden users disappear from the public listing.
	rec = doJSON(t, r, http.MethodGet, "/user/public/profiles", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Empty(t, body["data"])
}

func TestAdminProfiles(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "root", "root@x.com", "pw", true)
	registerUser(t, r, "a", "a@x.com", "pw", false)

	// Non-admin with a perfectly valid token is denied.
	memberToken := loginUser(t, r, "a@x.com", "pw")
	rec := doJSON(t, r, http.MethodGet, "/user/admin/profiles", memberToken, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	adminToken := loginUser(t, r, "root@x.com", "pw")
	rec = doJSON(t, r, http.MethodGet, "/user/admin/profiles", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Fetch all user profiles successfully", body["message"])
	assert.Len(t, body["data"], 2)
}

func TestPublicProfiles_NoAuthRequired(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "a", "a@x.com", "pw", false)

	rec := doJSON(t, r, http.MethodGet, "/user/public/profiles", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Fetch public user profiles successfully", body["message"])
	users := body["data"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, true, users[0].(map[string]any)["isPublic"])
}
