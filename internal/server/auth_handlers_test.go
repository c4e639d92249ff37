package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LaurentJouron/LITReview/internal/middleware"
	"github.com/LaurentJouron/LITReview/internal/models"

	"github.com/gofiber/fiber/v2"
)

func newAuthTestApp(t *testing.T, s *Server) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Post("/api/auth/signup", s.Signup)
	app.Post("/api/auth/login", s.Login)
	app.Get("/api/users/me", middleware.AuthRequired, s.GetMyProfile)
	return app
}

func TestSignupLoginRoundTrip(t *testing.T) {
	db := setupHandlerTestDB(t)
	cfg := testConfig(t)
	middleware.InitMiddleware(cfg)
	s, err := NewServerWithDeps(cfg, db, nil)
	if err != nil {
		t.Fatalf("NewServerWithDeps: %v", err)
	}
	app := newAuthTestApp(t, s)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"username": "Alice",
		"email":    "Alice@Example.com",
		"password": "Sup3r-secret",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var signup struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeJSON(t, resp, &signup)
	if signup.Token == "" {
		t.Fatal("signup must return a token")
	}
	if signup.User.Username != "alice" {
		t.Fatalf("username must be stored lowercase, got %q", signup.User.Username)
	}

	// The issued token authenticates subsequent requests.
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signup.Token)
	meResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /users/me, got %d", meResp.StatusCode)
	}
	var me models.User
	decodeJSON(t, meResp, &me)
	if me.ID != signup.User.ID {
		t.Fatalf("expected user %d, got %d", signup.User.ID, me.ID)
	}

	// Password is verified against the stored hash, not the raw value.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "alice@example.com",
		"password": "Sup3r-secret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 login, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestSignupDuplicateUsername(t *testing.T) {
	db := setupHandlerTestDB(t)
	s, err := NewServerWithDeps(testConfig(t), db, nil)
	if err != nil {
		t.Fatalf("NewServerWithDeps: %v", err)
	}
	app := newAuthTestApp(t, s)

	payload := fiber.Map{"username": "bob", "email": "bob@example.com", "password": "Sup3r-secret"}
	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	// Same username with a different email still collides.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/signup",
		fiber.Map{"username": "BOB", "email": "bob2@example.com", "password": "Sup3r-secret"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 account, got %d", count)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupHandlerTestDB(t)
	s, err := NewServerWithDeps(testConfig(t), db, nil)
	if err != nil {
		t.Fatalf("NewServerWithDeps: %v", err)
	}
	app := newAuthTestApp(t, s)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup",
		fiber.Map{"username": "carol", "email": "carol@example.com", "password": "Sup3r-secret"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	cases := []struct {
		name    string
		payload fiber.Map
	}{
		{"wrong password", fiber.Map{"email": "carol@example.com", "password": "nope"}},
		{"unknown account", fiber.Map{"email": "ghost@example.com", "password": "Sup3r-secret"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/login", tc.payload)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
			var body struct {
				Error string `json:"error"`
			}
			decodeJSON(t, resp, &body)
			if body.Error != "Invalid credentials" {
				t.Fatalf("failure modes must be indistinguishable, got %q", body.Error)
			}
		})
	}
}

func TestSignupValidation(t *testing.T) {
	db := setupHandlerTestDB(t)
	s, err := NewServerWithDeps(testConfig(t), db, nil)
	if err != nil {
		t.Fatalf("NewServerWithDeps: %v", err)
	}
	app := newAuthTestApp(t, s)

	cases := []struct {
		name    string
		payload fiber.Map
	}{
		{"missing password", fiber.Map{"username": "dave", "email": "dave@example.com"}},
		{"bad email", fiber.Map{"username": "dave", "email": "not-an-email", "password": "Sup3r-secret"}},
		{"short password", fiber.Map{"username": "dave", "email": "dave@example.com", "password": "abc"}},
		{"bad username chars", fiber.Map{"username": "da ve!", "email": "dave@example.com", "password": "Sup3r-secret"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", tc.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			_ = resp.Body.Close()
		})
	}
}
