package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestUserFlow_RegisterLoginProfile(t *testing.T) {
	app := setupApp(t)

	userID := app.registerUser(t, "alice")

	// Login with the username
	rec := app.request("POST", "/api/users/login",
		`{"username_or_email":"alice","password":"password123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login by username failed: %d %s", rec.Code, rec.Body.String())
	}
	user := data(t, parseJSON(t, rec))
	if user["id"].(float64) != userID {
		t.Errorf("expected user id %.0f, got %v", userID, user["id"])
	}

	// Login with the email instead
	rec = app.request("POST", "/api/users/login",
		`{"username_or_email":"alice@test.com","password":"password123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login by email failed: %d %s", rec.Code, rec.Body.String())
	}

	// Wrong password is rejected
	rec = app.request("POST", "/api/users/login",
		`{"username_or_email":"alice","password":"wrong-password"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for wrong password, got %d", rec.Code)
	}

	// Fetch the profile
	rec = app.request("GET", fmt.Sprintf("/api/users/profile/%.0f", userID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile failed: %d %s", rec.Code, rec.Body.String())
	}
	profile := data(t, parseJSON(t, rec))
	if profile["username"] != "alice" {
		t.Errorf("expected username alice, got %v", profile["username"])
	}
	if profile["email"] != "alice@test.com" {
		t.Errorf("expected email alice@test.com, got %v", profile["email"])
	}
}

func TestUserFlow_DuplicateRegistration(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "bob")

	// Same username, different email
	rec := app.request("POST", "/api/users/register",
		`{"username":"bob","email":"bob2@test.com","full_name":"Bob Two","password":"password123","confirm_password":"password123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate username, got %d: %s", rec.Code, rec.Body.String())
	}

	// Same email, different username
	rec = app.request("POST", "/api/users/register",
		`{"username":"robert","email":"bob@test.com","full_name":"Robert","password":"password123","confirm_password":"password123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate email, got %d: %s", rec.Code, rec.Body.String())
	}
}
