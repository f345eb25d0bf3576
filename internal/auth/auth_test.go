package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLocalSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc := NewLocalService()

	user, err := svc.SignUp(ctx, "Ana@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("email should be normalised, got %q", user.Email)
	}

	// Duplicate registration is rejected.
	if _, err := svc.SignUp(ctx, "ana@example.com", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	session, err := svc.SignIn(ctx, "ana@example.com", "s3cret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.AccessToken == "" {
		t.Fatal("session should carry an access token")
	}
	if session.User.ID != user.ID {
		t.Errorf("session user = %q, want %q", session.User.ID, user.ID)
	}

	got, err := svc.UserFromToken(ctx, session.AccessToken)
	if err != nil {
		t.Fatalf("UserFromToken: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("got user %q, want %q", got.ID, user.ID)
	}
}

func TestLocalSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewLocalService()

	if _, err := svc.SignUp(ctx, "ana@example.com", "s3cret"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := svc.SignIn(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLocalSignOut(t *testing.T) {
	ctx := context.Background()
	svc := NewLocalService()

	if _, err := svc.SignUp(ctx, "ana@example.com", "s3cret"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	session, err := svc.SignIn(ctx, "ana@example.com", "s3cret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if err := svc.SignOut(ctx, session.AccessToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := svc.UserFromToken(ctx, session.AccessToken); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired after sign out, got %v", err)
	}
}

func TestGoTrueSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("missing apikey header")
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["password"] != "s3cret" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "token-abc",
			"refresh_token": "refresh-abc",
			"expires_in":    3600,
			"user":          map[string]string{"id": "u1", "email": body["email"]},
		})
	}))
	defer srv.Close()

	client := NewGoTrueClient(srv.URL, "anon-key")
	ctx := context.Background()

	session, err := client.SignIn(ctx, "ana@example.com", "s3cret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.AccessToken != "token-abc" {
		t.Errorf("access token = %q", session.AccessToken)
	}
	if session.User.ID != "u1" || session.User.Email != "ana@example.com" {
		t.Errorf("unexpected user: %+v", session.User)
	}
	if time.Until(session.ExpiresAt) <= 0 {
		t.Error("expiry should be in the future")
	}

	if _, err := client.SignIn(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGoTrueUserFromToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "ana@example.com"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	client := NewGoTrueClient(srv.URL, "anon-key")
	ctx := context.Background()

	user, err := client.UserFromToken(ctx, "good-token")
	if err != nil {
		t.Fatalf("UserFromToken: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user id = %q, want u1", user.ID)
	}

	if _, err := client.UserFromToken(ctx, "bad-token"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestGoTrueSignUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/signup" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "u2", "email": "novo@example.com"})
	}))
	defer srv.Close()

	client := NewGoTrueClient(srv.URL, "anon-key")
	user, err := client.SignUp(context.Background(), "novo@example.com", "s3cret")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.ID != "u2" {
		t.Errorf("user id = %q, want u2", user.ID)
	}
}

func TestSessionExpired(t *testing.T) {
	s := Session{ExpiresAt: time.Now().Add(-time.Minute)}
	if !s.Expired() {
		t.Error("past expiry should report expired")
	}
	s = Session{ExpiresAt: time.Now().Add(time.Hour)}
	if s.Expired() {
		t.Error("future expiry should not report expired")
	}
	if (Session{}).Expired() {
		t.Error("zero expiry never expires")
	}
}
