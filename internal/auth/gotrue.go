package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoTrueClient talks to a GoTrue-compatible auth server (Supabase and
// plain GoTrue both expose this API). Tokens are verified by the server;
// this client only decodes claims to read identity and expiry.
type GoTrueClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewGoTrueClient(baseURL, anonKey string) *GoTrueClient {
	return &GoTrueClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges credentials for a session via the password grant.
func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	status, err := c.post(ctx, "/token?grant_type=password", "", body, &resp)
	if err != nil {
		return Session{}, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return Session{}, ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return Session{}, fmt.Errorf("sign in: unexpected status %d", status)
	}

	return Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		User:         User{ID: resp.User.ID, Email: resp.User.Email},
	}, nil
}

// SignUp registers a new account. Depending on server settings the
// account may need email confirmation before the first sign-in.
func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	status, err := c.post(ctx, "/signup", "", body, &resp)
	if err != nil {
		return User{}, err
	}
	if status != http.StatusOK {
		return User{}, fmt.Errorf("sign up: unexpected status %d", status)
	}

	// The server nests the user when auto-confirm is off.
	u := User{ID: resp.ID, Email: resp.Email}
	if u.ID == "" {
		u = User{ID: resp.User.ID, Email: resp.User.Email}
	}
	return u, nil
}

// SignOut revokes the session server-side. A failed revocation still
// ends the local session; the caller drops the cookie either way.
func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	status, err := c.post(ctx, "/logout", accessToken, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Errorf("sign out: unexpected status %d", status)
	}
	return nil
}

// UserFromToken validates the access token against the server and
// returns the account it belongs to.
func (c *GoTrueClient) UserFromToken(ctx context.Context, accessToken string) (User, error) {
	if expired, err := tokenExpired(accessToken); err == nil && expired {
		return User{}, ErrSessionExpired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return User{}, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return User{}, ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("get user: unexpected status %d", resp.StatusCode)
	}

	var u struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return User{ID: u.ID, Email: u.Email}, nil
}

// tokenExpired decodes the JWT claims without verifying the signature;
// the server remains the authority, this only short-circuits calls with
// a token that already expired.
func tokenExpired(accessToken string) (bool, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return false, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, err
	}
	return time.Now().After(exp.Time), nil
}

func (c *GoTrueClient) post(ctx context.Context, path, accessToken string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *GoTrueClient) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else if c.anonKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
}
