package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
)

var ErrEmailTaken = errors.New("email already registered")

const localSessionTTL = 24 * time.Hour

// LocalService keeps accounts in memory with bcrypt password hashes.
// It backs development setups and tests; nothing is persisted.
type LocalService struct {
	mu       sync.Mutex
	users    map[string]localUser // by email
	sessions map[string]Session   // by access token
}

type localUser struct {
	id   string
	hash []byte
}

func NewLocalService() *LocalService {
	return &LocalService{
		users:    make(map[string]localUser),
		sessions: make(map[string]Session),
	}
}

func (s *LocalService) SignUp(_ context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		return User{}, ErrEmailTaken
	}
	u := localUser{id: uuid.NewString(), hash: hash}
	s.users[email] = u

	return User{ID: u.id, Email: email}, nil
}

func (s *LocalService) SignIn(_ context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	u, exists := s.users[email]
	s.mu.Unlock()
	if !exists {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	session := Session{
		AccessToken:  newToken(),
		RefreshToken: newToken(),
		ExpiresAt:    time.Now().Add(localSessionTTL),
		User:         User{ID: u.id, Email: email},
	}

	s.mu.Lock()
	s.sessions[session.AccessToken] = session
	s.mu.Unlock()

	return session, nil
}

func (s *LocalService) SignOut(_ context.Context, accessToken string) error {
	s.mu.Lock()
	delete(s.sessions, accessToken)
	s.mu.Unlock()
	return nil
}

func (s *LocalService) UserFromToken(_ context.Context, accessToken string) (User, error) {
	s.mu.Lock()
	session, exists := s.sessions[accessToken]
	s.mu.Unlock()
	if !exists {
		return User{}, ErrSessionExpired
	}
	if session.Expired() {
		s.mu.Lock()
		delete(s.sessions, accessToken)
		s.mu.Unlock()
		return User{}, ErrSessionExpired
	}
	return session.User, nil
}

func newToken() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
