package services

import (
	"errors"
	"fmt"

	"blog/internal/models"
	"blog/internal/repositories"
	"blog/pkg/sessions"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, and session resolution.
// Passwords exist in plaintext only inside the two calls that hash or
// compare them; the repository only ever sees the bcrypt digest.
type AuthService struct {
	userRepo repositories.UserRepository
	sessions *sessions.Store
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, store *sessions.Store) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: store,
	}
}

// Register creates a new account and immediately logs it in, returning
// the user together with a fresh session token. The first account ever
// created receives id 1 and with it the administrator role.
//
// The existence checks are a fast path only; the database unique
// indexes remain the authoritative guard, so a concurrent registration
// losing the race still surfaces as ErrDuplicateUser.
func (s *AuthService) Register(username, email, password string) (*models.User, string, error) {
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, "", fmt.Errorf("username %q: %w", username, models.ErrDuplicateUser)
	}
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, "", fmt.Errorf("email %q: %w", email, models.ErrDuplicateUser)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(digest),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	// Auto-login: registration establishes a session right away.
	token := s.sessions.Create(user.ID)
	return user, token, nil
}

// Login authenticates a user and issues a session token. The failure
// reason distinguishes an unknown username from a wrong password,
// matching the behavior of the original forms.
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", &models.CredentialError{Reason: "unknown username"}
	}

	// CompareHashAndPassword is constant-time and fails closed on a
	// malformed digest.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", &models.CredentialError{Reason: "incorrect password"}
	}

	token := s.sessions.Create(user.ID)
	return user, token, nil
}

// Logout invalidates a session token. The next Resolve on that token
// returns no identity.
func (s *AuthService) Logout(token string) {
	s.sessions.Delete(token)
}

// Resolve maps a client-held token back to a user id without touching
// credentials. The second return is false for an absent, invalidated,
// or expired token: the anonymous state.
func (s *AuthService) Resolve(token string) (uint, bool) {
	if token == "" {
		return 0, false
	}
	return s.sessions.Resolve(token)
}
