package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/sirupsen/logrus"
)

// Keys of the persisted state cells
const (
	SessionStorageKey = "user_session"
	ThemeStorageKey   = "theme_mode"
)

// Generic messages used when the server gives none
const (
	DefaultLoginFailureMessage    = "Login failed. Please check your credentials and try again."
	DefaultRegisterFailureMessage = "Registration failed. Please try again."
	DefaultRegisterSuccessMessage = "Registration successful. Please log in."
)

const sessionServiceName = "SessionService"

// KeyValueStore persists small opaque values across restarts
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Authenticator is the part of the market API the session needs
type Authenticator interface {
	Login(ctx context.Context, credentials models.Credentials) (*models.LoginResponse, error)
	Register(ctx context.Context, credentials models.Credentials) (*models.RegisterResponse, error)
}

// SessionService owns the authenticated user. It is loaded once by Init and changed
// only by Login and Logout.
type SessionService struct {
	store     KeyValueStore
	auth      Authenticator
	validator *RequestValidator
	logger    *logrus.Entry

	mu      sync.RWMutex
	session *models.Session
}

// NewSessionService creates a signed-out session cell
func NewSessionService(store KeyValueStore, auth Authenticator, requestValidator *RequestValidator) *SessionService {
	if requestValidator == nil {
		requestValidator = NewRequestValidator()
	}
	return &SessionService{
		store:     store,
		auth:      auth,
		validator: requestValidator,
		logger:    logrus.WithField("component", sessionServiceName),
	}
}

// Init loads the persisted session. A corrupt record is discarded.
func (s *SessionService) Init(ctx context.Context) error {
	raw, found, err := s.store.Get(ctx, SessionStorageKey)
	if err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "SESSION_LOAD_FAILED", sessionServiceName, "Init", true)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	if !found {
		return nil
	}

	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil || session.Token == "" {
		s.logger.WithError(err).Warn("Discarding unreadable persisted session")
		return nil
	}

	s.session = &session
	s.logger.WithField("user_id", session.UserID).Info("Restored persisted session")
	return nil
}

// Current returns the signed-in session
func (s *SessionService) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return models.Session{}, false
	}
	return *s.session, true
}

// Token returns the bearer token, or "" when signed out
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// Login authenticates and persists the new session. Rejections are authentication
// errors carrying the server's message.
func (s *SessionService) Login(ctx context.Context, credentials models.Credentials) (models.Session, error) {
	credentials.Username = strings.TrimSpace(credentials.Username)
	if err := s.validator.Validate(sessionServiceName, "Login", credentials); err != nil {
		return models.Session{}, err
	}

	response, err := s.auth.Login(ctx, credentials)
	if err != nil {
		return models.Session{}, err
	}

	if !response.Success || response.Token.IsBlank() {
		message := response.Message.Or(DefaultLoginFailureMessage)
		s.logger.WithField("username", credentials.Username).Info("Login rejected")
		return models.Session{}, shared.NewServiceError(shared.ErrorCategoryAuthentication, "LOGIN_REJECTED",
			message, sessionServiceName, "Login", false, nil)
	}

	session := models.Session{
		UserID:      response.UserID.String(),
		DisplayName: response.UserDisplayName.Or(credentials.Username),
		Token:       response.Token.String(),
	}

	encoded, err := json.Marshal(session)
	if err != nil {
		return models.Session{}, shared.WrapError(err, shared.ErrorCategoryProcessing, "SESSION_ENCODE_FAILED", sessionServiceName, "Login", false)
	}
	if err := s.store.Set(ctx, SessionStorageKey, string(encoded)); err != nil {
		return models.Session{}, shared.WrapError(err, shared.ErrorCategoryStorage, "SESSION_SAVE_FAILED", sessionServiceName, "Login", true)
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	s.logger.WithField("user_id", session.UserID).Info("User logged in")
	return session, nil
}

// Register creates an account and returns the server's confirmation. It does not sign in.
func (s *SessionService) Register(ctx context.Context, credentials models.Credentials) (string, error) {
	credentials.Username = strings.TrimSpace(credentials.Username)
	if err := s.validator.Validate(sessionServiceName, "Register", credentials); err != nil {
		return "", err
	}

	response, err := s.auth.Register(ctx, credentials)
	if err != nil {
		return "", err
	}

	if !response.Success {
		return "", shared.NewServiceError(shared.ErrorCategoryAuthentication, "REGISTER_REJECTED",
			response.Message.Or(DefaultRegisterFailureMessage), sessionServiceName, "Register", false, nil)
	}

	return response.Message.Or(DefaultRegisterSuccessMessage), nil
}

// Logout clears the session in memory and in the store
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, SessionStorageKey); err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "SESSION_DELETE_FAILED", sessionServiceName, "Logout", true)
	}

	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	s.logger.Info("User logged out")
	return nil
}
