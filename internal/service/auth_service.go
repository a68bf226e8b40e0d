package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rc-foods/courier-client/internal/api"
	"github.com/rc-foods/courier-client/internal/auth"
	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/internal/events"
	"github.com/rc-foods/courier-client/internal/storage"
	"github.com/rc-foods/courier-client/pkg/apierror"
)

// SessionState enumerates the session lifecycle.
type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
	StateExpired        SessionState = "expired"
)

// AuthService orchestrates login, role gating, session persistence and
// logout cleanup. At most one session exists per device; a session that
// stops matching the allowed role heals itself by clearing.
type AuthService struct {
	users       *api.UserClient
	tokens      *auth.TokenStore
	store       storage.Store
	dispatcher  events.Dispatcher
	allowedRole domain.Role
	logger      *zap.Logger

	mu          sync.Mutex
	state       SessionState
	currentUser *domain.User
}

// AuthDependencies encapsulates what the service needs.
type AuthDependencies struct {
	UserClient *api.UserClient
	Tokens     *auth.TokenStore
	Store      storage.Store
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(allowedRole domain.Role, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:       deps.UserClient,
		tokens:      deps.Tokens,
		store:       deps.Store,
		dispatcher:  deps.Dispatcher,
		allowedRole: allowedRole,
		logger:      logger,
		state:       StateAnonymous,
	}
}

// State returns the current session state.
func (s *AuthService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login runs the acceptance flow and persists the session. A rejection
// (credentials, role, approval, deletion) leaves the service anonymous and
// surfaces the specific reason.
func (s *AuthService) Login(ctx context.Context, req api.LoginRequest) (*domain.User, error) {
	s.setState(StateAuthenticating)

	resp, err := s.users.Login(ctx, req)
	if err != nil {
		s.setState(StateAnonymous)
		return nil, err
	}

	if err := s.tokens.SaveTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		s.setState(StateAnonymous)
		return nil, fmt.Errorf("persist session tokens: %w", err)
	}
	if err := s.saveUser(ctx, resp.User); err != nil {
		// Tokens are in; a missing cached profile only costs a refetch.
		s.logger.Warn("unable to cache user profile", zap.Error(err))
	}

	s.mu.Lock()
	s.currentUser = &resp.User
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.logger.Info("login succeeded", zap.String("user", resp.User.FullName))
	return &resp.User, nil
}

// Signup registers a new delivery-person account, left pending approval.
func (s *AuthService) Signup(ctx context.Context, req api.SignupRequest) (*api.SignupResponse, error) {
	return s.users.Signup(ctx, req)
}

// IsAuthenticated reports whether a live, role-matching session exists.
// A stored token whose role no longer matches is cleared as a side effect.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	token, ok, err := s.tokens.AccessToken(ctx)
	if err != nil {
		s.logger.Warn("unable to read access token", zap.Error(err))
		return false
	}
	if !ok {
		s.setState(StateAnonymous)
		return false
	}
	if s.tokens.IsExpired(token) {
		s.setState(StateExpired)
		return false
	}

	role, err := s.tokens.Role(token)
	if err != nil || role != s.allowedRole {
		s.logger.Warn("stored session role no longer allowed, clearing session")
		s.clearSession(ctx)
		return false
	}

	s.setState(StateAuthenticated)
	return true
}

// CurrentUser returns the profile for the active session: the in-memory
// copy first, then the stored one, then a server fetch. Absent when
// unauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	cached := s.currentUser
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	if !s.IsAuthenticated(ctx) {
		return nil, nil
	}

	if user := s.storedUser(ctx); user != nil {
		if user.Role != s.allowedRole {
			s.logger.Warn("stored profile role no longer allowed, clearing session")
			s.clearSession(ctx)
			return nil, nil
		}
		s.mu.Lock()
		s.currentUser = user
		s.mu.Unlock()
		return user, nil
	}

	user, err := s.users.Profile(ctx)
	if err != nil {
		if apierror.IsRole(err) {
			s.clearSession(ctx)
			return nil, nil
		}
		return nil, err
	}
	if err := s.saveUser(ctx, *user); err != nil {
		s.logger.Warn("unable to cache user profile", zap.Error(err))
	}
	s.mu.Lock()
	s.currentUser = user
	s.mu.Unlock()
	return user, nil
}

// RefreshAccessToken exchanges the refresh token for a new access token.
// Any failure tears the whole session down: an unrefreshable session is
// no session.
func (s *AuthService) RefreshAccessToken(ctx context.Context) error {
	refresh, ok, err := s.tokens.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("read refresh token: %w", err)
	}
	if !ok {
		s.clearSession(ctx)
		return apierror.New(apierror.CodeUnauthorized, "no refresh token stored", 0, nil)
	}

	resp, err := s.users.RefreshToken(ctx, refresh)
	if err != nil {
		s.logger.Warn("token refresh failed, clearing session", zap.Error(err))
		s.clearSession(ctx)
		return err
	}

	newRefresh := resp.RefreshToken
	if newRefresh == "" {
		newRefresh = refresh
	}
	if err := s.tokens.SaveTokens(ctx, resp.AccessToken, newRefresh); err != nil {
		s.clearSession(ctx)
		return fmt.Errorf("persist refreshed tokens: %w", err)
	}

	s.setState(StateAuthenticated)
	s.logger.Info("access token refreshed")
	return nil
}

// Logout notifies the server on a best-effort basis and unconditionally
// clears all local session state.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.IsAuthenticated(ctx) {
		if err := s.users.Logout(ctx); err != nil {
			s.logger.Warn("server logout failed, continuing with local cleanup", zap.Error(err))
		}
	}
	s.clearSession(ctx)
	s.logger.Info("logout completed")
	return nil
}

// UpdateProfile sends profile changes and refreshes the cached copy.
func (s *AuthService) UpdateProfile(ctx context.Context, changes map[string]any) (*domain.User, error) {
	user, err := s.users.UpdateProfile(ctx, changes)
	if err != nil {
		return nil, err
	}
	if err := s.saveUser(ctx, *user); err != nil {
		s.logger.Warn("unable to cache user profile", zap.Error(err))
	}
	s.mu.Lock()
	s.currentUser = user
	s.mu.Unlock()
	return user, nil
}

// ChangePassword replaces the password after server-side verification.
func (s *AuthService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return s.users.ChangePassword(ctx, currentPassword, newPassword)
}

// ForgotPassword requests a reset mail.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.users.ForgotPassword(ctx, email)
}

// ResetPassword redeems a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.users.ResetPassword(ctx, token, newPassword)
}

// DeleteAccount removes the account remotely and clears local state even
// when the remote call fails; a deletion attempt always ends the session
// on this device.
func (s *AuthService) DeleteAccount(ctx context.Context) error {
	err := s.users.DeleteAccount(ctx)
	s.clearSession(ctx)
	return err
}

// UpdateFCMToken registers a push token and mirrors it on the cached profile.
func (s *AuthService) UpdateFCMToken(ctx context.Context, fcmToken string) error {
	if err := s.users.UpdateFCMToken(ctx, fcmToken); err != nil {
		return err
	}
	s.mu.Lock()
	if s.currentUser != nil {
		s.currentUser.FCMToken = fcmToken
	}
	user := s.currentUser
	s.mu.Unlock()
	if user != nil {
		if err := s.saveUser(ctx, *user); err != nil {
			s.logger.Warn("unable to cache user profile", zap.Error(err))
		}
	}
	return nil
}

func (s *AuthService) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *AuthService) saveUser(ctx context.Context, user domain.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user profile: %w", err)
	}
	return s.store.Set(ctx, storage.KeyUserData, string(encoded))
}

func (s *AuthService) storedUser(ctx context.Context) *domain.User {
	raw, ok, err := s.store.Get(ctx, storage.KeyUserData)
	if err != nil || !ok {
		return nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("discarding unreadable stored profile", zap.Error(err))
		return nil
	}
	return &user
}

// clearSession removes every piece of local session state and announces
// the teardown so dependent state (summaries, area marker) clears too.
func (s *AuthService) clearSession(ctx context.Context) {
	if err := s.tokens.ClearTokens(ctx); err != nil {
		s.logger.Warn("unable to clear tokens", zap.Error(err))
	}
	if err := s.store.RemoveMany(ctx, storage.KeyUserData, storage.KeySelectedArea); err != nil {
		s.logger.Warn("unable to clear stored session data", zap.Error(err))
	}

	s.mu.Lock()
	s.currentUser = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	if s.dispatcher != nil {
		if err := s.dispatcher.Publish(ctx, events.SessionCleared()); err != nil {
			s.logger.Warn("publish session cleared", zap.Error(err))
		}
	}
}
