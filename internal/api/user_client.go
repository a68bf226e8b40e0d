package api

import (
	"context"

	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/pkg/apierror"
)

// LoginRequest carries the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FCMToken string `json:"fcm_token,omitempty"`
}

// LoginResponse is the token pair and profile issued on acceptance.
type LoginResponse struct {
	Message      string      `json:"message"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         domain.User `json:"user"`
}

// SignupRequest carries a new delivery-person registration.
type SignupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	Role     string `json:"role"`
	FCMToken string `json:"fcm_token,omitempty"`
}

// SignupResponse acknowledges a registration pending approval.
type SignupResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

// RefreshTokenResponse is the result of a refresh-token exchange. The
// refresh token is only rotated when the server chooses to.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// UserClient shapes requests against the user/auth service.
type UserClient struct {
	pipeline    *Client
	allowedRole domain.Role
}

// NewUserClient builds the client over a pipeline.
func NewUserClient(pipeline *Client, allowedRole domain.Role) *UserClient {
	return &UserClient{pipeline: pipeline, allowedRole: allowedRole}
}

// Login authenticates and then runs the acceptance checks on the returned
// record, in fixed order: role, then approval, then deletion. The first
// failing check decides the rejection.
func (c *UserClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if _, err := c.pipeline.Post(ctx, "/users/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.User.Role != c.allowedRole {
		return nil, apierror.NewRole()
	}
	if !resp.User.Approved {
		return nil, apierror.NewApproval()
	}
	if resp.User.Status == domain.AccountStatusDeleted {
		return nil, apierror.NewDeleted()
	}
	return &resp, nil
}

// Signup registers a new account. The role is forced to the allowed one;
// callers cannot sign up anything else through this app.
func (c *UserClient) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	req.Role = string(c.allowedRole)
	var resp SignupResponse
	if _, err := c.pipeline.Post(ctx, "/users/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the current user and revalidates the role.
func (c *UserClient) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if _, err := c.pipeline.Get(ctx, "/users/profile", nil, &user); err != nil {
		return nil, err
	}
	if user.Role != c.allowedRole {
		return nil, apierror.NewRole()
	}
	return &user, nil
}

// UpdateProfile sends profile changes. The role field is never part of the
// update payload.
func (c *UserClient) UpdateProfile(ctx context.Context, changes map[string]any) (*domain.User, error) {
	delete(changes, "role")
	var user domain.User
	if _, err := c.pipeline.Put(ctx, "/users/profile", changes, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshToken exchanges the refresh token for a new access token.
func (c *UserClient) RefreshToken(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp RefreshTokenResponse
	if _, err := c.pipeline.Post(ctx, "/users/refresh-token", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout notifies the server that the session is over.
func (c *UserClient) Logout(ctx context.Context) error {
	_, err := c.pipeline.Post(ctx, "/users/logout", nil, nil)
	return err
}

// ChangePassword verifies the current password server-side and replaces it.
func (c *UserClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	_, err := c.pipeline.Post(ctx, "/users/change-password", body, nil)
	return err
}

// ForgotPassword requests a reset mail for the address.
func (c *UserClient) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.pipeline.Post(ctx, "/users/forgot-password", map[string]string{"email": email}, nil)
	return err
}

// ResetPassword redeems a reset token.
func (c *UserClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "new_password": newPassword}
	_, err := c.pipeline.Post(ctx, "/users/reset-password", body, nil)
	return err
}

// DeleteAccount removes the account server-side.
func (c *UserClient) DeleteAccount(ctx context.Context) error {
	_, err := c.pipeline.Delete(ctx, "/users/account", nil)
	return err
}

// UpdateFCMToken registers a push notification token for the account.
func (c *UserClient) UpdateFCMToken(ctx context.Context, fcmToken string) error {
	_, err := c.pipeline.Put(ctx, "/users/fcm-token", map[string]string{"fcm_token": fcmToken}, nil)
	return err
}
