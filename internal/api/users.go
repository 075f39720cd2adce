package api

import (
	"context"
	"net/http"

	"ideahub/internal/apperr"
	"ideahub/internal/models"
)

// LoginResult carries what the login endpoint exchanges credentials for.
type LoginResult struct {
	Token       string `json:"token"`
	UserID      string `json:"id"`
	Name        string `json:"name"`
	IsModerator bool   `json:"is_moderator"`
	IsAdmin     bool   `json:"is_admin"`
}

// Login exchanges credentials for a token plus the user's identity and role
// flags. Unauthenticated by definition.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	var result LoginResult
	if err := c.doJSON(ctx, "login", http.MethodPost, "/user/login", payload, false, &result); err != nil {
		if apperr.IsCode(err, apperr.ErrUnauthorized) || apperr.IsCode(err, apperr.ErrInvalidInput) {
			return nil, apperr.New(apperr.ErrInvalidCredentials, "invalid email or password", err)
		}
		return nil, err
	}
	return &result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password, department string) error {
	payload := map[string]string{
		"name":       name,
		"email":      email,
		"password":   password,
		"department": department,
	}
	return c.doJSON(ctx, "register", http.MethodPost, "/user/register", payload, false, nil)
}

// GetUser fetches one user's profile.
func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "get_user", http.MethodGet, "/user/"+userID, nil, true, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		user.ID = userID
	}
	return &user, nil
}

// UpdateProfile updates name and department; password is only sent when
// non-empty, matching the backend's partial-update contract.
func (c *Client) UpdateProfile(ctx context.Context, userID, name, department, password string) error {
	payload := map[string]string{
		"name":       name,
		"department": department,
	}
	if password != "" {
		payload["password"] = password
	}
	return c.doJSON(ctx, "update_profile", http.MethodPut, "/user/"+userID, payload, true, nil)
}

// ListUsers returns every account. Admin-only on the backend.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var result struct {
		Users []models.User `json:"users"`
	}
	if err := c.doJSON(ctx, "list_users", http.MethodGet, "/user/getAll", nil, true, &result); err != nil {
		return nil, err
	}
	return result.Users, nil
}

// ToggleModerator flips a user's moderator flag. Admin-only on the backend.
func (c *Client) ToggleModerator(ctx context.Context, userID string) error {
	return c.doJSON(ctx, "toggle_moderator", http.MethodPatch, "/user/"+userID+"/moderator", nil, true, nil)
}

// DeleteUser removes an account. Admin-only on the backend.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.doJSON(ctx, "delete_user", http.MethodDelete, "/user/"+userID, nil, true, nil)
}
