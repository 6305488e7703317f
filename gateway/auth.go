package gateway

import "context"

// User is the backend's view of the logged-in account.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// SessionStatus is returned by VerifyToken: the user plus the status flags
// the dashboard needs on load.
type SessionStatus struct {
	Valid            bool `json:"valid"`
	User             User `json:"user"`
	HasActiveMandate bool `json:"has_active_mandate"`
	HasBrokerAccount bool `json:"has_broker_account"`
}

// VerifyToken validates the current session cookie and returns the user and
// status flags. An auth failure comes back as an *APIError.
func (c *Client) VerifyToken(ctx context.Context) (SessionStatus, error) {
	var status SessionStatus
	if err := c.post(ctx, "/api/verify_token", nil, &status); err != nil {
		return SessionStatus{}, err
	}
	return status, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login starts a session. The session cookie lands in the client's jar; the
// anti-forgery cache is dropped since it was issued pre-login.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.post(ctx, "/api/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return User{}, err
	}
	c.InvalidateCSRF()
	return resp.User, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.post(ctx, "/api/register", loginRequest{Email: email, Password: password}, nil)
}

// ForgotPassword triggers the reset flow for an email address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.post(ctx, "/api/forgot_password", body, nil)
}

// Logout ends the session and drops the cached anti-forgery token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/api/logout", nil, nil); err != nil {
		return err
	}
	c.InvalidateCSRF()
	return nil
}

// OAuthConfig is the broker OAuth bootstrap configuration.
type OAuthConfig struct {
	AuthorizeURL string   `json:"authorize_url"`
	ClientID     string   `json:"client_id"`
	RedirectURI  string   `json:"redirect_uri"`
	Scopes       []string `json:"scopes"`
}

// FetchOAuthConfig returns the broker OAuth bootstrap settings.
func (c *Client) FetchOAuthConfig(ctx context.Context) (OAuthConfig, error) {
	var cfg OAuthConfig
	if err := c.get(ctx, "/api/oauth_config", nil, &cfg); err != nil {
		return OAuthConfig{}, err
	}
	return cfg, nil
}

// GenerateOAuthState asks the backend for a one-time OAuth state value. The
// caller persists it for the callback round-trip.
func (c *Client) GenerateOAuthState(ctx context.Context) (string, error) {
	var resp struct {
		State string `json:"state"`
	}
	if err := c.post(ctx, "/api/generate_oauth_state", nil, &resp); err != nil {
		return "", err
	}
	return resp.State, nil
}

// WSToken fetches a short-lived token for authenticating a push channel.
func (c *Client) WSToken(ctx context.Context) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/api/ws_token", nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Contact submits the support contact form.
func (c *Client) Contact(ctx context.Context, subject, message string) error {
	body := struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}{Subject: subject, Message: message}
	return c.post(ctx, "/api/contact", body, nil)
}
