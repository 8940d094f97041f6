// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"storyboarder/internal/apperr"
)

// Google endpoints.
const (
	AuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	TokenURL    = "https://oauth2.googleapis.com/token"
	UserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// Scopes requested at sign-in: identity plus Drive and Slides access for
// copying and filling the presentation template.
var Scopes = []string{
	"openid",
	"email",
	"profile",
	"https://www.googleapis.com/auth/drive",
	"https://www.googleapis.com/auth/presentations",
}

// Options configures a Client. Endpoint fields default to Google's.
type Options struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	AllowedDomain string // empty = any Google account

	AuthURL     string
	TokenURL    string
	UserInfoURL string
	HTTPClient  *http.Client
}

// Client runs the authorization-code flow and refreshes tokens.
type Client struct {
	oauth         *oauth2.Config
	userInfoURL   string
	allowedDomain string
	httpClient    *http.Client
}

// UserInfo is the signed-in user's profile.
type UserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	HostedDomain  string `json:"hd"`
}

// New creates a Client from opts.
func New(opts Options) *Client {
	authURL := opts.AuthURL
	if authURL == "" {
		authURL = AuthURL
	}
	tokenURL := opts.TokenURL
	if tokenURL == "" {
		tokenURL = TokenURL
	}
	userInfoURL := opts.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = UserInfoURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL:   userInfoURL,
		allowedDomain: strings.ToLower(opts.AllowedDomain),
		httpClient:    httpClient,
	}
}

// withClient makes oauth2 use our HTTP client for token requests.
func (c *Client) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// AuthCodeURL returns the Google consent URL for state. Offline access and a
// forced consent prompt make Google issue a refresh token on every sign-in.
func (c *Client) AuthCodeURL(state string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	}
	if c.allowedDomain != "" {
		opts = append(opts, oauth2.SetAuthURLParam("hd", c.allowedDomain))
	}
	return c.oauth.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for a token.
func (c *Client) Exchange(ctx context.Context, code string) (Token, error) {
	tok, err := c.oauth.Exchange(c.withClient(ctx), code)
	if err != nil {
		return Token{}, apperr.Unauthorized("Sign-in failed.", err)
	}
	return fromOAuth2(tok), nil
}

// Refresh exchanges old's refresh token for a new access token with a form
// POST to the token endpoint. The old refresh token is kept unless Google
// rotates it. A failure is returned as an unauthorized error and is not
// retried; callers record RefreshError on the session token.
func (c *Client) Refresh(ctx context.Context, old Token) (Token, error) {
	if old.RefreshToken == "" {
		return Token{}, apperr.Unauthorized("Session expired. Please sign in again.", fmt.Errorf("no refresh token"))
	}

	// An empty access token forces the source to hit the token endpoint.
	src := c.oauth.TokenSource(c.withClient(ctx), &oauth2.Token{RefreshToken: old.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		slog.Warn("google token refresh failed", "error", err)
		return Token{}, apperr.Unauthorized("Session expired. Please sign in again.", err)
	}

	fresh := fromOAuth2(tok)
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = old.RefreshToken
	}
	return fresh, nil
}

// Fresh returns tok unchanged while it is still valid at now and refreshes it
// otherwise. On a failed refresh the returned token carries RefreshError so
// the caller can persist the marker alongside the error.
func (c *Client) Fresh(ctx context.Context, tok Token, now time.Time) (Token, bool, error) {
	if tok.Error != "" {
		return tok, false, apperr.Unauthorized("Session expired. Please sign in again.", fmt.Errorf("token marked %s", tok.Error))
	}
	if !tok.Expired(now) {
		return tok, false, nil
	}

	fresh, err := c.Refresh(ctx, tok)
	if err != nil {
		tok.Error = RefreshError
		return tok, false, err
	}
	return fresh, true, nil
}

// UserInfo fetches the profile of the token's owner and checks the allowed
// domain.
func (c *Client) UserInfo(ctx context.Context, tok Token) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.External("google userinfo", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.External("google userinfo", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.External("google userinfo", fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, apperr.Parse("could not read Google profile", err)
	}
	if info.Email == "" || !info.EmailVerified {
		return nil, apperr.Unauthorized("Your Google account has no verified e-mail address.", nil)
	}
	if err := c.checkDomain(info.Email); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) checkDomain(email string) error {
	if c.allowedDomain == "" {
		return nil
	}
	at := strings.LastIndex(email, "@")
	if at == -1 || strings.ToLower(email[at+1:]) != c.allowedDomain {
		return apperr.Unauthorized("This Google account is not allowed to sign in.", nil)
	}
	return nil
}
