// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package googleauth implements Google sign-in and access-token refresh.
// Tokens are plain values stored in the user's session and handed to each
// Google API call; they are refreshed at the point of use.
package googleauth

import (
	"time"

	"golang.org/x/oauth2"
)

// RefreshError is recorded in Token.Error when a refresh fails. A token
// carrying it must not be used again; the user has to sign in.
const RefreshError = "RefreshAccessTokenError"

// expirySkew treats a token as expired slightly before its real expiry so a
// call started just before the deadline does not fail mid-flight.
const expirySkew = 60 * time.Second

// Token is an OAuth access token with its refresh token and expiry.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Expired reports whether the access token is missing or expires within
// the skew window at now. A zero Expiry never expires.
func (t Token) Expired(now time.Time) bool {
	if t.AccessToken == "" {
		return true
	}
	if t.Expiry.IsZero() {
		return false
	}
	return !now.Add(expirySkew).Before(t.Expiry)
}

// Usable reports whether the token can be sent to an API at now without a
// refresh.
func (t Token) Usable(now time.Time) bool {
	return t.Error == "" && !t.Expired(now)
}

// OAuth2 converts the token for use with golang.org/x/oauth2 token sources.
func (t Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

func fromOAuth2(tok *oauth2.Token) Token {
	return Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
}
