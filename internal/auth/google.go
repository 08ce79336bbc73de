// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const defaultUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleConfig configures Google sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	StateSecret  string

	// Endpoint and UserinfoURL default to Google's.
	Endpoint    oauth2.Endpoint
	UserinfoURL string
}

// Identity is the Google account returned by the userinfo endpoint.
type Identity struct {
	Subject      string
	Email        string
	RefreshToken *string
}

// Google runs the authorization code flow against Google.
type Google struct {
	oauth       *oauth2.Config
	state       *StateSigner
	userinfoURL string
}

// NewGoogle creates a Google client.
func NewGoogle(cfg GoogleConfig) *Google {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = endpoints.Google
	}
	userinfo := cfg.UserinfoURL
	if userinfo == "" {
		userinfo = defaultUserinfoURL
	}
	return &Google{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email"},
		},
		state:       NewStateSigner(cfg.StateSecret),
		userinfoURL: userinfo,
	}
}

// AuthURL returns the consent screen URL and the nonce bound to its state.
// Offline access with forced consent makes Google return a refresh token.
func (g *Google) AuthURL() (authURL, nonce string, err error) {
	state, nonce, err := g.state.Issue()
	if err != nil {
		return "", "", err
	}
	authURL = g.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return authURL, nonce, nil
}

// Exchange verifies state against nonce, trades code for a token and
// fetches the account's identity. Unverified emails are rejected.
func (g *Google) Exchange(ctx context.Context, code, state, nonce string) (*Identity, error) {
	if err := g.state.Verify(state, nonce); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing code", ErrOAuthFailed)
	}

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %w", ErrOAuthFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOAuthFailed, err)
	}
	resp, err := g.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %w", ErrOAuthFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read userinfo: %w", ErrOAuthFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrOAuthFailed, resp.StatusCode)
	}

	info := gjson.ParseBytes(body)
	id := &Identity{
		Subject: info.Get("id").String(),
		Email:   info.Get("email").String(),
	}
	if id.Subject == "" || id.Email == "" {
		return nil, fmt.Errorf("%w: userinfo missing id or email", ErrOAuthFailed)
	}
	if !info.Get("verified_email").Bool() {
		return nil, fmt.Errorf("%w: email not verified", ErrOAuthFailed)
	}
	if token.RefreshToken != "" {
		id.RefreshToken = &token.RefreshToken
	}
	return id, nil
}
