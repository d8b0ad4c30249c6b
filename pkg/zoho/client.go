package zoho

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/kartiklala/prodevans-support/pkg/auth"
)

// Zoho expects its own token scheme in the Authorization header,
// not "Bearer".
const authScheme = "Zoho-oauthtoken"

// Search parameters understood by the People records endpoint.
const (
	searchColumn = "EMPLOYEEMAILALIAS"
)

// defaultAPIDomain is used when the token response omits api_domain.
const defaultAPIDomain = "https://people.zoho.in"

// defaultTokenLifetime is assumed when the token response omits expires_in.
const defaultTokenLifetime = time.Hour

// Ensure Client implements auth.Provider.
var _ auth.Provider = (*Client)(nil)

// Client talks to the Zoho accounts and People endpoints. All outbound
// calls share one HTTP client with an explicit timeout; a timeout surfaces
// as auth.ErrProvider like any other provider fault.
type Client struct {
	conf          *oauth2.Config
	httpClient    *http.Client
	accountsBase  string
	peopleAPIBase string
	now           func() time.Time
}

// NewClient builds a Zoho provider client from config. Scopes are joined
// with commas into a single scope value, which is the separator Zoho's
// authorization endpoint expects.
func NewClient(cfg Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	base := strings.TrimRight(cfg.AccountsBase, "/")

	return &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{strings.Join(cfg.Scopes, ",")},
			Endpoint: oauth2.Endpoint{
				AuthURL:   base + "/oauth/v2/auth",
				TokenURL:  base + "/oauth/v2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient:    &http.Client{Timeout: timeout},
		accountsBase:  base,
		peopleAPIBase: cfg.PeopleAPIBase,
		now:           time.Now,
	}
}

// ConsentURL returns the authorization URL for the consent screen.
// access_type=offline requests a refresh token and prompt=consent forces
// the consent screen so one is actually issued. No state parameter is sent;
// the gap is tracked in DESIGN.md.
func (c *Client) ConsentURL() string {
	return c.conf.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for tokens using the
// authorization_code grant.
func (c *Client) Exchange(ctx context.Context, code string) (auth.TokenSet, error) {
	tok, err := c.conf.Exchange(c.oauthContext(ctx), code)
	if err != nil {
		return auth.TokenSet{}, errors.Join(auth.ErrProvider, err)
	}
	return c.tokenSet(tok), nil
}

// Refresh trades a stored refresh token for a fresh access token using the
// refresh_token grant. A rejected or rotated token comes back as a provider
// error; the caller decides what that means for the session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (auth.TokenSet, error) {
	src := c.conf.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return auth.TokenSet{}, errors.Join(auth.ErrProvider, err)
	}
	return c.tokenSet(tok), nil
}

// UserInfo resolves the identity behind an access token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (auth.UserInfo, error) {
	var info auth.UserInfo
	if err := c.getJSON(ctx, c.accountsBase+"/oauth/user/info", nil, accessToken, &info); err != nil {
		return auth.UserInfo{}, err
	}
	return info, nil
}

// EmployeeRecords fetches the People form records whose email alias matches.
func (c *Client) EmployeeRecords(ctx context.Context, accessToken, email string) ([]auth.EmployeeRecord, error) {
	query := url.Values{
		"searchColumn": {searchColumn},
		"searchValue":  {email},
	}

	var records []auth.EmployeeRecord
	if err := c.getJSON(ctx, c.peopleAPIBase, query, accessToken, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, query url.Values, accessToken string, v any) error {
	if len(query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return errors.Join(auth.ErrProvider, err)
		}
		q := u.Query()
		for key, vals := range query {
			for _, val := range vals {
				q.Set(key, val)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Join(auth.ErrProvider, err)
	}
	req.Header.Set("Authorization", authScheme+" "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(auth.ErrProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Join(auth.ErrProvider, fmt.Errorf("zoho returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Join(auth.ErrProvider, err)
	}
	return nil
}

// oauthContext routes golang.org/x/oauth2 traffic through the timeout client.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// tokenSet normalizes an oauth2 token into the stored shape: the expiry is
// always absolute (issue time + reported lifetime, with Zoho's usual hour
// assumed when the response has no expires_in), and api_domain is pulled
// from the response extras.
func (c *Client) tokenSet(tok *oauth2.Token) auth.TokenSet {
	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		expiresAt = c.now().Add(defaultTokenLifetime)
	}

	apiDomain := defaultAPIDomain
	if d, ok := tok.Extra("api_domain").(string); ok && d != "" {
		apiDomain = d
	}

	return auth.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAt,
		APIDomain:    apiDomain,
	}
}
