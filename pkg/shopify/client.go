package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/daybreak101/ambassador/pkg/auth"
	"github.com/daybreak101/ambassador/pkg/config"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIVersion = "2025-10"
	defaultTimeout    = 10 * time.Second

	accessTokenHeader = "X-Shopify-Access-Token"

	grantTypeTokenExchange = "urn:ietf:params:oauth:grant-type:token-exchange"
	subjectTokenTypeID     = "urn:ietf:params:oauth:token-type:id_token"
	offlineTokenType       = "urn:shopify:params:oauth:token-type:offline-access-token"
)

var errCredentialsRequired = errors.New("shopify api key and secret are required")

// Client talks to a shop's Admin API: token exchange and GraphQL queries.
type Client struct {
	http       *resty.Client
	apiKey     string
	apiSecret  string
	apiVersion string
	// baseURL replaces https://<shop> when set.
	baseURL string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithBaseURL points every shop at a fixed origin.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithRestyClient overrides the underlying resty client.
func WithRestyClient(rc *resty.Client) Option {
	return func(c *Client) {
		if rc != nil {
			c.http = rc
		}
	}
}

// NewClient builds an Admin API client from app credentials.
func NewClient(cfg config.ShopifyConfig, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	secret := strings.TrimSpace(cfg.APISecret)
	if key == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = defaultAPIVersion
	}

	client := &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		apiKey:     key,
		apiSecret:  secret,
		apiVersion: version,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// AccessToken is the result of a token exchange.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
	// ExpiresIn is only set for online tokens.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// ExchangeToken trades a session token for an offline access token.
func (c *Client) ExchangeToken(ctx context.Context, shop, sessionToken string) (*AccessToken, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session token is required")
	}

	var out AccessToken
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"client_id":            c.apiKey,
			"client_secret":        c.apiSecret,
			"grant_type":           grantTypeTokenExchange,
			"subject_token":        sessionToken,
			"subject_token_type":   subjectTokenTypeID,
			"requested_token_type": offlineTokenType,
		}).
		SetResult(&out).
		Post(c.shopURL(shop) + "/admin/oauth/access_token")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "shopify token exchange")
	}
	if resp.IsError() {
		return nil, statusError(resp, "shopify token exchange")
	}
	if out.AccessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shopify token exchange returned no access token")
	}
	return &out, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

// Query runs a GraphQL Admin API query and decodes "data" into out.
func (c *Client) Query(ctx context.Context, shop, accessToken, query string, variables map[string]any, out any) error {
	if strings.TrimSpace(accessToken) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "shop access token is required")
	}

	var envelope graphQLResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(accessTokenHeader, accessToken).
		SetBody(graphQLRequest{Query: query, Variables: variables}).
		SetResult(&envelope).
		Post(fmt.Sprintf("%s/admin/api/%s/graphql.json", c.shopURL(shop), c.apiVersion))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "shopify graphql request")
	}
	if resp.IsError() {
		return statusError(resp, "shopify graphql request")
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return pkgerrors.New(pkgerrors.CodeDependency, "shopify graphql: "+strings.Join(msgs, "; "))
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode shopify graphql data")
	}
	return nil
}

func (c *Client) shopURL(shop string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return auth.CanonicalShop(shop)
}

func statusError(resp *resty.Response, op string) error {
	code := pkgerrors.CodeDependency
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		code = pkgerrors.CodeUnauthorized
	}
	body := strings.TrimSpace(resp.String())
	if len(body) > 256 {
		body = body[:256]
	}
	return pkgerrors.New(code, fmt.Sprintf("%s: status %d: %s", op, resp.StatusCode(), body))
}
