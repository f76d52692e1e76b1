package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/daybreak101/ambassador/pkg/config"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.ShopifyConfig{APIKey: "key", APISecret: "secret", APIVersion: "2025-10"}, WithBaseURL(srv.URL))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.ShopifyConfig{APIKey: "key"})
	require.Error(t, err)
}

func TestExchangeToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/oauth/access_token", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "key", body["client_id"])
		assert.Equal(t, "secret", body["client_secret"])
		assert.Equal(t, "session-jwt", body["subject_token"])
		assert.Equal(t, offlineTokenType, body["requested_token_type"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"shpat_123","scope":"read_customers"}`))
	})

	token, err := client.ExchangeToken(context.Background(), "demo.myshopify.com", "session-jwt")
	require.NoError(t, err)
	assert.Equal(t, "shpat_123", token.AccessToken)
	assert.Equal(t, "read_customers", token.Scope)
}

func TestExchangeTokenUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_subject_token"}`))
	})

	_, err := client.ExchangeToken(context.Background(), "demo.myshopify.com", "stale")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestCustomerByEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2025-10/graphql.json", r.URL.Path)
		assert.Equal(t, "shpat_123", r.Header.Get(accessTokenHeader))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, `email:"ada@example.com"`, req.Variables["query"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"customers":{"edges":[{"node":{"id":"gid://shopify/Customer/1","displayName":"Ada","numberOfOrders":"3","amountSpent":{"amount":"120.50","currencyCode":"USD"}}}]}}}`))
	})

	customer, err := client.CustomerByEmail(context.Background(), "demo.myshopify.com", "shpat_123", "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "gid://shopify/Customer/1", customer.ID)
	assert.Equal(t, "3", customer.NumberOfOrders)
	assert.Equal(t, "USD", customer.AmountSpent.CurrencyCode)
}

func TestCustomerByEmailNoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"customers":{"edges":[]}}}`))
	})

	customer, err := client.CustomerByEmail(context.Background(), "demo.myshopify.com", "shpat_123", "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, customer)

	customer, err = client.CustomerByEmail(context.Background(), "demo.myshopify.com", "shpat_123", " ")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestQuerySurfacesGraphQLErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"Throttled"}]}`))
	})

	err := client.Query(context.Background(), "demo.myshopify.com", "shpat_123", "{ shop { name } }", nil, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Contains(t, err.Error(), "Throttled")
}

func TestQueryRequiresAccessToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	})
	err := client.Query(context.Background(), "demo.myshopify.com", "", "{ shop { name } }", nil, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
