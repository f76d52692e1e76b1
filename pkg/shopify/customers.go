package shopify

import (
	"context"
	"fmt"
	"strings"
)

const customerByEmailQuery = `query CustomerByEmail($query: String!) {
  customers(first: 1, query: $query) {
    edges {
      node {
        id
        displayName
        numberOfOrders
        amountSpent { amount currencyCode }
      }
    }
  }
}`

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Customer is the subset of the Admin customer object the ambassador views need.
type Customer struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	NumberOfOrders string `json:"numberOfOrders"`
	AmountSpent    Money  `json:"amountSpent"`
}

type customersData struct {
	Customers struct {
		Edges []struct {
			Node Customer `json:"node"`
		} `json:"edges"`
	} `json:"customers"`
}

// CustomerByEmail returns the first customer with the given email, or nil when none match.
func (c *Client) CustomerByEmail(ctx context.Context, shop, accessToken, email string) (*Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}

	var data customersData
	vars := map[string]any{"query": fmt.Sprintf("email:%q", email)}
	if err := c.Query(ctx, shop, accessToken, customerByEmailQuery, vars, &data); err != nil {
		return nil, err
	}
	if len(data.Customers.Edges) == 0 {
		return nil, nil
	}
	customer := data.Customers.Edges[0].Node
	return &customer, nil
}
