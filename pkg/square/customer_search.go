package square

import (
	"context"

	sq "github.com/square/square-go-sdk"
)

// CustomerSearchParams holds the filters used to locate an existing
// Square customer. At least one must be set for a search to run.
type CustomerSearchParams struct {
	ReferenceID string
	Email       string
}

// SearchCustomer returns the first customer matching the filters, or
// nil when no filters are set or nothing matches.
func (c *Client) SearchCustomer(ctx context.Context, params CustomerSearchParams) (*sq.Customer, error) {
	if c == nil {
		return nil, errAccessTokenRequired
	}

	filter := &sq.CustomerFilter{
		ReferenceID:  exactTextFilter(params.ReferenceID),
		EmailAddress: exactTextFilter(params.Email),
	}
	if filter.ReferenceID == nil && filter.EmailAddress == nil {
		return nil, nil
	}

	req := &sq.SearchCustomersRequest{
		Query: &sq.CustomerQuery{Filter: filter},
		Limit: int64Ptr(1),
	}
	c.log(ctx, "request", "search_customer", map[string]any{
		"reference_id": params.ReferenceID,
		"email":        params.Email,
	})

	resp, err := c.sdk.Customers.Search(ctx, req)
	if err != nil {
		c.log(ctx, "error", "search_customer", map[string]any{"error": err.Error()})
		return nil, c.mapSquareError(err, "search customer")
	}

	customers := resp.GetCustomers()
	if len(customers) == 0 {
		c.log(ctx, "response", "search_customer", map[string]any{"found": false})
		return nil, nil
	}

	customer := customers[0]
	c.log(ctx, "response", "search_customer", map[string]any{
		"customer_id": stringValue(customer.GetID()),
	})
	return customer, nil
}

// EnsureCustomer looks up the customer by reference id or email and
// creates one only when no match exists.
func (c *Client) EnsureCustomer(ctx context.Context, params CustomerCreateParams) (*sq.Customer, error) {
	if c == nil {
		return nil, errAccessTokenRequired
	}

	existing, err := c.SearchCustomer(ctx, CustomerSearchParams{
		ReferenceID: params.ReferenceID,
		Email:       params.Email,
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return c.CreateCustomer(ctx, params)
}

func exactTextFilter(value string) *sq.CustomerTextFilter {
	ptr := trimPtr(value)
	if ptr == nil {
		return nil
	}
	return &sq.CustomerTextFilter{Exact: ptr}
}
