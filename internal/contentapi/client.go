// Package contentapi talks to the hosted content backend that owns the
// order documents: GROQ queries over HTTP for reads, the mutate endpoint
// for patches and deletes.
package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orderdesk.io/app/internal/config"
)

// OrdersQuery fetches every order document with its cart items expanded
// into title + image asset reference.
const OrdersQuery = `*[_type == "order"]{
  _id,
  firstName,
  lastName,
  phone,
  email,
  address,
  zipCode,
  city,
  total,
  discount,
  orderDate,
  status,
  cartItems[]->{
    title,
    "image": productImage.asset._ref
  }
}`

// APIError is a non-2xx answer from the content API.
type APIError struct {
	StatusCode  int
	Type        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("content api status %d: %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("content api status %d", e.StatusCode)
}

type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	dataset    string
	token      string
}

// NewClient builds a client for https://<project>.api.sanity.io/v<version>
// unless cfg.BaseURL overrides the host.
func NewClient(cfg config.ContentConfig) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid content api base url: %w", err)
	}
	base.Path = base.Path + "/v" + strings.TrimPrefix(cfg.APIVersion, "v")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: base,
		dataset: cfg.Dataset,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}, nil
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// Query runs a GROQ query and decodes its result into out.
func (c *Client) Query(ctx context.Context, groq string, out any) error {
	u := c.endpoint("query")
	q := u.Query()
	q.Set("query", groq)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	var body queryResponse
	if err := c.do(req, &body); err != nil {
		return err
	}
	if len(body.Result) == 0 {
		return fmt.Errorf("decode response: missing result")
	}
	if err := json.Unmarshal(body.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Mutation is one entry of a mutate request.
type Mutation struct {
	Patch  *Patch     `json:"patch,omitempty"`
	Delete *DeleteDoc `json:"delete,omitempty"`
}

type Patch struct {
	ID  string         `json:"id"`
	Set map[string]any `json:"set,omitempty"`
}

type DeleteDoc struct {
	ID string `json:"id"`
}

type MutateResult struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

// Mutate commits mutations in one transaction and waits for visibility.
func (c *Client) Mutate(ctx context.Context, mutations ...Mutation) (MutateResult, error) {
	payload, err := json.Marshal(map[string]any{"mutations": mutations})
	if err != nil {
		return MutateResult{}, fmt.Errorf("encode mutations: %w", err)
	}

	u := c.endpoint("mutate")
	q := u.Query()
	q.Set("returnIds", "true")
	q.Set("visibility", "sync")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return MutateResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var res MutateResult
	if err := c.do(req, &res); err != nil {
		return MutateResult{}, err
	}
	return res, nil
}

func (c *Client) endpoint(action string) url.URL {
	u := *c.baseURL
	u.Path = fmt.Sprintf("%s/data/%s/%s", c.baseURL.Path, action, c.dataset)
	return u
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call content api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error struct {
			Type        string `json:"type"`
			Description string `json:"description"`
			Items       []struct {
				Error struct {
					Type string `json:"type"`
				} `json:"error"`
			} `json:"items"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Type = body.Error.Type
		apiErr.Description = body.Error.Description
		for _, it := range body.Error.Items {
			if it.Error.Type != "" {
				apiErr.Type = it.Error.Type
				break
			}
		}
	}
	return apiErr
}

func isNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound || apiErr.Type == "documentNotFoundError"
}
