// Package storeapi is the HTTP client for the remote product/auth
// service (a Fake Store compatible REST API). All calls take a context
// and return wrapped errors; non-2xx responses never surface raw HTTP
// details to callers.
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"shopfront/internal/logging"
)

// DefaultBaseURL is the public demo API the storefront talks to unless
// configured otherwise.
const DefaultBaseURL = "https://fakestoreapi.com"

// ErrNotFound is returned for 404 responses (unknown product or user id).
var ErrNotFound = errors.New("not found")

// ProductSource is the read-side contract the catalog pages depend on.
type ProductSource interface {
	Products(ctx context.Context) ([]Product, error)
	Product(ctx context.Context, id int) (Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
	Featured(ctx context.Context, limit int) ([]Product, error)
}

// AuthService is the contract the auth container depends on.
type AuthService interface {
	Login(ctx context.Context, creds Credentials) (string, error)
	Register(ctx context.Context, reg Registration) (User, error)
	User(ctx context.Context, id int) (User, error)
}

// Client talks to a Fake Store compatible API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client (tests, custom
// transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the given base URL. An empty base URL means
// the public demo API.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     logging.Get(logging.CategoryAPI),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL reports the API endpoint this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.getJSON(ctx, "/products", &out); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return out, nil
}

// Product fetches a single product by id. The demo API answers unknown
// ids with an empty body, which decodes to the zero Product; treat that
// as not found too.
func (c *Client) Product(ctx context.Context, id int) (Product, error) {
	var out Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &out); err != nil {
		return Product{}, fmt.Errorf("fetch product %d: %w", id, err)
	}
	if out.ID == 0 {
		return Product{}, fmt.Errorf("fetch product %d: %w", id, ErrNotFound)
	}
	return out, nil
}

// ProductsByCategory fetches the catalog slice for one category.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	var out []Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("fetch category %q: %w", category, err)
	}
	return out, nil
}

// Categories fetches the list of category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/products/categories", &out); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return out, nil
}

// Featured fetches the first limit products (home page strip).
func (c *Client) Featured(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 8
	}
	var out []Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products?limit=%d", limit), &out); err != nil {
		return nil, fmt.Errorf("fetch featured products: %w", err)
	}
	return out, nil
}

// Bootstrap fetches products and categories concurrently. Either
// failure fails the whole call; the storefront needs both to render
// the shop page.
func (c *Client) Bootstrap(ctx context.Context) (Catalog, error) {
	var cat Catalog
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := c.Products(ctx)
		if err != nil {
			return err
		}
		cat.Products = products
		return nil
	})
	g.Go(func() error {
		categories, err := c.Categories(ctx)
		if err != nil {
			return err
		}
		cat.Categories = categories
		return nil
	})
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var out loginResponse
	if err := c.postJSON(ctx, "/auth/login", creds, &out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("login: empty token in response")
	}
	return out.Token, nil
}

// Register creates a new account. The demo API echoes the record back
// with a server-assigned id.
func (c *Client) Register(ctx context.Context, reg Registration) (User, error) {
	var out User
	if err := c.postJSON(ctx, "/users", reg, &out); err != nil {
		return User{}, fmt.Errorf("register: %w", err)
	}
	return out, nil
}

// User fetches a user record by id. Used after registration and to
// verify a rehydrated session.
func (c *Client) User(ctx context.Context, id int) (User, error) {
	var out User
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%d", id), &out); err != nil {
		return User{}, fmt.Errorf("fetch user %d: %w", id, err)
	}
	if out.ID == 0 {
		return User{}, fmt.Errorf("fetch user %d: %w", id, ErrNotFound)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("%s %s failed: %v", req.Method, req.URL.Path, err)
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// The demo API answers some unknown ids with a 200 and an
		// empty body. Leave out zero-valued so callers can map it.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
