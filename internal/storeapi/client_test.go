package storeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleProducts = []Product{
	{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing", Rating: Rating{Rate: 3.9, Count: 120}},
	{ID: 2, Title: "T-Shirt", Price: 22.30, Category: "men's clothing", Rating: Rating{Rate: 4.1, Count: 259}},
	{ID: 3, Title: "Gold Ring", Price: 168.00, Category: "jewelery", Rating: Rating{Rate: 4.6, Count: 400}},
}

// fakeStoreServer mimics the handful of Fake Store endpoints the client
// touches.
func fakeStoreServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		out := sampleProducts
		if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit < len(out) {
			out = out[:limit]
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []string{"men's clothing", "jewelery"})
	})
	mux.HandleFunc("GET /products/category/{category}", func(w http.ResponseWriter, r *http.Request) {
		var out []Product
		for _, p := range sampleProducts {
			if p.Category == r.PathValue("category") {
				out = append(out, p)
			}
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "1" {
			writeJSON(w, sampleProducts[0])
			return
		}
		// the demo API answers unknown ids with an empty body
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Username == "johnd" && creds.Password == "m38rmF$" {
			writeJSON(w, map[string]string{"token": "test-jwt"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"error": "invalid credentials"})
	})
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		var reg Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reg))
		writeJSON(w, User{ID: 11, Username: reg.Username, Email: reg.Email})
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "7" {
			writeJSON(w, User{ID: 7, Username: "johnd"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestProducts(t *testing.T) {
	srv := fakeStoreServer(t)
	c := New(srv.URL)

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, "Backpack", products[0].Title)
	assert.InDelta(t, 3.9, products[0].Rating.Rate, 1e-9)
}

func TestProductNotFound(t *testing.T) {
	srv := fakeStoreServer(t)
	c := New(srv.URL)

	_, err := c.Product(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound, "empty-body responses count as not found")

	p, err := c.Product(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
}

func TestProductsByCategory(t *testing.T) {
	srv := fakeStoreServer(t)
	c := New(srv.URL)

	products, err := c.ProductsByCategory(context.Background(), "men's clothing")
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestFeatured(t *testing.T) {
	srv := fakeStoreServer(t)
	c := New(srv.URL)

	products, err := c.Featured(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	// non-positive limits fall back to the default strip size
	products, err = c.Featured(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestBootstrap(t *testing.T) {
	srv := fakeStoreServer(t)
	c := New(srv.URL)

	cat, err := c.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Len(t, cat.Products, 3)
	assert.Equal(t, []string{"men's clothing", "jewelery"}, cat.Categories)
}

func TestBootstrapFailsWhenEitherCallFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products/categories" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sampleProducts)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Bootstrap(context.Background())
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	srv := fakeStoreServer(t)
	c := New(srv.URL)

	token, err := c.Login(context.Background(), Credentials{Username: "johnd", Password: "m38rmF$"})
	require.NoError(t, err)
	assert.Equal(t, "test-jwt", token)

	_, err = c.Login(context.Background(), Credentials{Username: "johnd", Password: "wrong"})
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	srv := fakeStoreServer(t)
	c := New(srv.URL)

	user, err := c.Register(context.Background(), Registration{Username: "newbie", Email: "n@e.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 11, user.ID)
	assert.Equal(t, "newbie", user.Username)
}

func TestUser(t *testing.T) {
	srv := fakeStoreServer(t)
	c := New(srv.URL)

	user, err := c.User(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "johnd", user.Username)

	_, err = c.User(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
