package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/storeapi"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestGetProducts(t *testing.T) {
	s := newTestServer(t)
	resp, body := doJSON(t, s, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []storeapi.Product
	require.NoError(t, json.Unmarshal(body, &products))
	assert.NotEmpty(t, products)
	for _, p := range products {
		assert.NotZero(t, p.ID)
		assert.NotEmpty(t, p.Title)
	}
}

func TestGetProductsLimit(t *testing.T) {
	s := newTestServer(t)
	_, body := doJSON(t, s, http.MethodGet, "/products?limit=3", nil)

	var products []storeapi.Product
	require.NoError(t, json.Unmarshal(body, &products))
	assert.Len(t, products, 3)
}

func TestGetProductByID(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, http.MethodGet, "/products/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p storeapi.Product
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, 1, p.ID)

	resp, _ = doJSON(t, s, http.MethodGet, "/products/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, s, http.MethodGet, "/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCategories(t *testing.T) {
	s := newTestServer(t)
	_, body := doJSON(t, s, http.MethodGet, "/products/categories", nil)

	var categories []string
	require.NoError(t, json.Unmarshal(body, &categories))
	assert.NotEmpty(t, categories)
}

func TestGetProductsByCategory(t *testing.T) {
	s := newTestServer(t)

	_, body := doJSON(t, s, http.MethodGet, "/products/categories", nil)
	var categories []string
	require.NoError(t, json.Unmarshal(body, &categories))
	require.NotEmpty(t, categories)

	_, body = doJSON(t, s, http.MethodGet, "/products/category/"+categories[0], nil)
	var products []storeapi.Product
	require.NoError(t, json.Unmarshal(body, &products))
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Equal(t, categories[0], p.Category)
	}

	// unknown categories return an empty list, not an error
	resp, body := doJSON(t, s, http.MethodGet, "/products/category/groceries", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &products))
	assert.Empty(t, products)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("valid credentials", func(t *testing.T) {
		resp, body := doJSON(t, s, http.MethodPost, "/auth/login",
			storeapi.Credentials{Username: "johnd", Password: "m38rmF$"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		require.NotEmpty(t, out.Token)

		// the token verifies under the configured secret
		parsed, err := jwt.Parse(out.Token, func(tok *jwt.Token) (interface{}, error) {
			return []byte(DefaultSecret), nil
		})
		require.NoError(t, err)
		claims, ok := parsed.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, "johnd", claims["user"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, _ := doJSON(t, s, http.MethodPost, "/auth/login",
			storeapi.Credentials{Username: "johnd", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp, _ := doJSON(t, s, http.MethodPost, "/auth/login",
			storeapi.Credentials{Username: "nobody", Password: "pw"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, http.MethodPost, "/users", storeapi.Registration{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user storeapi.User
	require.NoError(t, json.Unmarshal(body, &user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, "newbie", user.Username)

	// the new account can log in
	resp, _ = doJSON(t, s, http.MethodPost, "/auth/login",
		storeapi.Credentials{Username: "newbie", Password: "hunter2"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateUserRejectsIncomplete(t *testing.T) {
	s := newTestServer(t)
	resp, _ := doJSON(t, s, http.MethodPost, "/users", storeapi.Registration{Username: "only-name"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUser(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user storeapi.User
	require.NoError(t, json.Unmarshal(body, &user))
	assert.Equal(t, 1, user.ID)

	resp, _ = doJSON(t, s, http.MethodGet, "/users/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
