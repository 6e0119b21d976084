package driver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppAPIClient_Get(t *testing.T) {
	tests := map[string]struct {
		params       map[string]string
		mockResponse func(t *testing.T) *httptest.Server
		expectError  bool
		expectData   map[string]interface{}
	}{
		"successful_call_with_params": {
			params: map[string]string{
				"mode":   "day",
				"filter": "for_android",
			},
			mockResponse: func(t *testing.T) *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "Bearer valid_token", r.Header.Get("Authorization"))
					assert.Equal(t, "/v1/illust/ranking", r.URL.Path)
					assert.Equal(t, "day", r.URL.Query().Get("mode"))
					assert.Equal(t, "for_android", r.URL.Query().Get("filter"))

					json.NewEncoder(w).Encode(map[string]interface{}{
						"illusts":  []map[string]interface{}{{"id": float64(1)}},
						"next_url": nil,
					})
				}))
			},
			expectData: map[string]interface{}{
				"illusts":  []interface{}{map[string]interface{}{"id": float64(1)}},
				"next_url": nil,
			},
		},
		"empty_params_omitted": {
			params: map[string]string{
				"mode":   "day",
				"offset": "",
			},
			mockResponse: func(t *testing.T) *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					// Unset continuation parameters must not appear in the query
					_, present := r.URL.Query()["offset"]
					assert.False(t, present)
					assert.Equal(t, "day", r.URL.Query().Get("mode"))

					json.NewEncoder(w).Encode(map[string]interface{}{"illusts": []interface{}{}})
				}))
			},
			expectData: map[string]interface{}{"illusts": []interface{}{}},
		},
		"unauthorized": {
			mockResponse: func(t *testing.T) *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusUnauthorized)
				}))
			},
			expectError: true,
		},
		"server_error": {
			mockResponse: func(t *testing.T) *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
				}))
			},
			expectError: true,
		},
		"malformed_json": {
			mockResponse: func(t *testing.T) *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"illusts": [`))
				}))
			},
			expectError: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			server := tc.mockResponse(t)
			defer server.Close()

			client := NewAppAPIClient(server.URL, nil)
			client.SetTimeout(1 * time.Second)

			data, err := client.Get(context.Background(), "valid_token", "/v1/illust/ranking", tc.params)

			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, data)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectData, data)
			}
		})
	}
}

func TestAppAPIClient_Get_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewAppAPIClient(server.URL, nil)

	_, err := client.Get(context.Background(), "token", "/v2/illust/comments", nil)

	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "/v2/illust/comments", statusErr.Endpoint)
}

func TestAppAPIClient_Get_NetworkError(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close() // Simulate network error

	client := NewAppAPIClient(server.URL, nil)
	client.SetTimeout(1 * time.Second)

	_, err := client.Get(context.Background(), "token", "/v1/illust/ranking", nil)

	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "network errors carry no status")
}
