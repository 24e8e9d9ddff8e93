package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	tokens map[string]string
}

func (r *staticResolver) ResolveClient(_ context.Context, token string) (string, error) {
	if clientID, ok := r.tokens[token]; ok {
		return clientID, nil
	}
	return "", ErrUnauthorized
}

func authedHandler(t *testing.T, gotClient *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := ClientFromContext(r.Context())
		require.True(t, ok)
		*gotClient = clientID
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	resolver := &staticResolver{tokens: map[string]string{"secret": "router-1"}}

	var gotClient string
	handler := AuthMiddleware(resolver)(authedHandler(t, &gotClient))

	req := httptest.NewRequest(http.MethodPost, "/rpc", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "router-1", gotClient)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	resolver := &staticResolver{tokens: map[string]string{}}
	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/rpc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_UnknownToken(t *testing.T) {
	resolver := &staticResolver{tokens: map[string]string{"secret": "router-1"}}
	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/rpc", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClientFromContext_Absent(t *testing.T) {
	_, ok := ClientFromContext(context.Background())
	require.False(t, ok)
}
