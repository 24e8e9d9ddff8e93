// Package testserver wires the full stack against an in-memory database
// for HTTP-level tests.
package testserver

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/radhhh/flae-bot/internal/api"
	"github.com/radhhh/flae-bot/internal/domain/allocation"
	"github.com/radhhh/flae-bot/internal/domain/session"
	"github.com/radhhh/flae-bot/internal/sqlite"
	"github.com/radhhh/flae-bot/internal/transport"
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Token    string
	ClientID string
}

// Option configures the test server.
type Option func(*options)

type options struct {
	clock    func() time.Time
	timezone string
}

// WithClock injects a fake time source into both services.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithTimezone overrides the week-boundary timezone.
func WithTimezone(tz string) Option {
	return func(o *options) {
		o.timezone = tz
	}
}

func New(t *testing.T, token, clientID string, opts ...Option) *TestServer {
	t.Helper()

	o := options{
		clock:    time.Now,
		timezone: allocation.DefaultTimezone,
	}
	for _, opt := range opts {
		opt(&o)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	loc, err := time.LoadLocation(o.timezone)
	require.NoError(t, err)

	userRepo := sqlite.NewUserRepository(db)
	subjectRepo := sqlite.NewSubjectRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	allocationRepo := sqlite.NewAllocationRepository(db)

	sessionSvc := session.NewService(userRepo, subjectRepo, sessionRepo, nil, session.WithClock(o.clock))
	allocationSvc := allocation.NewService(userRepo, subjectRepo, allocationRepo, sessionRepo, loc, nil, allocation.WithClock(o.clock))

	handler := api.NewHandler(sessionSvc, allocationSvc)

	resolver := &apiKeyResolver{db: db}
	server := httptest.NewServer(transport.NewServer(handler, transport.AuthMiddleware(resolver), nil))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Token:    token,
		ClientID: clientID,
	}

	require.NoError(t, ts.AddAPIKey(token, clientID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, clientID string) error {
	hash := hashToken(token)
	_, err := ts.DB.Exec(
		`INSERT INTO api_keys (key_hash, client_id, created_at) VALUES (?, ?, ?)`,
		hash, clientID, time.Now().UTC(),
	)
	return err
}

// Call posts one JSON-RPC request and returns the decoded response.
func (ts *TestServer) Call(t *testing.T, method string, params any) transport.Response {
	t.Helper()

	rawParams, err := json.Marshal(params)
	require.NoError(t, err)

	body, err := json.Marshal(transport.Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  rawParams,
		ID:      1,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rpcResp transport.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpcResp))
	return rpcResp
}

type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) ResolveClient(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)
	var clientID string
	err := r.db.QueryRowContext(ctx, `SELECT client_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&clientID)
	if err != nil || clientID == "" {
		return "", transport.ErrUnauthorized
	}
	return clientID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
