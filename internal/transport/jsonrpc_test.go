package transport

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest_Valid(t *testing.T) {
	body := strings.NewReader(`{"jsonrpc":"2.0","method":"clock_in","params":{"user_id":"u1"},"id":7}`)

	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "clock_in", req.Method)
	require.JSONEq(t, `{"user_id":"u1"}`, string(req.Params))
	require.Equal(t, float64(7), req.ID)
}

func TestParseRequest_RejectsWrongVersion(t *testing.T) {
	_, err := ParseRequest(strings.NewReader(`{"jsonrpc":"1.0","method":"clock_in"}`))
	require.Error(t, err)
}

func TestParseRequest_RejectsMissingMethod(t *testing.T) {
	_, err := ParseRequest(strings.NewReader(`{"jsonrpc":"2.0"}`))
	require.Error(t, err)
}

func TestParseRequest_RejectsMalformedJSON(t *testing.T) {
	_, err := ParseRequest(strings.NewReader(`{"jsonrpc":`))
	require.Error(t, err)
}

func TestWriteResult(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResult(rec, 3, map[string]string{"status": "RUNNING"})

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "2.0", resp.JSONRPC)
	require.Nil(t, resp.Error)
	require.Equal(t, float64(3), resp.ID)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 3, ErrDeclined, "no active session", map[string]string{"code": "NO_ACTIVE_SESSION"})

	require.Equal(t, 200, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrDeclined, resp.Error.Code)
	require.Equal(t, "no active session", resp.Error.Message)
	require.Nil(t, resp.Result)
}
