package e2e

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/omriShneor/salesdesk/internal/testutil"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, ts *testutil.TestServer, path string, body interface{}, out interface{}) int {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := ts.Client().Post(ts.BaseURL()+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, ts *testutil.TestServer, path string, out interface{}) int {
	t.Helper()

	resp, err := ts.Client().Get(ts.BaseURL() + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func prospect() map[string]string {
	return map[string]string{"name": "Dana Prospect", "email": "dana@example.com"}
}
