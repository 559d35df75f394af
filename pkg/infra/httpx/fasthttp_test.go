package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastHTTPClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		assert.Equal(t, "toxiguard-test", r.Header.Get("User-Agent"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"inputs":"hello"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"label":"non-toxic","score":0.9}]`))
	}))
	defer server.Close()

	client := NewFastHTTPClient(WithTimeout(5*time.Second), WithUserAgent("toxiguard-test"))
	req, err := http.NewRequest(http.MethodPost, server.URL, bytes.NewReader([]byte(`{"inputs":"hello"}`)))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer hf_test")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `[{"label":"non-toxic","score":0.9}]`, string(body))
}

func TestFastHTTPClient_DecodesGzip(t *testing.T) {
	plain := []byte(`{"ok":true}`)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(gzipCompress(plain))
	}))
	defer server.Close()

	client := NewFastHTTPClient()
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	resp, err := client.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, plain, body)
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
}

func TestFastHTTPClient_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	client := NewFastHTTPClient()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1:1", nil)

	_, err := client.Do(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
