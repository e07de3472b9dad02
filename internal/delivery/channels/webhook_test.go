package channels

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWebhook(t *testing.T) {
	var gotBody []byte
	var gotSignature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get(SignatureHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := SendWebhook(context.Background(), srv.URL, "events:cancelled",
		map[string]interface{}{"item": "abc"}, "bi-mat")
	require.NoError(t, err)

	// Body được ký HMAC-SHA256 đúng secret
	assert.Contains(t, string(gotBody), "events:cancelled")
	assert.Equal(t, SignPayload(gotBody, "bi-mat"), gotSignature)
}

func TestSendWebhookServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := SendWebhook(context.Background(), srv.URL, "events:created", nil, "")
	assert.Error(t, err)
}

func TestSendWebhookNoSecretSkipsSignature(t *testing.T) {
	var gotSignature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get(SignatureHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := SendWebhook(context.Background(), srv.URL, "planning:created", nil, "")
	require.NoError(t, err)
	assert.Empty(t, gotSignature)
}
