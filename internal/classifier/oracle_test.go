package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func TestChatOracle_Complete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(chatResponse("Intro")))
	}))
	defer srv.Close()

	o := NewChatOracle("sk-test", "gpt-4o-mini").WithEndpoint(srv.URL)
	out, err := o.Complete(context.Background(), "system text", "user text")
	require.NoError(t, err)
	assert.Equal(t, "Intro", out)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, 0.0, gotBody["temperature"])
	assert.Equal(t, 8.0, gotBody["max_tokens"])
	msgs := gotBody["messages"].([]interface{})
	require.Len(t, msgs, 2)
}

func TestChatOracle_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	o := NewChatOracle("sk-test", "gpt-4o-mini").WithEndpoint(srv.URL)
	_, err := o.Complete(context.Background(), "s", "u")
	require.Error(t, err)

	var perm *backoff.PermanentError
	assert.False(t, errors.As(err, &perm), "5xx must stay retryable")
}

func TestChatOracle_ClientErrorIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	o := NewChatOracle("sk-test", "gpt-4o-mini").WithEndpoint(srv.URL)
	_, err := o.Complete(context.Background(), "s", "u")
	require.Error(t, err)

	var perm *backoff.PermanentError
	assert.True(t, errors.As(err, &perm), "auth failures will not heal on retry")
}

func TestChatOracle_EmptyChoicesIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	o := NewChatOracle("sk-test", "gpt-4o-mini").WithEndpoint(srv.URL)
	_, err := o.Complete(context.Background(), "s", "u")
	assert.Error(t, err)
}
