package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHTTPClient struct {
	resp *http.Response
	err  error
	req  *http.Request
	body []byte
}

func (c *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.req = req
	if req.Body != nil {
		c.body, _ = io.ReadAll(req.Body)
	}
	return c.resp, c.err
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(body))}
}

func TestOpenRouterCompleteSendsExchange(t *testing.T) {
	client := &stubHTTPClient{resp: jsonResponse(200, `{"choices":[{"message":{"content":"🎯 שלום"}}]}`)}
	c := NewOpenRouterClient(OpenRouterConfig{
		APIKey: "key", BaseURL: "https://openrouter.ai/api/v1", Model: "m1", SiteName: "AI Navigator",
	}, client)

	out, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "user prompt", MaxTokens: 800, Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "🎯 שלום", out)

	require.NotNil(t, client.req)
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", client.req.URL.String())
	assert.Equal(t, "Bearer key", client.req.Header.Get("Authorization"))
	assert.Equal(t, "AI Navigator", client.req.Header.Get("X-Title"))

	var sent chatRequest
	require.NoError(t, json.Unmarshal(client.body, &sent))
	assert.Equal(t, "m1", sent.Model)
	assert.Equal(t, 800, sent.MaxTokens)
	assert.InDelta(t, 0.7, sent.Temperature, 1e-9)
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "sys"}, sent.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "user prompt"}, sent.Messages[1])
}

func TestOpenRouterCompleteFailures(t *testing.T) {
	cases := []struct {
		name   string
		client *stubHTTPClient
		check  func(t *testing.T, err error)
	}{
		{"transport", &stubHTTPClient{err: errors.New("dial tcp: refused")}, nil},
		{"status", &stubHTTPClient{resp: jsonResponse(429, `{"error":{"message":"rate limited"}}`)}, func(t *testing.T, err error) {
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, 429, se.StatusCode)
		}},
		{"malformed", &stubHTTPClient{resp: jsonResponse(200, `not json`)}, nil},
		{"api error", &stubHTTPClient{resp: jsonResponse(200, `{"error":{"message":"bad model"}}`)}, nil},
		{"no choices", &stubHTTPClient{resp: jsonResponse(200, `{"choices":[]}`)}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNoChoices)
		}},
		{"empty content", &stubHTTPClient{resp: jsonResponse(200, `{"choices":[{"message":{"content":"  "}}]}`)}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrEmptyContent)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: "https://example.test/v1", Model: "m"}, tc.client)
			_, err := c.Complete(context.Background(), Request{Prompt: "p"})
			require.Error(t, err)
			if tc.check != nil {
				tc.check(t, err)
			}
		})
	}
}

func TestOpenRouterRequiresKey(t *testing.T) {
	client := &stubHTTPClient{}
	c := NewOpenRouterClient(OpenRouterConfig{BaseURL: "https://example.test/v1"}, client)
	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Nil(t, client.req)
}

func TestOpenRouterAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer srv.Close()

	c := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: srv.URL + "/api/v1/", Model: "m"}, srv.Client())
	out, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestNormalizeChatEndpoint(t *testing.T) {
	cases := map[string]string{
		"":                              "https://openrouter.ai/api/v1/chat/completions",
		"https://openrouter.ai/api/v1":  "https://openrouter.ai/api/v1/chat/completions",
		"https://openrouter.ai/api/v1/": "https://openrouter.ai/api/v1/chat/completions",
		"https://api.openai.com/v1":     "https://api.openai.com/v1/chat/completions",
		"https://host/api/v2":           "https://host/api/v2/chat/completions",
		"http://x/v1/chat/completions":  "http://x/v1/chat/completions",
	}
	for in, want := range cases {
		if got := normalizeChatEndpoint(in); got != want {
			t.Fatalf("normalizeChatEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
