package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-webhook-relay/internal/config"
	"github.com/jrsteele09/go-webhook-relay/internal/metrics"
	"github.com/jrsteele09/go-webhook-relay/server"
	"github.com/jrsteele09/go-webhook-relay/sessions"
	"github.com/jrsteele09/go-webhook-relay/signature"
	"github.com/jrsteele09/go-webhook-relay/yourgpt"
	fakeclient "github.com/jrsteele09/go-webhook-relay/yourgpt/clientfakes"
)

const testWebhookSecret = "trillion-shared-secret"

// testFixture holds a fully wired server with a scripted provider.
type testFixture struct {
	store    *sessions.InMemorySessionRepo
	provider *fakeclient.FakeClient
	server   *server.Server
}

func setupTestFixture(t *testing.T, webhookSecret string) *testFixture {
	t.Helper()

	t.Setenv("YOURGPT_API_KEY", "test-api-key")
	t.Setenv("YOURGPT_WIDGET_UID", "widget-1")
	t.Setenv("TRILLION_WEBHOOK_SECRET", webhookSecret)
	t.Setenv("ENV", "TEST")

	store := sessions.NewInMemorySessionRepo()
	provider := fakeclient.NewFakeClient()
	srv := server.New(config.New(), store, provider, metrics.New(store.Size))

	return &testFixture{store: store, provider: provider, server: srv}
}

func (f *testFixture) post(path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)
	return w
}

func (f *testFixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)
	return w
}

func trillionForm(from, to, message string) string {
	form := url.Values{}
	if from != "" {
		form.Set("from", from)
	}
	if to != "" {
		form.Set("to", to)
	}
	if message != "" {
		form.Set("message", message)
	}
	form.Set("language", "en")
	return form.Encode()
}

func TestTrillionWebhookRelaysMessage(t *testing.T) {
	f := setupTestFixture(t, "")
	f.provider.SessionUIDs = []string{"S1"}
	f.provider.Reply = yourgpt.Reply{Text: "Hello Alice"}

	w := f.post(server.RouteWebhookTrillion, "application/x-www-form-urlencoded", trillionForm("alice", "support", "Hi"))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	require.Equal(t, "Hello Alice", w.Body.String())
	require.Equal(t, strconv.Itoa(len("Hello Alice")), w.Header().Get("Content-Length"))

	rec, ok := f.store.Get(sessions.Key("alice", "support"))
	require.True(t, ok)
	require.Equal(t, "S1", rec.SessionUID)
}

func TestTrillionWebhookCreateSessionFailure(t *testing.T) {
	f := setupTestFixture(t, "")
	f.provider.CreateSessionErr = &yourgpt.APIError{Status: http.StatusBadRequest, Message: "widget not found"}

	w := f.post(server.RouteWebhookTrillion, "application/x-www-form-urlencoded", trillionForm("alice", "support", "Hi"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	require.Equal(t, "widget not found", w.Body.String())
}

func TestTrillionWebhookSkipsEmptyMessage(t *testing.T) {
	f := setupTestFixture(t, "")

	w := f.post(server.RouteWebhookTrillion, "application/x-www-form-urlencoded", trillionForm("alice", "support", ""))

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())
	require.Equal(t, "0", w.Header().Get("Content-Length"))
	require.Zero(t, f.provider.CreateSessionCalls)
}

func TestTrillionWebhookDefaultsIdentity(t *testing.T) {
	f := setupTestFixture(t, "")

	w := f.post(server.RouteWebhookTrillion, "application/x-www-form-urlencoded", trillionForm("", "", "Hi"))

	require.Equal(t, http.StatusOK, w.Code)

	rec, ok := f.store.Get(sessions.Key("unknown_user", "trillion_bot"))
	require.True(t, ok)
	require.Equal(t, "Unknown User", rec.UserName)
}

func TestTrillionWebhookRejectsBadSignature(t *testing.T) {
	f := setupTestFixture(t, testWebhookSecret)
	body := trillionForm("alice", "support", "Hi")

	req := httptest.NewRequest(http.MethodPost, server.RouteWebhookTrillion, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(server.HeaderTrillionSignature, "deadbeef")
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error":"Invalid signature"}`, w.Body.String())
	require.Zero(t, f.provider.CreateSessionCalls)
}

func TestTrillionWebhookAcceptsValidSignature(t *testing.T) {
	f := setupTestFixture(t, testWebhookSecret)
	f.provider.Reply = yourgpt.Reply{Text: "Hello Alice"}
	body := trillionForm("alice", "support", "Hi")

	req := httptest.NewRequest(http.MethodPost, server.RouteWebhookTrillion, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(server.HeaderTrillionSignature, signature.New(testWebhookSecret).Sign([]byte(body)))
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Hello Alice", w.Body.String())
}

func TestTestWebhookReturnsFullResult(t *testing.T) {
	f := setupTestFixture(t, "")
	f.provider.SessionUIDs = []string{"S1"}
	f.provider.Reply = yourgpt.Reply{Text: "Hi there", Choices: []string{"More"}}

	w := f.post(server.RouteTestWebhook, "application/json", `{}`)

	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Success     bool     `json:"success"`
		SessionUID  string   `json:"sessionUid"`
		UserMessage string   `json:"userMessage"`
		ReplyText   string   `json:"replyText"`
		Choices     []string `json:"choices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, result.Success)
	require.Equal(t, "S1", result.SessionUID)
	require.Equal(t, "Hello from the test endpoint", result.UserMessage)
	require.Equal(t, "Hi there", result.ReplyText)
	require.Equal(t, []string{"More"}, result.Choices)
}

func TestTestWebhookOverridesAndFailure(t *testing.T) {
	f := setupTestFixture(t, "")
	f.provider.SendMessageErr = &yourgpt.APIError{Status: http.StatusBadGateway, Message: "session expired"}

	w := f.post(server.RouteTestWebhook, "application/json", `{"user_id":"bob","channel_id":"sales","message":"Ping"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.False(t, result.Success)
	require.Equal(t, "session expired", result.Error)
	require.Equal(t, []string{"Ping"}, f.provider.SentMessages)
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	f := setupTestFixture(t, "")

	require.Equal(t, http.StatusNotFound, f.get("/nope").Code)
}

func TestWebhookRouteRejectsGet(t *testing.T) {
	f := setupTestFixture(t, "")

	require.Equal(t, http.StatusMethodNotAllowed, f.get(server.RouteWebhookTrillion).Code)
}
