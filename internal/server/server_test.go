package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/observers"
	errx "github.com/intersystems-ib/customer-support-agent-demo/internal/core/error"
)

type stubAgent struct {
	answer string
	trace  []observers.TraceEvent
	err    error

	gotConversationID string
	gotEmail          string
	gotMessage        string
}

func (s *stubAgent) Run(ctx context.Context, conversationID, email, message string) (string, []observers.TraceEvent, error) {
	s.gotConversationID = conversationID
	s.gotEmail = email
	s.gotMessage = message
	return s.answer, s.trace, s.err
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatReturnsAnswerAndTrace(t *testing.T) {
	agent := &stubAgent{
		answer: "Your order shipped yesterday.",
		trace:  []observers.TraceEvent{{Seq: 1, Stage: "tool_start", Name: "sql_last_orders"}},
	}
	srv := New(agent)

	rec := postChat(t, srv.Handler(), `{"email":"alice@example.com","message":"where is my order?","conversation_id":"c1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Your order shipped yesterday.", res.Answer)
	require.Len(t, res.Trace, 1)
	assert.Equal(t, "sql_last_orders", res.Trace[0].Name)

	assert.Equal(t, "c1", agent.gotConversationID)
	assert.Equal(t, "alice@example.com", agent.gotEmail)
	assert.Equal(t, "where is my order?", agent.gotMessage)
}

func TestChatRejectsMissingFields(t *testing.T) {
	srv := New(&stubAgent{})

	rec := postChat(t, srv.Handler(), `{"email":"","message":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRejectsInvalidJSON(t *testing.T) {
	srv := New(&stubAgent{})

	rec := postChat(t, srv.Handler(), `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRejectsGet(t *testing.T) {
	srv := New(&stubAgent{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChatMapsAppErrorStatus(t *testing.T) {
	srv := New(&stubAgent{err: errx.DBUnavailable(errors.New("down"))})

	rec := postChat(t, srv.Handler(), `{"email":"a@b.c","message":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var res errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, errx.DBUnavailableMessage, res.Error)
}

func TestChatHidesInternalErrors(t *testing.T) {
	srv := New(&stubAgent{err: errors.New("secret detail")})

	rec := postChat(t, srv.Handler(), `{"email":"a@b.c","message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestIndexServesWidget(t *testing.T) {
	srv := New(&stubAgent{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/chat")
}

func TestUnknownPathIs404(t *testing.T) {
	srv := New(&stubAgent{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
