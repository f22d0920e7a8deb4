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
	"go.uber.org/zap"

	"github.com/karthiksivt/chatbot-local/internal/api"
	"github.com/karthiksivt/chatbot-local/internal/limiter"
)

// fakeLLM records calls and returns a canned reply or error.
type fakeLLM struct {
	calls         int
	reply         string
	err           error
	lastSystem    string
	lastUser      string
	lastMaxTokens int
}

func (f *fakeLLM) Complete(_ context.Context, systemPrompt, userPrompt string, maxOutputTokens int) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	f.lastMaxTokens = maxOutputTokens
	return f.reply, f.err
}

const testCV = "Karthik has 5 years of Go experience."

func newTestRouter(lim Acquirer, client *fakeLLM) http.Handler {
	s := New(zap.NewNop(), lim, client, Options{
		CVText:          testCV,
		MaxOutputTokens: 250,
		AllowedOrigins:  []string{"*"},
	})
	return s.Router()
}

func postChat(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, api.ChatReply) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var reply api.ChatReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	return rec, reply
}

func TestChatSuccess(t *testing.T) {
	lim := limiter.New(30, 8)
	llmClient := &fakeLLM{reply: "He has 5 years of Go experience."}
	router := newTestRouter(lim, llmClient)

	rec, reply := postChat(t, router, `{"message": "How much Go experience does he have?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "He has 5 years of Go experience.", reply.Reply)

	// The prompt carries the corpus and the question, bounded by max tokens.
	assert.Equal(t, 1, llmClient.calls)
	assert.Contains(t, llmClient.lastUser, "CV TEXT:\n"+testCV)
	assert.Contains(t, llmClient.lastUser, "QUESTION:\nHow much Go experience does he have?")
	assert.Contains(t, llmClient.lastSystem, "Answer ONLY using the CV text provided.")
	assert.Equal(t, 250, llmClient.lastMaxTokens)

	// Exactly one slot consumed.
	snap := lim.Snapshot()
	assert.Equal(t, 1, snap.DailyCount)
	assert.Equal(t, 1, snap.MinuteCount)
}

func TestChatEmptyMessage(t *testing.T) {
	for name, body := range map[string]string{
		"empty string": `{"message": ""}`,
		"whitespace":   `{"message": "   \n\t "}`,
		"missing key":  `{}`,
		"bad json":     `{not json`,
	} {
		t.Run(name, func(t *testing.T) {
			lim := limiter.New(30, 8)
			llmClient := &fakeLLM{reply: "should not be called"}
			router := newTestRouter(lim, llmClient)

			rec, reply := postChat(t, router, body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Please ask a question about my CV.", reply.Reply)

			// Validation precedes metering: no upstream call, no quota consumed.
			assert.Equal(t, 0, llmClient.calls)
			snap := lim.Snapshot()
			assert.Equal(t, 0, snap.DailyCount)
			assert.Equal(t, 0, snap.MinuteCount)
		})
	}
}

func TestChatDailyLimit(t *testing.T) {
	lim := limiter.New(2, 100)
	llmClient := &fakeLLM{reply: "ok"}
	router := newTestRouter(lim, llmClient)

	for i := 0; i < 2; i++ {
		rec, _ := postChat(t, router, `{"message": "hello"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, reply := postChat(t, router, `{"message": "hello"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Daily usage limit reached for this demo. Please try again tomorrow.", reply.Reply)
	assert.Equal(t, 2, llmClient.calls)
}

func TestChatMinuteLimit(t *testing.T) {
	lim := limiter.New(100, 1)
	llmClient := &fakeLLM{reply: "ok"}
	router := newTestRouter(lim, llmClient)

	rec, _ := postChat(t, router, `{"message": "hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, reply := postChat(t, router, `{"message": "hello"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests in a short time. Please wait 1 minute and try again.", reply.Reply)
	assert.Equal(t, 1, llmClient.calls)
}

func TestChatUpstreamError(t *testing.T) {
	lim := limiter.New(30, 8)
	llmClient := &fakeLLM{err: errors.New("connection refused")}
	router := newTestRouter(lim, llmClient)

	rec, reply := postChat(t, router, `{"message": "hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error while generating response. Please try again in a minute.", reply.Reply)
	// The upstream error text must not leak to the caller.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestChatEmptyReply(t *testing.T) {
	lim := limiter.New(30, 8)
	llmClient := &fakeLLM{reply: ""}
	router := newTestRouter(lim, llmClient)

	rec, reply := postChat(t, router, `{"message": "hello"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No reply received.", reply.Reply)
}

func TestRootLiveness(t *testing.T) {
	router := newTestRouter(limiter.New(30, 8), &fakeLLM{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Backend is running", rec.Body.String())
}

func TestWidgetServed(t *testing.T) {
	router := newTestRouter(limiter.New(30, 8), &fakeLLM{})

	req := httptest.NewRequest(http.MethodGet, "/widget/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ask my CV")
}
