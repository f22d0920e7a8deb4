package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/karthiksivt/chatbot-local/internal/api"
	"github.com/karthiksivt/chatbot-local/internal/limiter"
	"github.com/karthiksivt/chatbot-local/internal/metrics"
)

// User-facing reply strings. The 500 reply never carries upstream detail.
const (
	replyEmptyMessage = "Please ask a question about my CV."
	replyDailyLimit   = "Daily usage limit reached for this demo. Please try again tomorrow."
	replyMinuteLimit  = "Too many requests in a short time. Please wait 1 minute and try again."
	replyServerError  = "Server error while generating response. Please try again in a minute."
	replyNoOutput     = "No reply received."
)

// systemInstruction restricts the model to the CV text. The quoted sentence
// is the exact fallback the widget shows for out-of-corpus questions.
const systemInstruction = `You are a CV-only assistant for Karthik.
Answer ONLY using the CV text provided.
If the answer is not in the CV text, reply exactly:
"I can answer only using Karthik’s CV. That information is not in the CV."
Keep answers short, clear, and structured with bullet points if helpful.`

// handleChat validates, meters and forwards a single chat turn. Validation
// precedes metering so invalid requests never consume quota.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	metrics.ChatRequestsTotal.Inc()

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReply(w, http.StatusBadRequest, replyEmptyMessage)
		return
	}
	question := strings.TrimSpace(req.Message)
	if question == "" {
		writeReply(w, http.StatusBadRequest, replyEmptyMessage)
		return
	}

	if ok, reason := s.limiter.Acquire(); !ok {
		metrics.RejectedTotal.WithLabelValues(reason.String()).Inc()
		if reason == limiter.ReasonDaily {
			writeReply(w, http.StatusTooManyRequests, replyDailyLimit)
		} else {
			writeReply(w, http.StatusTooManyRequests, replyMinuteLimit)
		}
		return
	}

	userPrompt := "CV TEXT:\n" + s.opts.CVText + "\n\nQUESTION:\n" + question

	start := time.Now()
	reply, err := s.llm.Complete(r.Context(), systemInstruction, userPrompt, s.opts.MaxOutputTokens)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrorsTotal.Inc()
		s.logger.Error("completion call failed",
			zap.Error(err),
			zap.String("requestID", chimiddleware.GetReqID(r.Context())),
		)
		writeReply(w, http.StatusInternalServerError, replyServerError)
		return
	}
	if reply == "" {
		reply = replyNoOutput
	}
	writeReply(w, http.StatusOK, reply)
}

func writeReply(w http.ResponseWriter, status int, reply string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.ChatReply{Reply: reply})
}
