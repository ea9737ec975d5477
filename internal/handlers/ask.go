package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"leaselens/internal/contextutil"
	"leaselens/internal/rag"
)

//go:generate mockgen -source=ask.go -destination=mocks/mock_answer_engine.go -package=mocks

// AnswerEngine answers questions about indexed documents.
type AnswerEngine interface {
	Ask(ctx context.Context, req rag.AskRequest) rag.AskResponse
	DebugRetrieval(ctx context.Context, question string, topK int) (rag.DebugInfo, error)
}

// AskHandler handles question-answering requests.
type AskHandler struct {
	engine AnswerEngine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine AnswerEngine) *AskHandler {
	return &AskHandler{engine: engine}
}

// ServeHTTP answers a question against the indexed documents.
//
// The engine never fails a well-formed request: pipeline errors come back as a
// readable low-confidence answer, so this endpoint returns 200 for anything
// except a malformed payload.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req rag.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(ctx, w, http.StatusBadRequest, "Question is required")
		return
	}

	resp := h.engine.Ask(ctx, req)
	writeJSON(ctx, w, http.StatusOK, resp)
}
