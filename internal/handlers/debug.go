package handlers

import (
	"net/http"
	"strconv"

	"leaselens/internal/contextutil"
	"leaselens/internal/rag"
)

// DebugRetrievalHandler exposes retrieval ranking for inspection without
// running answer generation.
type DebugRetrievalHandler struct {
	engine AnswerEngine
}

// NewDebugRetrievalHandler creates a new DebugRetrievalHandler.
func NewDebugRetrievalHandler(engine AnswerEngine) *DebugRetrievalHandler {
	return &DebugRetrievalHandler{engine: engine}
}

// ServeHTTP reports the ranked chunks retrieval would return for a question.
func (h *DebugRetrievalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	question := r.URL.Query().Get("question")
	if question == "" {
		logger.WarnContext(ctx, "missing question parameter")
		writeError(ctx, w, http.StatusBadRequest, "Question is required")
		return
	}

	topK := rag.DefaultTopK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, "Invalid top_k parameter")
			return
		}
		topK = n
	}

	info, err := h.engine.DebugRetrieval(ctx, question, topK)
	if err != nil {
		logger.ErrorContext(ctx, "debug retrieval failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to run retrieval")
		return
	}

	writeJSON(ctx, w, http.StatusOK, info)
}
