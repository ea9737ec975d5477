package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"leaselens/internal/contextutil"
	"leaselens/internal/vectorstore"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	vectors            vectorstore.VectorStore
	db                 *sql.DB
	collection         string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(vectors vectorstore.VectorStore, db *sql.DB, collection string) *HealthHandler {
	return &HealthHandler{
		vectors:            vectors,
		db:                 db,
		collection:         collection,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Issues []string          `json:"issues,omitempty"`
}

// ServeHTTP reports the health of the service and its dependencies.
// Returns 200 when healthy, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkVectorStore(checkCtx, logger) {
		checks["vector_store"] = "ok"
	} else {
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	}

	if err := h.db.PingContext(checkCtx); err != nil {
		logger.WarnContext(ctx, "registry health check failed", "error", err)
		checks["registry"] = "error"
		issues = append(issues, "registry_unavailable")
	} else {
		checks["registry"] = "ok"
	}

	status := "up"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status: status,
		Checks: checks,
		Issues: issues,
	})
}

// checkVectorStore reports whether the vector store is reachable. An absent
// collection is a valid state before any documents are ingested, so only a
// transport error counts as a failure.
func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *slog.Logger) bool {
	if _, err := h.vectors.CollectionExists(ctx, h.collection); err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		return false
	}
	return true
}
