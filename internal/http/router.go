package http

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"leaselens/internal/handlers"
	"leaselens/internal/storage"
	"leaselens/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine     handlers.AnswerEngine
	Pipeline   handlers.DocumentIngestor
	Registry   storage.DocumentStore
	Vectors    vectorstore.VectorStore
	DB         *sql.DB
	Collection string
	UploadsDir string
	Logger     *slog.Logger
}

// NewRouter creates the HTTP router with all API routes registered.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Engine)
	ingestHandler := handlers.NewIngestHandler(deps.Pipeline, deps.UploadsDir)
	listHandler := handlers.NewListDocumentsHandler(deps.Registry)
	deleteHandler := handlers.NewDeleteDocumentHandler(deps.Registry, deps.Pipeline, deps.UploadsDir)
	debugHandler := handlers.NewDebugRetrievalHandler(deps.Engine)
	healthHandler := handlers.NewHealthHandler(deps.Vectors, deps.DB, deps.Collection)

	r.Get("/", handlers.Root)
	r.Method(http.MethodGet, "/health", healthHandler)
	r.Method(http.MethodPost, "/ingest", ingestHandler)
	r.Method(http.MethodPost, "/ask", askHandler)
	r.Method(http.MethodGet, "/documents", listHandler)
	r.Method(http.MethodDelete, "/documents/{filename}", deleteHandler)
	r.Method(http.MethodGet, "/debug-retrieval", debugHandler)

	return r
}
