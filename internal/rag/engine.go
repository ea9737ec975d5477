package rag

import (
	"context"
	"fmt"

	"leaselens/internal/contextutil"
	"leaselens/internal/vectorstore"
)

//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks

// Generator produces an answer from an instruction prompt.
type Generator interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// ChunkRetriever finds document chunks relevant to a question.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, question string, k int, selectedDocuments []string) ([]Chunk, error)
}

const (
	// DefaultTopK is the chunk count used when a request does not set one.
	DefaultTopK = 5
	// MaxTopK caps the chunk count a request may ask for.
	MaxTopK = 20

	excerptLength = 1000
	previewLength = 200

	noIndexMessage   = "No documents have been uploaded yet. Please upload some legal documents first."
	noResultsMessage = "No relevant documents found for your question. Please try rephrasing or upload more documents."
)

// Engine answers questions about indexed documents. Ask never fails: every
// pipeline error is folded into a readable low-confidence answer so the caller
// always gets a well-formed response.
type Engine struct {
	retriever  ChunkRetriever
	generator  Generator
	vectors    vectorstore.VectorStore
	collection string
}

// NewEngine creates a new Engine.
func NewEngine(retriever ChunkRetriever, generator Generator, vectors vectorstore.VectorStore, collection string) *Engine {
	return &Engine{
		retriever:  retriever,
		generator:  generator,
		vectors:    vectors,
		collection: collection,
	}
}

// Ask answers a question from the indexed documents.
func (e *Engine) Ask(ctx context.Context, req AskRequest) AskResponse {
	logger := contextutil.LoggerFromContext(ctx)
	topK := clampTopK(req.TopK)

	exists, err := e.vectors.CollectionExists(ctx, e.collection)
	if err != nil {
		logger.ErrorContext(ctx, "failed to check index", "error", err)
		return errorResponse(err)
	}
	if !exists {
		logger.InfoContext(ctx, "question asked before any documents were indexed")
		return fallbackResponse(noIndexMessage)
	}

	chunks, err := e.retriever.Retrieve(ctx, req.Question, topK, req.SelectedDocuments)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return errorResponse(err)
	}
	if len(chunks) == 0 {
		logger.InfoContext(ctx, "no relevant chunks found", "question", req.Question)
		return fallbackResponse(noResultsMessage)
	}

	analysis := Analyze(req.Question)
	prompt := BuildPrompt(req.Question, BuildContext(chunks), analysis)

	answer, err := e.generator.Chat(ctx, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "generation failed", "error", err)
		return errorResponse(err)
	}

	citations := make([]Citation, 0, len(chunks))
	for _, chunk := range chunks {
		citations = append(citations, Citation{Source: chunk.Source, Page: chunk.Page})
	}

	answer = PostProcess(answer, citations)
	if analysis.WordLimit > 0 || analysis.CharLimit > 0 {
		answer = ApplyLengthConstraints(answer, analysis)
	}

	quality := AssessQuality(answer, citations)

	logger.InfoContext(ctx, "question answered",
		"chunks", len(chunks),
		"citations", len(citations),
		"answer_length", len(answer),
	)

	return AskResponse{
		Answer:          answer,
		Citations:       citations,
		Confidence:      CalculateConfidence(answer, citations),
		ContextTokens:   ContextTokens(chunks),
		SourceDocuments: sourceDocuments(chunks),
		AnalysisQuality: &quality,
	}
}

// DebugRetrieval runs retrieval and ranking for a question without generating
// an answer, reporting the ranked chunks.
func (e *Engine) DebugRetrieval(ctx context.Context, question string, topK int) (DebugInfo, error) {
	topK = clampTopK(topK)

	info := DebugInfo{Question: question, Documents: []DebugChunk{}}

	exists, err := e.vectors.CollectionExists(ctx, e.collection)
	if err != nil {
		return DebugInfo{}, fmt.Errorf("failed to check index: %w", err)
	}
	if !exists {
		return info, nil
	}

	chunks, err := e.retriever.Retrieve(ctx, question, topK, nil)
	if err != nil {
		return DebugInfo{}, fmt.Errorf("failed to retrieve chunks: %w", err)
	}

	info.TotalDocumentsFound = len(chunks)
	for i, chunk := range chunks {
		info.Documents = append(info.Documents, DebugChunk{
			Rank:           i + 1,
			Source:         chunk.Source,
			Page:           chunk.Page,
			ContentPreview: truncateRunes(chunk.Text, previewLength),
			ContentLength:  len(chunk.Text),
		})
	}
	return info, nil
}

func clampTopK(topK int) int {
	if topK <= 0 {
		return DefaultTopK
	}
	if topK > MaxTopK {
		return MaxTopK
	}
	return topK
}

func fallbackResponse(message string) AskResponse {
	return AskResponse{
		Answer:     message,
		Citations:  []Citation{},
		Confidence: ConfidenceLow,
	}
}

func errorResponse(err error) AskResponse {
	return fallbackResponse(fmt.Sprintf("Error processing your question: %v", err))
}

func sourceDocuments(chunks []Chunk) []SourceDocument {
	docs := make([]SourceDocument, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, SourceDocument{
			Source:  chunk.Source,
			Page:    chunk.Page,
			Excerpt: truncateRunes(chunk.Text, excerptLength),
		})
	}
	return docs
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
