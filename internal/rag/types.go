package rag

// AskRequest represents a question-answering request.
type AskRequest struct {
	// Question is the user's question to answer.
	Question string `json:"question"`
	// TopK is the number of chunks to retrieve. Defaults to 5, capped at 20.
	TopK int `json:"top_k,omitempty"`
	// SelectedDocuments optionally restricts retrieval to the given filenames.
	SelectedDocuments []string `json:"selected_documents,omitempty"`
}

// Citation is a (filename, page) pair attached to a retrieved chunk, rendered
// in-answer as a traceability marker. Derived per chunk at answer time, never
// persisted.
type Citation struct {
	Source string `json:"source"`
	Page   *int   `json:"page"`
}

// SourceDocument is an excerpt of a retrieved chunk returned for display.
type SourceDocument struct {
	Source  string `json:"source"`
	Page    *int   `json:"page"`
	Excerpt string `json:"excerpt"`
}

// Confidence is a coarse low/medium/high summary of answer trustworthiness.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// AskResponse represents the result of a question-answering request.
type AskResponse struct {
	Answer          string           `json:"answer"`
	Citations       []Citation       `json:"citations"`
	Confidence      Confidence       `json:"confidence"`
	ContextTokens   int              `json:"context_tokens"`
	SourceDocuments []SourceDocument `json:"source_documents,omitempty"`
	AnalysisQuality *QualityMetrics  `json:"analysis_quality,omitempty"`
}

// QualityMetrics reports diagnostic measures of the generated analysis. These
// are for display only and do not feed the confidence score.
type QualityMetrics struct {
	HasStructure             bool `json:"has_structure"`
	HasCitations             bool `json:"has_citations"`
	CitationCount            int  `json:"citation_count"`
	UniqueSources            int  `json:"unique_sources"`
	AnswerLength             int  `json:"answer_length"`
	HasLegalTerms            bool `json:"has_legal_terms"`
	HasPracticalImplications bool `json:"has_practical_implications"`
}

// Chunk is a retrieved document chunk with its source metadata.
type Chunk struct {
	Text   string
	Source string
	Page   *int
	Score  float32 // similarity score from the vector search
}

// DebugChunk is a ranked chunk preview returned by the retrieval debug endpoint.
type DebugChunk struct {
	Rank           int    `json:"rank"`
	Source         string `json:"source"`
	Page           *int   `json:"page"`
	ContentPreview string `json:"content_preview"`
	ContentLength  int    `json:"content_length"`
}

// DebugInfo is the retrieval debug report for a question.
type DebugInfo struct {
	Question            string       `json:"question"`
	TotalDocumentsFound int          `json:"total_documents_found"`
	Documents           []DebugChunk `json:"documents"`
}
