package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	vectorstore_mocks "leaselens/internal/vectorstore/mocks"
)

type fakeRetriever struct {
	chunks []Chunk
	err    error
	gotK   int
}

func (f *fakeRetriever) Retrieve(ctx context.Context, question string, k int, selectedDocuments []string) ([]Chunk, error) {
	f.gotK = k
	return f.chunks, f.err
}

type fakeGenerator struct {
	answer    string
	err       error
	gotPrompt string
}

func (f *fakeGenerator) Chat(ctx context.Context, prompt string) (string, error) {
	f.gotPrompt = prompt
	return f.answer, f.err
}

func leaseChunks() []Chunk {
	return []Chunk{
		{Text: "The monthly rent is $1200, due on the first.", Source: "lease.pdf", Page: intPtr(1), Score: 0.9},
		{Text: "The security deposit equals one month of rent.", Source: "lease.pdf", Page: intPtr(2), Score: 0.8},
	}
}

func TestEngine_Ask_NoIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectorStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(false, nil)

	engine := NewEngine(&fakeRetriever{}, &fakeGenerator{}, mockVectorStore, "test-collection")
	resp := engine.Ask(context.Background(), AskRequest{Question: "what is the rent"})

	if !strings.Contains(resp.Answer, "No documents have been uploaded yet") {
		t.Errorf("Answer = %q, want no-documents message", resp.Answer)
	}
	if resp.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %v, want low", resp.Confidence)
	}
	if resp.Citations == nil || len(resp.Citations) != 0 {
		t.Errorf("Citations = %v, want empty non-nil slice", resp.Citations)
	}
	if resp.ContextTokens != 0 {
		t.Errorf("ContextTokens = %d, want 0", resp.ContextTokens)
	}
}

func TestEngine_Ask_NoRelevantChunks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectorStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(true, nil)

	engine := NewEngine(&fakeRetriever{}, &fakeGenerator{}, mockVectorStore, "test-collection")
	resp := engine.Ask(context.Background(), AskRequest{Question: "what is the rent"})

	if !strings.Contains(resp.Answer, "No relevant documents found") {
		t.Errorf("Answer = %q, want no-results message", resp.Answer)
	}
	if resp.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %v, want low", resp.Confidence)
	}
}

func TestEngine_Ask_RetrievalErrorIsBestEffort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectorStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(true, nil)

	retriever := &fakeRetriever{err: errors.New("qdrant down")}
	engine := NewEngine(retriever, &fakeGenerator{}, mockVectorStore, "test-collection")
	resp := engine.Ask(context.Background(), AskRequest{Question: "what is the rent"})

	if !strings.Contains(resp.Answer, "Error processing your question") {
		t.Errorf("Answer = %q, want error message", resp.Answer)
	}
	if resp.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %v, want low", resp.Confidence)
	}
}

func TestEngine_Ask_GenerationErrorIsBestEffort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectorStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(true, nil)

	engine := NewEngine(&fakeRetriever{chunks: leaseChunks()}, &fakeGenerator{err: errors.New("llm down")}, mockVectorStore, "test-collection")
	resp := engine.Ask(context.Background(), AskRequest{Question: "what is the rent"})

	if !strings.Contains(resp.Answer, "Error processing your question") {
		t.Errorf("Answer = %q, want error message", resp.Answer)
	}
	if resp.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %v, want low", resp.Confidence)
	}
}

func TestEngine_Ask_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectorStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(true, nil)

	generator := &fakeGenerator{answer: "SUMMARY\nThe rent is $1200 (Source: lease.pdf:1) (Source: lease.pdf:2)"}
	retriever := &fakeRetriever{chunks: leaseChunks()}
	engine := NewEngine(retriever, generator, mockVectorStore, "test-collection")

	resp := engine.Ask(context.Background(), AskRequest{Question: "what is the rent"})

	// Post-processing ran over the generated answer
	if !strings.Contains(resp.Answer, "## SUMMARY") {
		t.Errorf("Answer not post-processed:\n%s", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "(Source: lease.pdf:1, 2)") {
		t.Errorf("citations not merged:\n%s", resp.Answer)
	}

	if len(resp.Citations) != 2 {
		t.Fatalf("Citations = %d, want 2", len(resp.Citations))
	}
	if resp.Citations[0].Source != "lease.pdf" || *resp.Citations[0].Page != 1 {
		t.Errorf("Citations[0] = %+v", resp.Citations[0])
	}

	if resp.ContextTokens == 0 {
		t.Error("ContextTokens = 0, want > 0")
	}
	if len(resp.SourceDocuments) != 2 {
		t.Errorf("SourceDocuments = %d, want 2", len(resp.SourceDocuments))
	}
	if resp.AnalysisQuality == nil {
		t.Fatal("AnalysisQuality is nil")
	}
	if !resp.AnalysisQuality.HasCitations {
		t.Error("AnalysisQuality.HasCitations = false")
	}
	if resp.Confidence == "" {
		t.Error("Confidence is empty")
	}

	// The prompt must carry the question and the retrieved context
	if !strings.Contains(generator.gotPrompt, "what is the rent") {
		t.Error("prompt lacks the question")
	}
	if !strings.Contains(generator.gotPrompt, "The monthly rent is $1200") {
		t.Error("prompt lacks the retrieved context")
	}
	if retriever.gotK != DefaultTopK {
		t.Errorf("retriever k = %d, want default %d", retriever.gotK, DefaultTopK)
	}
}

func TestEngine_Ask_WordLimitApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectorStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(true, nil)

	long := strings.Repeat("word ", 100)
	engine := NewEngine(&fakeRetriever{chunks: leaseChunks()}, &fakeGenerator{answer: long}, mockVectorStore, "test-collection")

	resp := engine.Ask(context.Background(), AskRequest{Question: "describe the lease in 10 words"})

	if n := len(strings.Fields(resp.Answer)); n > 11 {
		t.Errorf("answer has %d tokens, want <= 11", n)
	}
	if !strings.HasSuffix(resp.Answer, "...") {
		t.Errorf("truncated answer %q does not end with ellipsis", resp.Answer)
	}
}

func TestEngine_Ask_TopKClamped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectorStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(true, nil)

	retriever := &fakeRetriever{chunks: leaseChunks()}
	engine := NewEngine(retriever, &fakeGenerator{answer: "ok"}, mockVectorStore, "test-collection")

	engine.Ask(context.Background(), AskRequest{Question: "rent", TopK: 500})
	if retriever.gotK != MaxTopK {
		t.Errorf("retriever k = %d, want %d", retriever.gotK, MaxTopK)
	}
}

func TestEngine_DebugRetrieval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectorStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(true, nil)

	engine := NewEngine(&fakeRetriever{chunks: leaseChunks()}, &fakeGenerator{}, mockVectorStore, "test-collection")

	info, err := engine.DebugRetrieval(context.Background(), "what is the rent", 5)
	if err != nil {
		t.Fatalf("DebugRetrieval() error = %v", err)
	}
	if info.Question != "what is the rent" {
		t.Errorf("Question = %q", info.Question)
	}
	if info.TotalDocumentsFound != 2 {
		t.Errorf("TotalDocumentsFound = %d, want 2", info.TotalDocumentsFound)
	}
	if len(info.Documents) != 2 {
		t.Fatalf("Documents = %d, want 2", len(info.Documents))
	}
	if info.Documents[0].Rank != 1 || info.Documents[1].Rank != 2 {
		t.Errorf("ranks = %d, %d, want 1, 2", info.Documents[0].Rank, info.Documents[1].Rank)
	}
}

func TestEngine_DebugRetrieval_NoIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectorStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(false, nil)

	engine := NewEngine(&fakeRetriever{}, &fakeGenerator{}, mockVectorStore, "test-collection")

	info, err := engine.DebugRetrieval(context.Background(), "rent", 5)
	if err != nil {
		t.Fatalf("DebugRetrieval() error = %v", err)
	}
	if info.TotalDocumentsFound != 0 || len(info.Documents) != 0 {
		t.Errorf("DebugRetrieval() = %+v, want empty report", info)
	}
}
