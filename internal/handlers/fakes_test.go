package handlers

import (
	"context"

	"leaselens/internal/ingest"
	"leaselens/internal/rag"
)

type fakeEngine struct {
	askResp   rag.AskResponse
	debugInfo rag.DebugInfo
	debugErr  error

	gotReq      rag.AskRequest
	gotQuestion string
	gotTopK     int
}

func (f *fakeEngine) Ask(ctx context.Context, req rag.AskRequest) rag.AskResponse {
	f.gotReq = req
	return f.askResp
}

func (f *fakeEngine) DebugRetrieval(ctx context.Context, question string, topK int) (rag.DebugInfo, error) {
	f.gotQuestion = question
	f.gotTopK = topK
	return f.debugInfo, f.debugErr
}

type fakeIngestor struct {
	result    ingest.Result
	deleteErr error

	gotPaths   []string
	gotDeleted string
}

func (f *fakeIngestor) Ingest(ctx context.Context, filePaths []string) ingest.Result {
	f.gotPaths = filePaths
	return f.result
}

func (f *fakeIngestor) Delete(ctx context.Context, filename string) error {
	f.gotDeleted = filename
	return f.deleteErr
}
