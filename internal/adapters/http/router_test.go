package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/4f71/mentormate/internal/core/domain"
)

type assistantFake struct {
	resp     *domain.PipelineResponse
	err      error
	answered []string
	cleared  []string
	stats    map[string]string
}

func (f *assistantFake) Answer(_ context.Context, sessionID, question string) (*domain.PipelineResponse, error) {
	f.answered = append(f.answered, sessionID+"|"+question)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *assistantFake) ClearMemory(sessionID string) {
	f.cleared = append(f.cleared, sessionID)
}

func (f *assistantFake) Stats(context.Context) map[string]string {
	return f.stats
}

type ingestorFake struct {
	file *domain.FAQFile
	err  error
}

func (f *ingestorFake) Upload(context.Context, string, io.Reader) (*domain.FAQFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.file, nil
}

type repoFake struct {
	file *domain.FAQFile
	err  error
}

func (f *repoFake) Create(context.Context, *domain.FAQFile) error { return nil }

func (f *repoFake) GetByID(context.Context, string) (*domain.FAQFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.file, nil
}

func (f *repoFake) UpdateStatus(context.Context, string, domain.FAQFileStatus, string) error {
	return nil
}

func (f *repoFake) SaveCounts(context.Context, string, int, int) error { return nil }

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestChatReturnsPipelineResponse(t *testing.T) {
	assistant := &assistantFake{resp: &domain.PipelineResponse{
		Answer:   "Sekiz hafta.",
		Category: domain.CategoryDomainSpecific,
	}}
	handler := NewRouter(assistant, &ingestorFake{}, &repoFake{}, nil).Handler()

	res := postJSON(t, handler, "/v1/chat", map[string]string{
		"session_id": "s1",
		"question":   "bootcamp süresi",
	})

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	var resp domain.PipelineResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != "Sekiz hafta." || resp.Category != domain.CategoryDomainSpecific {
		t.Errorf("response = %+v", resp)
	}
	if len(assistant.answered) != 1 || assistant.answered[0] != "s1|bootcamp süresi" {
		t.Errorf("assistant calls = %v", assistant.answered)
	}
	if res.Header().Get("X-Request-Id") == "" {
		t.Error("request id header must be set")
	}
}

func TestChatDefaultsSessionID(t *testing.T) {
	assistant := &assistantFake{resp: &domain.PipelineResponse{Answer: "ok"}}
	handler := NewRouter(assistant, &ingestorFake{}, &repoFake{}, nil).Handler()

	postJSON(t, handler, "/v1/chat", map[string]string{"question": "soru"})

	if len(assistant.answered) != 1 || !strings.HasPrefix(assistant.answered[0], "default|") {
		t.Errorf("assistant calls = %v, want default session", assistant.answered)
	}
}

func TestChatRejectsEmptyQuestion(t *testing.T) {
	handler := NewRouter(&assistantFake{}, &ingestorFake{}, &repoFake{}, nil).Handler()

	res := postJSON(t, handler, "/v1/chat", map[string]string{"question": "   "})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
}

func TestChatMapsTemporaryErrorTo503(t *testing.T) {
	assistant := &assistantFake{
		err: domain.WrapError(domain.ErrTemporary, "generate", errors.New("model down")),
	}
	handler := NewRouter(assistant, &ingestorFake{}, &repoFake{}, nil).Handler()

	res := postJSON(t, handler, "/v1/chat", map[string]string{"question": "soru"})
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", res.Code)
	}
}

func TestClearChat(t *testing.T) {
	assistant := &assistantFake{}
	handler := NewRouter(assistant, &ingestorFake{}, &repoFake{}, nil).Handler()

	res := postJSON(t, handler, "/v1/chat/clear", map[string]string{"session_id": "s1"})
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if len(assistant.cleared) != 1 || assistant.cleared[0] != "s1" {
		t.Errorf("cleared sessions = %v", assistant.cleared)
	}
}

func TestStats(t *testing.T) {
	assistant := &assistantFake{stats: map[string]string{"mode": "hybrid"}}
	handler := NewRouter(assistant, &ingestorFake{}, &repoFake{}, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	var stats map[string]string
	if err := json.Unmarshal(res.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats["mode"] != "hybrid" {
		t.Errorf("stats = %v", stats)
	}
}

func TestUploadFAQFileAccepted(t *testing.T) {
	ingestor := &ingestorFake{file: &domain.FAQFile{ID: "file-1", Status: domain.StatusUploaded}}
	handler := NewRouter(&assistantFake{}, ingestor, &repoFake{}, nil).Handler()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "faq.jsonl")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte(`{"question":"q","answer":"a"}`))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/faq/files", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", res.Code)
	}
	var file domain.FAQFile
	if err := json.Unmarshal(res.Body.Bytes(), &file); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if file.ID != "file-1" {
		t.Errorf("file = %+v", file)
	}
}

func TestUploadFAQFileRequiresMultipart(t *testing.T) {
	handler := NewRouter(&assistantFake{}, &ingestorFake{}, &repoFake{}, nil).Handler()

	res := postJSON(t, handler, "/v1/faq/files", map[string]string{"x": "y"})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
}

func TestGetFAQFileByIDReturns404ForNotFound(t *testing.T) {
	repo := &repoFake{err: domain.WrapError(domain.ErrFileNotFound, "get faq file", errors.New("id missing"))}
	handler := NewRouter(&assistantFake{}, &ingestorFake{}, repo, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/faq/files/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := NewRouter(&assistantFake{}, &ingestorFake{}, &repoFake{}, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/chat", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", res.Code)
	}
}
