package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/4f71/mentormate/internal/core/domain"
)

func TestAddDocumentsEnsuresCollectionAndUpserts(t *testing.T) {
	var createBody, upsertBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/test_faq":
			if err := json.NewDecoder(r.Body).Decode(&createBody); err != nil {
				t.Fatalf("decode create body: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/test_faq/points":
			if err := json.NewDecoder(r.Body).Decode(&upsertBody); err != nil {
				t.Fatalf("decode upsert body: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "test_faq")
	docs := []domain.Document{
		{Content: "Soru: q\nCevap: a", Metadata: map[string]string{"source": "faq.jsonl"}},
	}
	if err := client.AddDocuments(context.Background(), docs, [][]float32{{0.1, 0.2, 0.3}}); err != nil {
		t.Fatalf("AddDocuments() error = %v", err)
	}

	vectors := createBody["vectors"].(map[string]any)
	if vectors["size"].(float64) != 3 || vectors["distance"] != "Cosine" {
		t.Errorf("collection config = %v", vectors)
	}

	points := upsertBody["points"].([]any)
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	payload := points[0].(map[string]any)["payload"].(map[string]any)
	if payload["content"] != "Soru: q\nCevap: a" || payload["source"] != "faq.jsonl" {
		t.Errorf("payload = %v", payload)
	}
	if id := points[0].(map[string]any)["id"].(string); id == "" {
		t.Error("point id must be assigned")
	}
}

func TestAddDocumentsMismatch(t *testing.T) {
	client := New("http://unused", "test_faq")
	err := client.AddDocuments(context.Background(), []domain.Document{{Content: "x"}}, nil)
	if err != nil {
		t.Errorf("empty vectors must be a no-op, got %v", err)
	}

	err = client.AddDocuments(context.Background(), []domain.Document{{Content: "x"}}, [][]float32{{1}, {2}})
	if err == nil {
		t.Error("length mismatch must fail")
	}
}

func TestSearchMMRFetchesCandidatesWithVectors(t *testing.T) {
	var searchBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/test_faq/points/search" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&searchBody); err != nil {
			t.Fatalf("decode search body: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":[
			{"score":0.95,"vector":[1,0],"payload":{"content":"A","source":"faq.jsonl","line":3}},
			{"score":0.94,"vector":[1,0.01],"payload":{"content":"B","source":"faq.jsonl"}},
			{"score":0.70,"vector":[0,1],"payload":{"content":"C","source":"faq.jsonl"}}
		]}`))
	}))
	defer server.Close()

	client := New(server.URL, "test_faq")
	result, err := client.SearchMMR(context.Background(), []float32{1, 0}, 2, 25, 0.5)
	if err != nil {
		t.Fatalf("SearchMMR() error = %v", err)
	}

	if searchBody["limit"].(float64) != 25 {
		t.Errorf("limit = %v, want the fetch size", searchBody["limit"])
	}
	if searchBody["with_vector"] != true || searchBody["with_payload"] != true {
		t.Errorf("search body = %v, want vectors and payload requested", searchBody)
	}

	if len(result.Documents) != 2 {
		t.Fatalf("documents = %d, want 2", len(result.Documents))
	}
	if result.Documents[0].Content != "A" || result.Documents[1].Content != "C" {
		t.Errorf("selected = %q,%q, want relevance then diversity",
			result.Documents[0].Content, result.Documents[1].Content)
	}
	if result.Documents[0].Metadata["source"] != "faq.jsonl" {
		t.Errorf("metadata = %v", result.Documents[0].Metadata)
	}
	if result.Documents[0].Metadata["line"] != "3" {
		t.Errorf("metadata line = %q, want non-string payload values stringified", result.Documents[0].Metadata["line"])
	}
	if _, ok := result.Documents[0].Metadata["content"]; ok {
		t.Error("content must not leak into metadata")
	}
	if len(result.Scores) != 2 || result.Scores[0] != 0.95 {
		t.Errorf("scores = %v", result.Scores)
	}
}

func TestSearchMMRStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "collection missing", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "test_faq")
	if _, err := client.SearchMMR(context.Background(), []float32{1}, 5, 25, 0.6); err == nil {
		t.Error("expected status error")
	}
}
