package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/4f71/mentormate/internal/infrastructure/resilience"
)

// Client talks to the Gemini REST API. One client serves both the
// generation and the embedding model; resilience (retry + breaker) is
// applied per endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, apiKey, genModel, embedModel string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	request := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature": temperature,
		},
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", g.client.genModel)
	if err := g.client.call(ctx, path, request, &response, "generate"); err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini generate: empty candidate list")
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return strings.TrimSpace(text.String()), nil
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	requests := make([]map[string]any, 0, len(texts))
	for _, text := range texts {
		requests = append(requests, map[string]any{
			"model": "models/" + e.client.embedModel,
			"content": map[string]any{
				"parts": []map[string]string{{"text": text}},
			},
		})
	}

	var response struct {
		Embeddings []struct {
			Values []float32 `json:"values"`
		} `json:"embeddings"`
	}

	path := fmt.Sprintf("/v1beta/models/%s:batchEmbedContents", e.client.embedModel)
	if err := e.client.call(ctx, path, map[string]any{"requests": requests}, &response, "embed"); err != nil {
		return nil, err
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed: got %d embeddings for %d inputs", len(response.Embeddings), len(texts))
	}

	vectors := make([][]float32, 0, len(response.Embeddings))
	for _, embedding := range response.Embeddings {
		vectors = append(vectors, embedding.Values)
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("gemini embed: empty embedding result")
	}
	return vectors[0], nil
}

// call runs one endpoint request through the resilience executor and
// normalizes retryable failures to the temporary error kind.
func (c *Client) call(ctx context.Context, path string, payload any, out any, operation string) error {
	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "gemini_"+operation, func(callCtx context.Context) error {
			return c.postJSON(callCtx, path, payload, out, operation)
		}, classifyGeminiError)
	} else {
		err = c.postJSON(ctx, path, payload, out, operation)
	}
	return wrapTemporaryIfNeeded(operation, err)
}
