package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/4f71/mentormate/internal/core/domain"
	"github.com/4f71/mentormate/internal/core/ports"
)

const (
	defaultRetrievalTopK   = 5
	defaultRetrievalFetchK = 25
	defaultRetrievalLambda = 0.6
	defaultMaxParaphrases  = 3
)

// RetrievalGateway wraps MMR similarity search behind multi-query
// expansion: the language model rewrites one query into several
// paraphrases, each searched independently, results unioned and
// de-duplicated with the original query's results always included.
type RetrievalGateway struct {
	embedder  ports.Embedder
	store     ports.VectorStore
	generator ports.TextGenerator

	topK           int
	fetchK         int
	lambda         float64
	maxParaphrases int
	temperature    float64
}

func NewRetrievalGateway(
	embedder ports.Embedder,
	store ports.VectorStore,
	generator ports.TextGenerator,
	topK, fetchK int,
	lambda float64,
	maxParaphrases int,
	temperature float64,
) *RetrievalGateway {
	if topK <= 0 {
		topK = defaultRetrievalTopK
	}
	if fetchK < topK {
		fetchK = defaultRetrievalFetchK
	}
	if lambda <= 0 || lambda > 1 {
		lambda = defaultRetrievalLambda
	}
	if maxParaphrases < 0 {
		maxParaphrases = defaultMaxParaphrases
	}
	return &RetrievalGateway{
		embedder:       embedder,
		store:          store,
		generator:      generator,
		topK:           topK,
		fetchK:         fetchK,
		lambda:         lambda,
		maxParaphrases: maxParaphrases,
		temperature:    temperature,
	}
}

// Retrieve searches the original query plus its paraphrases and unions
// the results. Paraphrase generation failure degrades to single-query
// retrieval; a vector-store failure propagates.
func (g *RetrievalGateway) Retrieve(ctx context.Context, query string) (domain.RetrievalResult, error) {
	queries := []string{query}
	queries = append(queries, g.paraphrase(ctx, query)...)

	results := make([]domain.RetrievalResult, len(queries))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		group.Go(func() error {
			result, err := g.searchOne(groupCtx, q)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return domain.RetrievalResult{}, err
	}

	return unionResults(results), nil
}

func (g *RetrievalGateway) searchOne(ctx context.Context, query string) (domain.RetrievalResult, error) {
	vector, err := g.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("embed query: %w", err)
	}
	result, err := g.store.SearchMMR(ctx, vector, g.topK, g.fetchK, g.lambda)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("similarity search: %w", err)
	}
	return result, nil
}

// paraphrase asks the language model for alternative phrasings of the
// query. Failures are swallowed: vocabulary-mismatch mitigation is
// best effort and must never block base retrieval.
func (g *RetrievalGateway) paraphrase(ctx context.Context, query string) []string {
	if g.maxParaphrases == 0 {
		return nil
	}
	raw, err := g.generator.Complete(ctx, buildParaphrasePrompt(query, g.maxParaphrases), g.temperature)
	if err != nil {
		return nil
	}

	out := make([]string, 0, g.maxParaphrases)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "-•*0123456789. ")
		if line == "" || strings.EqualFold(line, query) {
			continue
		}
		out = append(out, line)
		if len(out) == g.maxParaphrases {
			break
		}
	}
	return out
}

// unionResults merges per-query results in query order, so the
// original query's documents always come first, de-duplicated by
// content.
func unionResults(results []domain.RetrievalResult) domain.RetrievalResult {
	seen := make(map[string]struct{})
	var fused domain.RetrievalResult
	for _, result := range results {
		for i, doc := range result.Documents {
			if _, ok := seen[doc.Content]; ok {
				continue
			}
			seen[doc.Content] = struct{}{}
			fused.Documents = append(fused.Documents, doc)
			if i < len(result.Scores) {
				fused.Scores = append(fused.Scores, result.Scores[i])
			} else {
				fused.Scores = append(fused.Scores, 0)
			}
		}
	}
	return fused
}
