package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/4f71/mentormate/internal/core/domain"
	"github.com/4f71/mentormate/internal/core/ports"
)

// AnswerGenerator runs the grounded path: condense a follow-up
// question into a standalone search query, retrieve context, and ask
// the language model to answer strictly from that context.
type AnswerGenerator struct {
	retriever   ports.Retriever
	generator   ports.TextGenerator
	temperature float64
}

func NewAnswerGenerator(retriever ports.Retriever, generator ports.TextGenerator, temperature float64) *AnswerGenerator {
	return &AnswerGenerator{
		retriever:   retriever,
		generator:   generator,
		temperature: temperature,
	}
}

// Generate answers the (already enriched) question against retrieved
// context. Memory is appended only after a fully successful turn; on
// failure no partial state is committed.
func (g *AnswerGenerator) Generate(ctx context.Context, question string, memory *MemoryWindow) (*domain.PipelineResponse, error) {
	searchQuery := question
	if memory != nil && memory.Len() > 0 {
		condensed, err := g.condense(ctx, question, memory.AsContext())
		if err != nil {
			return nil, fmt.Errorf("condense question: %w", err)
		}
		if condensed != "" {
			searchQuery = condensed
		}
	}

	result, err := g.retriever.Retrieve(ctx, searchQuery)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	answer, err := g.generator.Complete(ctx, buildExpertPrompt(searchQuery, result.Documents), g.temperature)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	answer = strings.TrimSpace(answer)

	if memory != nil {
		memory.Append(question, answer)
	}

	return &domain.PipelineResponse{
		Answer:          answer,
		SourceDocuments: result.Documents,
	}, nil
}

// condense rewrites a context-dependent follow-up into a standalone,
// keyword-rich, lower-cased search query using the chat history.
func (g *AnswerGenerator) condense(ctx context.Context, question string, history []domain.ConversationTurn) (string, error) {
	rewritten, err := g.generator.Complete(ctx, buildCondensePrompt(question, history), g.temperature)
	if err != nil {
		return "", err
	}
	return normalizeQuery(strings.TrimSpace(rewritten)), nil
}
