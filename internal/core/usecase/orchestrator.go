package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/4f71/mentormate/internal/core/domain"
	"github.com/4f71/mentormate/internal/core/ports"
)

// GreetingReply is the canned response for greeting-category input.
const GreetingReply = "Merhaba! Ben MentorMate. Size nasıl yardımcı olabilirim? 😊"

// generalFallbackFailure is what the user sees when the
// general-knowledge fallback call itself fails. That path must never
// throw past the orchestrator.
const generalFallbackFailure = "Üzgünüm, şu anda bu konuda yardımcı olamıyorum."

const (
	OutcomeGreeting = "greeting"
	OutcomeGrounded = "grounded"
	OutcomeFallback = "fallback"
	OutcomeRefusal  = "refusal"
)

// PipelineMetrics receives per-turn observations. Implementations live
// in observability; a nil value disables recording.
type PipelineMetrics interface {
	ObserveTurn(outcome string, sourceCount int, duration time.Duration)
	ObserveOverlap(ratio float64)
}

// PipelineInfo is the configuration surface reported by Stats.
type PipelineInfo struct {
	GenerationModel     string
	EmbeddingModel      string
	Temperature         float64
	FallbackTemperature float64
	Collection          string
	StoreLocation       string
}

type answerGenerator interface {
	Generate(ctx context.Context, question string, memory *MemoryWindow) (*domain.PipelineResponse, error)
}

// Orchestrator composes categorization, the grounded pipeline, the
// confidence check and the hybrid fallback decision. One instance per
// process, constructed explicitly at bootstrap; sessions own their
// memory windows through the internal registry.
type Orchestrator struct {
	generator     answerGenerator
	llm           ports.TextGenerator
	turns         ports.TurnLog
	metrics       PipelineMetrics
	info          PipelineInfo
	hybridEnabled bool
	memoryTurns   int

	mu       sync.Mutex
	sessions map[string]*MemoryWindow
}

func NewOrchestrator(
	generator answerGenerator,
	llm ports.TextGenerator,
	turns ports.TurnLog,
	metrics PipelineMetrics,
	info PipelineInfo,
	hybridEnabled bool,
	memoryTurns int,
) *Orchestrator {
	if memoryTurns <= 0 {
		memoryTurns = defaultMemoryTurns
	}
	return &Orchestrator{
		generator:     generator,
		llm:           llm,
		turns:         turns,
		metrics:       metrics,
		info:          info,
		hybridEnabled: hybridEnabled,
		memoryTurns:   memoryTurns,
		sessions:      make(map[string]*MemoryWindow),
	}
}

// Answer runs the category × confidence state machine for one turn.
func (o *Orchestrator) Answer(ctx context.Context, sessionID, question string) (*domain.PipelineResponse, error) {
	start := time.Now()
	category := Categorize(question)

	if category == domain.CategoryGreeting {
		resp := &domain.PipelineResponse{Answer: GreetingReply, Category: category}
		o.finishTurn(ctx, sessionID, question, resp, OutcomeGreeting, time.Since(start))
		return resp, nil
	}

	memory := o.memory(sessionID)
	resp, err := o.generator.Generate(ctx, EnrichQuery(question), memory)
	if err != nil {
		return nil, fmt.Errorf("grounded pipeline: %w", err)
	}
	resp.Category = category

	if o.metrics != nil {
		o.metrics.ObserveOverlap(OverlapRatio(resp.Answer, resp.SourceDocuments))
	}

	if IsConfident(resp.Answer, resp.SourceDocuments) {
		o.finishTurn(ctx, sessionID, question, resp, OutcomeGrounded, time.Since(start))
		return resp, nil
	}

	if o.hybridEnabled && category == domain.CategoryGeneralSafe {
		resp = &domain.PipelineResponse{
			Answer:   o.generalFallback(ctx, question),
			Category: category,
		}
		o.finishTurn(ctx, sessionID, question, resp, OutcomeFallback, time.Since(start))
		return resp, nil
	}

	// Unconfident sources are preserved for transparency even though
	// the answer text disclaims them.
	resp = &domain.PipelineResponse{
		Answer:          RefusalAnswer,
		SourceDocuments: resp.SourceDocuments,
		Category:        category,
	}
	o.finishTurn(ctx, sessionID, question, resp, OutcomeRefusal, time.Since(start))
	return resp, nil
}

// generalFallback answers from general knowledge only, at a higher
// temperature. Any model failure is recovered locally into a fixed
// message.
func (o *Orchestrator) generalFallback(ctx context.Context, question string) string {
	answer, err := o.llm.Complete(ctx, buildGeneralFallbackPrompt(question), o.info.FallbackTemperature)
	if err != nil {
		slog.Warn("general_fallback_failed", "error", err)
		return generalFallbackFailure
	}
	return answer
}

// ClearMemory resets one session's window; other sessions are
// unaffected.
func (o *Orchestrator) ClearMemory(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if memory, ok := o.sessions[sessionID]; ok {
		memory.Clear()
	}
}

// Stats reports the active configuration. The turn count comes from
// the audit log and is best effort: stats never fail the request.
func (o *Orchestrator) Stats(ctx context.Context) map[string]string {
	mode := "strict"
	if o.hybridEnabled {
		mode = "hybrid"
	}
	stats := map[string]string{
		"llm_model":            o.info.GenerationModel,
		"embedding_model":      o.info.EmbeddingModel,
		"temperature":          strconv.FormatFloat(o.info.Temperature, 'f', -1, 64),
		"fallback_temperature": strconv.FormatFloat(o.info.FallbackTemperature, 'f', -1, 64),
		"collection_name":      o.info.Collection,
		"db_path":              o.info.StoreLocation,
		"mode":                 mode,
	}
	if o.turns != nil {
		if count, err := o.turns.CountTurns(ctx); err == nil {
			stats["logged_turns"] = strconv.Itoa(count)
		} else {
			slog.Warn("turn_count_failed", "error", err)
		}
	}
	return stats
}

func (o *Orchestrator) memory(sessionID string) *MemoryWindow {
	o.mu.Lock()
	defer o.mu.Unlock()
	memory, ok := o.sessions[sessionID]
	if !ok {
		memory = NewMemoryWindow(o.memoryTurns)
		o.sessions[sessionID] = memory
	}
	return memory
}

func (o *Orchestrator) finishTurn(ctx context.Context, sessionID, question string, resp *domain.PipelineResponse, outcome string, duration time.Duration) {
	if o.metrics != nil {
		o.metrics.ObserveTurn(outcome, len(resp.SourceDocuments), duration)
	}
	if o.turns == nil {
		return
	}
	err := o.turns.AppendTurn(ctx, domain.ChatTurn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Question:  question,
		Answer:    resp.Answer,
		Category:  resp.Category,
		Grounded:  outcome == OutcomeGrounded,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("turn_log_append_failed", "session_id", sessionID, "error", err)
	}
}
