package config

import "testing"

func TestLoadIncludesRetrievalDefaults(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "")
	t.Setenv("RETRIEVAL_FETCH_K", "")
	t.Setenv("RETRIEVAL_MMR_LAMBDA", "")
	t.Setenv("MAX_PARAPHRASES", "")
	t.Setenv("HYBRID_FALLBACK_ENABLED", "")

	cfg := Load()
	if cfg.RetrievalTopK != 5 {
		t.Fatalf("expected default top k 5, got %d", cfg.RetrievalTopK)
	}
	if cfg.RetrievalFetchK != 25 {
		t.Fatalf("expected default fetch k 25, got %d", cfg.RetrievalFetchK)
	}
	if cfg.RetrievalMMRLambda != 0.6 {
		t.Fatalf("expected default mmr lambda 0.6, got %v", cfg.RetrievalMMRLambda)
	}
	if cfg.MaxParaphrases != 3 {
		t.Fatalf("expected default max paraphrases 3, got %d", cfg.MaxParaphrases)
	}
	if !cfg.HybridFallbackEnabled {
		t.Fatal("expected hybrid fallback enabled by default")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "8")
	t.Setenv("RETRIEVAL_MMR_LAMBDA", "0.35")
	t.Setenv("GEN_TEMPERATURE", "0.2")
	t.Setenv("HYBRID_FALLBACK_ENABLED", "false")
	t.Setenv("GEMINI_GEN_MODEL", "gemini-2.5-pro")

	cfg := Load()
	if cfg.RetrievalTopK != 8 {
		t.Fatalf("expected top k 8, got %d", cfg.RetrievalTopK)
	}
	if cfg.RetrievalMMRLambda != 0.35 {
		t.Fatalf("expected mmr lambda 0.35, got %v", cfg.RetrievalMMRLambda)
	}
	if cfg.GenTemperature != 0.2 {
		t.Fatalf("expected gen temperature 0.2, got %v", cfg.GenTemperature)
	}
	if cfg.HybridFallbackEnabled {
		t.Fatal("expected hybrid fallback disabled")
	}
	if cfg.GeminiGenModel != "gemini-2.5-pro" {
		t.Fatalf("expected model override, got %q", cfg.GeminiGenModel)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RETRIEVAL_FETCH_K", "lots")
	t.Setenv("FALLBACK_TEMPERATURE", "warm")

	cfg := Load()
	if cfg.RetrievalFetchK != 25 {
		t.Fatalf("expected fallback fetch k 25, got %d", cfg.RetrievalFetchK)
	}
	if cfg.FallbackTemperature != 0.7 {
		t.Fatalf("expected fallback temperature 0.7, got %v", cfg.FallbackTemperature)
	}
}
