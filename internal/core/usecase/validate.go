package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/4f71/mentormate/internal/core/domain"
)

// RefusalAnswer replaces answers that fail the grounding check.
const RefusalAnswer = "⚠️ Bu konuda veri setimde güvenilir bilgi bulunmuyor."

// noInfoPhrases mark the model's own admission that the documents held
// no answer; such answers skip the overlap check entirely.
var noInfoPhrases = []string{
	"veri setimde",
	"bilgi bulunmuyor",
	"bilgim yok",
}

const (
	overlapThreshold = 0.20
	// Tokens this short are too generic to signal grounding.
	minOverlapTokenLen = 3
)

// IsConfident reports whether the answer is lexically grounded in the
// source documents. The overlap ratio is a loose containment
// heuristic, not semantic entailment: it catches answers with
// near-zero vocabulary overlap while tolerating paraphrase.
func IsConfident(answer string, sources []domain.Document) bool {
	if len(sources) == 0 {
		return false
	}

	answerLower := normalizeQuery(answer)
	for _, phrase := range noInfoPhrases {
		if strings.Contains(answerLower, phrase) {
			return false
		}
	}

	ratio, tokens := overlapRatio(answerLower, sources)
	if tokens == 0 {
		// Nothing to disprove grounding with.
		return true
	}
	return ratio >= overlapThreshold
}

// Validate substitutes the fixed refusal string for answers that fail
// the confidence check.
func Validate(answer string, sources []domain.Document) string {
	if IsConfident(answer, sources) {
		return answer
	}
	return RefusalAnswer
}

// OverlapRatio exposes the raw grounding signal for observability.
func OverlapRatio(answer string, sources []domain.Document) float64 {
	ratio, _ := overlapRatio(normalizeQuery(answer), sources)
	return ratio
}

func overlapRatio(answerLower string, sources []domain.Document) (float64, int) {
	words := make(map[string]struct{})
	for _, word := range strings.Fields(answerLower) {
		if utf8.RuneCountInString(word) > minOverlapTokenLen {
			words[word] = struct{}{}
		}
	}
	if len(words) == 0 {
		return 0, 0
	}

	var sourceText strings.Builder
	for _, doc := range sources {
		sourceText.WriteString(normalizeQuery(doc.Content))
		sourceText.WriteString(" ")
	}
	haystack := sourceText.String()

	matched := 0
	for word := range words {
		if strings.Contains(haystack, word) {
			matched++
		}
	}
	return float64(matched) / float64(len(words)), len(words)
}
