package usecase

import (
	"strings"
	"unicode"

	"github.com/4f71/mentormate/internal/core/domain"
)

var greetingWords = []string{
	"merhaba", "selam", "hey", "hi", "hello", "günaydın", "iyi akşamlar",
}

var domainKeywords = []string{
	"bootcamp", "sertifika", "katılım", "yoklama", "mentor", "mentör",
	"proje", "ödev", "github", "canlı yayın", "webinar", "takvim",
	"duyuru", "zulip", "grup", "ekip", "takım", "staj", "eğitim",
	"kurs", "arşiv",
}

var generalPatterns = []string{
	"nedir", "ne demek", "nasıl", "kaç", "kim", "kimsin", "hangi",
	"neden", "what is", "how", "who", "adın ne", "sen ne",
}

const arithmeticOperators = "+*/="

// Categorize classifies a raw question. Order is significant: greeting
// overrides everything and domain keywords override general patterns.
// Unclassified questions fail closed as domain_specific so they always
// require grounding.
func Categorize(question string) domain.QueryCategory {
	normalized := normalizeQuery(question)
	tokens := tokenSet(normalized)

	for _, word := range greetingWords {
		if matchesTerm(normalized, tokens, word) {
			return domain.CategoryGreeting
		}
	}
	for _, word := range domainKeywords {
		if matchesTerm(normalized, tokens, word) {
			return domain.CategoryDomainSpecific
		}
	}
	if strings.ContainsAny(normalized, arithmeticOperators) {
		return domain.CategoryGeneralSafe
	}
	for _, pattern := range generalPatterns {
		if matchesTerm(normalized, tokens, pattern) {
			return domain.CategoryGeneralSafe
		}
	}
	return domain.CategoryDomainSpecific
}

// matchesTerm uses exact token membership for single words and
// substring containment for multi-word terms.
func matchesTerm(normalized string, tokens map[string]struct{}, term string) bool {
	if strings.ContainsRune(term, ' ') {
		return strings.Contains(normalized, term)
	}
	_, ok := tokens[term]
	return ok
}

func tokenSet(normalized string) map[string]struct{} {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		out[field] = struct{}{}
	}
	return out
}
