package usecase

import "strings"

// turkishUpperFold maps the uppercase letters whose naive lower-casing
// is wrong or locale-dependent. Folding happens before ToLower so that
// dotted/dotless I distinctions survive.
var turkishUpperFold = map[rune]rune{
	'İ': 'i',
	'I': 'ı',
	'Ğ': 'ğ',
	'Ü': 'ü',
	'Ş': 'ş',
	'Ö': 'ö',
	'Ç': 'ç',
}

type keywordEntry struct {
	keyword  string
	synonyms []string
}

// keywordSynonyms maps canonical domain keywords to their expansion
// terms. Order matters: the short-query special case takes the first
// matching entry.
var keywordSynonyms = []keywordEntry{
	{"katılım", []string{"iştirak", "katılım oranı", "yoklama", "attendance", "devam"}},
	{"canlı yayın", []string{"webinar", "web semineri", "youtube", "yayın", "live", "stream"}},
	{"sertifika", []string{"certificate", "belge", "sertifikadaki", "diploma", "sertifikası"}},
	{"bootcamp", []string{"eğitim", "kurs", "program", "kampı", "camp", "training"}},
	{"süre", []string{"zaman", "gün", "hafta", "ne kadar", "kaç", "duration"}},
	{"mentor", []string{"danışman", "eğitmen", "mentör", "öğretmen"}},
	{"proje", []string{"ödev", "task", "görev", "assignment", "project", "tamamlama"}},
	{"github", []string{"git", "repo", "repository", "kod yükleme", "arayüz"}},
	{"grup", []string{"ekip", "takım", "team", "bireysel", "tek kişi", "iki kişi"}},
	{"iş", []string{"staj", "kariyer", "fırsat", "employment", "job"}},
	{"arşiv", []string{"kayıt", "video", "recording", "kaydediliyor"}},
	{"duyuru", []string{"announcement", "bildirim", "haber", "kanal", "zulip"}},
	{"takvim", []string{"tarih", "gün", "program", "schedule", "zamanlama"}},
	{"toplantı", []string{"meeting", "buluşma", "görüşme", "saat", "zaman"}},
}

// normalizeQuery folds Turkish uppercase characters through the
// explicit table, then lower-cases the rest.
func normalizeQuery(raw string) string {
	folded := strings.Map(func(r rune) rune {
		if lower, ok := turkishUpperFold[r]; ok {
			return lower
		}
		return r
	}, raw)
	return strings.ToLower(folded)
}

// EnrichQuery appends synonym expansions for every canonical keyword
// found in the normalized query. Queries of at most two tokens get an
// extra fuzzy pass first: substring containment in either direction,
// because such queries carry too little signal for the whole-query
// scan. The result feeds retrieval and is never shown to the user.
func EnrichQuery(raw string) string {
	normalized := normalizeQuery(raw)

	tokens := strings.Fields(normalized)
	if len(tokens) <= 2 {
		for _, token := range tokens {
			for _, entry := range keywordSynonyms {
				// Either-direction containment can match unintended
				// tokens for short keywords; kept as-is on purpose.
				if strings.Contains(token, entry.keyword) || strings.Contains(entry.keyword, token) {
					normalized += " " + entry.keyword + " " + strings.Join(entry.synonyms, " ")
					break
				}
			}
		}
	}

	enriched := normalized
	for _, entry := range keywordSynonyms {
		if strings.Contains(normalized, entry.keyword) {
			enriched += " " + strings.Join(entry.synonyms, " ")
		}
	}
	return enriched
}
