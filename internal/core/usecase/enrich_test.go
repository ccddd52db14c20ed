package usecase

import (
	"strings"
	"testing"
)

func TestNormalizeQueryTurkishFolding(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SERTİFİKA", "sertifika"},
		{"KAYIT", "kayıt"},
		{"BOOTCAMP Süresi", "bootcamp süresi"},
		{"ÇALIŞMA GÜNÜ", "çalışma günü"},
		{"zaten küçük", "zaten küçük"},
	}
	for _, tc := range cases {
		if got := normalizeQuery(tc.in); got != tc.want {
			t.Errorf("normalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEnrichQueryExpandsKeywords(t *testing.T) {
	enriched := EnrichQuery("Bootcamp sertifika süresi ne kadar")

	if !strings.HasPrefix(enriched, "bootcamp sertifika süresi ne kadar") {
		t.Fatalf("enriched query must start with the normalized original, got %q", enriched)
	}
	for _, want := range []string{"eğitim", "certificate", "diploma", "zaman", "hafta"} {
		if !strings.Contains(enriched, want) {
			t.Errorf("enriched query missing synonym %q: %q", want, enriched)
		}
	}
}

func TestEnrichQueryShortQueryFuzzyMatch(t *testing.T) {
	// "sertifikam" is not an exact keyword but contains "sertifika";
	// the two-token pass catches it via substring containment.
	enriched := EnrichQuery("sertifikam")

	if !strings.Contains(enriched, "certificate") {
		t.Errorf("short-query pass should expand %q, got %q", "sertifikam", enriched)
	}
}

func TestEnrichQueryNoMatchUnchanged(t *testing.T) {
	in := "hava durumu yarın güzel olacak"
	if got := EnrichQuery(in); got != in {
		t.Errorf("EnrichQuery(%q) = %q, want unchanged", in, got)
	}
}

func TestEnrichQueryRepeatedEnrichmentStable(t *testing.T) {
	queries := []string{
		"Bootcamp sertifika süresi ne kadar",
		"sertifika belge",
		"hava durumu yarın güzel olacak",
	}
	for _, query := range queries {
		once := EnrichQuery(query)
		twice := EnrichQuery(once)

		if !strings.HasPrefix(twice, once) {
			t.Errorf("EnrichQuery(%q): second pass must only append, got %q", query, twice)
		}
		for _, entry := range keywordSynonyms {
			for _, synonym := range entry.synonyms {
				if strings.Contains(once, synonym) != strings.Contains(twice, synonym) {
					t.Errorf("EnrichQuery(%q): synonym %q presence differs between passes", query, synonym)
				}
			}
		}
	}
}

func TestEnrichQueryUppercaseInput(t *testing.T) {
	enriched := EnrichQuery("SERTİFİKA")
	if !strings.Contains(enriched, "belge") {
		t.Errorf("uppercase input must normalize before matching, got %q", enriched)
	}
}
