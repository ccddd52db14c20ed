package usecase

import (
	"fmt"
	"strings"

	"github.com/4f71/mentormate/internal/core/domain"
)

const expertPromptTemplate = `Sen MentorMate adlı bootcamp uzman asistanısın. SADECE verilen dokümanları kullanarak cevap veriyorsun.

KRİTİK KURALLAR:
1. Cevabını SADECE aşağıdaki DOKÜMANLAR'dan al
2. Dokümanlarda cevap YOKSA: "Bu konuda veri setimde bilgi bulunmuyor."
3. Kendi bilgini ASLA KULLANMA
4. Kısa, net, profesyonel ve DOĞAL bir dille cevap ver
5. ASLA kaynak, dosya adı veya meta bilgi ekleme
6. AYNI SORUYA HER ZAMAN AYNI CEVABI VER (tutarlılık önemli)
7. Cevabını tek seferde ver, tekrar etme

DOKÜMANLAR:
%s

SORU: %s

CEVAP:`

const condensePromptTemplate = `Sohbet geçmişi ve yeni soruyu kullanarak, ANAHTAR KELİMELERİ İÇEREN tek başına anlaşılır bir arama sorgusu oluştur.

ÖNEMLİ KURALLAR:
1. BÜYÜK/küçük harf farkı gözetme - "Sertifika" = "sertifika" = "SERTİFİKA"
2. Soru işareti olsun/olmasın aynı anlama gelen soruları birleştir
3. Anahtar kelimeleri MUTLAKA koru (örn: "katılım oranı", "sertifika", "bootcamp süresi")
4. Eş anlamlı kelimeleri ekle (örn: "iştirak" = "katılım", "web semineri" = "canlı yayın")
5. Tüm kelimeler küçük harfle yazılmalı

Örnekler:
- "Peki katılım oranı var mı" → "katılım oranı yüzde bootcamp canlı yayın webinar"
- "Bootcamp süresi ne kadar" → "bootcamp süresi gün hafta eğitim"
- "Bootcamp Sertifikası" → "bootcamp sertifika certificate belge diploma"

SOHBET GEÇMİŞİ:
%s

YENİ SORU:
%s

ANAHTAR KELİME ZENGİN SORGU (küçük harfle):`

const paraphrasePromptTemplate = `Aşağıdaki arama sorgusunu, aynı bilgiyi farklı kelimelerle arayan %d alternatif sorguya dönüştür.
Her satıra yalnızca bir sorgu yaz. Numara, tire veya açıklama ekleme.

SORGU:
%s`

const generalFallbackPromptTemplate = `Sen MentorMate adlı yardımcı bir asistansın. Aşağıdaki soru bootcamp veri setiyle ilgili değil.
Soruyu SADECE genel bilgiyle, kısa ve net biçimde yanıtla.
ASLA bootcamp'e özgü tarih, kural, program veya politika uydurma.
Emin olmadığın konularda bunu açıkça söyle.

SORU: %s

CEVAP:`

func buildExpertPrompt(question string, docs []domain.Document) string {
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}
	return fmt.Sprintf(expertPromptTemplate, strings.Join(contents, "\n\n"), question)
}

func buildCondensePrompt(question string, history []domain.ConversationTurn) string {
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return fmt.Sprintf(condensePromptTemplate, strings.Join(lines, "\n"), question)
}

func buildParaphrasePrompt(query string, count int) string {
	return fmt.Sprintf(paraphrasePromptTemplate, count, query)
}

func buildGeneralFallbackPrompt(question string) string {
	return fmt.Sprintf(generalFallbackPromptTemplate, question)
}
