package faqfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/4f71/mentormate/internal/core/domain"
)

// Parser reads line-delimited JSON FAQ records. Malformed lines and
// records missing a question or answer are skipped and counted, never
// fatal: one bad export line must not block the rest of the file.
type Parser struct {
	maxLineBytes int
}

const defaultMaxLineBytes = 1 << 20

func NewParser() *Parser {
	return &Parser{maxLineBytes: defaultMaxLineBytes}
}

func (p *Parser) Parse(r io.Reader) ([]domain.FAQRecord, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), p.maxLineBytes)

	var records []domain.FAQRecord
	skipped := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record domain.FAQRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			slog.Warn("faq_line_skipped", "line", lineNo, "reason", "invalid json")
			skipped++
			continue
		}
		record.Question = strings.TrimSpace(record.Question)
		record.Answer = strings.TrimSpace(record.Answer)
		if record.Question == "" || record.Answer == "" {
			slog.Warn("faq_line_skipped", "line", lineNo, "reason", "missing question or answer")
			skipped++
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("scan faq file: %w", err)
	}

	return records, skipped, nil
}
