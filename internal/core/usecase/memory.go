package usecase

import "github.com/4f71/mentormate/internal/core/domain"

const defaultMemoryTurns = 5

type memoryTurn struct {
	question string
	answer   string
}

// MemoryWindow is a bounded FIFO of the most recent question/answer
// pairs of one session. It is consumed only by the question-condense
// step, never by the final answer prompt. One instance per session,
// one turn in flight per session, so no locking here.
type MemoryWindow struct {
	capacity int
	turns    []memoryTurn
}

func NewMemoryWindow(capacity int) *MemoryWindow {
	if capacity <= 0 {
		capacity = defaultMemoryTurns
	}
	return &MemoryWindow{capacity: capacity}
}

// Append records one completed turn, evicting the oldest when full.
func (m *MemoryWindow) Append(question, answer string) {
	m.turns = append(m.turns, memoryTurn{question: question, answer: answer})
	if len(m.turns) > m.capacity {
		m.turns = m.turns[len(m.turns)-m.capacity:]
	}
}

// AsContext returns the window as ordered conversation turns.
func (m *MemoryWindow) AsContext() []domain.ConversationTurn {
	out := make([]domain.ConversationTurn, 0, len(m.turns)*2)
	for _, turn := range m.turns {
		out = append(out,
			domain.ConversationTurn{Role: domain.RoleUser, Content: turn.question},
			domain.ConversationTurn{Role: domain.RoleAssistant, Content: turn.answer},
		)
	}
	return out
}

func (m *MemoryWindow) Len() int {
	return len(m.turns)
}

func (m *MemoryWindow) Clear() {
	m.turns = nil
}
