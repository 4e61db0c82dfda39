package services

import (
	"sync"

	"github.com/google/uuid"
)

// Exchange is one answered question kept as conversation context.
type Exchange struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	SQL    string `json:"sql"`
}

// History is the conversation context shared by translations. Earlier
// exchanges are included in later prompts so follow-up questions resolve.
type History struct {
	mu      sync.RWMutex
	entries []Exchange
	limit   int
}

// NewHistory keeps at most limit exchanges; limit <= 0 keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Add records an exchange and returns it with its generated id.
func (h *History) Add(prompt, sql string) Exchange {
	e := Exchange{ID: uuid.NewString(), Prompt: prompt, SQL: sql}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = append([]Exchange(nil), h.entries[len(h.entries)-h.limit:]...)
	}
	return e
}

// Entries returns a copy of the stored exchanges, oldest first.
func (h *History) Entries() []Exchange {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Exchange{}, h.entries...)
}

// Replace swaps the stored exchanges for entries. Entries without an id get one.
func (h *History) Replace(entries []Exchange) {
	out := make([]Exchange, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		out[i] = e
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = out
}

// Clear forgets every exchange.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
