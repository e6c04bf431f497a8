package domain

import (
	"sync"
	"time"
)

// InstallPrompt is the deferred "add to home screen" handle captured from the page.
type InstallPrompt struct {
	Platforms  []string  `json:"platforms,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// PromptSlot owns at most one deferred install prompt. A stored prompt can be
// consumed exactly once.
type PromptSlot struct {
	mu     sync.Mutex
	prompt *InstallPrompt
}

// Store replaces any held prompt with p.
func (s *PromptSlot) Store(p InstallPrompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = &p
}

// Take returns the held prompt and empties the slot.
func (s *PromptSlot) Take() (InstallPrompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prompt == nil {
		return InstallPrompt{}, false
	}
	p := *s.prompt
	s.prompt = nil
	return p, true
}

// Clear drops the held prompt, if any.
func (s *PromptSlot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = nil
}

// Pending reports whether a prompt is waiting to be taken.
func (s *PromptSlot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt != nil
}
