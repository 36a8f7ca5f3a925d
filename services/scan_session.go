package services

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ScanSession layers single-shot semantics over a continuous barcode
// decoder: the client keeps streaming decoded payloads, the session accepts
// the first one that differs from the immediately preceding payload, then
// stops itself. Stop is idempotent and always safe to call, so the decode
// stream can be torn down unconditionally.
type ScanSession struct {
	ID     string
	UserID uint

	mu       sync.Mutex
	last     string
	accepted string
	stopped  bool
	done     chan struct{}
}

func NewScanSession(userID uint, lastPayload string) *ScanSession {
	return &ScanSession{
		ID:     uuid.NewString(),
		UserID: userID,
		last:   lastPayload,
		done:   make(chan struct{}),
	}
}

// Submit feeds one decoded payload into the session. It reports true exactly
// once, for the accepted payload; everything after acceptance (or after
// Stop) is ignored.
func (s *ScanSession) Submit(payload string) bool {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if payload == s.last {
		return false
	}

	s.last = payload
	s.accepted = payload
	s.stopped = true
	close(s.done)
	return true
}

// Accepted returns the accepted payload, if any.
func (s *ScanSession) Accepted() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted, s.accepted != ""
}

// Done closes once a payload is accepted or the session is stopped.
func (s *ScanSession) Done() <-chan struct{} {
	return s.done
}

// Stop cancels the session. Safe to call repeatedly.
func (s *ScanSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.done)
}

func (s *ScanSession) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// ScanSessionManager keeps at most one live session per user. Starting a new
// session cancels the previous one, so a superseded scan can never deliver a
// stale verdict (cancel-and-supersede).
type ScanSessionManager struct {
	mu       sync.Mutex
	sessions map[uint]*ScanSession
}

func NewScanSessionManager() *ScanSessionManager {
	return &ScanSessionManager{sessions: make(map[uint]*ScanSession)}
}

func (m *ScanSessionManager) Start(userID uint) *ScanSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev := m.sessions[userID]; prev != nil {
		prev.Stop()
	}
	s := NewScanSession(userID, "")
	m.sessions[userID] = s
	return s
}

// Release drops the session from the registry if it is still the current
// one, stopping it first.
func (m *ScanSessionManager) Release(s *ScanSession) {
	s.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.UserID] == s {
		delete(m.sessions, s.UserID)
	}
}
