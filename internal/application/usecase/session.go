package usecase

import (
	"log"
	"strings"
	"sync"

	"github.com/ramachandrareddy352/sol-tool/internal/domain/authority"
)

// Session scopes the only long-lived shared mutable state — the fee cache
// and the last-fetched authority snapshots — to one connected signer on one
// network. Both are invalidated together on signer or network change, never
// carried across.
type Session struct {
	Fees *FeeScheduleCache

	mu        sync.RWMutex
	signer    string
	network   string
	authority map[string]authority.State // by mint
}

func NewSession(fees *FeeScheduleCache) *Session {
	return &Session{
		Fees:      fees,
		authority: make(map[string]authority.State),
	}
}

// Bind switches the session to a signer/network pair. Any change drops the
// fee schedule and every cached authority snapshot.
func (s *Session) Bind(signer, network string) {
	signer = strings.TrimSpace(signer)
	network = strings.TrimSpace(network)

	s.mu.Lock()
	changed := s.signer != signer || s.network != network
	s.signer = signer
	s.network = network
	if changed {
		s.authority = make(map[string]authority.State)
	}
	s.mu.Unlock()

	if changed {
		s.Fees.Invalidate()
		log.Printf("[session] rebound signer=%s network=%s (caches dropped)", maskShort(signer), network)
	}
}

// Signer returns the bound wallet address.
func (s *Session) Signer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signer
}

// RememberAuthority stores the latest snapshot for a mint. Snapshots are
// read-only; a mutation flow must overwrite them with a fresh read before
// trusting them again.
func (s *Session) RememberAuthority(mint string, st authority.State) {
	s.mu.Lock()
	s.authority[mint] = st
	s.mu.Unlock()
}

// LastAuthority returns the cached snapshot for a mint, if any.
func (s *Session) LastAuthority(mint string) (authority.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.authority[mint]
	return st, ok
}

// ForgetAuthority drops one mint's snapshot, forcing a re-read.
func (s *Session) ForgetAuthority(mint string) {
	s.mu.Lock()
	delete(s.authority, mint)
	s.mu.Unlock()
}

func maskShort(v string) string {
	t := strings.TrimSpace(v)
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}
