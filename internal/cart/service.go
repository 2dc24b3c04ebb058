package cart

import (
	"sync"

	"github.com/wichananm65/pharmachain-portal/internal/session"
)

// Service hands out session-scoped stores. Mutations of one session's
// cart are serialized inside one process; across processes the last
// write wins.
type Service struct {
	repo session.Repository

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func NewService(repo session.Repository) *Service {
	return &Service{repo: repo, locks: make(map[string]*sessionLock)}
}

// For returns the cart of sessionID.
func (s *Service) For(sessionID string) *Store {
	return &Store{sessionID: sessionID, repo: s.repo, lock: s.lock}
}

// lock takes the per-session lock and returns its release func. Entries
// are dropped once nobody holds or waits on them.
func (s *Service) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}
