package cart

import (
	"context"
	"errors"

	"github.com/wichananm65/pharmachain-portal/internal/session"
)

// Store is the cart of one browsing session. Every accepted mutation is
// written back under the "cart" session key before the call returns.
type Store struct {
	sessionID string
	repo      session.Repository
	lock      func(sessionID string) (unlock func())
}

func (s *Store) SessionID() string { return s.sessionID }

// Lines returns the stored lines; a session without a cart has none.
func (s *Store) Lines(ctx context.Context) ([]Line, error) {
	var lines []Line
	err := session.GetJSON(ctx, s.repo, s.sessionID, session.KeyCart, &lines)
	if errors.Is(err, session.ErrNotFound) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) AddOrIncrement(ctx context.Context, p Product) ([]Line, error) {
	return s.mutate(ctx, func(lines []Line) ([]Line, bool) {
		return AddOrIncrement(lines, p)
	})
}

func (s *Store) SetQuantity(ctx context.Context, id string, q int) ([]Line, error) {
	return s.mutate(ctx, func(lines []Line) ([]Line, bool) {
		return SetQuantity(lines, id, q)
	})
}

func (s *Store) Remove(ctx context.Context, id string) ([]Line, error) {
	return s.mutate(ctx, func(lines []Line) ([]Line, bool) {
		return Remove(lines, id)
	})
}

// Clear drops the whole cart together with any extra session keys, all
// under the cart lock so no pending mutation can write the cart back.
func (s *Store) Clear(ctx context.Context, also ...string) error {
	defer s.lock(s.sessionID)()
	return s.repo.Delete(ctx, s.sessionID, append([]string{session.KeyCart}, also...)...)
}

func (s *Store) mutate(ctx context.Context, op func([]Line) ([]Line, bool)) ([]Line, error) {
	defer s.lock(s.sessionID)()

	lines, err := s.Lines(ctx)
	if err != nil {
		return nil, err
	}
	next, changed := op(lines)
	if !changed {
		return lines, nil
	}
	if err := session.PutJSON(ctx, s.repo, s.sessionID, session.KeyCart, next); err != nil {
		return nil, err
	}
	return next, nil
}
