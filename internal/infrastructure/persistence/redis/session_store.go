package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
)

// SessionStore persists the remembered student identifier between
// logins. An absent key reads back as the empty identifier.
type SessionStore struct {
	campus *Campus
}

func (s *SessionStore) SaveRemembered(ctx context.Context, id student.ID) error {
	if err := s.campus.store.SetString(ctx, KeyRemembered, string(id)); err != nil {
		return fmt.Errorf("campus: save remembered id: %w", err)
	}
	return nil
}

func (s *SessionStore) GetRemembered(ctx context.Context) (student.ID, error) {
	val, err := s.campus.store.GetString(ctx, KeyRemembered)
	if err != nil {
		if errors.Is(err, ErrStoreMiss) {
			return "", nil
		}
		return "", fmt.Errorf("campus: get remembered id: %w", err)
	}
	return student.ID(val), nil
}

func (s *SessionStore) ClearRemembered(ctx context.Context) error {
	if err := s.campus.store.Delete(ctx, KeyRemembered); err != nil {
		return fmt.Errorf("campus: clear remembered id: %w", err)
	}
	return nil
}
