package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// #region slot
// Slot binds one page's session state type to a storage key and its
// hard-coded default. It is the only path by which page controllers touch
// storage.
type Slot[T any] struct {
	backend Backend
	key     string
	def     func() T
	logger  *zap.Logger
}

// NewSlot creates a slot for key. A nil logger is replaced with a no-op logger.
func NewSlot[T any](backend Backend, key string, def func() T, logger *zap.Logger) *Slot[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Slot[T]{backend: backend, key: key, def: def, logger: logger}
}

// Key returns the storage key.
func (s *Slot[T]) Key() string {
	return s.key
}

// #endregion slot

// #region load
// Load restores the stored state. A missing, empty, or unparsable slot yields
// the default; nothing is written in that case.
func (s *Slot[T]) Load(ctx context.Context) T {
	raw, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		s.logger.Debug("slot empty, using default", zap.String("key", s.key))
		return s.def()
	}
	if err != nil {
		s.logger.Warn("slot read failed, using default", zap.String("key", s.key), zap.Error(err))
		return s.def()
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return s.def()
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		s.logger.Warn("slot corrupt, using default", zap.String("key", s.key), zap.Error(err))
		return s.def()
	}
	return v
}

// #endregion load

// #region save
// Save serializes v and overwrites the slot.
func (s *Slot[T]) Save(ctx context.Context, v T) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.key, err)
	}
	if err := s.backend.Put(ctx, s.key, payload); err != nil {
		return err
	}
	return nil
}

// #endregion save

// #region reset
// Reset persists a fresh default and returns it.
func (s *Slot[T]) Reset(ctx context.Context) (T, error) {
	v := s.def()
	if err := s.Save(ctx, v); err != nil {
		return v, err
	}
	return v, nil
}

// #endregion reset
