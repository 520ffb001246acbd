package state

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Backend when a slot key has never been written.
var ErrNotFound = errors.New("slot not found")

// #region backend
// Backend is a durable key-value slot store holding one JSON document per key.
// Writes overwrite unconditionally; there is no versioning, so two writers on
// the same key race last-write-wins.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// #endregion backend

// #region slot-record
// SlotRecord is one stored slot as listed by inspection tooling.
type SlotRecord struct {
	Key       string
	Payload   []byte
	UpdatedAt time.Time
}

// #endregion slot-record

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*BadgerStore)(nil)
	_ Backend = (*MemoryStore)(nil)
)
