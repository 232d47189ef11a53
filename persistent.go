package main

import (
	"encoding/json"
	"log/slog"
)

// PersistentValue is a value mirrored into a KVStore under a fixed key.
// Store failures never reach the caller: reads fall back to the default and
// writes leave the in-memory value as it is.
type PersistentValue[T any] struct {
	store KVStore
	key   string
	value T
	log   *slog.Logger
}

// NewPersistentValue loads key from store, using def when the entry is
// absent or does not decode as T, and writes the result back.
func NewPersistentValue[T any](store KVStore, key string, def T, log *slog.Logger) *PersistentValue[T] {
	if log == nil {
		log = discardLogger()
	}
	p := &PersistentValue[T]{store: store, key: key, value: def, log: log}
	if v, ok := p.load(); ok {
		p.value = v
	}
	p.save()
	return p
}

func (p *PersistentValue[T]) load() (T, bool) {
	var zero T
	raw, ok, err := p.store.Get(p.key)
	if err != nil {
		p.log.Debug("store read failed", "key", p.key, "error", err)
		return zero, false
	}
	if !ok || raw == "" {
		return zero, false
	}
	// Decoding through a pointer tells "null" apart from a real zero value.
	var decoded *T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		p.log.Debug("stored value unparsable", "key", p.key, "raw", raw, "error", err)
		return zero, false
	}
	if decoded == nil {
		return zero, false
	}
	return *decoded, true
}

func (p *PersistentValue[T]) save() {
	b, err := json.Marshal(p.value)
	if err != nil {
		p.log.Debug("encode failed", "key", p.key, "error", err)
		return
	}
	if err := p.store.Set(p.key, string(b)); err != nil {
		p.log.Debug("store write failed", "key", p.key, "error", err)
	}
}

func (p *PersistentValue[T]) Key() string { return p.key }

func (p *PersistentValue[T]) Get() T { return p.value }

// Set replaces the value and persists it.
func (p *PersistentValue[T]) Set(v T) {
	p.value = v
	p.save()
}

// Update replaces the value with fn applied to the current one.
func (p *PersistentValue[T]) Update(fn func(T) T) {
	p.Set(fn(p.value))
}
