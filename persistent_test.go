package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentValue_RoundTrip(t *testing.T) {
	store := newMemoryStore()
	p := NewPersistentValue(store, "earnings", 0, nil)
	p.Set(120)

	reloaded := NewPersistentValue(store, "earnings", 0, nil)
	assert.Equal(t, 120, reloaded.Get())

	b := NewPersistentValue(store, "autoMode", true, nil)
	b.Set(false)
	assert.False(t, NewPersistentValue(store, "autoMode", true, nil).Get())
}

func TestPersistentValue_FallsBackToDefault(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"null":       "null",
		"garbage":    "{oops",
		"wrong type": `"ten"`,
		"fraction":   "3.5",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			store := newMemoryStore()
			require.NoError(t, store.Set("energy", raw))
			p := NewPersistentValue(store, "energy", 10, nil)
			assert.Equal(t, 10, p.Get())

			// The default is written back over the bad entry.
			v, _, _ := store.Get("energy")
			assert.Equal(t, "10", v)
		})
	}
}

func TestPersistentValue_AbsentWritesInitial(t *testing.T) {
	store := newMemoryStore()
	NewPersistentValue(store, "autoMode", true, nil)
	v, ok, err := store.Get("autoMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestPersistentValue_StoreFailuresAreSilent(t *testing.T) {
	store := &failingStore{}
	p := NewPersistentValue(store, "progress", 0, nil)
	assert.Equal(t, 0, p.Get())

	p.Update(func(v int) int { return v + 5 })
	assert.Equal(t, 5, p.Get())
	assert.Equal(t, 2, store.sets)
}
