package session

import (
	"testing"
	"time"

	"libraryconsole/internal/console/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(ttl time.Duration, limit int) *Store {
	api := client.New(time.Second)
	return NewStore(ttl, limit, func() *Console {
		return NewConsole(api, Endpoints{
			Users: "http://users.test/users/",
			Books: "http://books.test/books/",
			Loans: "http://loans.test/loans/",
		}, nil)
	})
}

func TestStoreGet(t *testing.T) {
	store := newTestStore(time.Hour, 10)

	first, id, created := store.Get("")
	require.True(t, created)
	require.NotEmpty(t, id)

	again, sameID, created := store.Get(id)
	assert.False(t, created)
	assert.Equal(t, id, sameID)
	assert.Same(t, first, again)

	other, otherID, created := store.Get("not-a-uuid")
	assert.True(t, created)
	assert.NotEqual(t, id, otherID)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, store.Len())
}

func TestStoreExpiry(t *testing.T) {
	store := newTestStore(time.Minute, 10)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, id, _ := store.Get("")

	now = now.Add(30 * time.Second)
	_, _, created := store.Get(id)
	assert.False(t, created, "activity keeps the session alive")

	now = now.Add(2 * time.Minute)
	_, newID, created := store.Get(id)
	assert.True(t, created)
	assert.NotEqual(t, id, newID)
	assert.Equal(t, 1, store.Len())
}

func TestStoreLimit(t *testing.T) {
	store := newTestStore(time.Hour, 2)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, first, _ := store.Get("")
	now = now.Add(time.Second)
	_, second, _ := store.Get("")
	now = now.Add(time.Second)
	store.Get(first) // first is now the most recently used

	now = now.Add(time.Second)
	_, third, created := store.Get("")
	require.True(t, created)
	assert.Equal(t, 2, store.Len())

	_, _, created = store.Get(first)
	assert.False(t, created)
	_, _, created = store.Get(third)
	assert.False(t, created)
	_, _, created = store.Get(second)
	assert.True(t, created, "least recently used session was evicted")
	assert.Equal(t, 2, store.Len())
}

func TestStoreSweepsIdleSessions(t *testing.T) {
	store := newTestStore(time.Minute, 10)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Get("")
	store.Get("")
	require.Equal(t, 2, store.Len())

	now = now.Add(5 * time.Minute)
	_, _, created := store.Get("")
	assert.True(t, created)
	assert.Equal(t, 1, store.Len())
}

func TestConsolePanels(t *testing.T) {
	store := newTestStore(time.Hour, 10)
	console, _, _ := store.Get("")

	names := []string{}
	for _, p := range console.Panels() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"users", "books", "loans"}, names)

	p, ok := console.Panel("books")
	require.True(t, ok)
	assert.Equal(t, "books", p.Name())

	_, ok = console.Panel("authors")
	assert.False(t, ok)
}
