package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/dragonboatrace-server/internal/store"
)

func TestManager_SessionFor(t *testing.T) {
	m := NewManager(store.NewMemoryStore(), shortOptions(4, 600))
	c1 := mockClient("client1")
	c2 := mockClient("client2")

	s1, err := m.SessionFor(c1)
	require.NoError(t, err)
	s2, err := m.SessionFor(c2)
	require.NoError(t, err)

	again, err := m.SessionFor(c1)
	require.NoError(t, err)
	assert.Same(t, s1, again, "same client keeps its session")
	assert.NotEqual(t, s1.Code, s2.Code)
	assert.Len(t, s1.Code, codeLength)
	assert.Equal(t, 2, m.SessionCount())
	assert.Same(t, s2, m.GetSession(s2.Code))
	assert.Same(t, c2, s2.Client())
}

func TestManager_RemoveSession(t *testing.T) {
	m := NewManager(store.NewMemoryStore(), shortOptions(4, 600))
	c := mockClient("client1")
	s, err := m.SessionFor(c)
	require.NoError(t, err)

	m.RemoveSession(s.Code)

	assert.Nil(t, m.GetSession(s.Code))
	assert.Nil(t, m.FindByClient(c.ID))
	assert.Equal(t, 0, m.SessionCount())

	m.RemoveSession("NONE")
}

func TestGenerateCode_SkipsTaken(t *testing.T) {
	seen := make(map[string]bool)
	calls := 0
	code, ok := GenerateCode(func(c string) bool {
		calls++
		seen[c] = true
		return calls < 3
	})

	require.True(t, ok)
	require.Equal(t, 3, calls)
	assert.True(t, seen[code])
	for _, r := range code {
		assert.Contains(t, string(codeLetters), string(r))
	}
}

func TestGenerateCode_Exhausted(t *testing.T) {
	calls := 0
	code, ok := GenerateCode(func(string) bool {
		calls++
		return true
	})

	assert.False(t, ok)
	assert.Empty(t, code)
	assert.Equal(t, maxRetries, calls)
}

func TestManager_SessionForNoFreeCode(t *testing.T) {
	m := NewManager(store.NewMemoryStore(), shortOptions(4, 600))
	m.codes = func(func(string) bool) (string, bool) { return "", false }
	c := mockClient("client1")

	s, err := m.SessionFor(c)

	assert.ErrorIs(t, err, ErrNoCode)
	assert.Nil(t, s)
	assert.Equal(t, 0, m.SessionCount())
	assert.Nil(t, m.FindByClient(c.ID))
}
