package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityMapper_RecordResolve(t *testing.T) {
	m := NewIdentityMapper()

	assert.True(t, m.RecordRole("Mod", "r1"))
	assert.True(t, m.RecordChannel("General", "c1"))

	id, ok := m.ResolveRole("Mod")
	assert.True(t, ok)
	assert.Equal(t, "r1", id)

	id, ok = m.ResolveChannel("General")
	assert.True(t, ok)
	assert.Equal(t, "c1", id)
}

func TestIdentityMapper_FirstOccurrenceWins(t *testing.T) {
	m := NewIdentityMapper()

	assert.True(t, m.RecordRole("Mod", "r1"))
	assert.False(t, m.RecordRole("Mod", "r2"))

	id, _ := m.ResolveRole("Mod")
	assert.Equal(t, "r1", id)
}

func TestIdentityMapper_NamespacesAreSeparate(t *testing.T) {
	m := NewIdentityMapper()
	m.RecordRole("news", "r1")

	_, ok := m.ResolveChannel("news")
	assert.False(t, ok)
}

func TestIdentityMapper_EmptyIDNotRecorded(t *testing.T) {
	m := NewIdentityMapper()

	assert.False(t, m.RecordChannel("General", ""))
	_, ok := m.ResolveChannel("General")
	assert.False(t, ok)
}

func TestIdentityMapper_UnknownName(t *testing.T) {
	m := NewIdentityMapper()
	id, ok := m.ResolveRole("ghost")
	assert.False(t, ok)
	assert.Empty(t, id)
}
