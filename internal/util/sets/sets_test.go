package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetBasics(t *testing.T) {
	s := New("a", "b")
	s.Add("c", "a")
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("c"))

	c := s.Clone()
	s.Delete("a")
	assert.False(t, s.Has("a"))
	assert.True(t, c.Has("a"))
}

type key struct{ a, b string }

func TestKeepPreservesOrder(t *testing.T) {
	s := New(key{"x", "1"}, key{"z", "3"})
	got := s.Keep([]key{{"z", "3"}, {"y", "2"}, {"x", "1"}})
	assert.Equal(t, []key{{"z", "3"}, {"x", "1"}}, got)
	assert.Empty(t, New[key]().Keep([]key{{"x", "1"}}))
}
