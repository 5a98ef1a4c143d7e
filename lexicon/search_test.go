package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Word
	}
	return out
}

func TestSearchCaseInsensitive(t *testing.T) {
	s, _ := newStore(t, "Apple", "apply", "Banana")

	got := s.Search("app")
	assert.Equal(t, []string{"Apple", "apply"}, words(got))

	got = s.Search("  NAN ")
	assert.Equal(t, []string{"Banana"}, words(got))

	assert.Empty(t, s.Search("kiwi"))
	assert.Nil(t, s.Search("   "))
}

func TestSearchHighlightsFirstOccurrence(t *testing.T) {
	s, _ := newStore(t, "BanaNa")

	m := s.Search("na")[0]
	before, hit, after := m.Split()
	assert.Equal(t, "Ba", before)
	assert.Equal(t, "na", hit)
	assert.Equal(t, "Na", after)

	m = s.Search("NA")[0]
	_, hit, _ = m.Split()
	assert.Equal(t, "na", hit, "original casing is preserved")
}

func TestIndexFold(t *testing.T) {
	tests := []struct {
		s, sub     string
		start, end int
		ok         bool
	}{
		{"Apple", "pp", 1, 3, true},
		{"Apple", "APPLE", 0, 5, true},
		{"Apple", "apples", 0, 0, false},
		{"Éclair", "éc", 0, 3, true},
		{"crème", "ÈME", 2, 6, true},
		{"abc", "", 0, 0, true},
		{"abc", "x", 0, 0, false},
	}
	for _, tt := range tests {
		start, end, ok := indexFold(tt.s, tt.sub)
		assert.Equal(t, tt.ok, ok, "%q in %q", tt.sub, tt.s)
		if tt.ok {
			assert.Equal(t, tt.start, start, "%q in %q", tt.sub, tt.s)
			assert.Equal(t, tt.end, end, "%q in %q", tt.sub, tt.s)
		}
	}
}

func TestMatchSplitWithoutHighlight(t *testing.T) {
	before, hit, after := Match{Word: "plain"}.Split()
	assert.Equal(t, "plain", before)
	assert.Empty(t, hit)
	assert.Empty(t, after)
}

func TestJumpPrefersExactMatch(t *testing.T) {
	s, _ := newStore(t, "cartoon", "Car", "scar")

	w, ok := s.Jump("car")
	assert.True(t, ok)
	assert.Equal(t, "Car", w)

	w, ok = s.Jump("ar")
	assert.True(t, ok)
	assert.Equal(t, "Car", w, "first substring match in sorted order")

	_, ok = s.Jump("zzz")
	assert.False(t, ok)
	_, ok = s.Jump("")
	assert.False(t, ok)
}
