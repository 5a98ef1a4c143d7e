package lexicon

import (
	"strings"
	"unicode/utf8"
)

// Match is a word in a listing. For search results Start and End mark the
// byte span of the first case-insensitive hit inside Word.
type Match struct {
	Word       string
	Start, End int
}

func (m Match) Highlighted() bool { return m.End > m.Start }

// Split returns the text before, inside, and after the highlighted span,
// in the word's original casing.
func (m Match) Split() (before, hit, after string) {
	if !m.Highlighted() {
		return m.Word, "", ""
	}
	return m.Word[:m.Start], m.Word[m.Start:m.End], m.Word[m.End:]
}

// indexFold finds the first case-insensitive occurrence of substr in s and
// returns its byte span in s. Lengths are compared in runes, so the span is
// valid even when folding changes byte widths.
func indexFold(s, substr string) (int, int, bool) {
	n := utf8.RuneCountInString(substr)
	if n == 0 {
		return 0, 0, true
	}
	for start := range s {
		end := start
		for i := 0; i < n; i++ {
			if end >= len(s) {
				return 0, 0, false
			}
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
		}
		if strings.EqualFold(s[start:end], substr) {
			return start, end, true
		}
	}
	return 0, 0, false
}

// Search matches query case-insensitively against every word, whatever
// letter is selected. Results come back sorted. An empty query matches
// nothing; View.Search falls back to the letter listing in that case.
func (s *Store) Search(query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	var matches []Match
	for _, word := range s.All() {
		if start, end, ok := indexFold(word, query); ok {
			matches = append(matches, Match{Word: word, Start: start, End: end})
		}
	}
	return matches
}

// Jump picks the word Enter in the search box should open: an exact
// case-insensitive match wins, else the first word containing query.
func (s *Store) Jump(query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}
	all := s.All()
	for _, word := range all {
		if strings.EqualFold(word, query) {
			return word, true
		}
	}
	for _, word := range all {
		if _, _, ok := indexFold(word, query); ok {
			return word, true
		}
	}
	return "", false
}
